package security

import (
	"strings"
	"testing"
)

// Params réduits : les tests n'ont pas besoin de 64 MB par hash.
var testParams = &Argon2Params{
	Memory:      8 * 1024,
	Iterations:  1,
	Parallelism: 1,
	SaltLength:  16,
	KeyLength:   32,
}

func TestHashVerifyRoundTrip(t *testing.T) {
	h := NewArgon2Hasher(testParams)

	encoded, err := h.Hash("s3cretpass")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if !strings.HasPrefix(encoded, "$argon2id$") {
		t.Fatalf("expected PHC format, got %q", encoded)
	}

	ok, err := h.Verify("s3cretpass", encoded)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !ok {
		t.Error("correct password rejected")
	}

	ok, err = h.Verify("wrongpass", encoded)
	if err != nil {
		t.Fatalf("Verify mismatch must not error: %v", err)
	}
	if ok {
		t.Error("wrong password accepted")
	}
}

func TestHashIsSalted(t *testing.T) {
	h := NewArgon2Hasher(testParams)

	// Même mot de passe, deux appels : le sel aléatoire doit produire
	// deux chaînes différentes, toutes deux vérifiables.
	first, err := h.Hash("same-password")
	if err != nil {
		t.Fatal(err)
	}
	second, err := h.Hash("same-password")
	if err != nil {
		t.Fatal(err)
	}

	if first == second {
		t.Error("two hashes of the same password are identical, salt is not random")
	}

	for _, enc := range []string{first, second} {
		ok, err := h.Verify("same-password", enc)
		if err != nil || !ok {
			t.Errorf("Verify(%q) = %v, %v", enc, ok, err)
		}
	}
}

func TestVerifyMalformedHash(t *testing.T) {
	h := NewArgon2Hasher(testParams)

	for _, bad := range []string{
		"",
		"not-a-hash",
		"$argon2id$v=19$m=8192,t=1,p=1$onlyonesegment",
		"$argon2id$v=999$m=8192,t=1,p=1$c2FsdA$aGFzaA", // mauvaise version
	} {
		if _, err := h.Verify("whatever", bad); err == nil {
			t.Errorf("Verify(%q) should fail on malformed hash", bad)
		}
	}
}

func TestDefaultParamsUsedWhenNil(t *testing.T) {
	h := NewArgon2Hasher(nil)
	if h.params != DefaultParams {
		t.Error("nil params should fall back to DefaultParams")
	}
}
