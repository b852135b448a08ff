package security

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/AlexandraKomarova/heart-nation2/internal/core/domain"
)

func testKeyPair(t *testing.T) (privPEM, pubPEM []byte) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	privPEM = pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})

	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		t.Fatalf("marshal public key: %v", err)
	}
	pubPEM = pem.EncodeToMemory(&pem.Block{
		Type:  "PUBLIC KEY",
		Bytes: pubDER,
	})
	return privPEM, pubPEM
}

func newTestProvider(t *testing.T, ttl time.Duration) *JWTProvider {
	t.Helper()
	priv, pub := testKeyPair(t)
	p, err := NewJWTProvider(priv, pub, ttl)
	if err != nil {
		t.Fatalf("NewJWTProvider: %v", err)
	}
	return p
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	p := newTestProvider(t, time.Hour)

	token, err := p.Issue("user-42")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	userID, err := p.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if userID != "user-42" {
		t.Errorf("Verify = %q, want user-42", userID)
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	p := newTestProvider(t, time.Hour)

	// Horloge simulée : on émet maintenant, on vérifie 2h plus tard
	issued := time.Now()
	p.WithClock(func() time.Time { return issued })

	token, err := p.Issue("user-42")
	if err != nil {
		t.Fatal(err)
	}

	// Encore valide juste avant l'expiration
	p.WithClock(func() time.Time { return issued.Add(59 * time.Minute) })
	if _, err := p.Verify(token); err != nil {
		t.Fatalf("token should still be valid before expiry: %v", err)
	}

	p.WithClock(func() time.Time { return issued.Add(2 * time.Hour) })
	_, err = p.Verify(token)
	if !errors.Is(err, domain.ErrTokenExpired) {
		t.Errorf("Verify = %v, want ErrTokenExpired", err)
	}
}

func TestVerifyTamperedSignature(t *testing.T) {
	p := newTestProvider(t, time.Hour)

	token, err := p.Issue("user-42")
	if err != nil {
		t.Fatal(err)
	}

	// On altère un octet du segment signature
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %q", token)
	}
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = p.Verify(tampered)
	if !errors.Is(err, domain.ErrInvalidToken) {
		t.Errorf("Verify(tampered) = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyWrongKey(t *testing.T) {
	issuer := newTestProvider(t, time.Hour)
	verifier := newTestProvider(t, time.Hour) // autre paire de clés

	token, err := issuer.Issue("user-42")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := verifier.Verify(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Errorf("Verify with wrong key = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyGarbage(t *testing.T) {
	p := newTestProvider(t, time.Hour)

	for _, bad := range []string{"", "abc", "a.b.c", "🦆"} {
		if _, err := p.Verify(bad); !errors.Is(err, domain.ErrInvalidToken) {
			t.Errorf("Verify(%q) = %v, want ErrInvalidToken", bad, err)
		}
	}
}
