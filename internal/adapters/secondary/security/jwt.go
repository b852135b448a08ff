package security

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/AlexandraKomarova/heart-nation2/internal/core/domain"
)

// UserClaims étend les claims standards JWT.
// Le token est autoporteur : sa validité se juge sur signature + expiration,
// sans aucun état serveur (pas de session store, pas de liste de révocation).
type UserClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

type JWTProvider struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	expiry     time.Duration
	issuer     string
	now        func() time.Time // injectable pour les tests d'expiration
}

// NewJWTProvider charge les clés RSA depuis des chaînes PEM.
// Les clés sont de l'état process-wide immuable : chargées une fois au
// démarrage, jamais modifiées ensuite.
func NewJWTProvider(privateKeyPEM, publicKeyPEM []byte, expiry time.Duration) (*JWTProvider, error) {
	privKey, err := jwt.ParseRSAPrivateKeyFromPEM(privateKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	pubKey, err := jwt.ParseRSAPublicKeyFromPEM(publicKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}

	if expiry <= 0 {
		expiry = 15 * time.Minute
	}

	return &JWTProvider{
		privateKey: privKey,
		publicKey:  pubKey,
		expiry:     expiry,
		issuer:     "heart-nation",
		now:        time.Now,
	}, nil
}

// WithClock remplace l'horloge (tests uniquement).
func (j *JWTProvider) WithClock(now func() time.Time) *JWTProvider {
	j.now = now
	return j
}

// Issue signe un token portant l'userID et l'expiration configurée.
func (j *JWTProvider) Issue(userID string) (string, error) {
	now := j.now()
	claims := UserClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(j.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    j.issuer,
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	return token.SignedString(j.privateKey)
}

// Verify vérifie la signature et retourne l'UserID (Subject).
// Deux issues distinctes pour l'appelant : domain.ErrTokenExpired quand
// l'horloge a dépassé exp, domain.ErrInvalidToken pour tout le reste
// (signature altérée, mauvaise clé, token malformé).
func (j *JWTProvider) Verify(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Sécurité critique : vérifier que l'alg est bien RS256.
		// Empêche les attaques où l'attaquant force l'algo à "None" ou "HS256".
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		// On retourne la clé PUBLIQUE pour vérifier la signature
		return j.publicKey, nil
	}, jwt.WithTimeFunc(j.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", domain.ErrTokenExpired
		}
		return "", domain.ErrInvalidToken
	}

	if claims, ok := token.Claims.(*UserClaims); ok && token.Valid {
		return claims.Subject, nil
	}

	return "", domain.ErrInvalidToken
}
