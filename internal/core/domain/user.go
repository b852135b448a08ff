package domain

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

// --- ERREURS DU DOMAINE (identité) ---
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrInvalidName        = errors.New("name is required")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
)

// --- ENTITÉ ---

type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	AvatarURL    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// --- FACTORY (CONSTRUCTEUR) ---

// NewUser crée une nouvelle instance valide.
// C'est le SEUL moyen de créer un user proprement (ID, avatar et validation).
func NewUser(email, name, passwordHash string) (*User, error) {
	// 1. Validation des invariants (Règles métier bloquantes)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidName
	}

	email = strings.ToLower(strings.TrimSpace(email))

	// 2. Création avec génération d'ID (l'identité est générée ICI, pas en DB)
	return &User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: passwordHash,
		AvatarURL:    GravatarURL(email),
		CreatedAt:    time.Now().UTC(), // Toujours utiliser UTC
		UpdatedAt:    time.Now().UTC(),
	}, nil
}

// --- COMPORTEMENTS (MÉTHODES MÉTIER) ---

// UpdatePassword change le hash et met à jour le timestamp
func (u *User) UpdatePassword(newHash string) {
	u.PasswordHash = newHash
	u.touch()
}

func (u *User) touch() {
	u.UpdatedAt = time.Now().UTC()
}

// GravatarURL dérive l'avatar depuis l'email (convention Gravatar).
// L'URL est figée à l'inscription, elle est ensuite dénormalisée dans les posts.
func GravatarURL(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%s?s=200&r=pg&d=mm", hex.EncodeToString(sum[:]))
}

// --- VALIDATEURS INTERNES ---

func validateEmail(email string) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return ErrInvalidEmail
	}
	return nil
}
