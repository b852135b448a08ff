package ports

import (
	"context"

	"github.com/AlexandraKomarova/heart-nation2/internal/core/domain"
)

// --- INPUTS (Command Pattern) ---
// Utiliser des structs permet d'ajouter des champs optionnels plus tard sans casser la signature.

type RegisterCmd struct {
	Name     string
	Email    string
	Password string
}

type LoginCmd struct {
	Email    string
	Password string
}

// --- OUTPUTS ---

type AuthResponse struct {
	User  *domain.User
	Token string
}

// --- PORTS PRIMAIRES (Driving) ---
// L'API que l'hexagone expose au monde extérieur (HTTP, CLI, tests).

type IdentityService interface {
	Register(ctx context.Context, cmd RegisterCmd) (*AuthResponse, error)
	Login(ctx context.Context, cmd LoginCmd) (*AuthResponse, error)

	// ValidateToken est le point d'entrée du middleware d'auth.
	// Validation pure (signature + expiration), AUCUN accès DB.
	ValidateToken(ctx context.Context, token string) (string, error)

	GetUser(ctx context.Context, userID string) (*domain.User, error)
	ChangePassword(ctx context.Context, userID, oldPass, newPass string) error
}

// PostService porte toutes les mutations de posts. Chaque opération reçoit
// le userID résolu par le middleware d'auth ; aucune ne fait confiance au body.
type PostService interface {
	CreatePost(ctx context.Context, userID, text string) (*domain.Post, error)
	GetPost(ctx context.Context, postID string) (*domain.Post, error)
	ListPosts(ctx context.Context) ([]*domain.Post, error)
	DeletePost(ctx context.Context, postID, userID string) error

	AddLike(ctx context.Context, postID, userID string) (*domain.Post, error)
	RemoveLike(ctx context.Context, postID, userID string) (*domain.Post, error)

	AddComment(ctx context.Context, postID, userID, text string) (*domain.Post, error)
	DeleteComment(ctx context.Context, postID, commentID, userID string) (*domain.Post, error)
}
