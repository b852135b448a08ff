package ports

import (
	"context"

	"github.com/AlexandraKomarova/heart-nation2/internal/core/domain"
)

// --- PERSISTANCE (DB) ---

// UserRepository est un Port Secondaire (Driven).
type UserRepository interface {
	Save(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

// PostRepository persiste l'agrégat Post en un seul document
// (likes et comments embarqués).
type PostRepository interface {
	Save(ctx context.Context, post *domain.Post) error
	FindByID(ctx context.Context, postID string) (*domain.Post, error)
	ListAll(ctx context.Context) ([]*domain.Post, error)
	Delete(ctx context.Context, postID string) error

	// Update applique un compare-and-swap sur la version du document :
	// ErrConcurrentUpdate si la ligne a changé ou disparu entre-temps.
	// C'est ce qui sérialise les séquences check-then-act (double like, etc.)
	// entre requêtes concurrentes sur le même post.
	Update(ctx context.Context, post *domain.Post) error
}

// --- MESSAGERIE (BROKER) ---

// EventPublisher est le port vers NATS. Best effort : un broker down
// ne doit jamais faire échouer la requête utilisateur.
type EventPublisher interface {
	PublishUserRegistered(ctx context.Context, userID, email string) error
	PublishPostCreated(ctx context.Context, post *domain.Post) error
	PublishPostDeleted(ctx context.Context, postID string) error
}

// --- CACHE ---

// TimelineCache met en cache le listing global anté-chronologique.
// Get renvoie (nil, false, nil) sur cache miss ; toute erreur est
// traitée comme un miss par l'appelant (dégradation vers la DB).
type TimelineCache interface {
	Get(ctx context.Context) ([]*domain.Post, bool, error)
	Set(ctx context.Context, posts []*domain.Post) error
	Invalidate(ctx context.Context) error
}

// --- SÉCURITÉ (CRYPTO) ---

// PasswordHasher abstrait l'algorithme de hachage (Argon2, Bcrypt).
// Verify renvoie false sur mismatch — ce n'est PAS une erreur ;
// l'erreur est réservée aux hash mal formés.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encodedHash string) (bool, error)
}

// TokenProvider abstrait la génération et la validation des tokens signés.
type TokenProvider interface {
	Issue(userID string) (string, error)
	// Verify renvoie domain.ErrTokenExpired ou domain.ErrInvalidToken.
	Verify(token string) (userID string, err error)
}
