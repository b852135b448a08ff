package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/AlexandraKomarova/heart-nation2/internal/core/domain"
	"github.com/AlexandraKomarova/heart-nation2/internal/core/ports"
)

// IdentityService implémente ports.IdentityService (Primary Port).
// Il contient la logique applicative (Application Business Rules).
type IdentityService struct {
	repo          ports.UserRepository
	hasher        ports.PasswordHasher
	tokenProvider ports.TokenProvider
	broker        ports.EventPublisher
}

// NewIdentityService est le constructeur avec injection de dépendances.
func NewIdentityService(
	repo ports.UserRepository,
	hasher ports.PasswordHasher,
	token ports.TokenProvider,
	broker ports.EventPublisher,
) *IdentityService {
	return &IdentityService{
		repo:          repo,
		hasher:        hasher,
		tokenProvider: token,
		broker:        broker,
	}
}

// --- AUTHENTIFICATION ---

func (s *IdentityService) Register(ctx context.Context, cmd ports.RegisterCmd) (*ports.AuthResponse, error) {
	// 1. Fail Fast : longueur minimale du mot de passe (le reste des invariants
	// est porté par domain.NewUser)
	if len(cmd.Password) < 6 {
		return nil, domain.ErrPasswordTooShort
	}

	// 2. Vérification "soft" de l'unicité de l'email.
	// La contrainte UNIQUE de la DB reste la sécurité ultime (race condition).
	if existing, err := s.repo.GetByEmail(ctx, cmd.Email); err == nil && existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	// 3. Sécurité : hachage du mot de passe
	hashed, err := s.hasher.Hash(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing failed: %w", err)
	}

	// 4. Domaine : création de l'agrégat User (validation des invariants ici)
	user, err := domain.NewUser(cmd.Email, cmd.Name, hashed)
	if err != nil {
		return nil, err
	}

	// 5. Persistance
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("repository save failed: %w", err)
	}

	// 6. Token + événement
	token, err := s.tokenProvider.Issue(user.ID)
	if err != nil {
		// Cas critique : user créé mais token échoué.
		// Le client devra retenter un login (le user existe maintenant).
		return nil, fmt.Errorf("token generation failed: %w", err)
	}

	// Publication best effort : on ne bloque pas l'inscription si le broker est down
	if err := s.broker.PublishUserRegistered(ctx, user.ID, user.Email); err != nil {
		slog.Warn("user.registered publish failed", "user_id", user.ID, "error", err)
	}

	return &ports.AuthResponse{User: user, Token: token}, nil
}

func (s *IdentityService) Login(ctx context.Context, cmd ports.LoginCmd) (*ports.AuthResponse, error) {
	// 1. Récupération. Erreur générique volontaire : ne pas révéler
	// si c'est l'email ou le mot de passe qui est faux.
	user, err := s.repo.GetByEmail(ctx, cmd.Email)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	// 2. Vérification du mot de passe
	ok, err := s.hasher.Verify(cmd.Password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("password verify failed: %w", err)
	}
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}

	// 3. Génération du token
	token, err := s.tokenProvider.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("login token gen failed: %w", err)
	}

	return &ports.AuthResponse{User: user, Token: token}, nil
}

// ValidateToken : validation pure (signature + expiration), zéro lecture DB.
// C'est volontaire : le middleware d'auth doit rester bon marché.
func (s *IdentityService) ValidateToken(ctx context.Context, token string) (string, error) {
	return s.tokenProvider.Verify(token)
}

// --- GESTION UTILISATEUR ---

func (s *IdentityService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.GetByID(ctx, userID)
}

func (s *IdentityService) ChangePassword(ctx context.Context, userID, oldPass, newPass string) error {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return domain.ErrUserNotFound
	}

	ok, err := s.hasher.Verify(oldPass, user.PasswordHash)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrInvalidCredentials
	}

	if len(newPass) < 6 {
		return domain.ErrPasswordTooShort
	}

	newHash, err := s.hasher.Hash(newPass)
	if err != nil {
		return err
	}

	user.UpdatePassword(newHash)
	return s.repo.Update(ctx, user)
}
