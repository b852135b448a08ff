package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/AlexandraKomarova/heart-nation2/internal/core/domain"
	"github.com/AlexandraKomarova/heart-nation2/internal/core/ports"
)

// maxCasRetries borne la boucle read-modify-write optimiste.
// Au-delà, on laisse remonter ErrConcurrentUpdate (500 côté boundary).
const maxCasRetries = 3

type postService struct {
	repo      ports.PostRepository
	users     ports.UserRepository
	publisher ports.EventPublisher
	cache     ports.TimelineCache
}

func NewPostService(
	repo ports.PostRepository,
	users ports.UserRepository,
	pub ports.EventPublisher,
	cache ports.TimelineCache,
) ports.PostService {
	return &postService{repo: repo, users: users, publisher: pub, cache: cache}
}

// CreatePost capture les snapshots nom/avatar sur le profil ACTUEL de l'auteur.
// Ils ne seront plus jamais resynchronisés (dénormalisation volontaire).
func (s *postService) CreatePost(ctx context.Context, userID, text string) (*domain.Post, error) {
	author, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	post, err := domain.NewPost(author, text)
	if err != nil {
		return nil, err
	}

	// 1. Sauvegarde DB (Source of Truth)
	if err := s.repo.Save(ctx, post); err != nil {
		return nil, err
	}

	// 2. Invalidation du cache + événement (best effort tous les deux)
	s.invalidateTimeline(ctx)
	if err := s.publisher.PublishPostCreated(ctx, post); err != nil {
		slog.Warn("post.created publish failed", "post_id", post.ID, "error", err)
	}

	return post, nil
}

func (s *postService) GetPost(ctx context.Context, postID string) (*domain.Post, error) {
	return s.repo.FindByID(ctx, postID)
}

// ListPosts : lecture via le cache timeline, dégradation silencieuse vers la DB.
func (s *postService) ListPosts(ctx context.Context) ([]*domain.Post, error) {
	if posts, hit, err := s.cache.Get(ctx); err == nil && hit {
		return posts, nil
	} else if err != nil {
		slog.Warn("timeline cache read failed", "error", err)
	}

	posts, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, posts); err != nil {
		slog.Warn("timeline cache write failed", "error", err)
	}
	return posts, nil
}

// DeletePost : existence AVANT propriété. Un post absent renvoie toujours
// ErrPostNotFound, jamais ErrNotOwner.
func (s *postService) DeletePost(ctx context.Context, postID, userID string) error {
	post, err := s.repo.FindByID(ctx, postID)
	if err != nil {
		return err
	}
	if !post.IsOwnedBy(userID) {
		return domain.ErrNotOwner
	}

	// La suppression emporte le document entier, likes et comments compris.
	if err := s.repo.Delete(ctx, postID); err != nil {
		return err
	}

	s.invalidateTimeline(ctx)
	if err := s.publisher.PublishPostDeleted(ctx, postID); err != nil {
		slog.Warn("post.deleted publish failed", "post_id", postID, "error", err)
	}
	return nil
}

func (s *postService) AddLike(ctx context.Context, postID, userID string) (*domain.Post, error) {
	return s.mutate(ctx, postID, func(p *domain.Post) error {
		return p.AddLike(userID)
	})
}

func (s *postService) RemoveLike(ctx context.Context, postID, userID string) (*domain.Post, error) {
	return s.mutate(ctx, postID, func(p *domain.Post) error {
		return p.RemoveLike(userID)
	})
}

func (s *postService) AddComment(ctx context.Context, postID, userID, text string) (*domain.Post, error) {
	// Snapshot auteur : lu une fois, hors de la boucle CAS (le profil ne bouge pas
	// au rythme des retries).
	author, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.mutate(ctx, postID, func(p *domain.Post) error {
		_, err := p.AddComment(author, text)
		return err
	})
}

func (s *postService) DeleteComment(ctx context.Context, postID, commentID, userID string) (*domain.Post, error) {
	return s.mutate(ctx, postID, func(p *domain.Post) error {
		return p.RemoveComment(commentID, userID)
	})
}

// mutate est la boucle read-modify-write commune à toutes les mutations
// d'enfants embarqués (likes, comments).
//
// Ordre des gardes garanti : existence (FindByID) → invariant du domaine (fn)
// → écriture CAS. Deux AddLike concurrents sur le même post ne peuvent pas
// tous deux réussir : le second perd le CAS, relit le post et échoue alors
// sur ErrAlreadyLiked.
func (s *postService) mutate(ctx context.Context, postID string, fn func(*domain.Post) error) (*domain.Post, error) {
	for attempt := 0; attempt < maxCasRetries; attempt++ {
		post, err := s.repo.FindByID(ctx, postID)
		if err != nil {
			return nil, err // ErrPostNotFound compris (post supprimé sous nos pieds)
		}

		if err := fn(post); err != nil {
			return nil, err
		}

		err = s.repo.Update(ctx, post)
		if err == nil {
			s.invalidateTimeline(ctx)
			return post, nil
		}
		if !errors.Is(err, domain.ErrConcurrentUpdate) {
			return nil, err
		}
		// CAS perdu : on repart d'une lecture fraîche
	}
	return nil, domain.ErrConcurrentUpdate
}

func (s *postService) invalidateTimeline(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		slog.Warn("timeline cache invalidation failed", "error", err)
	}
}
