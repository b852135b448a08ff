package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AlexandraKomarova/heart-nation2/internal/core/domain"
	"github.com/AlexandraKomarova/heart-nation2/internal/core/ports"
)

// Le Post est persisté en un seul document : les likes et comments vivent
// dans des colonnes JSONB de la ligne posts. Chaque mutation réécrit les
// collections entières sous contrôle d'une colonne version (CAS), ce qui
// sérialise les check-then-act concurrents sur un même post.
//
// Schéma attendu :
//
//	CREATE TABLE posts (
//	    id            UUID PRIMARY KEY,
//	    user_id       UUID NOT NULL,
//	    text          TEXT NOT NULL,
//	    author_name   TEXT NOT NULL,
//	    author_avatar TEXT NOT NULL,
//	    likes         JSONB NOT NULL DEFAULT '[]',
//	    comments      JSONB NOT NULL DEFAULT '[]',
//	    created_at    TIMESTAMPTZ NOT NULL,
//	    version       BIGINT NOT NULL DEFAULT 1
//	);

// DTOs internes pour mapper le JSONB proprement sans polluer le Domain avec des tags JSON
type likeDTO struct {
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

type commentDTO struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Text       string    `json:"text"`
	AuthorName string    `json:"author_name"`
	AvatarURL  string    `json:"author_avatar"`
	CreatedAt  time.Time `json:"created_at"`
}

type PostgresPostRepo struct {
	db *pgxpool.Pool
}

func NewPostgresPostRepo(db *pgxpool.Pool) ports.PostRepository {
	return &PostgresPostRepo{db: db}
}

// Save : insertion initiale, version 1.
func (r *PostgresPostRepo) Save(ctx context.Context, post *domain.Post) error {
	query := `
		INSERT INTO posts (id, user_id, text, author_name, author_avatar, likes, comments, created_at, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 1)
	`

	likesJSON, commentsJSON, err := marshalChildren(post)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, query,
		post.ID,
		post.UserID,
		post.Text,
		post.AuthorName,
		post.AvatarURL,
		likesJSON,
		commentsJSON,
		post.CreatedAt,
	)
	if err == nil {
		post.Version = 1
	}
	return err
}

func (r *PostgresPostRepo) FindByID(ctx context.Context, postID string) (*domain.Post, error) {
	// Un id qui n'est pas un UUID ne peut désigner aucune ligne : on répond
	// "absent" sans consulter la base. Laisser passer ferait échouer le cast
	// UUID côté Postgres (22P02), une erreur technique pour un cas métier.
	if uuid.Validate(postID) != nil {
		return nil, domain.ErrPostNotFound
	}

	query := `
		SELECT id, user_id, text, author_name, author_avatar, likes, comments, created_at, version
		FROM posts WHERE id = $1
	`
	return r.scanPost(r.db.QueryRow(ctx, query, postID))
}

// ListAll : listing global anté-chronologique (la timeline n'est pas filtrée
// par propriétaire, seul l'accès à l'endpoint est gardé).
func (r *PostgresPostRepo) ListAll(ctx context.Context) ([]*domain.Post, error) {
	query := `
		SELECT id, user_id, text, author_name, author_avatar, likes, comments, created_at, version
		FROM posts
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []*domain.Post
	for rows.Next() {
		p, err := r.scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// Update : compare-and-swap sur la version. RowsAffected == 0 couvre les deux
// cas perdants (version dépassée OU ligne supprimée entre-temps) ; l'appelant
// relit et retente, et découvre la suppression via FindByID.
func (r *PostgresPostRepo) Update(ctx context.Context, post *domain.Post) error {
	query := `
		UPDATE posts
		SET text = $1, likes = $2, comments = $3, version = version + 1
		WHERE id = $4 AND version = $5
	`

	likesJSON, commentsJSON, err := marshalChildren(post)
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, query, post.Text, likesJSON, commentsJSON, post.ID, post.Version)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConcurrentUpdate
	}

	post.Version++
	return nil
}

// Delete emporte la ligne entière, donc les likes/comments embarqués avec elle.
func (r *PostgresPostRepo) Delete(ctx context.Context, postID string) error {
	_, err := r.db.Exec(ctx, "DELETE FROM posts WHERE id = $1", postID)
	return err
}

// --- Helpers ---

// rowScanner couvre pgx.Row et pgx.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PostgresPostRepo) scanPost(row rowScanner) (*domain.Post, error) {
	var p domain.Post
	var likesJSON, commentsJSON []byte

	err := row.Scan(&p.ID, &p.UserID, &p.Text, &p.AuthorName, &p.AvatarURL,
		&likesJSON, &commentsJSON, &p.CreatedAt, &p.Version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("db: scan post: %w", err)
	}

	p.Likes = unmarshalLikes(likesJSON)
	p.Comments = unmarshalComments(commentsJSON)
	return &p, nil
}

func marshalChildren(post *domain.Post) ([]byte, []byte, error) {
	likes := make([]likeDTO, len(post.Likes))
	for i, l := range post.Likes {
		likes[i] = likeDTO{UserID: l.UserID, CreatedAt: l.CreatedAt}
	}
	comments := make([]commentDTO, len(post.Comments))
	for i, c := range post.Comments {
		comments[i] = commentDTO{
			ID:         c.ID,
			UserID:     c.UserID,
			Text:       c.Text,
			AuthorName: c.AuthorName,
			AvatarURL:  c.AvatarURL,
			CreatedAt:  c.CreatedAt,
		}
	}

	likesJSON, err := json.Marshal(likes)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal likes: %w", err)
	}
	commentsJSON, err := json.Marshal(comments)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal comments: %w", err)
	}
	return likesJSON, commentsJSON, nil
}

func unmarshalLikes(data []byte) []domain.Like {
	var dtos []likeDTO
	if err := json.Unmarshal(data, &dtos); err != nil {
		return []domain.Like{} // Fallback safe
	}
	likes := make([]domain.Like, len(dtos))
	for i, d := range dtos {
		likes[i] = domain.Like{UserID: d.UserID, CreatedAt: d.CreatedAt}
	}
	return likes
}

func unmarshalComments(data []byte) []domain.Comment {
	var dtos []commentDTO
	if err := json.Unmarshal(data, &dtos); err != nil {
		return []domain.Comment{}
	}
	comments := make([]domain.Comment, len(dtos))
	for i, d := range dtos {
		comments[i] = domain.Comment{
			ID:         d.ID,
			UserID:     d.UserID,
			Text:       d.Text,
			AuthorName: d.AuthorName,
			AvatarURL:  d.AvatarURL,
			CreatedAt:  d.CreatedAt,
		}
	}
	return comments
}
