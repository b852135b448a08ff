package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/AlexandraKomarova/heart-nation2/internal/core/domain"
)

const timelineKey = "timeline:posts"

// RedisTimelineCache absorbe les lectures répétées du listing global.
// TTL court : la fraîcheur compte plus que le hit ratio, et toutes les
// mutations invalident de toute façon la clé.
type RedisTimelineCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisTimelineCache(client *redis.Client, ttl time.Duration) *RedisTimelineCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RedisTimelineCache{client: client, ttl: ttl}
}

// cachedPost : DTO de sérialisation, le Domain reste sans tags JSON
type cachedPost struct {
	ID         string          `json:"id"`
	UserID     string          `json:"user_id"`
	Text       string          `json:"text"`
	AuthorName string          `json:"author_name"`
	AvatarURL  string          `json:"author_avatar"`
	Likes      []cachedLike    `json:"likes"`
	Comments   []cachedComment `json:"comments"`
	CreatedAt  time.Time       `json:"created_at"`
	Version    int64           `json:"version"`
}

type cachedLike struct {
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

type cachedComment struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Text       string    `json:"text"`
	AuthorName string    `json:"author_name"`
	AvatarURL  string    `json:"author_avatar"`
	CreatedAt  time.Time `json:"created_at"`
}

func (c *RedisTimelineCache) Get(ctx context.Context) ([]*domain.Post, bool, error) {
	raw, err := c.client.Get(ctx, timelineKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil // Miss propre, pas une erreur
		}
		return nil, false, err
	}

	var dtos []cachedPost
	if err := json.Unmarshal(raw, &dtos); err != nil {
		// Donnée corrompue : on la jette et on laisse la DB répondre
		_ = c.client.Del(ctx, timelineKey).Err()
		return nil, false, nil
	}

	posts := make([]*domain.Post, len(dtos))
	for i := range dtos {
		posts[i] = dtos[i].toDomain()
	}
	return posts, true, nil
}

func (c *RedisTimelineCache) Set(ctx context.Context, posts []*domain.Post) error {
	dtos := make([]cachedPost, len(posts))
	for i, p := range posts {
		dtos[i] = toCached(p)
	}

	raw, err := json.Marshal(dtos)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, timelineKey, raw, c.ttl).Err()
}

func (c *RedisTimelineCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, timelineKey).Err()
}

// --- Mapping DTO <-> Domain ---

func toCached(p *domain.Post) cachedPost {
	likes := make([]cachedLike, len(p.Likes))
	for i, l := range p.Likes {
		likes[i] = cachedLike{UserID: l.UserID, CreatedAt: l.CreatedAt}
	}
	comments := make([]cachedComment, len(p.Comments))
	for i, cm := range p.Comments {
		comments[i] = cachedComment{
			ID:         cm.ID,
			UserID:     cm.UserID,
			Text:       cm.Text,
			AuthorName: cm.AuthorName,
			AvatarURL:  cm.AvatarURL,
			CreatedAt:  cm.CreatedAt,
		}
	}
	return cachedPost{
		ID:         p.ID,
		UserID:     p.UserID,
		Text:       p.Text,
		AuthorName: p.AuthorName,
		AvatarURL:  p.AvatarURL,
		Likes:      likes,
		Comments:   comments,
		CreatedAt:  p.CreatedAt,
		Version:    p.Version,
	}
}

func (d cachedPost) toDomain() *domain.Post {
	likes := make([]domain.Like, len(d.Likes))
	for i, l := range d.Likes {
		likes[i] = domain.Like{UserID: l.UserID, CreatedAt: l.CreatedAt}
	}
	comments := make([]domain.Comment, len(d.Comments))
	for i, cm := range d.Comments {
		comments[i] = domain.Comment{
			ID:         cm.ID,
			UserID:     cm.UserID,
			Text:       cm.Text,
			AuthorName: cm.AuthorName,
			AvatarURL:  cm.AvatarURL,
			CreatedAt:  cm.CreatedAt,
		}
	}
	return &domain.Post{
		ID:         d.ID,
		UserID:     d.UserID,
		Text:       d.Text,
		AuthorName: d.AuthorName,
		AvatarURL:  d.AvatarURL,
		Likes:      likes,
		Comments:   comments,
		CreatedAt:  d.CreatedAt,
		Version:    d.Version,
	}
}
