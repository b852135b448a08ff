package services

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/AlexandraKomarova/heart-nation2/internal/core/domain"
)

// --- Fakes en mémoire pour les ports secondaires ---

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User // par ID
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*domain.User{}}
}

func (r *memUserRepo) Save(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *memUserRepo) Update(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

// memPostRepo reproduit la sémantique CAS du repo Postgres : Update échoue
// avec ErrConcurrentUpdate si la version en base a bougé ou si la ligne a
// disparu. failUpdates force des pertes de CAS pour tester la boucle de retry.
type memPostRepo struct {
	mu          sync.Mutex
	posts       map[string]*domain.Post
	failUpdates int
}

func newMemPostRepo() *memPostRepo {
	return &memPostRepo{posts: map[string]*domain.Post{}}
}

func clonePost(p *domain.Post) *domain.Post {
	cp := *p
	cp.Likes = append([]domain.Like{}, p.Likes...)
	cp.Comments = append([]domain.Comment{}, p.Comments...)
	return &cp
}

func (r *memPostRepo) Save(_ context.Context, p *domain.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.Version = 1
	r.posts[p.ID] = clonePost(p)
	return nil
}

func (r *memPostRepo) FindByID(_ context.Context, id string) (*domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.posts[id]; ok {
		return clonePost(p), nil
	}
	return nil, domain.ErrPostNotFound
}

func (r *memPostRepo) ListAll(_ context.Context) ([]*domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Post, 0, len(r.posts))
	for _, p := range r.posts {
		out = append(out, clonePost(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memPostRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.posts, id)
	return nil
}

func (r *memPostRepo) Update(_ context.Context, p *domain.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failUpdates > 0 {
		r.failUpdates--
		return domain.ErrConcurrentUpdate
	}
	cur, ok := r.posts[p.ID]
	if !ok || cur.Version != p.Version {
		return domain.ErrConcurrentUpdate
	}
	p.Version++
	r.posts[p.ID] = clonePost(p)
	return nil
}

// memBroker enregistre les sujets publiés. failWith simule un broker
// indisponible : toutes les publications échouent avec cette erreur.
type memBroker struct {
	mu       sync.Mutex
	subjects []string
	failWith error
}

func (b *memBroker) record(s string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failWith != nil {
		return b.failWith
	}
	b.subjects = append(b.subjects, s)
	return nil
}

func (b *memBroker) PublishUserRegistered(_ context.Context, _, _ string) error {
	return b.record("social.user.registered")
}

func (b *memBroker) PublishPostCreated(_ context.Context, _ *domain.Post) error {
	return b.record("social.post.created")
}

func (b *memBroker) PublishPostDeleted(_ context.Context, _ string) error {
	return b.record("social.post.deleted")
}

type memCache struct {
	mu            sync.Mutex
	posts         []*domain.Post
	hit           bool
	invalidations int
}

func (c *memCache) Get(_ context.Context) ([]*domain.Post, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.hit {
		return nil, false, nil
	}
	return c.posts, true, nil
}

func (c *memCache) Set(_ context.Context, posts []*domain.Post) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.posts = posts
	c.hit = true
	return nil
}

func (c *memCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.posts = nil
	c.hit = false
	c.invalidations++
	return nil
}

// --- Fakes crypto : rapides et déterministes ---

type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "h:" + password, nil }

func (fakeHasher) Verify(password, encoded string) (bool, error) {
	return encoded == "h:"+password, nil
}

type fakeTokens struct{}

func (fakeTokens) Issue(userID string) (string, error) { return "tok:" + userID, nil }

func (fakeTokens) Verify(token string) (string, error) {
	if !strings.HasPrefix(token, "tok:") {
		return "", domain.ErrInvalidToken
	}
	return strings.TrimPrefix(token, "tok:"), nil
}
