package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// --- ERREURS DU DOMAINE (posts) ---
var (
	ErrPostNotFound     = errors.New("post not found")
	ErrCommentNotFound  = errors.New("comment does not exist")
	ErrNotOwner         = errors.New("user not authorized")
	ErrAlreadyLiked     = errors.New("post already liked")
	ErrNotLiked         = errors.New("post has not yet been liked")
	ErrEmptyText        = errors.New("text is required")
	ErrConcurrentUpdate = errors.New("post was modified concurrently")
)

// Like est un value-object possédé par le Post (pas d'identité propre).
// Invariant : au plus un Like par utilisateur et par Post.
type Like struct {
	UserID    string
	CreatedAt time.Time
}

// Comment appartient au Post. Le nom et l'avatar de l'auteur sont des
// snapshots dénormalisés capturés à la création (volontairement figés).
type Comment struct {
	ID         string
	UserID     string
	Text       string
	AuthorName string
	AvatarURL  string
	CreatedAt  time.Time
}

// Post est l'agrégat racine : il possède ses Likes et Comments,
// stockés du plus récent au plus ancien.
type Post struct {
	ID         string
	UserID     string
	Text       string
	AuthorName string
	AvatarURL  string
	Likes      []Like
	Comments   []Comment
	CreatedAt  time.Time

	// Version sert au contrôle de concurrence optimiste du repository.
	// 0 = jamais persisté.
	Version int64
}

// --- FACTORY ---

// NewPost construit le Post avec les snapshots auteur pris sur le profil ACTUEL.
// Une édition ultérieure du profil ne se propage pas ici (comportement voulu).
func NewPost(author *User, text string) (*Post, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	return &Post{
		ID:         uuid.NewString(),
		UserID:     author.ID,
		Text:       text,
		AuthorName: author.Name,
		AvatarURL:  author.AvatarURL,
		Likes:      []Like{},
		Comments:   []Comment{},
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// --- COMPORTEMENTS (INVARIANTS DE L'AGRÉGAT) ---

// AddLike insère le like EN TÊTE (ordre anté-chronologique).
// Refuse le doublon : un user ne like un post qu'une fois.
func (p *Post) AddLike(userID string) error {
	if p.likedBy(userID) {
		return ErrAlreadyLiked
	}
	p.Likes = append([]Like{{UserID: userID, CreatedAt: time.Now().UTC()}}, p.Likes...)
	return nil
}

// RemoveLike retire le like du user, s'il existe.
func (p *Post) RemoveLike(userID string) error {
	for i, l := range p.Likes {
		if l.UserID == userID {
			p.Likes = append(p.Likes[:i], p.Likes[i+1:]...)
			return nil
		}
	}
	return ErrNotLiked
}

// AddComment insère le commentaire en tête, snapshots pris sur le profil courant.
func (p *Post) AddComment(author *User, text string) (*Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	c := Comment{
		ID:         uuid.NewString(),
		UserID:     author.ID,
		Text:       text,
		AuthorName: author.Name,
		AvatarURL:  author.AvatarURL,
		CreatedAt:  time.Now().UTC(),
	}
	p.Comments = append([]Comment{c}, p.Comments...)
	return &c, nil
}

// RemoveComment supprime le commentaire par ID, seul son auteur y est autorisé.
// L'ordre des commentaires restants est préservé.
// L'existence est vérifiée AVANT la propriété : un commentaire absent
// renvoie toujours ErrCommentNotFound, jamais ErrNotOwner.
func (p *Post) RemoveComment(commentID, userID string) error {
	for i, c := range p.Comments {
		if c.ID == commentID {
			if c.UserID != userID {
				return ErrNotOwner
			}
			p.Comments = append(p.Comments[:i], p.Comments[i+1:]...)
			return nil
		}
	}
	return ErrCommentNotFound
}

// IsOwnedBy indique si l'utilisateur est l'auteur du post.
func (p *Post) IsOwnedBy(userID string) bool {
	return p.UserID == userID
}

func (p *Post) likedBy(userID string) bool {
	for _, l := range p.Likes {
		if l.UserID == userID {
			return true
		}
	}
	return false
}
