package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/AlexandraKomarova/heart-nation2/internal/core/domain"
)

// --- DTOs de sortie ---
// Le hash du mot de passe ne traverse JAMAIS cette frontière : userDTO
// n'a simplement pas le champ.

type userDTO struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"created_at"`
}

type likeDTO struct {
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

type commentDTO struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Text      string    `json:"text"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"created_at"`
}

type postDTO struct {
	ID        string       `json:"id"`
	UserID    string       `json:"user_id"`
	Text      string       `json:"text"`
	Name      string       `json:"name"`
	Avatar    string       `json:"avatar"`
	Likes     []likeDTO    `json:"likes"`
	Comments  []commentDTO `json:"comments"`
	CreatedAt time.Time    `json:"created_at"`
}

type authDTO struct {
	Token string  `json:"token"`
	User  userDTO `json:"user"`
}

func mapUser(u *domain.User) userDTO {
	return userDTO{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Avatar:    u.AvatarURL,
		CreatedAt: u.CreatedAt,
	}
}

func mapPost(p *domain.Post) postDTO {
	likes := make([]likeDTO, len(p.Likes))
	for i, l := range p.Likes {
		likes[i] = likeDTO{UserID: l.UserID, CreatedAt: l.CreatedAt}
	}
	comments := make([]commentDTO, len(p.Comments))
	for i, c := range p.Comments {
		comments[i] = commentDTO{
			ID:        c.ID,
			UserID:    c.UserID,
			Text:      c.Text,
			Name:      c.AuthorName,
			Avatar:    c.AvatarURL,
			CreatedAt: c.CreatedAt,
		}
	}
	return postDTO{
		ID:        p.ID,
		UserID:    p.UserID,
		Text:      p.Text,
		Name:      p.AuthorName,
		Avatar:    p.AvatarURL,
		Likes:     likes,
		Comments:  comments,
		CreatedAt: p.CreatedAt,
	}
}

func mapPosts(posts []*domain.Post) []postDTO {
	out := make([]postDTO, len(posts))
	for i, p := range posts {
		out[i] = mapPost(p)
	}
	return out
}

// --- Sérialisation ---

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeDomainError traduit les erreurs métier en statuts HTTP.
// Tout ce qui n'est pas une issue anticipée (= panne du store) finit en 500
// générique : les détails techniques partent dans les logs, pas chez le client.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrTokenExpired):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrNotOwner):
		// Contrat hérité du boundary d'origine : la non-propriété répond 401
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrPostNotFound),
		errors.Is(err, domain.ErrCommentNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrEmailAlreadyExists),
		errors.Is(err, domain.ErrAlreadyLiked),
		errors.Is(err, domain.ErrNotLiked),
		errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrInvalidName),
		errors.Is(err, domain.ErrPasswordTooShort),
		errors.Is(err, domain.ErrEmptyText):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error("unexpected error", "error", err)
		writeError(w, http.StatusInternalServerError, "server error")
	}
}
