package rest

import (
	"encoding/json"
	"net/http"

	"github.com/AlexandraKomarova/heart-nation2/internal/core/ports"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleRegister : POST /api/users (route publique)
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := s.identity.Register(r.Context(), ports.RegisterCmd{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, authDTO{Token: resp.Token, User: mapUser(resp.User)})
}

// handleLogin : POST /api/auth (route publique)
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := s.identity.Login(r.Context(), ports.LoginCmd{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, authDTO{Token: resp.Token, User: mapUser(resp.User)})
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// handleChangePassword : PUT /api/auth/password (gated).
// L'appelant doit prouver qu'il connaît l'ancien mot de passe ; le token
// seul ne suffit pas pour changer le secret.
func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	userID := ForContext(r.Context())
	if err := s.identity.ChangePassword(r.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "password updated"})
}

// handleCurrentUser : GET /api/auth (gated).
// L'auth n'a pas touché la DB ; ce handler fait la lecture complète du profil.
func (s *Server) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	userID := ForContext(r.Context())

	user, err := s.identity.GetUser(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, mapUser(user))
}
