package rest

import (
	"encoding/json"
	"net/http"
)

type textRequest struct {
	Text string `json:"text"`
}

// handleCreatePost : POST /api/posts
func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	post, err := s.posts.CreatePost(r.Context(), ForContext(r.Context()), req.Text)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, mapPost(post))
}

// handleListPosts : GET /api/posts — listing global, accès gardé mais
// contenu non filtré par propriétaire.
func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.posts.ListPosts(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapPosts(posts))
}

// handleGetPost : GET /api/posts/{id}
func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	post, err := s.posts.GetPost(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapPost(post))
}

// handleDeletePost : DELETE /api/posts/{id}
func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	err := s.posts.DeletePost(r.Context(), r.PathValue("id"), ForContext(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "post removed"})
}

// handleLike : PUT /api/posts/{id}/like
func (s *Server) handleLike(w http.ResponseWriter, r *http.Request) {
	post, err := s.posts.AddLike(r.Context(), r.PathValue("id"), ForContext(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapPost(post).Likes)
}

// handleUnlike : PUT /api/posts/{id}/unlike
func (s *Server) handleUnlike(w http.ResponseWriter, r *http.Request) {
	post, err := s.posts.RemoveLike(r.Context(), r.PathValue("id"), ForContext(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapPost(post).Likes)
}

// handleAddComment : POST /api/posts/{id}/comments
func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	post, err := s.posts.AddComment(r.Context(), r.PathValue("id"), ForContext(r.Context()), req.Text)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapPost(post).Comments)
}

// handleDeleteComment : DELETE /api/posts/{id}/comments/{commentID}
func (s *Server) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	post, err := s.posts.DeleteComment(
		r.Context(),
		r.PathValue("id"),
		r.PathValue("commentID"),
		ForContext(r.Context()),
	)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapPost(post).Comments)
}
