package rest

import (
	"fmt"
	"net/http"

	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/AlexandraKomarova/heart-nation2/internal/core/ports"
)

// Server adapte la surface HTTP vers les ports primaires du domaine.
type Server struct {
	identity ports.IdentityService
	posts    ports.PostService
}

func NewServer(identity ports.IdentityService, posts ports.PostService) *Server {
	return &Server{identity: identity, posts: posts}
}

// Handler assemble le routage et la chaîne de middlewares.
// Deux routes publiques (register, login) ; tout le reste passe par
// RequireAuth — y compris les lectures, l'accès est gardé même quand le
// contenu ne l'est pas.
func (s *Server) Handler(allowedOrigins []string) http.Handler {
	mux := http.NewServeMux()

	// Routes publiques
	mux.HandleFunc("POST /api/users", s.handleRegister)
	mux.HandleFunc("POST /api/auth", s.handleLogin)

	// Routes authentifiées
	authed := RequireAuth(s.identity)
	gate := func(h http.HandlerFunc) http.Handler { return authed(h) }

	mux.Handle("GET /api/auth", gate(s.handleCurrentUser))
	mux.Handle("PUT /api/auth/password", gate(s.handleChangePassword))

	mux.Handle("POST /api/posts", gate(s.handleCreatePost))
	mux.Handle("GET /api/posts", gate(s.handleListPosts))
	mux.Handle("GET /api/posts/{id}", gate(s.handleGetPost))
	mux.Handle("DELETE /api/posts/{id}", gate(s.handleDeletePost))
	mux.Handle("PUT /api/posts/{id}/like", gate(s.handleLike))
	mux.Handle("PUT /api/posts/{id}/unlike", gate(s.handleUnlike))
	mux.Handle("POST /api/posts/{id}/comments", gate(s.handleAddComment))
	mux.Handle("DELETE /api/posts/{id}/comments/{commentID}", gate(s.handleDeleteComment))

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Chaîne de middlewares externe : CORS puis OTEL en racine
	var h http.Handler = mux

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "x-auth-token"},
		AllowCredentials: true,
	})
	h = c.Handler(h)

	h = otelhttp.NewHandler(h, "heart-nation-api", otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
		return fmt.Sprintf("HTTP %s %s", r.Method, r.URL.Path)
	}))

	return h
}
