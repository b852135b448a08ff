package rest

import (
	"context"
	"net/http"
	"strings"

	"github.com/AlexandraKomarova/heart-nation2/internal/core/ports"
)

// Clé privée pour le contexte (évite les collisions)
type contextKey struct{ name string }

var userCtxKey = &contextKey{"user_id"}

// RequireAuth est le point d'entrée UNIQUE des routes authentifiées : aucune
// mutation n'atteint un handler sans être passée ici. Le token est extrait du
// header, validé (signature + expiration, zéro lecture DB), et l'userID résolu
// est injecté dans le contexte de la requête.
//
// Contrairement à un middleware de gateway qui laisse passer l'anonyme, ici
// l'absence de header est un refus : ces routes n'ont pas de mode public.
func RequireAuth(identity ports.IdentityService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := extractToken(r)
			if tokenStr == "" {
				writeError(w, http.StatusUnauthorized, "no token, authorization denied")
				return
			}

			userID, err := identity.ValidateToken(r.Context(), tokenStr)
			if err != nil {
				// Token invalide ou expiré : même réponse, on ne détaille pas
				writeError(w, http.StatusUnauthorized, "token is not valid")
				return
			}

			// Succès : on enrichit le contexte et on passe la main au handler
			ctx := context.WithValue(r.Context(), userCtxKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractToken accepte "Authorization: Bearer <t>" et, pour compatibilité
// avec les anciens clients, le header brut "x-auth-token".
func extractToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		if strings.HasPrefix(header, "Bearer ") {
			return strings.TrimPrefix(header, "Bearer ")
		}
		return "" // Format invalide -> traité comme absent
	}
	return r.Header.Get("x-auth-token")
}

// ForContext récupère l'userID résolu depuis un handler.
// Chaîne vide si la requête n'est pas passée par RequireAuth.
func ForContext(ctx context.Context) string {
	raw, _ := ctx.Value(userCtxKey).(string)
	return raw
}
