package authhandlers

import (
	"context"
	"net/http"
	"strings"

	authdomain "github.com/Black-And-White-Club/tournament-uploader/app/modules/auth/domain"
	authjwt "github.com/Black-And-White-Club/tournament-uploader/app/modules/auth/infrastructure/jwt"
)

type claimsKey struct{}

// ClaimsFromContext returns the claims stored by BearerAuth.
func ClaimsFromContext(ctx context.Context) (*authdomain.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*authdomain.Claims)
	return claims, ok
}

// BearerAuth requires an "Authorization: Bearer <jwt>" header whose role
// allows required. Missing or invalid tokens get 401, insufficient roles 403.
func BearerAuth(provider authjwt.Provider, required authdomain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				w.Header().Set("WWW-Authenticate", `Bearer realm="tournament-uploader"`)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			claims, err := provider.ValidateToken(strings.TrimSpace(token))
			if err != nil {
				w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			if !claims.Role.Allows(required) {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey{}, claims)))
		})
	}
}
