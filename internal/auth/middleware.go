// ABOUTME: HTTP gateway middleware that turns bearer tokens into request identities
// ABOUTME: Enrichment only; invalid or missing tokens leave the request anonymous

package auth

import (
	"net/http"
	"strings"
)

// extractBearerToken pulls the token out of an Authorization header.
// Returns "" when the header is absent or not a bearer credential.
func extractBearerToken(authHeader string) string {
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(authHeader, "Bearer ")
}

// Middleware returns the auth gateway middleware. When a bearer token is
// present and verifies, the resulting identity is attached to the request
// context. The middleware never rejects a request: rejection is the access
// policy's job, so public routes stay reachable even with a garbage token
// attached. If an identity is already attached by a prior filter it is kept.
func Middleware(codec *Codec) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if FromContext(r.Context()) != nil {
				next.ServeHTTP(w, r)
				return
			}

			token := extractBearerToken(r.Header.Get("Authorization"))
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			id, err := codec.Verify(token)
			if err != nil {
				// Degrade to anonymous. The token is never logged.
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}
