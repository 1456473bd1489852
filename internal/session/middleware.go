package session

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/render"

	"github.com/newsdaily/newsdaily/internal/errresponse"
)

type ctxKey int8

const (
	ctxKeyUserID ctxKey = iota
	ctxKeyToken
)

// Middleware resolves the Authorization bearer token against the
// provider and, when valid, stores the user id and token on the request
// context. Requests without a session pass through untouched; gating is
// RequireUser's job.
func Middleware(p Provider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)

				return
			}

			userID, ok := p.CurrentUserID(token)
			if !ok {
				next.ServeHTTP(w, r)

				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyUserID, userID)
			ctx = context.WithValue(ctx, ctxKeyToken, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireUser rejects requests that carry no authenticated session.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserID(r.Context()); !ok {
			_ = render.Render(w, r, errresponse.ErrAuthRequired)

			return
		}

		next.ServeHTTP(w, r)
	})
}

// UserID returns the authenticated user id from the request context.
func UserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(ctxKeyUserID).(string)

	return userID, ok
}

// Token returns the session token from the request context. It doubles
// as the viewer key for reaction state.
func Token(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(ctxKeyToken).(string)

	return token, ok
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}

	return strings.TrimPrefix(auth, "Bearer ")
}
