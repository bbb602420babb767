package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/hammadpk/engine/internal/auth"
	"github.com/hammadpk/engine/internal/engine"
	"github.com/hammadpk/engine/internal/models"
)

type contextKey string

const (
	ctxAccountKey contextKey = "account"
	ctxRoleKey    contextKey = "role"
)

// SessionAuth validates the Bearer token, loads the account and puts it
// into the request context. Banned accounts are rejected even if they hold
// a token issued before the ban.
func SessionAuth(authSvc auth.Service, accounts *engine.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := extractBearer(r)
			if raw == "" {
				http.Error(w, `{"error":"missing or malformed Authorization header"}`, http.StatusUnauthorized)
				return
			}
			id, role, err := authSvc.ValidateToken(r.Context(), raw)
			if err != nil {
				http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
				return
			}
			acct, err := accounts.GetAccount(id)
			if err != nil {
				http.Error(w, `{"error":"account not found"}`, http.StatusUnauthorized)
				return
			}
			if acct.IsBanned {
				http.Error(w, `{"error":"account banned"}`, http.StatusForbidden)
				return
			}
			ctx := context.WithValue(r.Context(), ctxAccountKey, acct)
			ctx = context.WithValue(ctx, ctxRoleKey, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin gates administrative commands on the role claim. SessionAuth
// must run first.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if RoleFromCtx(r.Context()) != auth.RoleAdmin {
			http.Error(w, `{"error":"admin capability required"}`, http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// AccountFromCtx returns the authenticated account or nil.
func AccountFromCtx(ctx context.Context) *models.Account {
	acc, _ := ctx.Value(ctxAccountKey).(*models.Account)
	return acc
}

// WithAccount returns a context carrying the given account.
func WithAccount(ctx context.Context, acc *models.Account) context.Context {
	return context.WithValue(ctx, ctxAccountKey, acc)
}

// RoleFromCtx returns the authenticated role or "".
func RoleFromCtx(ctx context.Context) string {
	role, _ := ctx.Value(ctxRoleKey).(string)
	return role
}

// WithRole returns a context carrying the given role.
func WithRole(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, ctxRoleKey, role)
}

func extractBearer(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}
