package chi

import (
	"context"
	"net/http"
	"strings"

	"github.com/taskdesk/taskdesk/internal/config"
	"github.com/taskdesk/taskdesk/internal/domain/identity"
)

type contextKey string

const (
	principalKey contextKey = "principal"
	tokenRoleKey contextKey = "tokenRole"
)

// exemptPaths are routes that bypass authentication (health, metrics).
var exemptPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

type authUser struct {
	principal identity.Principal
	role      identity.Role
}

// BearerAuthMiddleware returns a middleware that resolves Bearer tokens to
// principals. If users is empty, authentication is disabled and every caller
// is an anonymous admin (local use only).
func BearerAuthMiddleware(users []config.AuthUser) func(http.Handler) http.Handler {
	byToken := make(map[string]authUser, len(users))
	for _, u := range users {
		if u.Token == "" {
			continue
		}
		role, err := identity.ParseRole(u.Role)
		if err != nil {
			role = identity.RoleGuest
		}
		byToken[u.Token] = authUser{principal: identity.Principal(u.Principal), role: role}
	}

	return func(next http.Handler) http.Handler {
		// Auth disabled — pass everything through
		if len(byToken) == 0 {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				ctx := withCaller(r.Context(), identity.Anonymous, identity.RoleAdmin)
				next.ServeHTTP(w, r.WithContext(ctx))
			})
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Exempt paths
			if _, ok := exemptPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			auth := r.Header.Get("Authorization")
			if auth == "" {
				writeError(w, http.StatusUnauthorized, codeUnauthorized, "missing authorization header")
				return
			}

			const bearerPrefix = "Bearer "
			if !strings.HasPrefix(auth, bearerPrefix) {
				writeError(w, http.StatusUnauthorized, codeUnauthorized,
					"authorization header must use Bearer scheme")
				return
			}

			u, ok := byToken[auth[len(bearerPrefix):]]
			if !ok {
				writeError(w, http.StatusUnauthorized, codeUnauthorized, "invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(withCaller(r.Context(), u.principal, u.role)))
		})
	}
}

func withCaller(ctx context.Context, p identity.Principal, role identity.Role) context.Context {
	ctx = context.WithValue(ctx, principalKey, p)
	return context.WithValue(ctx, tokenRoleKey, role)
}

// CallerPrincipal returns the authenticated principal, or Anonymous.
func CallerPrincipal(ctx context.Context) identity.Principal {
	if p, ok := ctx.Value(principalKey).(identity.Principal); ok {
		return p
	}
	return identity.Anonymous
}

// CallerTokenRole returns the role carried by the caller's token. The
// effective role may differ when an explicit assignment overrides it.
func CallerTokenRole(ctx context.Context) identity.Role {
	if role, ok := ctx.Value(tokenRoleKey).(identity.Role); ok {
		return role
	}
	return identity.RoleGuest
}
