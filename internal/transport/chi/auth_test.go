package chi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/taskdesk/taskdesk/internal/config"
	"github.com/taskdesk/taskdesk/internal/domain/identity"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func callerHandler(capture *identity.Principal, role *identity.Role) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*capture = CallerPrincipal(r.Context())
		*role = CallerTokenRole(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware_EmptyUsers_AnonymousAdmin(t *testing.T) {
	mw := BearerAuthMiddleware(nil)

	var p identity.Principal
	var role identity.Role
	handler := mw(callerHandler(&p, &role))

	req := httptest.NewRequest("GET", "/api/v1/tasks", http.NoBody)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("empty users: got %d, want %d", rr.Code, http.StatusOK)
	}
	if p != identity.Anonymous {
		t.Errorf("principal: got %q, want anonymous", p)
	}
	if role != identity.RoleAdmin {
		t.Errorf("role: got %q, want %q", role, identity.RoleAdmin)
	}
}

func TestAuthMiddleware_MissingHeader_401(t *testing.T) {
	mw := BearerAuthMiddleware([]config.AuthUser{{Token: "secret", Principal: "alice", Role: "admin"}})
	handler := mw(okHandler())

	req := httptest.NewRequest("GET", "/api/v1/tasks", http.NoBody)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("missing header: got %d, want %d", rr.Code, http.StatusUnauthorized)
	}

	var errResp errorResponse
	if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if errResp.Code != codeUnauthorized {
		t.Errorf("error code: got %s, want %s", errResp.Code, codeUnauthorized)
	}
}

func TestAuthMiddleware_BasicScheme_401(t *testing.T) {
	mw := BearerAuthMiddleware([]config.AuthUser{{Token: "secret", Principal: "alice", Role: "admin"}})
	handler := mw(okHandler())

	req := httptest.NewRequest("GET", "/api/v1/tasks", http.NoBody)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("basic scheme: got %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestAuthMiddleware_InvalidToken_401(t *testing.T) {
	mw := BearerAuthMiddleware([]config.AuthUser{{Token: "secret", Principal: "alice", Role: "admin"}})
	handler := mw(okHandler())

	req := httptest.NewRequest("GET", "/api/v1/tasks", http.NoBody)
	req.Header.Set("Authorization", "Bearer wrong-token")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("invalid token: got %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestAuthMiddleware_ValidToken_ResolvesCaller(t *testing.T) {
	mw := BearerAuthMiddleware([]config.AuthUser{
		{Token: "secret", Principal: "alice", Role: "user"},
	})

	var p identity.Principal
	var role identity.Role
	handler := mw(callerHandler(&p, &role))

	req := httptest.NewRequest("GET", "/api/v1/tasks", http.NoBody)
	req.Header.Set("Authorization", "Bearer secret")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("valid token: got %d, want %d", rr.Code, http.StatusOK)
	}
	if p != identity.Principal("alice") {
		t.Errorf("principal: got %q, want alice", p)
	}
	if role != identity.RoleUser {
		t.Errorf("role: got %q, want %q", role, identity.RoleUser)
	}
}

func TestAuthMiddleware_MultipleUsers(t *testing.T) {
	mw := BearerAuthMiddleware([]config.AuthUser{
		{Token: "tok1", Principal: "alice", Role: "admin"},
		{Token: "tok2", Principal: "bob", Role: "user"},
	})
	handler := mw(okHandler())

	for _, tok := range []string{"tok1", "tok2"} {
		req := httptest.NewRequest("GET", "/api/v1/tasks", http.NoBody)
		req.Header.Set("Authorization", "Bearer "+tok)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("token %s: got %d, want %d", tok, rr.Code, http.StatusOK)
		}
	}
}

func TestAuthMiddleware_ExemptPaths(t *testing.T) {
	mw := BearerAuthMiddleware([]config.AuthUser{{Token: "secret", Principal: "alice", Role: "admin"}})
	handler := mw(okHandler())

	for _, path := range []string{"/health", "/metrics"} {
		req := httptest.NewRequest("GET", path, http.NoBody)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("exempt path %s: got %d, want %d", path, rr.Code, http.StatusOK)
		}
	}
}
