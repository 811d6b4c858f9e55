package authz

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/internal/domain"
	"storefront/internal/httpx"
)

type stubVerifier struct {
	tokens map[string]domain.Claims
}

func (s stubVerifier) Verify(token string) (domain.Claims, error) {
	c, ok := s.tokens[token]
	if !ok {
		return domain.Claims{}, errors.New("bad token")
	}
	return c, nil
}

func guarded(roles ...domain.Role) (http.Handler, *domain.Claims) {
	seen := &domain.Claims{}
	v := stubVerifier{tokens: map[string]domain.Claims{
		"admin-token": {ID: 1, Role: domain.RoleAdmin},
		"user-token":  {ID: 2, Role: domain.RoleNormalUser},
	}}
	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, _ := ClaimsFromContext(r.Context())
		*seen = c
		w.WriteHeader(http.StatusNoContent)
	})
	var h http.Handler = final
	if len(roles) > 0 {
		h = RequireRoles(roles...)(h)
	}
	return Authenticate(v)(h), seen
}

func TestAuthenticate(t *testing.T) {
	tests := []struct {
		name   string
		header string
		status int
	}{
		{name: "missing header", header: "", status: http.StatusUnauthorized},
		{name: "lowercase scheme", header: "bearer user-token", status: http.StatusUnauthorized},
		{name: "basic scheme", header: "Basic user-token", status: http.StatusUnauthorized},
		{name: "empty token", header: "Bearer ", status: http.StatusUnauthorized},
		{name: "unknown token", header: "Bearer nope", status: http.StatusUnauthorized},
		{name: "valid", header: "Bearer user-token", status: http.StatusNoContent},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h, seen := guarded()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, rec.Code)
			}
			if tc.status == http.StatusNoContent && (seen.ID != 2 || seen.Role != domain.RoleNormalUser) {
				t.Fatalf("claims not propagated: %+v", seen)
			}
			if tc.status == http.StatusUnauthorized {
				var body httpx.ErrorBody
				if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
					t.Fatalf("expected json error body: %v", err)
				}
				if body.StatusCode != http.StatusUnauthorized {
					t.Fatalf("unexpected body %+v", body)
				}
			}
		})
	}
}

func TestRequireRoles(t *testing.T) {
	h, _ := guarded(domain.RoleAdmin)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer user-token")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for normal user, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer admin-token")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected admin through, got %d", rec.Code)
	}
}

func TestRequireRolesWithoutAuthenticate(t *testing.T) {
	h := RequireRoles(domain.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthorize(t *testing.T) {
	admin := domain.Claims{ID: 1, Role: domain.RoleAdmin}
	user := domain.Claims{ID: 2, Role: domain.RoleNormalUser}

	tests := []struct {
		name       string
		actor      domain.Claims
		owner      domain.UserID
		allowAdmin bool
		wantErr    bool
	}{
		{name: "owner", actor: user, owner: 2},
		{name: "stranger", actor: user, owner: 3, wantErr: true},
		{name: "admin allowed", actor: admin, owner: 2, allowAdmin: true},
		{name: "admin not allowed", actor: admin, owner: 2, wantErr: true},
		{name: "normal user with admin flag", actor: user, owner: 3, allowAdmin: true, wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Authorize(tc.actor, tc.owner, tc.allowAdmin)
			if tc.wantErr && !errors.Is(err, domain.ErrForbidden) {
				t.Fatalf("expected ErrForbidden, got %v", err)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("expected nil, got %v", err)
			}
		})
	}
}
