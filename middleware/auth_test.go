package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"gjinn/config"
	"gjinn/core"
	"gjinn/handlers/auth"
)

func newTestService() *auth.Service {
	return auth.NewService(&config.Config{JWTSecret: "test-secret"})
}

func protectedHandler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFrom(r.Context())
		if !ok {
			t.Error("claims missing from context")
		}
		if claims.Subject != "guest:abc" {
			t.Errorf("unexpected subject %q", claims.Subject)
		}
		w.WriteHeader(http.StatusOK)
	}
}

func TestAuthJWTAcceptsValidToken(t *testing.T) {
	svc := newTestService()
	token, err := svc.CreateToken(&core.User{Subject: "guest:abc", Login: "guest-abc", Guest: true})
	if err != nil {
		t.Fatalf("CreateToken: %v", err)
	}

	handler := AuthJWT(svc)(protectedHandler(t))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAuthJWTRejectsBadRequests(t *testing.T) {
	svc := newTestService()
	handler := AuthJWT(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run without valid auth")
	}))

	cases := map[string]string{
		"missing header": "",
		"wrong scheme":   "Basic abc",
		"garbage token":  "Bearer not-a-jwt",
	}
	for name, header := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected 401, got %d", name, rec.Code)
		}
	}
}

func TestAuthJWTRejectsForeignSignature(t *testing.T) {
	other := auth.NewService(&config.Config{JWTSecret: "different-secret"})
	token, err := other.CreateToken(&core.User{Subject: "guest:abc"})
	if err != nil {
		t.Fatalf("CreateToken: %v", err)
	}

	svc := newTestService()
	handler := AuthJWT(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run with a foreign token")
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}
