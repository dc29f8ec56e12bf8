package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/arvinjon17/core2-moverstaxi-backend-sub001/internal/auth"
)

func testStack(capability string) http.Handler {
	resolver := &auth.StaticResolver{
		Sessions: map[string]*auth.Principal{
			"good-token": {
				UserID:       7,
				Capabilities: map[string]bool{"customers.read": true},
			},
		},
	}

	okHandler := func(w http.ResponseWriter, r *http.Request) {
		p := auth.FromContext(r.Context())
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"user_id": p.UserID})
	}

	return auth.Middleware(resolver)(auth.Require(capability, okHandler))
}

func TestMiddlewareRejectsMissingToken(t *testing.T) {
	h := testStack("customers.read")

	req := httptest.NewRequest("GET", "/customers", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestMiddlewareRejectsUnknownToken(t *testing.T) {
	h := testStack("customers.read")

	req := httptest.NewRequest("GET", "/customers", nil)
	req.Header.Set("Authorization", "Bearer nope")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestRequireRejectsMissingCapability(t *testing.T) {
	h := testStack("customers.update")

	req := httptest.NewRequest("POST", "/customers/1", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}

func TestMiddlewareInjectsPrincipal(t *testing.T) {
	h := testStack("customers.read")

	req := httptest.NewRequest("GET", "/customers", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var res map[string]interface{}
	_ = json.NewDecoder(w.Body).Decode(&res)
	if res["user_id"] != float64(7) {
		t.Errorf("expected principal user id 7, got %v", res["user_id"])
	}
}

func TestMiddlewareAcceptsSessionCookie(t *testing.T) {
	h := testStack("customers.read")

	req := httptest.NewRequest("GET", "/customers", nil)
	req.AddCookie(&http.Cookie{Name: "session_token", Value: "good-token"})
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}
