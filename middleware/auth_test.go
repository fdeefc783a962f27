package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var testKey = []byte("test-secret-key")

// makeToken создает подписанный тестовый токен
func makeToken(t *testing.T, userID uint, email, role string) string {
	t.Helper()

	claims := jwt.MapClaims{
		"user_id": userID,
		"email":   email,
		"role":    role,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(testKey)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	var gotUserID uint
	var gotEmail string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, email, err := GetUserFromContext(r)
		if err != nil {
			t.Errorf("GetUserFromContext: %v", err)
		}
		gotUserID = userID
		gotEmail = email
		w.WriteHeader(http.StatusOK)
	})

	handler := AuthMiddleware(testKey)(next)

	req := httptest.NewRequest("GET", "/api/balances", nil)
	req.Header.Set("Authorization", "Bearer "+makeToken(t, 42, "user@example.com", "USER"))
	rr := httptest.NewRecorder()

	// Выполняем запрос
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %v want %v", rr.Code, http.StatusOK)
	}
	if gotUserID != 42 {
		t.Errorf("user_id: got %v want %v", gotUserID, 42)
	}
	if gotEmail != "user@example.com" {
		t.Errorf("email: got %v want %v", gotEmail, "user@example.com")
	}
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	handler := AuthMiddleware(testKey)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("handler must not be called without token")
	}))

	req := httptest.NewRequest("GET", "/api/balances", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status: got %v want %v", rr.Code, http.StatusUnauthorized)
	}
}

func TestAuthMiddlewareInvalidToken(t *testing.T) {
	handler := AuthMiddleware(testKey)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("handler must not be called with invalid token")
	}))

	req := httptest.NewRequest("GET", "/api/balances", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status: got %v want %v", rr.Code, http.StatusUnauthorized)
	}
}

func TestAuthMiddlewareWrongKey(t *testing.T) {
	handler := AuthMiddleware([]byte("another-key"))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("handler must not be called with token signed by wrong key")
	}))

	req := httptest.NewRequest("GET", "/api/balances", nil)
	req.Header.Set("Authorization", "Bearer "+makeToken(t, 1, "user@example.com", "USER"))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status: got %v want %v", rr.Code, http.StatusUnauthorized)
	}
}

func TestRequireAdminAllowsAdmin(t *testing.T) {
	called := false
	inner := func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}

	handler := AuthMiddleware(testKey)(http.HandlerFunc(RequireAdmin(inner)))

	req := httptest.NewRequest("GET", "/api/admin/users", nil)
	req.Header.Set("Authorization", "Bearer "+makeToken(t, 1, "admin@example.com", "ADMIN"))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("status: got %v want %v", rr.Code, http.StatusOK)
	}
	if !called {
		t.Errorf("admin handler must be called for ADMIN role")
	}
}

func TestRequireAdminRejectsUser(t *testing.T) {
	inner := func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("admin handler must not be called for USER role")
	}

	handler := AuthMiddleware(testKey)(http.HandlerFunc(RequireAdmin(inner)))

	req := httptest.NewRequest("GET", "/api/admin/users", nil)
	req.Header.Set("Authorization", "Bearer "+makeToken(t, 2, "user@example.com", "USER"))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Errorf("status: got %v want %v", rr.Code, http.StatusForbidden)
	}
}
