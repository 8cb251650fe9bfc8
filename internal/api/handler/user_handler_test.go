package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/privytune/backend/internal/core/domain"
)

func TestUserHandler_Me(t *testing.T) {
	e := echo.New()
	user := &domain.User{Email: "a@x.com", FirstName: "A", LastName: "B", Role: domain.RoleUser, PasswordHash: "hash"}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req = req.WithContext(domain.WithIdentity(req.Context(), domain.NewIdentity(user)))
	rec := httptest.NewRecorder()

	if err := NewUserHandler().Me(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body["email"] != "a@x.com" || body["role"] != "USER" {
		t.Fatalf("unexpected body: %+v", body)
	}
	if _, leaked := body["password_hash"]; leaked {
		t.Fatalf("password hash leaked")
	}
}
