package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/privytune/backend/internal/core/domain"
	"github.com/privytune/backend/internal/core/ports"
)

type stubAuthService struct {
	registerFn     func(ctx context.Context, in ports.RegisterInput) (*domain.User, string, error)
	authenticateFn func(ctx context.Context, email, password string) (*domain.User, string, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, string, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Authenticate(ctx context.Context, email, password string) (*domain.User, string, error) {
	return s.authenticateFn(ctx, email, password)
}

func (s *stubAuthService) TokenTTL() time.Duration { return 24 * time.Hour }

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func postJSON(e *echo.Echo, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "jwt" {
			return ck
		}
	}
	t.Fatalf("no jwt cookie in response")
	return nil
}

func TestAuthHandler_Register_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*domain.User, string, error) {
			if in.FirstName != "A" || in.LastName != "B" || in.Email != "a@x.com" || in.Password != "secret1" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.User{Email: in.Email, Role: domain.RoleUser, PasswordHash: "$argon2id$..."}, "token123", nil
		},
	}
	handler := NewAuthHandler(stub, false)

	c, rec := postJSON(e, "/api/v1/auth/register", `{"firstname":"A","lastname":"B","email":"a@x.com","password":"secret1"}`)
	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "token123" {
		t.Fatalf("unexpected token: %v", resp["token"])
	}
	user, ok := resp["user"].(map[string]any)
	if !ok {
		t.Fatalf("expected user in response")
	}
	if _, leaked := user["password_hash"]; leaked {
		t.Fatalf("password hash leaked: %+v", user)
	}

	ck := sessionCookie(t, rec)
	if ck.Value != "token123" || ck.Path != "/" || ck.MaxAge != 86400 || !ck.HttpOnly || ck.SameSite != http.SameSiteStrictMode || ck.Secure {
		t.Fatalf("unexpected cookie: %+v", ck)
	}
}

func TestAuthHandler_Register_UserExists(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*domain.User, string, error) {
			return nil, "", domain.ErrUserExists
		},
	}
	handler := NewAuthHandler(stub, false)

	c, rec := postJSON(e, "/api/v1/auth/register", `{"firstname":"A","lastname":"B","email":"a@x.com","password":"x"}`)
	_ = handler.Register(c)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatalf("no cookie expected on failure")
	}
}

func TestAuthHandler_Register_InvalidPayload(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*domain.User, string, error) {
			t.Fatalf("should not be called")
			return nil, "", nil
		},
	}
	handler := NewAuthHandler(stub, false)

	for _, body := range []string{"not-json", `{"firstname":"A","lastname":"B","password":"x"}`, `{"firstname":"A","lastname":"B","email":"nope","password":"x"}`} {
		c, rec := postJSON(e, "/api/v1/auth/register", body)
		_ = handler.Register(c)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %q: expected 400, got %d", body, rec.Code)
		}
	}
}

func TestAuthHandler_Register_UnexpectedError(t *testing.T) {
	e := newTestEcho()
	boom := errors.New("mongo down")
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*domain.User, string, error) {
			return nil, "", boom
		},
	}
	handler := NewAuthHandler(stub, false)

	c, _ := postJSON(e, "/api/v1/auth/register", `{"firstname":"A","lastname":"B","email":"a@x.com","password":"x"}`)
	if err := handler.Register(c); !errors.Is(err, boom) {
		t.Fatalf("expected error to reach the global handler, got %v", err)
	}
}

func TestAuthHandler_Authenticate_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		authenticateFn: func(ctx context.Context, email, password string) (*domain.User, string, error) {
			if email != "a@x.com" || password != "secret1" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return &domain.User{Email: email, Role: domain.RoleUser}, "token123", nil
		},
	}
	handler := NewAuthHandler(stub, true)

	c, rec := postJSON(e, "/api/v1/auth/authenticate", `{"email":"a@x.com","password":"secret1"}`)
	if err := handler.Authenticate(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"token":"token123"`) {
		t.Fatalf("token missing from body: %s", rec.Body.String())
	}
	if ck := sessionCookie(t, rec); !ck.Secure {
		t.Fatalf("expected secure cookie: %+v", ck)
	}
	if rec.Header().Get(echo.HeaderCacheControl) != "no-store" {
		t.Fatalf("expected Cache-Control: no-store")
	}
}

func TestAuthHandler_Authenticate_InvalidCredentials(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		authenticateFn: func(ctx context.Context, email, password string) (*domain.User, string, error) {
			return nil, "", domain.ErrInvalidCredentials
		},
	}
	handler := NewAuthHandler(stub, false)

	c, rec := postJSON(e, "/api/v1/auth/authenticate", `{"email":"a@x.com","password":"wrong"}`)
	_ = handler.Authenticate(c)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "invalid credentials") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	e := newTestEcho()
	handler := NewAuthHandler(&stubAuthService{}, false)

	c, rec := postJSON(e, "/api/v1/auth/logout", "")
	if err := handler.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	header := rec.Header().Get("Set-Cookie")
	for _, want := range []string{"jwt=;", "Path=/", "Max-Age=0", "HttpOnly", "SameSite=Strict"} {
		if !strings.Contains(header, want) {
			t.Fatalf("Set-Cookie %q missing %q", header, want)
		}
	}
}
