package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func newTestHandler() *Handler {
	return NewHandler(NewDemoStore(), NewIssuer("test-secret", 30*time.Minute))
}

func postJSON(e *echo.Echo, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestHandler_Login(t *testing.T) {
	h := newTestHandler()
	e := echo.New()
	c, rec := postJSON(e, "/auth/login", `{"email":"demo@mediclinic.com","password":"demo123"}`)

	if err := h.Login(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp tokenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Error("expected access and refresh tokens")
	}
	if resp.TokenType != "bearer" {
		t.Errorf("expected token_type bearer, got %q", resp.TokenType)
	}
	if resp.ExpiresIn != 1800 {
		t.Errorf("expected expires_in 1800, got %d", resp.ExpiresIn)
	}
	if resp.User == nil || resp.User.ID != "demo-patient-001" {
		t.Errorf("unexpected user: %+v", resp.User)
	}
}

func TestHandler_LoginBadPassword(t *testing.T) {
	h := newTestHandler()
	e := echo.New()
	c, _ := postJSON(e, "/auth/login", `{"email":"demo@mediclinic.com","password":"nope"}`)

	err := h.Login(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestHandler_LoginHidesPasswordHash(t *testing.T) {
	h := newTestHandler()
	e := echo.New()
	c, rec := postJSON(e, "/auth/login", `{"email":"demo@mediclinic.com","password":"demo123"}`)

	if err := h.Login(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Error("response must not leak password material")
	}
}

func TestHandler_Refresh(t *testing.T) {
	h := newTestHandler()
	e := echo.New()
	c, rec := postJSON(e, "/auth/login", `{"email":"doctor@mediclinic.com","password":"doctor123"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var login tokenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &login); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c, rec = postJSON(e, "/auth/refresh", `{"refresh_token":"`+login.RefreshToken+`"}`)
	if err := h.Refresh(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var refreshed tokenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &refreshed); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if refreshed.AccessToken == "" {
		t.Error("expected a fresh access token")
	}
	if refreshed.RefreshToken != "" {
		t.Error("refresh response must not rotate the refresh token")
	}

	claims, err := h.issuer.VerifyAccess(refreshed.AccessToken)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.Role != "doctor" {
		t.Errorf("expected role doctor, got %q", claims.Role)
	}
}

func TestHandler_RefreshRejectsAccessToken(t *testing.T) {
	h := newTestHandler()
	e := echo.New()
	access, err := h.issuer.IssueAccess(testUser())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c, _ := postJSON(e, "/auth/refresh", `{"refresh_token":"`+access+`"}`)
	err = h.Refresh(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestHandler_Register(t *testing.T) {
	h := newTestHandler()
	e := echo.New()
	c, rec := postJSON(e, "/auth/register",
		`{"email":"nurse@example.com","password":"pass123","name":"Nina","role":"nurse"}`)

	if err := h.Register(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var resp tokenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.User == nil || resp.User.Role != "nurse" {
		t.Errorf("unexpected user: %+v", resp.User)
	}
}

func TestHandler_MeThroughMiddleware(t *testing.T) {
	h := newTestHandler()
	e := echo.New()
	user, err := h.store.Get("demo@mediclinic.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	access, err := h.issuer.IssueAccess(user)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+access)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := Middleware(h.issuer)(h.Me)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var body struct {
		User *User `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body.User == nil || body.User.Email != "demo@mediclinic.com" {
		t.Errorf("unexpected user: %+v", body.User)
	}
}

func TestMiddleware_RejectsMissingAndMalformed(t *testing.T) {
	h := newTestHandler()
	e := echo.New()
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	mw := Middleware(h.issuer)

	for _, header := range []string{"", "Basic abc", "Bearer not.a.token"} {
		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		if header != "" {
			req.Header.Set(echo.HeaderAuthorization, header)
		}
		c := e.NewContext(req, httptest.NewRecorder())

		err := mw(next)(c)
		he, ok := err.(*echo.HTTPError)
		if !ok || he.Code != http.StatusUnauthorized {
			t.Errorf("header %q: expected 401, got %v", header, err)
		}
	}
}

func TestRequireRole(t *testing.T) {
	e := echo.New()
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	cases := []struct {
		role    string
		allowed []string
		wantOK  bool
	}{
		{"doctor", []string{"doctor", "nurse"}, true},
		{"nurse", []string{"doctor", "nurse"}, true},
		{"patient", []string{"doctor", "nurse"}, false},
		{"admin", []string{"doctor"}, true},
		{"", []string{"doctor"}, false},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		c := e.NewContext(req, httptest.NewRecorder())
		if tc.role != "" {
			claims := &Claims{Role: tc.role, TokenType: tokenTypeAccess}
			ctx := context.WithValue(c.Request().Context(), claimsKey, claims)
			c.SetRequest(c.Request().WithContext(ctx))
		}

		err := RequireRole(tc.allowed...)(next)(c)
		if tc.wantOK && err != nil {
			t.Errorf("role %q: unexpected error: %v", tc.role, err)
		}
		if !tc.wantOK {
			he, ok := err.(*echo.HTTPError)
			if !ok || he.Code != http.StatusForbidden {
				t.Errorf("role %q: expected 403, got %v", tc.role, err)
			}
		}
	}
}

func TestDevMiddleware_GrantsAdmin(t *testing.T) {
	e := echo.New()
	var role string
	next := func(c echo.Context) error {
		role = RoleFromContext(c.Request().Context())
		return c.NoContent(http.StatusOK)
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	if err := DevMiddleware()(next)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if role != "admin" {
		t.Errorf("expected admin, got %q", role)
	}
}
