package account

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/gobarber/gobarber/internal/platform/auth"
	"github.com/gobarber/gobarber/pkg/pagination"
)

func newTestHandler(t *testing.T) (*Handler, *Service) {
	t.Helper()
	svc, _ := newTestService()
	return NewHandler(svc, zerolog.Nop()), svc
}

func TestHandlerRegister_Created(t *testing.T) {
	h, _ := newTestHandler(t)
	e := echo.New()

	body := `{"name":"John","email":"john@example.com","password":"secret1","provider":true}`
	req := httptest.NewRequest(http.MethodPost, "/accounts", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Register(c); err != nil {
		t.Fatalf("Register handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var got Account
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got.Email != "john@example.com" {
		t.Errorf("unexpected email: %s", got.Email)
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Error("response must not expose the password hash")
	}
}

func TestHandlerRegister_ValidationError(t *testing.T) {
	h, _ := newTestHandler(t)
	e := echo.New()

	body := `{"name":"","email":"bad","password":"1"}`
	req := httptest.NewRequest(http.MethodPost, "/accounts", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Register(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	if httpErr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", httpErr.Code)
	}
}

func TestHandlerRegister_DuplicateEmail(t *testing.T) {
	h, svc := newTestHandler(t)
	e := echo.New()

	if _, err := svc.Register(context.Background(), RegisterInput{Name: "A", Email: "a@b.com", Password: "secret1"}); err != nil {
		t.Fatalf("seed Register() error: %v", err)
	}

	body := `{"name":"B","email":"a@b.com","password":"secret1"}`
	req := httptest.NewRequest(http.MethodPost, "/accounts", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Register(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for duplicate email, got %v", err)
	}
}

func TestHandlerUpdateProfile_Success(t *testing.T) {
	h, svc := newTestHandler(t)
	e := echo.New()

	a, err := svc.Register(context.Background(), RegisterInput{Name: "A", Email: "a@b.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("seed Register() error: %v", err)
	}

	body := `{"name":"Alice"}`
	req := httptest.NewRequest(http.MethodPut, "/accounts/me", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req = req.WithContext(auth.WithUserID(req.Context(), a.ID))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.UpdateProfile(c); err != nil {
		t.Fatalf("UpdateProfile handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var got Account
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got.Name != "Alice" {
		t.Errorf("expected Alice, got %s", got.Name)
	}
}

func TestHandlerUpdateProfile_Unauthenticated(t *testing.T) {
	h, _ := newTestHandler(t)
	e := echo.New()

	req := httptest.NewRequest(http.MethodPut, "/accounts/me", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.UpdateProfile(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %v", err)
	}
}

func TestHandlerListProviders(t *testing.T) {
	h, svc := newTestHandler(t)
	e := echo.New()

	if _, err := svc.Register(context.Background(), RegisterInput{Name: "Barber", Email: "barber@b.com", Password: "secret1", Provider: true}); err != nil {
		t.Fatalf("seed Register() error: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/providers", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.ListProviders(c); err != nil {
		t.Fatalf("ListProviders handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var got pagination.Response
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got.Total != 1 {
		t.Errorf("expected total 1, got %d", got.Total)
	}
	items, ok := got.Items.([]interface{})
	if !ok || len(items) != 1 {
		t.Errorf("expected 1 provider item, got %+v", got.Items)
	}
}
