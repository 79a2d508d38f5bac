package notification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/gobarber/gobarber/internal/platform/auth"
)

func TestHandlerList_OK(t *testing.T) {
	svc, _, providerID := newTestService()
	h := NewHandler(svc, zerolog.Nop())
	e := echo.New()

	if _, err := svc.Append(context.Background(), providerID, "note"); err != nil {
		t.Fatalf("Append() error: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/notifications", nil)
	req = req.WithContext(auth.WithUserID(req.Context(), providerID))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.List(c); err != nil {
		t.Fatalf("List handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var got []Notification
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected 1 notification, got %d", len(got))
	}
}

func TestHandlerList_NonProvider(t *testing.T) {
	svc, _, _ := newTestService()
	h := NewHandler(svc, zerolog.Nop())
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/notifications", nil)
	req = req.WithContext(auth.WithUserID(req.Context(), uuid.New()))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.List(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %v", err)
	}
}

func TestHandlerMarkRead_OK(t *testing.T) {
	svc, _, providerID := newTestService()
	h := NewHandler(svc, zerolog.Nop())
	e := echo.New()

	n, err := svc.Append(context.Background(), providerID, "note")
	if err != nil {
		t.Fatalf("Append() error: %v", err)
	}

	req := httptest.NewRequest(http.MethodPut, "/notifications/"+n.ID.String()+"/read", nil)
	req = req.WithContext(auth.WithUserID(req.Context(), providerID))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(n.ID.String())

	if err := h.MarkRead(c); err != nil {
		t.Fatalf("MarkRead handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var got Notification
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !got.Read {
		t.Error("expected notification marked read")
	}
}

func TestHandlerMarkRead_NotFound(t *testing.T) {
	svc, _, providerID := newTestService()
	h := NewHandler(svc, zerolog.Nop())
	e := echo.New()

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodPut, "/notifications/"+id+"/read", nil)
	req = req.WithContext(auth.WithUserID(req.Context(), providerID))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(id)

	err := h.MarkRead(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %v", err)
	}
}
