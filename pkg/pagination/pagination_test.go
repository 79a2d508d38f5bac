package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func paramsFor(t *testing.T, query string) Params {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?"+query, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return FromContext(c)
}

func TestFromContext_Defaults(t *testing.T) {
	p := paramsFor(t, "")
	if p.Page != 1 {
		t.Errorf("expected page 1, got %d", p.Page)
	}
	if p.PageSize != DefaultPageSize {
		t.Errorf("expected page size %d, got %d", DefaultPageSize, p.PageSize)
	}
}

func TestFromContext_ExplicitPage(t *testing.T) {
	p := paramsFor(t, "page=3")
	if p.Page != 3 {
		t.Errorf("expected page 3, got %d", p.Page)
	}
}

func TestFromContext_InvalidPage(t *testing.T) {
	for _, query := range []string{"page=0", "page=-1", "page=abc"} {
		p := paramsFor(t, query)
		if p.Page != 1 {
			t.Errorf("%s: expected fallback to page 1, got %d", query, p.Page)
		}
	}
}

func TestParams_Offset(t *testing.T) {
	cases := []struct {
		page   int
		offset int
	}{
		{1, 0},
		{2, 20},
		{5, 80},
	}
	for _, tc := range cases {
		p := Params{Page: tc.page, PageSize: DefaultPageSize}
		if got := p.Offset(); got != tc.offset {
			t.Errorf("page %d: expected offset %d, got %d", tc.page, tc.offset, got)
		}
	}
}

func TestNewResponse(t *testing.T) {
	items := []string{"a", "b"}
	resp := NewResponse(items, Params{Page: 2, PageSize: 20}, 42)
	if resp.Page != 2 {
		t.Errorf("expected page 2, got %d", resp.Page)
	}
	if resp.Total != 42 {
		t.Errorf("expected total 42, got %d", resp.Total)
	}
}
