package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestFromContext_Defaults(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	p := FromContext(c)

	if p.Page != 1 {
		t.Errorf("expected default page 1, got %d", p.Page)
	}
	if p.PageSize != DefaultPageSize {
		t.Errorf("expected default page size %d, got %d", DefaultPageSize, p.PageSize)
	}
}

func TestFromContext_CustomValues(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?page=3&pageSize=25", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	p := FromContext(c)

	if p.Page != 3 {
		t.Errorf("expected page 3, got %d", p.Page)
	}
	if p.PageSize != 25 {
		t.Errorf("expected page size 25, got %d", p.PageSize)
	}
}

func TestFromContext_ClampsPageSize(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?pageSize=5000", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if p := FromContext(c); p.PageSize != MaxPageSize {
		t.Errorf("expected page size clamped to %d, got %d", MaxPageSize, p.PageSize)
	}
}

func TestPaginate_EmptyList(t *testing.T) {
	p := Paginate(0, 15, 1)
	if p.TotalPages != 1 {
		t.Errorf("expected totalPages 1 for empty list, got %d", p.TotalPages)
	}
	if p.Start != 0 || p.End != 0 {
		t.Errorf("expected empty window, got [%d, %d)", p.Start, p.End)
	}
}

func TestPaginate_PartialLastPage(t *testing.T) {
	// 22 records at page size 15: page 1 has 15, page 2 has 7.
	p1 := Paginate(22, 15, 1)
	if p1.TotalPages != 2 {
		t.Fatalf("expected totalPages 2, got %d", p1.TotalPages)
	}
	if p1.End-p1.Start != 15 {
		t.Errorf("expected 15 items on page 1, got %d", p1.End-p1.Start)
	}

	p2 := Paginate(22, 15, 2)
	if p2.End-p2.Start != 7 {
		t.Errorf("expected 7 items on page 2, got %d", p2.End-p2.Start)
	}
}

func TestPaginate_OverflowResetsToPageOne(t *testing.T) {
	p := Paginate(10, 15, 4)
	if p.Page != 1 {
		t.Errorf("expected reset to page 1, got %d", p.Page)
	}
	if p.Start != 0 || p.End != 10 {
		t.Errorf("expected window [0, 10), got [%d, %d)", p.Start, p.End)
	}
}

func TestSlice_ConcatenationReconstructsList(t *testing.T) {
	items := make([]int, 37)
	for i := range items {
		items[i] = i
	}

	var got []int
	total := Paginate(len(items), 10, 1).TotalPages
	for page := 1; page <= total; page++ {
		window, _ := Slice(items, 10, page)
		got = append(got, window...)
	}

	if len(got) != len(items) {
		t.Fatalf("expected %d items across pages, got %d", len(items), len(got))
	}
	for i := range items {
		if got[i] != items[i] {
			t.Fatalf("item %d: expected %d, got %d", i, items[i], got[i])
		}
	}
}
