package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromRequest(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		page    int
		perPage int
		offset  int
	}{
		{"defaults", "", 1, 20, 0},
		{"custom", "page=3&per_page=50", 3, 50, 100},
		{"negative page", "page=-1", 1, 20, 0},
		{"zero page", "page=0", 1, 20, 0},
		{"non numeric page", "page=abc", 1, 20, 0},
		{"per_page over cap", "per_page=101", 1, 20, 0},
		{"per_page at cap", "per_page=100", 1, 100, 0},
		{"per_page zero", "per_page=0", 1, 20, 0},
		{"second page", "page=2&per_page=10", 2, 10, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/tours?"+tt.query, nil)
			p := FromRequest(req)
			assert.Equal(t, tt.page, p.Page)
			assert.Equal(t, tt.perPage, p.PerPage)
			assert.Equal(t, tt.offset, p.Offset)
		})
	}
}

func TestNewResult(t *testing.T) {
	tests := []struct {
		name       string
		total      int
		params     Params
		totalPages int
		hasNext    bool
		hasPrev    bool
	}{
		{"single page", 3, Params{Page: 1, PerPage: 20}, 1, false, false},
		{"first of many", 45, Params{Page: 1, PerPage: 20}, 3, true, false},
		{"middle", 45, Params{Page: 2, PerPage: 20}, 3, true, true},
		{"last", 45, Params{Page: 3, PerPage: 20}, 3, false, true},
		{"exact division", 40, Params{Page: 2, PerPage: 20}, 2, false, true},
		{"empty", 0, Params{Page: 1, PerPage: 20}, 0, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResult([]string{"a"}, tt.total, tt.params)
			assert.Equal(t, tt.totalPages, r.TotalPages)
			assert.Equal(t, tt.hasNext, r.HasNext)
			assert.Equal(t, tt.hasPrev, r.HasPrev)
		})
	}
}

func TestNewResult_NilDataBecomesEmpty(t *testing.T) {
	r := NewResult[int](nil, 0, DefaultParams())
	assert.NotNil(t, r.Data)
	assert.Empty(t, r.Data)
}
