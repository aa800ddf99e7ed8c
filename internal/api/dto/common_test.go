package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginationParams(t *testing.T) {
	tests := []struct {
		name        string
		in          PaginationParams
		wantPage    int
		wantPerPage int
		wantOffset  int
	}{
		{"defaults", PaginationParams{}, 1, 20, 0},
		{"negative page", PaginationParams{Page: -2, PerPage: 10}, 1, 10, 0},
		{"per page capped", PaginationParams{Page: 2, PerPage: 500}, 2, 100, 100},
		{"plain", PaginationParams{Page: 3, PerPage: 25}, 3, 25, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.in
			p.Normalize()
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantPerPage, p.PerPage)
			assert.Equal(t, tt.wantOffset, p.Offset())
		})
	}
}
