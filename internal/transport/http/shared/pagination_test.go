package shared

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePaginationDefaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/companies/c1/audit", nil)

	page := ParsePagination(r)

	assert.Equal(t, DefaultPageSize, page.Limit)
	assert.Equal(t, 0, page.Offset)
}

func TestParsePaginationClampsToMax(t *testing.T) {
	r := httptest.NewRequest("GET", "/companies/c1/audit?limit=5000&offset=20", nil)

	page := ParsePagination(r)

	assert.Equal(t, MaxPageSize, page.Limit)
	assert.Equal(t, 20, page.Offset)
}

func TestParsePaginationIgnoresGarbage(t *testing.T) {
	r := httptest.NewRequest("GET", "/companies/c1/audit?limit=abc&offset=-3", nil)

	page := ParsePagination(r)

	assert.Equal(t, DefaultPageSize, page.Limit)
	assert.Equal(t, 0, page.Offset)
}
