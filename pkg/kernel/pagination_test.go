package kernel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginationOffset(t *testing.T) {
	assert.Equal(t, 0, PaginationOptions{Page: 1, PageSize: 20}.Offset())
	assert.Equal(t, 20, PaginationOptions{Page: 2, PageSize: 20}.Offset())
	assert.Equal(t, 0, PaginationOptions{Page: 0, PageSize: 20}.Offset())
}

func TestNewPaginated(t *testing.T) {
	opts := PaginationOptions{Page: 2, PageSize: 10}
	page := NewPaginated([]string{"a", "b"}, opts, 42)

	assert.Equal(t, 2, page.Page.Number)
	assert.Equal(t, 10, page.Page.Size)
	assert.Equal(t, int64(42), page.Page.TotalItems)
	assert.Equal(t, 5, page.Page.TotalPages)
	assert.False(t, page.Empty)

	empty := NewPaginated([]string{}, opts, 0)
	assert.True(t, empty.Empty)
	assert.Equal(t, 0, empty.Page.TotalPages)
}
