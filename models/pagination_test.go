package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPaginationEmpty(t *testing.T) {
	p := NewPagination(0, 1, 20)

	assert.Equal(t, 1, p.CurrentPage)
	assert.Equal(t, 1, p.LastPage)
	assert.Equal(t, 20, p.PerPage)
	assert.Equal(t, int64(0), p.Total)
	assert.Nil(t, p.From)
	assert.Nil(t, p.To)
	assert.False(t, p.HasMorePages)
}

func TestNewPaginationSinglePage(t *testing.T) {
	p := NewPagination(7, 1, 20)

	assert.Equal(t, 1, p.LastPage)
	require.NotNil(t, p.From)
	require.NotNil(t, p.To)
	assert.Equal(t, 1, *p.From)
	assert.Equal(t, 7, *p.To)
	assert.False(t, p.HasMorePages)
}

func TestNewPaginationMiddlePage(t *testing.T) {
	// 50 items at 20 per page: pages of 20, 20, 10.
	p := NewPagination(50, 2, 20)

	assert.Equal(t, 3, p.LastPage)
	require.NotNil(t, p.From)
	require.NotNil(t, p.To)
	assert.Equal(t, 21, *p.From)
	assert.Equal(t, 40, *p.To)
	assert.True(t, p.HasMorePages)
	assert.Equal(t, 20, p.Offset())
}

func TestNewPaginationLastPartialPage(t *testing.T) {
	p := NewPagination(50, 3, 20)

	require.NotNil(t, p.From)
	require.NotNil(t, p.To)
	assert.Equal(t, 41, *p.From)
	assert.Equal(t, 50, *p.To)
	assert.False(t, p.HasMorePages)
}

func TestNewPaginationBeyondLastPage(t *testing.T) {
	p := NewPagination(50, 9, 20)

	assert.Equal(t, 9, p.CurrentPage)
	assert.Equal(t, 3, p.LastPage)
	assert.Nil(t, p.From)
	assert.Nil(t, p.To)
	assert.False(t, p.HasMorePages)
}

func TestNewPaginationNormalizesInput(t *testing.T) {
	p := NewPagination(10, 0, -5)

	assert.Equal(t, 1, p.CurrentPage)
	assert.Equal(t, 1, p.PerPage)
	assert.Equal(t, 10, p.LastPage)
	assert.Equal(t, 0, p.Offset())
}
