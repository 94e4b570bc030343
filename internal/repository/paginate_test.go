package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nextbase/internal/model"
)

func TestPaginateDefaults(t *testing.T) {
	ex, mock := newTestExecutor(t)
	now := time.Now().UTC().Truncate(time.Second)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM users ORDER BY created_at DESC LIMIT ? OFFSET ?")).
		WithArgs(10, 0).
		WillReturnRows(userRows().AddRow(1, "admin", "admin@example.com", now, now))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) AS total FROM users")).
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(25))

	page, err := Paginate[model.User](context.Background(), ex, UserSource, PageOptions{}, "")
	require.NoError(t, err)

	assert.Len(t, page.Data, 1)
	assert.Equal(t, Pagination{Page: 1, Limit: 10, Total: 25, TotalPages: 3}, page.Pagination)
}

func TestPaginateOffsetOrderAndFilter(t *testing.T) {
	ex, mock := newTestExecutor(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT p.*, c.name AS category_name FROM products p LEFT JOIN categories c ON p.category_id = c.id WHERE p.category_id = ? ORDER BY p.price ASC LIMIT ? OFFSET ?")).
		WithArgs(int64(5), 20, 40).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "price", "stock", "category_id", "category_name"}))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) AS total FROM products p WHERE p.category_id = ?")).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(41))

	page, err := Paginate[model.Product](context.Background(), ex, ProductSource,
		PageOptions{Page: 3, Limit: 20, OrderBy: "price", Direction: "asc"},
		"p.category_id = ?", int64(5))
	require.NoError(t, err)

	assert.Empty(t, page.Data)
	assert.Equal(t, 3, page.Pagination.TotalPages)
	assert.Equal(t, int64(41), page.Pagination.Total)
}

func TestPaginateRejectsUnknownSort(t *testing.T) {
	ex, _ := newTestExecutor(t)

	_, err := Paginate[model.User](context.Background(), ex, UserSource, PageOptions{OrderBy: "password; DROP TABLE users"}, "")
	assert.ErrorIs(t, err, ErrInvalidSort)

	_, err = Paginate[model.User](context.Background(), ex, UserSource, PageOptions{Direction: "sideways"}, "")
	assert.ErrorIs(t, err, ErrInvalidSort)
}

func TestPaginateCountFailure(t *testing.T) {
	ex, mock := newTestExecutor(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM categories ORDER BY name ASC LIMIT ? OFFSET ?")).
		WithArgs(10, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) AS total FROM categories")).
		WillReturnError(assert.AnError)

	page, err := Paginate[model.Category](context.Background(), ex, CategorySource, PageOptions{}, "")
	assert.Nil(t, page)
	assert.ErrorIs(t, err, ErrQuery)
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total int64
		limit int
		want  int
	}{
		{total: 0, limit: 10, want: 0},
		{total: 1, limit: 10, want: 1},
		{total: 10, limit: 10, want: 1},
		{total: 11, limit: 10, want: 2},
		{total: 100, limit: 1, want: 100},
		{total: 99, limit: 100, want: 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, totalPages(tt.total, tt.limit), "total=%d limit=%d", tt.total, tt.limit)
	}
}

func TestParseDirection(t *testing.T) {
	dir, ok := ParseDirection(" desc ")
	assert.True(t, ok)
	assert.Equal(t, Desc, dir)

	_, ok = ParseDirection("up")
	assert.False(t, ok)
}
