package repository

import (
	"context"

	"gorm.io/gorm"
)

// Table is the closed set of table identifiers that may be spliced into SQL text.
type Table string

const (
	TableUsers      Table = "users"
	TableCategories Table = "categories"
	TableProducts   Table = "products"
	TableAuditLogs  Table = "audit_logs"
)

// Executor runs positional, parameter-bound SQL against the shared pool. Every call
// checks out one connection for the statement and returns it afterwards; there is no
// transaction spanning calls.
type Executor struct {
	db *gorm.DB
}

func NewExecutor(db *gorm.DB) *Executor {
	return &Executor{db: db}
}

// Query returns every row of the statement scanned into T. It never returns partial
// results: on failure the slice is nil.
func Query[T any](ctx context.Context, ex *Executor, query string, args ...any) ([]T, error) {
	rows := make([]T, 0)
	if err := ex.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, opError(ErrQuery, query, err)
	}
	return rows, nil
}

// QueryOne returns the first row, or nil without an error when nothing matched.
func QueryOne[T any](ctx context.Context, ex *Executor, query string, args ...any) (*T, error) {
	var row T
	tx := ex.db.WithContext(ctx).Raw(query, args...).Scan(&row)
	if tx.Error != nil {
		return nil, opError(ErrQuery, query, tx.Error)
	}
	if tx.RowsAffected == 0 {
		return nil, nil
	}
	return &row, nil
}

// Insert executes an INSERT and returns the id assigned by the database.
func (e *Executor) Insert(ctx context.Context, query string, args ...any) (int64, error) {
	result, err := e.db.ConnPool.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, opError(ErrInsert, query, err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, opError(ErrInsert, query, err)
	}
	return id, nil
}

// Update returns the number of affected rows; zero means no row matched.
func (e *Executor) Update(ctx context.Context, query string, args ...any) (int64, error) {
	return e.exec(ctx, ErrUpdate, query, args...)
}

// Delete returns the number of affected rows; zero means no row matched.
func (e *Executor) Delete(ctx context.Context, query string, args ...any) (int64, error) {
	return e.exec(ctx, ErrDelete, query, args...)
}

func (e *Executor) Exists(ctx context.Context, table Table, where string, args ...any) (bool, error) {
	query := "SELECT 1 FROM " + string(table) + " WHERE " + where + " LIMIT 1"
	var one int
	tx := e.db.WithContext(ctx).Raw(query, args...).Scan(&one)
	if tx.Error != nil {
		return false, opError(ErrQuery, query, tx.Error)
	}
	return tx.RowsAffected > 0, nil
}

func (e *Executor) Count(ctx context.Context, table Table, where string, args ...any) (int64, error) {
	return e.count(ctx, string(table), where, args...)
}

func (e *Executor) count(ctx context.Context, from, where string, args ...any) (int64, error) {
	query := "SELECT COUNT(*) AS total FROM " + from
	if where != "" {
		query += " WHERE " + where
	}
	var total int64
	if err := e.db.WithContext(ctx).Raw(query, args...).Scan(&total).Error; err != nil {
		return 0, opError(ErrQuery, query, err)
	}
	return total, nil
}

func (e *Executor) exec(ctx context.Context, kind error, query string, args ...any) (int64, error) {
	tx := e.db.WithContext(ctx).Exec(query, args...)
	if tx.Error != nil {
		return 0, opError(kind, query, tx.Error)
	}
	return tx.RowsAffected, nil
}
