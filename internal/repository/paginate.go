package repository

import (
	"context"
	"fmt"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

// ParseDirection accepts asc/desc in any case.
func ParseDirection(raw string) (Direction, bool) {
	switch Direction(strings.ToUpper(strings.TrimSpace(raw))) {
	case Asc:
		return Asc, true
	case Desc:
		return Desc, true
	}
	return "", false
}

type PageOptions struct {
	Page      int
	Limit     int
	OrderBy   string
	Direction Direction
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

type Page[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// Source describes a paginated read: trusted FROM/projection text and the columns
// callers may sort by. Nothing in a Source comes from request input.
type Source struct {
	From             string
	CountFrom        string
	Columns          string
	Sortable         map[string]string
	DefaultSort      string
	DefaultDirection Direction
}

// SortKeys lists the public sort names, for validation messages.
func (s Source) SortKeys() []string {
	keys := make([]string, 0, len(s.Sortable))
	for k := range s.Sortable {
		keys = append(keys, k)
	}
	return keys
}

func (s Source) orderClause(opts PageOptions) (string, error) {
	key := opts.OrderBy
	if key == "" {
		key = s.DefaultSort
	}
	column, ok := s.Sortable[key]
	if !ok {
		return "", fmt.Errorf("%w: column %q", ErrInvalidSort, key)
	}

	dir := s.DefaultDirection
	if opts.Direction != "" {
		parsed, ok := ParseDirection(string(opts.Direction))
		if !ok {
			return "", fmt.Errorf("%w: direction %q", ErrInvalidSort, opts.Direction)
		}
		dir = parsed
	}
	if dir == "" {
		dir = Desc
	}
	return column + " " + string(dir), nil
}

// Paginate runs a LIMIT/OFFSET data query followed by a COUNT with the same filter.
// The two statements run on separate connections without a shared snapshot, so a
// concurrent write can make Total disagree with the returned rows.
func Paginate[T any](ctx context.Context, ex *Executor, src Source, opts PageOptions, where string, args ...any) (*Page[T], error) {
	page := opts.Page
	if page <= 0 {
		page = DefaultPage
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	offset := (page - 1) * limit

	order, err := src.orderClause(opts)
	if err != nil {
		return nil, err
	}

	columns := src.Columns
	if columns == "" {
		columns = "*"
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(columns)
	sb.WriteString(" FROM ")
	sb.WriteString(src.From)
	if where != "" {
		sb.WriteString(" WHERE ")
		sb.WriteString(where)
	}
	sb.WriteString(" ORDER BY ")
	sb.WriteString(order)
	sb.WriteString(" LIMIT ? OFFSET ?")

	dataArgs := make([]any, 0, len(args)+2)
	dataArgs = append(dataArgs, args...)
	dataArgs = append(dataArgs, limit, offset)

	data, err := Query[T](ctx, ex, sb.String(), dataArgs...)
	if err != nil {
		return nil, err
	}

	countFrom := src.CountFrom
	if countFrom == "" {
		countFrom = src.From
	}
	total, err := ex.count(ctx, countFrom, where, args...)
	if err != nil {
		return nil, err
	}

	return &Page[T]{
		Data: data,
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages(total, limit),
		},
	}, nil
}

func totalPages(total int64, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	l := int64(limit)
	return int((total + l - 1) / l)
}
