package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"nextbase/internal/model"
)

var AuditLogSource = Source{
	From:    string(TableAuditLogs),
	Columns: "*",
	Sortable: map[string]string{
		"id":         "id",
		"created_at": "created_at",
	},
	DefaultSort:      "created_at",
	DefaultDirection: Desc,
}

type AuditFilter struct {
	Entity   string
	EntityID int64
}

type AuditRepository struct {
	ex *Executor
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{ex: NewExecutor(db)}
}

func (r *AuditRepository) Create(ctx context.Context, entry *model.AuditLog) error {
	id, err := r.ex.Insert(ctx,
		"INSERT INTO audit_logs (entity, entity_id, action, payload) VALUES (?, ?, ?, ?)",
		entry.Entity, entry.EntityID, entry.Action, entry.Payload,
	)
	if err != nil {
		return fmt.Errorf("create audit log failed: %w", err)
	}
	entry.ID = id
	return nil
}

func (r *AuditRepository) FindAll(ctx context.Context, opts PageOptions, filter AuditFilter) (*Page[model.AuditLog], error) {
	var (
		where string
		args  []any
	)
	if filter.Entity != "" {
		where = "entity = ?"
		args = append(args, filter.Entity)
		if filter.EntityID > 0 {
			where += " AND entity_id = ?"
			args = append(args, filter.EntityID)
		}
	}

	page, err := Paginate[model.AuditLog](ctx, r.ex, AuditLogSource, opts, where, args...)
	if err != nil {
		return nil, fmt.Errorf("list audit logs failed: %w", err)
	}
	return page, nil
}
