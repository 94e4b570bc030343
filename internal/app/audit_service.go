package app

import (
	"context"

	"nextbase/internal/model"
	"nextbase/internal/repository"
)

type AuditService struct {
	auditRepo *repository.AuditRepository
}

func NewAuditService(auditRepo *repository.AuditRepository) *AuditService {
	return &AuditService{auditRepo: auditRepo}
}

func (s *AuditService) List(ctx context.Context, opts repository.PageOptions, filter repository.AuditFilter) (*repository.Page[model.AuditLog], error) {
	return s.auditRepo.FindAll(ctx, opts, filter)
}

// Record persists one change event as an audit_logs row.
func (s *AuditService) Record(ctx context.Context, event model.EntityEvent) (*model.AuditLog, error) {
	entry := &model.AuditLog{
		Entity:   event.Entity,
		EntityID: event.EntityID,
		Action:   event.Action,
		Payload:  string(event.Payload),
	}
	if err := s.auditRepo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}
