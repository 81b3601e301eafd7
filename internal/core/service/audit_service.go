package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/99minutos/backend-boilerplate/internal/core/domain"
	"github.com/99minutos/backend-boilerplate/internal/core/ports"
)

// AuditService adds the actor-attributed operations to a SoftDeleteService.
type AuditService[T any] struct {
	*SoftDeleteService[T]
	audit ports.AuditRepository[T]
}

var _ ports.AuditRepository[domain.User] = (*AuditService[domain.User])(nil)

func NewAuditService[T any](repo ports.AuditRepository[T], logger zerolog.Logger) *AuditService[T] {
	return &AuditService[T]{
		SoftDeleteService: NewSoftDeleteService[T](repo, logger),
		audit:             repo,
	}
}

func (s *AuditService[T]) CreateWithAudit(ctx context.Context, data *T, createdBy string) (*T, error) {
	rec, err := s.audit.CreateWithAudit(ctx, data, createdBy)
	return rec, traced(s.logger, "create_with_audit", err)
}

func (s *AuditService[T]) CreateManyWithAudit(ctx context.Context, data []*T, createdBy string) ([]*T, error) {
	recs, err := s.audit.CreateManyWithAudit(ctx, data, createdBy)
	return recs, traced(s.logger, "create_many_with_audit", err)
}

func (s *AuditService[T]) FindByIDAndUpdateWithAudit(ctx context.Context, id string, update domain.Update, updatedBy string) (*T, error) {
	rec, err := s.audit.FindByIDAndUpdateWithAudit(ctx, id, update, updatedBy)
	return rec, traced(s.logger, "find_by_id_and_update_with_audit", err)
}

func (s *AuditService[T]) FindOneAndUpdateWithAudit(ctx context.Context, filter domain.Filter, update domain.Update, updatedBy string) (*T, error) {
	rec, err := s.audit.FindOneAndUpdateWithAudit(ctx, filter, update, updatedBy)
	return rec, traced(s.logger, "find_one_and_update_with_audit", err)
}

func (s *AuditService[T]) UpdateManyWithAudit(ctx context.Context, filter domain.Filter, update domain.Update, updatedBy string) (int64, error) {
	n, err := s.audit.UpdateManyWithAudit(ctx, filter, update, updatedBy)
	return n, traced(s.logger, "update_many_with_audit", err)
}
