package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/99minutos/backend-boilerplate/internal/core/domain"
	"github.com/99minutos/backend-boilerplate/internal/core/ports"
)

// AuditRepository adds actor attribution on top of a SoftDeleteRepository.
// Every soft-delete aware operation is promoted unchanged.
type AuditRepository[T any] struct {
	*SoftDeleteRepository[T]
}

var _ ports.AuditRepository[domain.User] = (*AuditRepository[domain.User])(nil)

func NewAuditRepository[T any](soft *SoftDeleteRepository[T]) *AuditRepository[T] {
	return &AuditRepository[T]{SoftDeleteRepository: soft}
}

func actorField(field, actor string) bson.M {
	if actor == "" {
		return nil
	}
	return bson.M{field: actor}
}

func (r *AuditRepository[T]) CreateWithAudit(ctx context.Context, data *T, createdBy string) (*T, error) {
	return r.crud.create(ctx, data, actorField(domain.FieldCreatedBy, createdBy))
}

func (r *AuditRepository[T]) CreateManyWithAudit(ctx context.Context, data []*T, createdBy string) ([]*T, error) {
	return r.crud.createMany(ctx, data, actorField(domain.FieldCreatedBy, createdBy))
}

func (r *AuditRepository[T]) FindByIDAndUpdateWithAudit(ctx context.Context, id string, update domain.Update, updatedBy string) (*T, error) {
	upd, err := withSet(update, actorField(domain.FieldUpdatedBy, updatedBy))
	if err != nil {
		return nil, err
	}
	return r.FindByIDAndUpdate(ctx, id, upd)
}

func (r *AuditRepository[T]) FindOneAndUpdateWithAudit(ctx context.Context, filter domain.Filter, update domain.Update, updatedBy string) (*T, error) {
	upd, err := withSet(update, actorField(domain.FieldUpdatedBy, updatedBy))
	if err != nil {
		return nil, err
	}
	return r.FindOneAndUpdate(ctx, filter, upd)
}

func (r *AuditRepository[T]) UpdateManyWithAudit(ctx context.Context, filter domain.Filter, update domain.Update, updatedBy string) (int64, error) {
	upd, err := withSet(update, actorField(domain.FieldUpdatedBy, updatedBy))
	if err != nil {
		return 0, err
	}
	return r.UpdateMany(ctx, filter, upd)
}
