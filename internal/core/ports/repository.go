package ports

import (
	"context"

	"github.com/99minutos/backend-boilerplate/internal/core/domain"
)

// CRUDRepository is the base data-access contract over one collection.
// Absence is reported as a nil record or an empty slice, never as an error.
type CRUDRepository[T any] interface {
	Create(ctx context.Context, data *T) (*T, error)
	CreateMany(ctx context.Context, data []*T) ([]*T, error)

	FindByID(ctx context.Context, id string, opts *domain.QueryOptions) (*T, error)
	FindOne(ctx context.Context, filter domain.Filter, opts *domain.QueryOptions) (*T, error)
	FindAll(ctx context.Context, filter domain.Filter, opts *domain.QueryOptions) ([]*T, error)

	// FindByIDAndUpdate and FindOneAndUpdate return the post-update record.
	FindByIDAndUpdate(ctx context.Context, id string, update domain.Update) (*T, error)
	FindOneAndUpdate(ctx context.Context, filter domain.Filter, update domain.Update) (*T, error)
	// UpdateMany returns the number of records actually modified.
	UpdateMany(ctx context.Context, filter domain.Filter, update domain.Update) (int64, error)

	FindByIDAndDelete(ctx context.Context, id string) (*T, error)
	FindOneAndDelete(ctx context.Context, filter domain.Filter) (*T, error)
	DeleteMany(ctx context.Context, filter domain.Filter) (int64, error)

	Count(ctx context.Context, filter domain.Filter) (int64, error)
	Exists(ctx context.Context, filter domain.Filter) (bool, error)

	FindAllPaginated(ctx context.Context, filter domain.Filter, req domain.PaginationRequest) (*domain.PaginationResult[T], error)
}

// SoftDeleteRepository treats delete as a reversible state change. Unsuffixed
// reads, counts and updates only see live records; the WithDeleted and
// OnlyDeleted families widen or invert that explicitly.
type SoftDeleteRepository[T any] interface {
	Create(ctx context.Context, data *T) (*T, error)
	CreateMany(ctx context.Context, data []*T) ([]*T, error)

	FindByID(ctx context.Context, id string, opts *domain.QueryOptions) (*T, error)
	FindByIDWithDeleted(ctx context.Context, id string, opts *domain.QueryOptions) (*T, error)
	FindByIDOnlyDeleted(ctx context.Context, id string, opts *domain.QueryOptions) (*T, error)

	FindOne(ctx context.Context, filter domain.Filter, opts *domain.QueryOptions) (*T, error)
	FindOneWithDeleted(ctx context.Context, filter domain.Filter, opts *domain.QueryOptions) (*T, error)
	FindOneOnlyDeleted(ctx context.Context, filter domain.Filter, opts *domain.QueryOptions) (*T, error)

	FindAll(ctx context.Context, filter domain.Filter, opts *domain.QueryOptions) ([]*T, error)
	FindAllWithDeleted(ctx context.Context, filter domain.Filter, opts *domain.QueryOptions) ([]*T, error)
	FindAllOnlyDeleted(ctx context.Context, filter domain.Filter, opts *domain.QueryOptions) ([]*T, error)

	Count(ctx context.Context, filter domain.Filter) (int64, error)
	CountWithDeleted(ctx context.Context, filter domain.Filter) (int64, error)
	CountOnlyDeleted(ctx context.Context, filter domain.Filter) (int64, error)

	Exists(ctx context.Context, filter domain.Filter) (bool, error)
	ExistsWithDeleted(ctx context.Context, filter domain.Filter) (bool, error)
	ExistsOnlyDeleted(ctx context.Context, filter domain.Filter) (bool, error)

	FindAllPaginated(ctx context.Context, filter domain.Filter, req domain.PaginationRequest) (*domain.PaginationResult[T], error)
	FindAllPaginatedWithDeleted(ctx context.Context, filter domain.Filter, req domain.PaginationRequest) (*domain.PaginationResult[T], error)
	FindAllPaginatedOnlyDeleted(ctx context.Context, filter domain.Filter, req domain.PaginationRequest) (*domain.PaginationResult[T], error)

	FindByIDAndUpdate(ctx context.Context, id string, update domain.Update) (*T, error)
	FindOneAndUpdate(ctx context.Context, filter domain.Filter, update domain.Update) (*T, error)
	UpdateMany(ctx context.Context, filter domain.Filter, update domain.Update) (int64, error)

	// SoftDelete stamps a live record; it returns nil when no live record has id.
	SoftDelete(ctx context.Context, id string, deletedBy string) (*T, error)
	SoftDeleteMany(ctx context.Context, filter domain.Filter, deletedBy string) (int64, error)
	Restore(ctx context.Context, id string) (*T, error)
	RestoreMany(ctx context.Context, filter domain.Filter) (int64, error)
	// ForceDelete and ForceDeleteMany remove records physically in any state.
	ForceDelete(ctx context.Context, id string) (*T, error)
	ForceDeleteMany(ctx context.Context, filter domain.Filter) (int64, error)
}

// AuditRepository attributes mutations to an actor. An empty actor leaves
// the attribution field unset.
type AuditRepository[T any] interface {
	SoftDeleteRepository[T]

	CreateWithAudit(ctx context.Context, data *T, createdBy string) (*T, error)
	CreateManyWithAudit(ctx context.Context, data []*T, createdBy string) ([]*T, error)
	FindByIDAndUpdateWithAudit(ctx context.Context, id string, update domain.Update, updatedBy string) (*T, error)
	FindOneAndUpdateWithAudit(ctx context.Context, filter domain.Filter, update domain.Update, updatedBy string) (*T, error)
	UpdateManyWithAudit(ctx context.Context, filter domain.Filter, update domain.Update, updatedBy string) (int64, error)
}
