package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/99minutos/backend-boilerplate/internal/core/domain"
	"github.com/99minutos/backend-boilerplate/internal/core/ports"
)

// SoftDeleteRepository layers reversible deletion over a base Repository.
// The base is held rather than embedded so none of its unscoped methods
// leak through: every read here states its visibility.
type SoftDeleteRepository[T any] struct {
	crud *Repository[T]
}

var _ ports.SoftDeleteRepository[domain.User] = (*SoftDeleteRepository[domain.User])(nil)

func NewSoftDeleteRepository[T any](base *Repository[T]) *SoftDeleteRepository[T] {
	return &SoftDeleteRepository[T]{crud: base}
}

func (r *SoftDeleteRepository[T]) Create(ctx context.Context, data *T) (*T, error) {
	return r.crud.Create(ctx, data)
}

func (r *SoftDeleteRepository[T]) CreateMany(ctx context.Context, data []*T) ([]*T, error) {
	return r.crud.CreateMany(ctx, data)
}

// ── reads ─────────────────────────────────────────────────────────────────────

func (r *SoftDeleteRepository[T]) findByID(ctx context.Context, v domain.Visibility, id string, opts *domain.QueryOptions) (*T, error) {
	filter, err := idFilter(id)
	if err != nil {
		return nil, err
	}
	return r.crud.FindOne(ctx, v.Scope(filter), opts)
}

func (r *SoftDeleteRepository[T]) FindByID(ctx context.Context, id string, opts *domain.QueryOptions) (*T, error) {
	return r.findByID(ctx, domain.VisibilityLive, id, opts)
}

func (r *SoftDeleteRepository[T]) FindByIDWithDeleted(ctx context.Context, id string, opts *domain.QueryOptions) (*T, error) {
	return r.findByID(ctx, domain.VisibilityAll, id, opts)
}

func (r *SoftDeleteRepository[T]) FindByIDOnlyDeleted(ctx context.Context, id string, opts *domain.QueryOptions) (*T, error) {
	return r.findByID(ctx, domain.VisibilityDeleted, id, opts)
}

func (r *SoftDeleteRepository[T]) FindOne(ctx context.Context, filter domain.Filter, opts *domain.QueryOptions) (*T, error) {
	return r.crud.FindOne(ctx, domain.VisibilityLive.Scope(filter), opts)
}

func (r *SoftDeleteRepository[T]) FindOneWithDeleted(ctx context.Context, filter domain.Filter, opts *domain.QueryOptions) (*T, error) {
	return r.crud.FindOne(ctx, filter, opts)
}

func (r *SoftDeleteRepository[T]) FindOneOnlyDeleted(ctx context.Context, filter domain.Filter, opts *domain.QueryOptions) (*T, error) {
	return r.crud.FindOne(ctx, domain.VisibilityDeleted.Scope(filter), opts)
}

func (r *SoftDeleteRepository[T]) FindAll(ctx context.Context, filter domain.Filter, opts *domain.QueryOptions) ([]*T, error) {
	return r.crud.FindAll(ctx, domain.VisibilityLive.Scope(filter), opts)
}

func (r *SoftDeleteRepository[T]) FindAllWithDeleted(ctx context.Context, filter domain.Filter, opts *domain.QueryOptions) ([]*T, error) {
	return r.crud.FindAll(ctx, filter, opts)
}

func (r *SoftDeleteRepository[T]) FindAllOnlyDeleted(ctx context.Context, filter domain.Filter, opts *domain.QueryOptions) ([]*T, error) {
	return r.crud.FindAll(ctx, domain.VisibilityDeleted.Scope(filter), opts)
}

func (r *SoftDeleteRepository[T]) Count(ctx context.Context, filter domain.Filter) (int64, error) {
	return r.crud.Count(ctx, domain.VisibilityLive.Scope(filter))
}

func (r *SoftDeleteRepository[T]) CountWithDeleted(ctx context.Context, filter domain.Filter) (int64, error) {
	return r.crud.Count(ctx, filter)
}

func (r *SoftDeleteRepository[T]) CountOnlyDeleted(ctx context.Context, filter domain.Filter) (int64, error) {
	return r.crud.Count(ctx, domain.VisibilityDeleted.Scope(filter))
}

func (r *SoftDeleteRepository[T]) Exists(ctx context.Context, filter domain.Filter) (bool, error) {
	return r.crud.Exists(ctx, domain.VisibilityLive.Scope(filter))
}

func (r *SoftDeleteRepository[T]) ExistsWithDeleted(ctx context.Context, filter domain.Filter) (bool, error) {
	return r.crud.Exists(ctx, filter)
}

func (r *SoftDeleteRepository[T]) ExistsOnlyDeleted(ctx context.Context, filter domain.Filter) (bool, error) {
	return r.crud.Exists(ctx, domain.VisibilityDeleted.Scope(filter))
}

func (r *SoftDeleteRepository[T]) FindAllPaginated(ctx context.Context, filter domain.Filter, req domain.PaginationRequest) (*domain.PaginationResult[T], error) {
	return r.crud.FindAllPaginated(ctx, domain.VisibilityLive.Scope(filter), req)
}

func (r *SoftDeleteRepository[T]) FindAllPaginatedWithDeleted(ctx context.Context, filter domain.Filter, req domain.PaginationRequest) (*domain.PaginationResult[T], error) {
	return r.crud.FindAllPaginated(ctx, filter, req)
}

func (r *SoftDeleteRepository[T]) FindAllPaginatedOnlyDeleted(ctx context.Context, filter domain.Filter, req domain.PaginationRequest) (*domain.PaginationResult[T], error) {
	return r.crud.FindAllPaginated(ctx, domain.VisibilityDeleted.Scope(filter), req)
}

// ── live-only updates ─────────────────────────────────────────────────────────

func (r *SoftDeleteRepository[T]) FindByIDAndUpdate(ctx context.Context, id string, update domain.Update) (*T, error) {
	filter, err := idFilter(id)
	if err != nil {
		return nil, err
	}
	return r.crud.FindOneAndUpdate(ctx, domain.VisibilityLive.Scope(filter), update)
}

func (r *SoftDeleteRepository[T]) FindOneAndUpdate(ctx context.Context, filter domain.Filter, update domain.Update) (*T, error) {
	return r.crud.FindOneAndUpdate(ctx, domain.VisibilityLive.Scope(filter), update)
}

func (r *SoftDeleteRepository[T]) UpdateMany(ctx context.Context, filter domain.Filter, update domain.Update) (int64, error) {
	return r.crud.UpdateMany(ctx, domain.VisibilityLive.Scope(filter), update)
}

// ── delete state transitions ──────────────────────────────────────────────────

func (r *SoftDeleteRepository[T]) deletion(deletedBy string) domain.Update {
	set := bson.M{domain.FieldDeletedAt: r.crud.now()}
	if deletedBy != "" {
		set[domain.FieldDeletedBy] = deletedBy
	}
	return domain.Update{"$set": set}
}

func restoration() domain.Update {
	return domain.Update{"$set": bson.M{
		domain.FieldDeletedAt: nil,
		domain.FieldDeletedBy: nil,
	}}
}

// SoftDelete marks a live record deleted and returns it. A record that is
// already deleted keeps its original deletion stamp and nil is returned.
func (r *SoftDeleteRepository[T]) SoftDelete(ctx context.Context, id string, deletedBy string) (*T, error) {
	return r.FindByIDAndUpdate(ctx, id, r.deletion(deletedBy))
}

// SoftDeleteMany marks every live match deleted and returns how many changed.
func (r *SoftDeleteRepository[T]) SoftDeleteMany(ctx context.Context, filter domain.Filter, deletedBy string) (int64, error) {
	return r.UpdateMany(ctx, filter, r.deletion(deletedBy))
}

// Restore clears the deletion marker of the record with id regardless of its
// state and returns it; a live record comes back unchanged apart from
// updated_at.
func (r *SoftDeleteRepository[T]) Restore(ctx context.Context, id string) (*T, error) {
	return r.crud.FindByIDAndUpdate(ctx, id, restoration())
}

// RestoreMany only touches deleted matches, so repeating it reports 0.
func (r *SoftDeleteRepository[T]) RestoreMany(ctx context.Context, filter domain.Filter) (int64, error) {
	return r.crud.UpdateMany(ctx, domain.VisibilityDeleted.Scope(filter), restoration())
}

func (r *SoftDeleteRepository[T]) ForceDelete(ctx context.Context, id string) (*T, error) {
	return r.crud.FindByIDAndDelete(ctx, id)
}

func (r *SoftDeleteRepository[T]) ForceDeleteMany(ctx context.Context, filter domain.Filter) (int64, error) {
	return r.crud.DeleteMany(ctx, filter)
}
