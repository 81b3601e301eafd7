package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/99minutos/backend-boilerplate/internal/core/domain"
	"github.com/99minutos/backend-boilerplate/internal/core/ports"
)

// SoftDeleteService exposes a soft-delete aware repository. Visibility
// rules are the repository's; this type only delegates.
type SoftDeleteService[T any] struct {
	repo   ports.SoftDeleteRepository[T]
	logger zerolog.Logger
}

var _ ports.SoftDeleteRepository[domain.User] = (*SoftDeleteService[domain.User])(nil)

func NewSoftDeleteService[T any](repo ports.SoftDeleteRepository[T], logger zerolog.Logger) *SoftDeleteService[T] {
	return &SoftDeleteService[T]{repo: repo, logger: logger}
}

func (s *SoftDeleteService[T]) Create(ctx context.Context, data *T) (*T, error) {
	rec, err := s.repo.Create(ctx, data)
	return rec, traced(s.logger, "create", err)
}

func (s *SoftDeleteService[T]) CreateMany(ctx context.Context, data []*T) ([]*T, error) {
	recs, err := s.repo.CreateMany(ctx, data)
	return recs, traced(s.logger, "create_many", err)
}

func (s *SoftDeleteService[T]) FindByID(ctx context.Context, id string, opts *domain.QueryOptions) (*T, error) {
	rec, err := s.repo.FindByID(ctx, id, opts)
	return rec, traced(s.logger, "find_by_id", err)
}

func (s *SoftDeleteService[T]) FindByIDWithDeleted(ctx context.Context, id string, opts *domain.QueryOptions) (*T, error) {
	rec, err := s.repo.FindByIDWithDeleted(ctx, id, opts)
	return rec, traced(s.logger, "find_by_id_with_deleted", err)
}

func (s *SoftDeleteService[T]) FindByIDOnlyDeleted(ctx context.Context, id string, opts *domain.QueryOptions) (*T, error) {
	rec, err := s.repo.FindByIDOnlyDeleted(ctx, id, opts)
	return rec, traced(s.logger, "find_by_id_only_deleted", err)
}

func (s *SoftDeleteService[T]) FindOne(ctx context.Context, filter domain.Filter, opts *domain.QueryOptions) (*T, error) {
	rec, err := s.repo.FindOne(ctx, filter, opts)
	return rec, traced(s.logger, "find_one", err)
}

func (s *SoftDeleteService[T]) FindOneWithDeleted(ctx context.Context, filter domain.Filter, opts *domain.QueryOptions) (*T, error) {
	rec, err := s.repo.FindOneWithDeleted(ctx, filter, opts)
	return rec, traced(s.logger, "find_one_with_deleted", err)
}

func (s *SoftDeleteService[T]) FindOneOnlyDeleted(ctx context.Context, filter domain.Filter, opts *domain.QueryOptions) (*T, error) {
	rec, err := s.repo.FindOneOnlyDeleted(ctx, filter, opts)
	return rec, traced(s.logger, "find_one_only_deleted", err)
}

func (s *SoftDeleteService[T]) FindAll(ctx context.Context, filter domain.Filter, opts *domain.QueryOptions) ([]*T, error) {
	recs, err := s.repo.FindAll(ctx, filter, opts)
	return recs, traced(s.logger, "find_all", err)
}

func (s *SoftDeleteService[T]) FindAllWithDeleted(ctx context.Context, filter domain.Filter, opts *domain.QueryOptions) ([]*T, error) {
	recs, err := s.repo.FindAllWithDeleted(ctx, filter, opts)
	return recs, traced(s.logger, "find_all_with_deleted", err)
}

func (s *SoftDeleteService[T]) FindAllOnlyDeleted(ctx context.Context, filter domain.Filter, opts *domain.QueryOptions) ([]*T, error) {
	recs, err := s.repo.FindAllOnlyDeleted(ctx, filter, opts)
	return recs, traced(s.logger, "find_all_only_deleted", err)
}

func (s *SoftDeleteService[T]) Count(ctx context.Context, filter domain.Filter) (int64, error) {
	n, err := s.repo.Count(ctx, filter)
	return n, traced(s.logger, "count", err)
}

func (s *SoftDeleteService[T]) CountWithDeleted(ctx context.Context, filter domain.Filter) (int64, error) {
	n, err := s.repo.CountWithDeleted(ctx, filter)
	return n, traced(s.logger, "count_with_deleted", err)
}

func (s *SoftDeleteService[T]) CountOnlyDeleted(ctx context.Context, filter domain.Filter) (int64, error) {
	n, err := s.repo.CountOnlyDeleted(ctx, filter)
	return n, traced(s.logger, "count_only_deleted", err)
}

func (s *SoftDeleteService[T]) Exists(ctx context.Context, filter domain.Filter) (bool, error) {
	ok, err := s.repo.Exists(ctx, filter)
	return ok, traced(s.logger, "exists", err)
}

func (s *SoftDeleteService[T]) ExistsWithDeleted(ctx context.Context, filter domain.Filter) (bool, error) {
	ok, err := s.repo.ExistsWithDeleted(ctx, filter)
	return ok, traced(s.logger, "exists_with_deleted", err)
}

func (s *SoftDeleteService[T]) ExistsOnlyDeleted(ctx context.Context, filter domain.Filter) (bool, error) {
	ok, err := s.repo.ExistsOnlyDeleted(ctx, filter)
	return ok, traced(s.logger, "exists_only_deleted", err)
}

func (s *SoftDeleteService[T]) FindAllPaginated(ctx context.Context, filter domain.Filter, req domain.PaginationRequest) (*domain.PaginationResult[T], error) {
	page, err := s.repo.FindAllPaginated(ctx, filter, req)
	return page, traced(s.logger, "find_all_paginated", err)
}

func (s *SoftDeleteService[T]) FindAllPaginatedWithDeleted(ctx context.Context, filter domain.Filter, req domain.PaginationRequest) (*domain.PaginationResult[T], error) {
	page, err := s.repo.FindAllPaginatedWithDeleted(ctx, filter, req)
	return page, traced(s.logger, "find_all_paginated_with_deleted", err)
}

func (s *SoftDeleteService[T]) FindAllPaginatedOnlyDeleted(ctx context.Context, filter domain.Filter, req domain.PaginationRequest) (*domain.PaginationResult[T], error) {
	page, err := s.repo.FindAllPaginatedOnlyDeleted(ctx, filter, req)
	return page, traced(s.logger, "find_all_paginated_only_deleted", err)
}

func (s *SoftDeleteService[T]) FindByIDAndUpdate(ctx context.Context, id string, update domain.Update) (*T, error) {
	rec, err := s.repo.FindByIDAndUpdate(ctx, id, update)
	return rec, traced(s.logger, "find_by_id_and_update", err)
}

func (s *SoftDeleteService[T]) FindOneAndUpdate(ctx context.Context, filter domain.Filter, update domain.Update) (*T, error) {
	rec, err := s.repo.FindOneAndUpdate(ctx, filter, update)
	return rec, traced(s.logger, "find_one_and_update", err)
}

func (s *SoftDeleteService[T]) UpdateMany(ctx context.Context, filter domain.Filter, update domain.Update) (int64, error) {
	n, err := s.repo.UpdateMany(ctx, filter, update)
	return n, traced(s.logger, "update_many", err)
}

func (s *SoftDeleteService[T]) SoftDelete(ctx context.Context, id string, deletedBy string) (*T, error) {
	rec, err := s.repo.SoftDelete(ctx, id, deletedBy)
	return rec, traced(s.logger, "soft_delete", err)
}

func (s *SoftDeleteService[T]) SoftDeleteMany(ctx context.Context, filter domain.Filter, deletedBy string) (int64, error) {
	n, err := s.repo.SoftDeleteMany(ctx, filter, deletedBy)
	return n, traced(s.logger, "soft_delete_many", err)
}

func (s *SoftDeleteService[T]) Restore(ctx context.Context, id string) (*T, error) {
	rec, err := s.repo.Restore(ctx, id)
	return rec, traced(s.logger, "restore", err)
}

func (s *SoftDeleteService[T]) RestoreMany(ctx context.Context, filter domain.Filter) (int64, error) {
	n, err := s.repo.RestoreMany(ctx, filter)
	return n, traced(s.logger, "restore_many", err)
}

func (s *SoftDeleteService[T]) ForceDelete(ctx context.Context, id string) (*T, error) {
	rec, err := s.repo.ForceDelete(ctx, id)
	return rec, traced(s.logger, "force_delete", err)
}

func (s *SoftDeleteService[T]) ForceDeleteMany(ctx context.Context, filter domain.Filter) (int64, error) {
	n, err := s.repo.ForceDeleteMany(ctx, filter)
	return n, traced(s.logger, "force_delete_many", err)
}
