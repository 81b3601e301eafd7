package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/99minutos/backend-boilerplate/internal/core/domain"
	"github.com/99minutos/backend-boilerplate/internal/core/ports"
)

// CRUDService exposes a base repository to application code. It satisfies
// the same contract as the repository it wraps.
type CRUDService[T any] struct {
	repo   ports.CRUDRepository[T]
	logger zerolog.Logger
}

var _ ports.CRUDRepository[domain.User] = (*CRUDService[domain.User])(nil)

func NewCRUDService[T any](repo ports.CRUDRepository[T], logger zerolog.Logger) *CRUDService[T] {
	return &CRUDService[T]{repo: repo, logger: logger}
}

// traced logs a failed delegation at debug level and hands err back.
func traced(logger zerolog.Logger, op string, err error) error {
	if err != nil {
		logger.Debug().Err(err).Str("op", op).Msg("repository call failed")
	}
	return err
}

func (s *CRUDService[T]) Create(ctx context.Context, data *T) (*T, error) {
	rec, err := s.repo.Create(ctx, data)
	return rec, traced(s.logger, "create", err)
}

func (s *CRUDService[T]) CreateMany(ctx context.Context, data []*T) ([]*T, error) {
	recs, err := s.repo.CreateMany(ctx, data)
	return recs, traced(s.logger, "create_many", err)
}

func (s *CRUDService[T]) FindByID(ctx context.Context, id string, opts *domain.QueryOptions) (*T, error) {
	rec, err := s.repo.FindByID(ctx, id, opts)
	return rec, traced(s.logger, "find_by_id", err)
}

func (s *CRUDService[T]) FindOne(ctx context.Context, filter domain.Filter, opts *domain.QueryOptions) (*T, error) {
	rec, err := s.repo.FindOne(ctx, filter, opts)
	return rec, traced(s.logger, "find_one", err)
}

func (s *CRUDService[T]) FindAll(ctx context.Context, filter domain.Filter, opts *domain.QueryOptions) ([]*T, error) {
	recs, err := s.repo.FindAll(ctx, filter, opts)
	return recs, traced(s.logger, "find_all", err)
}

func (s *CRUDService[T]) FindByIDAndUpdate(ctx context.Context, id string, update domain.Update) (*T, error) {
	rec, err := s.repo.FindByIDAndUpdate(ctx, id, update)
	return rec, traced(s.logger, "find_by_id_and_update", err)
}

func (s *CRUDService[T]) FindOneAndUpdate(ctx context.Context, filter domain.Filter, update domain.Update) (*T, error) {
	rec, err := s.repo.FindOneAndUpdate(ctx, filter, update)
	return rec, traced(s.logger, "find_one_and_update", err)
}

func (s *CRUDService[T]) UpdateMany(ctx context.Context, filter domain.Filter, update domain.Update) (int64, error) {
	n, err := s.repo.UpdateMany(ctx, filter, update)
	return n, traced(s.logger, "update_many", err)
}

func (s *CRUDService[T]) FindByIDAndDelete(ctx context.Context, id string) (*T, error) {
	rec, err := s.repo.FindByIDAndDelete(ctx, id)
	return rec, traced(s.logger, "find_by_id_and_delete", err)
}

func (s *CRUDService[T]) FindOneAndDelete(ctx context.Context, filter domain.Filter) (*T, error) {
	rec, err := s.repo.FindOneAndDelete(ctx, filter)
	return rec, traced(s.logger, "find_one_and_delete", err)
}

func (s *CRUDService[T]) DeleteMany(ctx context.Context, filter domain.Filter) (int64, error) {
	n, err := s.repo.DeleteMany(ctx, filter)
	return n, traced(s.logger, "delete_many", err)
}

func (s *CRUDService[T]) Count(ctx context.Context, filter domain.Filter) (int64, error) {
	n, err := s.repo.Count(ctx, filter)
	return n, traced(s.logger, "count", err)
}

func (s *CRUDService[T]) Exists(ctx context.Context, filter domain.Filter) (bool, error) {
	ok, err := s.repo.Exists(ctx, filter)
	return ok, traced(s.logger, "exists", err)
}

func (s *CRUDService[T]) FindAllPaginated(ctx context.Context, filter domain.Filter, req domain.PaginationRequest) (*domain.PaginationResult[T], error) {
	page, err := s.repo.FindAllPaginated(ctx, filter, req)
	return page, traced(s.logger, "find_all_paginated", err)
}
