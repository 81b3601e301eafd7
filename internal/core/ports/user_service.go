package ports

import (
	"context"

	"github.com/99minutos/backend-boilerplate/internal/core/domain"
)

// CreateUserInput carries the fields a caller may set on a new user.
type CreateUserInput struct {
	Email  string
	Name   string
	Role   string
	Status string
}

// UpdateUserInput carries optional field changes; nil fields are untouched.
type UpdateUserInput struct {
	Email  *string
	Name   *string
	Role   *string
	Status *string
}

// ListUsersInput carries all parameters for listing users.
type ListUsersInput struct {
	Role       string            // optional: exact role
	Status     string            // optional: exact status
	Search     string            // optional: case-insensitive match on email or name
	Visibility domain.Visibility // which soft-delete states to include
	Page       int               // 1-based
	Limit      int               // capped by the service
	Sort       []domain.SortField
}

// BulkStatusInput selects users whose status is changed in bulk.
type BulkStatusInput struct {
	Role   string // optional: restrict to a role
	Status string // new status
}

// UserService defines use-case operations for users.
type UserService interface {
	Create(ctx context.Context, input CreateUserInput, actor string) (*domain.User, error)
	CreateMany(ctx context.Context, inputs []CreateUserInput, actor string) ([]*domain.User, error)
	Get(ctx context.Context, id string, visibility domain.Visibility) (*domain.User, error)
	List(ctx context.Context, input ListUsersInput) (*domain.PaginationResult[domain.User], error)
	Update(ctx context.Context, id string, input UpdateUserInput, actor string) (*domain.User, error)
	SetStatusMany(ctx context.Context, input BulkStatusInput, actor string) (int64, error)
	SoftDelete(ctx context.Context, id string, actor string) (*domain.User, error)
	Restore(ctx context.Context, id string) (*domain.User, error)
	ForceDelete(ctx context.Context, id string) (*domain.User, error)
	Stats(ctx context.Context) (*domain.UserStats, error)
}
