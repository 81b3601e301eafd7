package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/99minutos/backend-boilerplate/internal/api/metrics"
	"github.com/99minutos/backend-boilerplate/internal/core/domain"
	"github.com/99minutos/backend-boilerplate/internal/core/ports"
)

// StatsCache abstracts the short-lived user stats store (Redis).
type StatsCache interface {
	// Get reports a miss as (nil, false, nil).
	Get(ctx context.Context) (*domain.UserStats, bool, error)
	// Version changes on every Invalidate.
	Version(ctx context.Context) (int64, error)
	// Set stores stats computed under version. It is a no-op once an
	// Invalidate has moved the version on.
	Set(ctx context.Context, stats *domain.UserStats, version int64) error
	Invalidate(ctx context.Context) error
}

// Pagination bounds applied to user listings.
type Pagination struct {
	DefaultLimit int
	MaxLimit     int
}

// sortable lists the fields a listing may be ordered by.
var sortable = map[string]bool{
	ports.UserFieldEmail:   true,
	ports.UserFieldName:    true,
	ports.UserFieldRole:    true,
	ports.UserFieldStatus:  true,
	domain.FieldCreatedAt: true,
	domain.FieldUpdatedAt: true,
}

type UserService struct {
	users      *AuditService[domain.User]
	cache      StatsCache
	pagination Pagination
	logger     zerolog.Logger
}

var _ ports.UserService = (*UserService)(nil)

// NewUserService wires the user use cases. cache may be nil, in which case
// stats are computed on every call.
func NewUserService(repo ports.UserRepository, cache StatsCache, pagination Pagination, logger zerolog.Logger) *UserService {
	if pagination.DefaultLimit <= 0 {
		pagination.DefaultLimit = 20
	}
	if pagination.MaxLimit <= 0 {
		pagination.MaxLimit = 100
	}
	return &UserService{
		users:      NewAuditService[domain.User](repo, logger),
		cache:      cache,
		pagination: pagination,
		logger:     logger,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *UserService) newUser(input ports.CreateUserInput) (*domain.User, error) {
	u := &domain.User{
		Email:  normalizeEmail(input.Email),
		Name:   strings.TrimSpace(input.Name),
		Role:   input.Role,
		Status: input.Status,
	}
	if u.Role == "" {
		u.Role = domain.RoleMember
	}
	if u.Status == "" {
		u.Status = domain.UserStatusActive
	}
	if u.Email == "" {
		return nil, domain.NewValidationError(ports.UserFieldEmail, "is required", nil)
	}
	if !domain.ValidRole(u.Role) {
		return nil, domain.NewValidationError(ports.UserFieldRole, fmt.Sprintf("unknown role %q", u.Role), nil)
	}
	if !domain.ValidUserStatus(u.Status) {
		return nil, domain.NewValidationError(ports.UserFieldStatus, fmt.Sprintf("unknown status %q", u.Status), nil)
	}
	return u, nil
}

// Create registers a new user. Emails are unique across live and
// soft-deleted users so a later restore cannot collide.
func (s *UserService) Create(ctx context.Context, input ports.CreateUserInput, actor string) (*domain.User, error) {
	u, err := s.newUser(input)
	if err != nil {
		return nil, err
	}

	taken, err := s.users.ExistsWithDeleted(ctx, domain.Filter{ports.UserFieldEmail: u.Email})
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	if taken {
		return nil, domain.ErrUserExists
	}

	created, err := s.users.CreateWithAudit(ctx, u, actor)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateKey) {
			return nil, domain.ErrUserExists
		}
		s.logger.Error().Err(err).Msg("failed to create user")
		return nil, err
	}

	metrics.UsersCreatedTotal.WithLabelValues(created.Role).Inc()
	s.invalidateStats(ctx)
	s.logger.Info().Str("user_id", created.ID).Str("role", created.Role).Str("actor", actor).Msg("user created")
	return created, nil
}

// CreateMany registers a batch of users in order. The batch is rejected
// up front when any email repeats or is already taken.
func (s *UserService) CreateMany(ctx context.Context, inputs []ports.CreateUserInput, actor string) ([]*domain.User, error) {
	if len(inputs) == 0 {
		return []*domain.User{}, nil
	}

	users := make([]*domain.User, 0, len(inputs))
	emails := make([]string, 0, len(inputs))
	seen := make(map[string]bool, len(inputs))
	for _, in := range inputs {
		u, err := s.newUser(in)
		if err != nil {
			return nil, err
		}
		if seen[u.Email] {
			return nil, fmt.Errorf("%w: %s appears twice in the batch", domain.ErrUserExists, u.Email)
		}
		seen[u.Email] = true
		users = append(users, u)
		emails = append(emails, u.Email)
	}

	taken, err := s.users.ExistsWithDeleted(ctx, domain.Filter{ports.UserFieldEmail: domain.Filter{"$in": emails}})
	if err != nil {
		return nil, fmt.Errorf("create users: %w", err)
	}
	if taken {
		return nil, domain.ErrUserExists
	}

	created, err := s.users.CreateManyWithAudit(ctx, users, actor)
	if err != nil {
		s.invalidateStats(ctx)
		if errors.Is(err, domain.ErrDuplicateKey) {
			return nil, domain.ErrUserExists
		}
		s.logger.Error().Err(err).Int("batch", len(users)).Msg("failed to create users")
		return nil, err
	}

	for _, u := range created {
		metrics.UsersCreatedTotal.WithLabelValues(u.Role).Inc()
	}
	s.invalidateStats(ctx)
	s.logger.Info().Int("count", len(created)).Str("actor", actor).Msg("users created")
	return created, nil
}

// Get returns the user with id under the given visibility.
func (s *UserService) Get(ctx context.Context, id string, visibility domain.Visibility) (*domain.User, error) {
	var (
		u   *domain.User
		err error
	)
	switch visibility {
	case domain.VisibilityAll:
		u, err = s.users.FindByIDWithDeleted(ctx, id, nil)
	case domain.VisibilityDeleted:
		u, err = s.users.FindByIDOnlyDeleted(ctx, id, nil)
	default:
		u, err = s.users.FindByID(ctx, id, nil)
	}
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

// List returns one page of users. Page and limit are clamped here, the
// repositories take the request as given.
func (s *UserService) List(ctx context.Context, input ports.ListUsersInput) (*domain.PaginationResult[domain.User], error) {
	for _, f := range input.Sort {
		if !sortable[f.Field] {
			return nil, domain.NewValidationError("sort", fmt.Sprintf("cannot sort by %q", f.Field), nil)
		}
	}
	req := domain.PaginationRequest{Page: input.Page, Limit: input.Limit, Sort: input.Sort}.
		Normalize(s.pagination.DefaultLimit, s.pagination.MaxLimit)

	filter := domain.Filter{}
	if input.Role != "" {
		filter[ports.UserFieldRole] = input.Role
	}
	if input.Status != "" {
		filter[ports.UserFieldStatus] = input.Status
	}
	if q := strings.TrimSpace(input.Search); q != "" {
		pattern := domain.Filter{"$regex": regexp.QuoteMeta(q), "$options": "i"}
		filter["$or"] = []any{
			domain.Filter{ports.UserFieldEmail: pattern},
			domain.Filter{ports.UserFieldName: pattern},
		}
	}

	switch input.Visibility {
	case domain.VisibilityAll:
		return s.users.FindAllPaginatedWithDeleted(ctx, filter, req)
	case domain.VisibilityDeleted:
		return s.users.FindAllPaginatedOnlyDeleted(ctx, filter, req)
	default:
		return s.users.FindAllPaginated(ctx, filter, req)
	}
}

// Update applies the non-nil fields of input to a live user.
func (s *UserService) Update(ctx context.Context, id string, input ports.UpdateUserInput, actor string) (*domain.User, error) {
	set := domain.Update{}
	if input.Name != nil {
		set[ports.UserFieldName] = strings.TrimSpace(*input.Name)
	}
	if input.Role != nil {
		if !domain.ValidRole(*input.Role) {
			return nil, domain.NewValidationError(ports.UserFieldRole, fmt.Sprintf("unknown role %q", *input.Role), nil)
		}
		set[ports.UserFieldRole] = *input.Role
	}
	if input.Status != nil {
		if !domain.ValidUserStatus(*input.Status) {
			return nil, domain.NewValidationError(ports.UserFieldStatus, fmt.Sprintf("unknown status %q", *input.Status), nil)
		}
		set[ports.UserFieldStatus] = *input.Status
	}
	if input.Email != nil {
		email := normalizeEmail(*input.Email)
		if email == "" {
			return nil, domain.NewValidationError(ports.UserFieldEmail, "must not be empty", nil)
		}
		owner, err := s.users.FindOneWithDeleted(ctx, domain.Filter{ports.UserFieldEmail: email}, &domain.QueryOptions{
			Projection: domain.Projection{domain.FieldID: 1},
		})
		if err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}
		if owner != nil && !strings.EqualFold(owner.ID, id) {
			return nil, domain.ErrUserExists
		}
		set[ports.UserFieldEmail] = email
	}
	if len(set) == 0 {
		return nil, domain.NewValidationError("", "no fields to update", nil)
	}

	updated, err := s.users.FindByIDAndUpdateWithAudit(ctx, id, set, actor)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateKey) {
			return nil, domain.ErrUserExists
		}
		return nil, err
	}
	if updated == nil {
		return nil, domain.ErrUserNotFound
	}

	if input.Role != nil {
		s.invalidateStats(ctx)
	}
	s.logger.Info().Str("user_id", id).Str("actor", actor).Msg("user updated")
	return updated, nil
}

// SetStatusMany moves every live user (optionally of one role) to a new
// status and returns how many actually changed.
func (s *UserService) SetStatusMany(ctx context.Context, input ports.BulkStatusInput, actor string) (int64, error) {
	if !domain.ValidUserStatus(input.Status) {
		return 0, domain.NewValidationError(ports.UserFieldStatus, fmt.Sprintf("unknown status %q", input.Status), nil)
	}
	filter := domain.Filter{ports.UserFieldStatus: domain.Filter{"$ne": input.Status}}
	if input.Role != "" {
		filter[ports.UserFieldRole] = input.Role
	}

	n, err := s.users.UpdateManyWithAudit(ctx, filter, domain.Update{ports.UserFieldStatus: input.Status}, actor)
	if err != nil {
		return 0, err
	}
	s.logger.Info().Int64("modified", n).Str("status", input.Status).Str("role", input.Role).Str("actor", actor).Msg("user status changed in bulk")
	return n, nil
}

func (s *UserService) SoftDelete(ctx context.Context, id string, actor string) (*domain.User, error) {
	u, err := s.users.SoftDelete(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	metrics.UsersDeletedTotal.WithLabelValues("soft").Inc()
	s.invalidateStats(ctx)
	s.logger.Info().Str("user_id", id).Str("actor", actor).Msg("user soft-deleted")
	return u, nil
}

func (s *UserService) Restore(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.users.Restore(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	metrics.UsersRestoredTotal.Inc()
	s.invalidateStats(ctx)
	s.logger.Info().Str("user_id", id).Msg("user restored")
	return u, nil
}

func (s *UserService) ForceDelete(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.users.ForceDelete(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	metrics.UsersDeletedTotal.WithLabelValues("force").Inc()
	s.invalidateStats(ctx)
	s.logger.Info().Str("user_id", id).Msg("user force-deleted")
	return u, nil
}

// Stats returns user counts, served from the cache while it is fresh.
// Cache failures are logged and never fail the call. The cache version is
// read before counting so a mutation landing mid-computation keeps the
// snapshot out of the cache.
func (s *UserService) Stats(ctx context.Context) (*domain.UserStats, error) {
	useCache := s.cache != nil
	var version int64
	if useCache {
		v, err := s.cache.Version(ctx)
		if err != nil {
			s.logger.Warn().Err(err).Msg("stats cache unavailable, computing")
			useCache = false
		}
		version = v
	}

	if useCache {
		cached, ok, err := s.cache.Get(ctx)
		switch {
		case err != nil:
			s.logger.Warn().Err(err).Msg("stats cache read failed, computing")
		case ok:
			metrics.StatsCacheTotal.WithLabelValues("hit").Inc()
			return cached, nil
		default:
			metrics.StatsCacheTotal.WithLabelValues("miss").Inc()
		}
	}

	stats, err := s.computeStats(ctx)
	if err != nil {
		return nil, err
	}

	if useCache {
		if err := s.cache.Set(ctx, stats, version); err != nil {
			s.logger.Warn().Err(err).Msg("failed to cache user stats")
		}
	}
	return stats, nil
}

func (s *UserService) computeStats(ctx context.Context) (*domain.UserStats, error) {
	stats := &domain.UserStats{ByRole: make(map[string]int64, len(domain.Roles))}
	byRole := make([]int64, len(domain.Roles))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats.Total, err = s.users.CountWithDeleted(gctx, nil)
		return err
	})
	g.Go(func() error {
		var err error
		stats.Live, err = s.users.Count(gctx, nil)
		return err
	})
	g.Go(func() error {
		var err error
		stats.Deleted, err = s.users.CountOnlyDeleted(gctx, nil)
		return err
	})
	for i, role := range domain.Roles {
		g.Go(func() error {
			var err error
			byRole[i], err = s.users.Count(gctx, domain.Filter{ports.UserFieldRole: role})
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("user stats: %w", err)
	}

	for i, role := range domain.Roles {
		stats.ByRole[role] = byRole[i]
	}
	return stats, nil
}

func (s *UserService) invalidateStats(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate user stats cache")
	}
}
