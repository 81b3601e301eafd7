package handler

import (
	"strings"

	"github.com/99minutos/backend-boilerplate/internal/core/domain"
	"github.com/99minutos/backend-boilerplate/internal/core/ports"
)

// --- Request → Service input ---

func toCreateInput(req createUserRequest) ports.CreateUserInput {
	return ports.CreateUserInput{
		Email:  req.Email,
		Name:   req.Name,
		Role:   req.Role,
		Status: req.Status,
	}
}

func toUpdateInput(req updateUserRequest) ports.UpdateUserInput {
	return ports.UpdateUserInput{
		Email:  req.Email,
		Name:   req.Name,
		Role:   req.Role,
		Status: req.Status,
	}
}

func toListInput(q listUsersQuery, visibility domain.Visibility) ports.ListUsersInput {
	return ports.ListUsersInput{
		Role:       q.Role,
		Status:     q.Status,
		Search:     q.Search,
		Visibility: visibility,
		Page:       q.Page,
		Limit:      q.Limit,
		Sort:       parseSort(q.Sort),
	}
}

// parseSort turns "-created_at,email" into sort fields. Empty items are skipped.
func parseSort(raw string) []domain.SortField {
	var fields []domain.SortField
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" || part == "-" {
			continue
		}
		if name, ok := strings.CutPrefix(part, "-"); ok {
			fields = append(fields, domain.SortField{Field: name, Desc: true})
			continue
		}
		fields = append(fields, domain.SortField{Field: part})
	}
	return fields
}

// --- Service result → HTTP response ---

func toUserResponse(u *domain.User) userResponse {
	resp := userResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt.UTC(),
		UpdatedAt: u.UpdatedAt.UTC(),
		CreatedBy: u.CreatedBy,
		UpdatedBy: u.UpdatedBy,
		DeletedBy: u.DeletedBy,
	}
	if u.DeletedAt != nil {
		at := u.DeletedAt.UTC()
		resp.DeletedAt = &at
	}
	return resp
}

func toUserResponses(users []*domain.User) []userResponse {
	out := make([]userResponse, len(users))
	for i, u := range users {
		out[i] = toUserResponse(u)
	}
	return out
}

func toListResponse(r *domain.PaginationResult[domain.User]) listUsersResponse {
	return listUsersResponse{
		Data: toUserResponses(r.Data),
		Pagination: paginationResponse{
			Total:       r.Meta.Total,
			Page:        r.Meta.Page,
			Limit:       r.Meta.Limit,
			TotalPages:  r.Meta.TotalPages,
			HasNextPage: r.Meta.HasNextPage,
			HasPrevPage: r.Meta.HasPrevPage,
		},
	}
}

func toStatsResponse(s *domain.UserStats) statsResponse {
	return statsResponse{
		Total:   s.Total,
		Live:    s.Live,
		Deleted: s.Deleted,
		ByRole:  s.ByRole,
	}
}
