package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// maxBatchSize bounds POST /v1/users/batch.
const maxBatchSize = 100

// --- Request types ---

type createUserRequest struct {
	Email  string `json:"email"  validate:"required,email"`
	Name   string `json:"name"   validate:"max=200"`
	Role   string `json:"role"   validate:"omitempty,oneof=admin member"`
	Status string `json:"status" validate:"omitempty,oneof=active inactive"`
}

// updateUserRequest is a partial update: absent fields are left untouched.
type updateUserRequest struct {
	Email  *string `json:"email"  validate:"omitempty,email"`
	Name   *string `json:"name"   validate:"omitempty,max=200"`
	Role   *string `json:"role"   validate:"omitempty,oneof=admin member"`
	Status *string `json:"status" validate:"omitempty,oneof=active inactive"`
}

type bulkStatusRequest struct {
	Role   string `json:"role"   validate:"omitempty,oneof=admin member"`
	Status string `json:"status" validate:"required,oneof=active inactive"`
}

// listUsersQuery is bound from the query string of GET /v1/users.
// Sort is a comma separated field list; a leading "-" means descending.
type listUsersQuery struct {
	Page   int    `query:"page"`
	Limit  int    `query:"limit"`
	Role   string `query:"role"`
	Status string `query:"status"`
	Search string `query:"q"`
	Sort   string `query:"sort"`
}

// --- Response types ---

type userResponse struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	Role      string     `json:"role"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	CreatedBy string     `json:"created_by,omitempty"`
	UpdatedBy string     `json:"updated_by,omitempty"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
	DeletedBy *string    `json:"deleted_by,omitempty"`
}

type paginationResponse struct {
	Total       int64 `json:"total"`
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	TotalPages  int   `json:"total_pages"`
	HasNextPage bool  `json:"has_next_page"`
	HasPrevPage bool  `json:"has_prev_page"`
}

type listUsersResponse struct {
	Data       []userResponse     `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

type batchUsersResponse struct {
	Data  []userResponse `json:"data"`
	Count int            `json:"count"`
}

type bulkStatusResponse struct {
	Modified int64 `json:"modified"`
}

type statsResponse struct {
	Total   int64            `json:"total"`
	Live    int64            `json:"live"`
	Deleted int64            `json:"deleted"`
	ByRole  map[string]int64 `json:"by_role"`
}
