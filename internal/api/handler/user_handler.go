package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/backend-boilerplate/internal/core/ports"
)

// UserHandler handles HTTP requests for user operations. Domain errors are
// returned as-is and rendered by the central error handler.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// Create handles POST /v1/users.
//
// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        X-Actor-ID  header    string             false  "Acting user, recorded as created_by"
// @Param        body        body      createUserRequest  true   "User"
// @Success      201         {object}  userResponse
// @Failure      400         {object}  errorResponse
// @Failure      409         {object}  errorResponse
// @Failure      422         {object}  errorResponse
// @Router       /v1/users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	u, err := h.service.Create(c.Request().Context(), toCreateInput(req), ctxActor(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toUserResponse(u))
}

// CreateBatch handles POST /v1/users/batch. The batch is inserted in order
// and rejected as a whole when any item is invalid.
//
// @Summary      Create users in bulk
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      []createUserRequest  true  "Users"
// @Success      201   {object}  batchUsersResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/users/batch [post]
func (h *UserHandler) CreateBatch(c echo.Context) error {
	var reqs []createUserRequest
	if err := c.Bind(&reqs); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if len(reqs) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "batch cannot be empty")
	}
	if len(reqs) > maxBatchSize {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("batch cannot exceed %d users", maxBatchSize))
	}

	inputs := make([]ports.CreateUserInput, 0, len(reqs))
	for i, req := range reqs {
		if err := c.Validate(&req); err != nil {
			return echo.NewHTTPError(http.StatusUnprocessableEntity,
				fmt.Sprintf("user[%d]: %s", i, err.Error()))
		}
		inputs = append(inputs, toCreateInput(req))
	}

	users, err := h.service.CreateMany(c.Request().Context(), inputs, ctxActor(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, batchUsersResponse{Data: toUserResponses(users), Count: len(users)})
}

// Get handles GET /v1/users/:id.
//
// @Summary      Get a user by id
// @Tags         users
// @Produce      json
// @Param        id          path      string  true   "User id"
// @Param        visibility  query     string  false  "live (default), all or deleted"
// @Success      200         {object}  userResponse
// @Failure      404         {object}  errorResponse
// @Router       /v1/users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	u, err := h.service.Get(c.Request().Context(), c.Param("id"), ctxVisibility(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(u))
}

// List handles GET /v1/users.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Param        page        query     int     false  "Page (1-based)"
// @Param        limit       query     int     false  "Page size"
// @Param        role        query     string  false  "Exact role"
// @Param        status      query     string  false  "Exact status"
// @Param        q           query     string  false  "Case-insensitive search on email and name"
// @Param        sort        query     string  false  "Comma separated fields, '-' prefix for descending"
// @Param        visibility  query     string  false  "live (default), all or deleted"
// @Success      200         {object}  listUsersResponse
// @Failure      400         {object}  errorResponse
// @Failure      422         {object}  errorResponse
// @Router       /v1/users [get]
func (h *UserHandler) List(c echo.Context) error {
	var q listUsersQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}

	page, err := h.service.List(c.Request().Context(), toListInput(q, ctxVisibility(c)))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListResponse(page))
}

// Update handles PATCH /v1/users/:id.
func (h *UserHandler) Update(c echo.Context) error {
	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	u, err := h.service.Update(c.Request().Context(), c.Param("id"), toUpdateInput(req), ctxActor(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(u))
}

// SetStatus handles PATCH /v1/users/status, a bulk status change over
// live users.
func (h *UserHandler) SetStatus(c echo.Context) error {
	var req bulkStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	n, err := h.service.SetStatusMany(c.Request().Context(), ports.BulkStatusInput{Role: req.Role, Status: req.Status}, ctxActor(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, bulkStatusResponse{Modified: n})
}

// Delete handles DELETE /v1/users/:id (soft delete).
func (h *UserHandler) Delete(c echo.Context) error {
	u, err := h.service.SoftDelete(c.Request().Context(), c.Param("id"), ctxActor(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(u))
}

// Restore handles POST /v1/users/:id/restore.
func (h *UserHandler) Restore(c echo.Context) error {
	u, err := h.service.Restore(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(u))
}

// ForceDelete handles DELETE /v1/users/:id/force. The record is removed
// physically and the response carries it one last time.
func (h *UserHandler) ForceDelete(c echo.Context) error {
	u, err := h.service.ForceDelete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(u))
}

// Stats handles GET /v1/users/stats.
func (h *UserHandler) Stats(c echo.Context) error {
	stats, err := h.service.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toStatsResponse(stats))
}
