package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/akozlov/accounts/api/http/presenter"
	"github.com/akozlov/accounts/pkg/account"
)

type UserHandler struct {
	uc  account.UseCase
	log *slog.Logger
}

func NewUserHandler(uc account.UseCase, log *slog.Logger) *UserHandler {
	return &UserHandler{uc: uc, log: log}
}

// Get returns a user profile by id.
// @Summary Get user by id
// @Tags    users
// @Produce json
// @Param   id path string true "user id (UUID)"
// @Security BearerAuth
// @Success 200 {object} userResponse
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /get/{id} [get]
func (h *UserHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "id must be a UUID")
	}

	user, err := h.uc.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return presenter.Error(c, http.StatusNotFound, "user not found")
		}
		h.log.Error("failed to get user", slog.String("id", id.String()), slog.Any("error", err))
		return presenter.Error(c, http.StatusInternalServerError, "failed to get user")
	}

	return presenter.JSON(c, http.StatusOK, toUserResponse(user))
}

// Search returns users whose names start with the given prefixes.
// @Summary Search users by name prefix
// @Tags    users
// @Produce json
// @Param   f query string false "first name prefix"
// @Param   s query string false "second name prefix"
// @Security BearerAuth
// @Success 200 {array} userResponse
// @Failure 400 {object} presenter.ErrorResponse
// @Router  /search [get]
func (h *UserHandler) Search(c *fiber.Ctx) error {
	filter := account.SearchFilter{
		FirstNamePrefix:  c.Query("f"),
		SecondNamePrefix: c.Query("s"),
	}
	// Reject before touching storage.
	if filter.Empty() {
		return presenter.Error(c, http.StatusBadRequest, "at least one of f or s is required")
	}
	limit, offset := parseLimitOffset(c, defaultSearchLimit)

	users, err := h.uc.Search(c.Context(), filter, limit, offset)
	if err != nil {
		if errors.Is(err, account.ErrNoSearchFilter) {
			return presenter.Error(c, http.StatusBadRequest, "at least one of f or s is required")
		}
		h.log.Error("failed to search users", slog.Any("error", err))
		return presenter.Error(c, http.StatusInternalServerError, "failed to search users")
	}

	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return presenter.JSON(c, http.StatusOK, out)
}
