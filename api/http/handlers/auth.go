package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/akozlov/accounts/api/http/presenter"
	"github.com/akozlov/accounts/pkg/account"
)

const birthdateLayout = "2006-01-02"

type AuthHandler struct {
	uc  account.UseCase
	log *slog.Logger
}

func NewAuthHandler(uc account.UseCase, log *slog.Logger) *AuthHandler {
	return &AuthHandler{uc: uc, log: log}
}

type registerRequest struct {
	FirstName  string `json:"first_name"`
	SecondName string `json:"second_name"`
	IsMale     bool   `json:"is_male"`
	Birthdate  string `json:"birthdate"`
	Biography  string `json:"biography"`
	City       string `json:"city"`
	Password   string `json:"password"`
}

type userResponse struct {
	ID         string `json:"id"`
	FirstName  string `json:"first_name"`
	SecondName string `json:"second_name"`
	IsMale     bool   `json:"is_male"`
	Birthdate  string `json:"birthdate"`
	Biography  string `json:"biography"`
	City       string `json:"city"`
}

func toUserResponse(u account.User) userResponse {
	return userResponse{
		ID:         u.ID.String(),
		FirstName:  u.FirstName,
		SecondName: u.SecondName,
		IsMale:     u.IsMale,
		Birthdate:  u.BirthDate.Format(birthdateLayout),
		Biography:  u.Biography,
		City:       u.City,
	}
}

// Register handles account creation.
// @Summary Register user
// @Tags    auth
// @Accept  json
// @Produce json
// @Param   input body registerRequest true "registration payload"
// @Success 200 {object} userResponse
// @Failure 400 {object} presenter.ErrorResponse
// @Router  /register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	birthdate, err := time.Parse(birthdateLayout, req.Birthdate)
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "birthdate must be YYYY-MM-DD")
	}

	user, err := h.uc.Register(c.Context(), account.Registration{
		FirstName:  req.FirstName,
		SecondName: req.SecondName,
		IsMale:     req.IsMale,
		BirthDate:  birthdate,
		Biography:  req.Biography,
		City:       req.City,
		Password:   req.Password,
	})
	if err != nil {
		if errors.Is(err, account.ErrInvalidCredentials) {
			return presenter.Error(c, http.StatusBadRequest, "first_name, second_name and password are required")
		}
		h.log.Error("failed to register user", slog.Any("error", err))
		return presenter.Error(c, http.StatusInternalServerError, "failed to register user")
	}

	return presenter.JSON(c, http.StatusOK, toUserResponse(user))
}

type loginRequest struct {
	ID       string `json:"id"`
	Password string `json:"password"`
}

// Login exchanges id + password for a bearer token.
// @Summary Login
// @Tags    auth
// @Accept  json
// @Produce json
// @Param   input body loginRequest true "login payload"
// @Success 200 {object} map[string]string
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 401 {object} presenter.ErrorResponse
// @Router  /login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "id must be a UUID")
	}

	token, err := h.uc.Login(c.Context(), id, req.Password)
	if err != nil {
		// Unknown id and wrong password answer identically.
		if errors.Is(err, account.ErrInvalidCredentials) {
			return presenter.Unauthenticated(c)
		}
		h.log.Error("login failed", slog.Any("error", err))
		return presenter.Error(c, http.StatusInternalServerError, "failed to login")
	}

	return presenter.JSON(c, http.StatusOK, fiber.Map{"token": token})
}
