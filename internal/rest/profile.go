package rest

import (
	"context"
	"easyShop/domain"
	"easyShop/pkg/logger"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type ProfileService interface {
	GetProfile(ctx context.Context, username string) (domain.Profile, error)
	UpdateProfile(ctx context.Context, username string, profile domain.Profile) (domain.Profile, error)
}

type ProfileHandler struct {
	profileService ProfileService
	validator      *validator.Validate
	timeout        time.Duration
}

func NewProfileHandler(profileService ProfileService, timeout time.Duration) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		validator:      validator.New(),
		timeout:        timeout,
	}
}

type UpdateProfileRequest struct {
	FirstName string `json:"firstName" validate:"max=50"`
	LastName  string `json:"lastName" validate:"max=50"`
	Phone     string `json:"phone" validate:"max=20"`
	Email     string `json:"email" validate:"omitempty,email,max=200"`
	Address   string `json:"address" validate:"max=200"`
	City      string `json:"city" validate:"max=50"`
	State     string `json:"state" validate:"max=2"`
	Zip       string `json:"zip" validate:"max=20"`
}

func (h *ProfileHandler) GetProfile(c echo.Context) error {
	username, err := currentUsername(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	profile, err := h.profileService.GetProfile(ctx, username)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, profile)
}

// UpdateProfile replaces the caller's profile. Any userId in the body is
// ignored.
func (h *ProfileHandler) UpdateProfile(c echo.Context) error {
	username, err := currentUsername(c)
	if err != nil {
		return err
	}

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", "error", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	profile, err := h.profileService.UpdateProfile(ctx, username, domain.Profile{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Email:     req.Email,
		Address:   req.Address,
		City:      req.City,
		State:     req.State,
		Zip:       req.Zip,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, profile)
}
