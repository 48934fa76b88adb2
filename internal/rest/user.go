package rest

import (
	"context"
	"easyShop/business/user"
	"easyShop/domain"
	"easyShop/pkg/logger"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type UserService interface {
	Register(ctx context.Context, req user.RegisterRequest) (domain.User, error)
	Login(ctx context.Context, username, password, ipAddress, userAgent string) (string, domain.User, error)
	Logout(ctx context.Context, username, token string) error
}

type UserHandler struct {
	userService UserService
	validator   *validator.Validate
	timeout     time.Duration
}

func NewUserHandler(userService UserService, timeout time.Duration) *UserHandler {
	return &UserHandler{
		userService: userService,
		validator:   validator.New(),
		timeout:     timeout,
	}
}

type UserRegisterRequest struct {
	Username        string `json:"username" validate:"required,min=3,max=50"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

type UserLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

// ResponseError represent the response error struct
type ResponseError struct {
	Message string `json:"message"`
}

// currentUsername reads the principal the auth middleware put on the context.
func currentUsername(c echo.Context) (string, error) {
	username, ok := c.Get("username").(string)
	if !ok || username == "" {
		return "", domain.Unauthorized("authentication required")
	}

	return username, nil
}

func (h *UserHandler) Register(c echo.Context) error {
	var reqUser UserRegisterRequest

	if err := c.Bind(&reqUser); err != nil {
		logger.Error("Invalid request body", "error", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&reqUser); err != nil {
		logger.Error("Failed to validation user register", "error", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	newUser, err := h.userService.Register(ctx, user.RegisterRequest{
		Username:        reqUser.Username,
		Password:        reqUser.Password,
		ConfirmPassword: reqUser.ConfirmPassword,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, newUser)
}

func (h *UserHandler) Login(c echo.Context) error {
	var reqUser UserLoginRequest

	if err := c.Bind(&reqUser); err != nil {
		logger.Error("Failed to bind request", "error", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&reqUser); err != nil {
		logger.Error("Failed to validate user login", "error", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	token, loggedIn, err := h.userService.Login(ctx, reqUser.Username, reqUser.Password, c.RealIP(), c.Request().UserAgent())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, LoginResponse{Token: token, User: loggedIn})
}

func (h *UserHandler) Logout(c echo.Context) error {
	username, err := currentUsername(c)
	if err != nil {
		return err
	}
	token, _ := c.Get("token").(string)

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.userService.Logout(ctx, username, token); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "logout successful",
	})
}
