package user

import (
	"context"
	"easyShop/domain"
	"easyShop/pkg/logger"
	"easyShop/pkg/utils"
	"errors"
	"fmt"
	"time"

	redisRepo "easyShop/internal/repository/redis"

	"github.com/go-playground/validator/v10"
)

// UserRepository contract interface
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByUsername(ctx context.Context, username string) (domain.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}

// ProfileRepository is the slice of the profile store needed at registration.
type ProfileRepository interface {
	Create(ctx context.Context, profile *domain.Profile) error
}

type TokenRepository interface {
	StoreToken(ctx context.Context, data redisRepo.TokenData, ttl time.Duration) error
	ValidateToken(ctx context.Context, token string) (string, error)
	DeleteToken(ctx context.Context, username, token string) error
}

type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// RoleUser is the only role open to self registration.
const RoleUser = "ROLE_USER"

type RegisterRequest struct {
	Username        string `json:"username" validate:"required,min=3,max=50"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

type UserService struct {
	userRepo    UserRepository
	profileRepo ProfileRepository
	tokenRepo   TokenRepository
	transactor  Transactor
	validate    *validator.Validate
	jwtSecret   string
	jwtTTL      time.Duration
}

func NewUserService(
	userRepo UserRepository,
	profileRepo ProfileRepository,
	tokenRepo TokenRepository,
	transactor Transactor,
	validate *validator.Validate,
	jwtSecret string,
	jwtTTL time.Duration,
) *UserService {
	return &UserService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		tokenRepo:   tokenRepo,
		transactor:  transactor,
		validate:    validate,
		jwtSecret:   jwtSecret,
		jwtTTL:      jwtTTL,
	}
}

// Register creates the user together with an empty profile row.
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (domain.User, error) {
	if err := s.validate.Struct(req); err != nil {
		logger.Error("Invalid register request", "error", err)
		return domain.User{}, domain.Invalid("username and matching passwords of at least 6 characters are required")
	}

	exists, err := s.userRepo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		logger.Error("Failed to check username", "error", err)
		return domain.User{}, err
	}
	if exists {
		return domain.User{}, domain.Conflict("username already exists", nil)
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		logger.Error("Failed to hash password", "error", err)
		return domain.User{}, errors.New("failed to hash password")
	}

	newUser := domain.User{
		Username:       req.Username,
		HashedPassword: string(passwordHash),
		Role:           RoleUser,
	}

	err = s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.userRepo.Create(ctx, &newUser); err != nil {
			return err
		}
		return s.profileRepo.Create(ctx, &domain.Profile{UserID: newUser.ID})
	})
	if err != nil {
		logger.Error("Failed to create new user", "username", req.Username, "error", err)
		return domain.User{}, err
	}

	return newUser, nil
}

// Login checks the credentials and stores a session for the issued token,
// tagged with the client address and user agent it was issued to.
func (s *UserService) Login(ctx context.Context, username, password, ipAddress, userAgent string) (string, domain.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if domain.KindOf(err) == domain.KindNotFound {
			return "", domain.User{}, domain.Unauthorized("incorrect username or password")
		}
		logger.Error("Failed to find user", "error", err)
		return "", domain.User{}, err
	}

	if !utils.CheckPassword(password, user.HashedPassword) {
		return "", domain.User{}, domain.Unauthorized("incorrect username or password")
	}

	token, err := utils.GenerateJWT(s.jwtSecret, user.Username, user.Role, s.jwtTTL)
	if err != nil {
		logger.Error("Failed to generated token", "error", err)
		return "", domain.User{}, errors.New("failed to generate token")
	}

	now := time.Now()
	tokenData := redisRepo.TokenData{
		Username:  user.Username,
		Role:      user.Role,
		Token:     token,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.jwtTTL),
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}
	if err := s.tokenRepo.StoreToken(ctx, tokenData, s.jwtTTL); err != nil {
		logger.Error("Failed to store token", "error", err)
		return "", domain.User{}, fmt.Errorf("failed to store token: %w", err)
	}

	return token, user, nil
}

func (s *UserService) Logout(ctx context.Context, username, token string) error {
	if err := s.tokenRepo.DeleteToken(ctx, username, token); err != nil {
		logger.Error("Failed to delete token", "error", err)
		return err
	}

	return nil
}

// ValidateTokenFromRedis backs the auth middleware: a token is only good
// while its session is still stored.
func (s *UserService) ValidateTokenFromRedis(ctx context.Context, token string) (string, error) {
	username, err := s.tokenRepo.ValidateToken(ctx, token)
	if err != nil {
		if errors.Is(err, redisRepo.ErrTokenNotFound) {
			return "", domain.Unauthorized("session expired or logged out")
		}
		return "", err
	}

	return username, nil
}

// ResolveUserID maps the authenticated principal to its user id.
func (s *UserService) ResolveUserID(ctx context.Context, username string) (uint, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if domain.KindOf(err) == domain.KindNotFound {
			return 0, domain.Unauthorized("unknown user")
		}
		return 0, err
	}

	return user.ID, nil
}
