package user

import (
	"context"
	"easyShop/domain"
	"easyShop/pkg/utils"
	"errors"
	"testing"
	"time"

	redisRepo "easyShop/internal/repository/redis"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	user.ID = 7
	return args.Error(0)
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *mockUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

type mockProfileRepo struct {
	mock.Mock
}

func (m *mockProfileRepo) Create(ctx context.Context, profile *domain.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

type mockTokenRepo struct {
	mock.Mock
}

func (m *mockTokenRepo) StoreToken(ctx context.Context, data redisRepo.TokenData, ttl time.Duration) error {
	args := m.Called(ctx, data, ttl)
	return args.Error(0)
}

func (m *mockTokenRepo) ValidateToken(ctx context.Context, token string) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}

func (m *mockTokenRepo) DeleteToken(ctx context.Context, username, token string) error {
	args := m.Called(ctx, username, token)
	return args.Error(0)
}

type passthroughTransactor struct{}

func (passthroughTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestService() (*UserService, *mockUserRepo, *mockProfileRepo, *mockTokenRepo) {
	userRepo := new(mockUserRepo)
	profileRepo := new(mockProfileRepo)
	tokenRepo := new(mockTokenRepo)
	svc := NewUserService(userRepo, profileRepo, tokenRepo, passthroughTransactor{}, validator.New(), "secret", time.Hour)
	return svc, userRepo, profileRepo, tokenRepo
}

func TestRegister_CreatesUserAndProfile(t *testing.T) {
	svc, userRepo, profileRepo, _ := newTestService()
	ctx := context.Background()

	userRepo.On("ExistsByUsername", ctx, "george").Return(false, nil)
	userRepo.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.Username == "george" && u.Role == RoleUser
	})).Return(nil)
	profileRepo.On("Create", ctx, &domain.Profile{UserID: 7}).Return(nil)

	user, err := svc.Register(ctx, RegisterRequest{Username: "george", Password: "password", ConfirmPassword: "password"})
	require.NoError(t, err)

	assert.Equal(t, uint(7), user.ID)
	assert.Equal(t, RoleUser, user.Role)
	assert.True(t, utils.CheckPassword("password", user.HashedPassword))
	userRepo.AssertExpectations(t)
	profileRepo.AssertExpectations(t)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc, userRepo, _, _ := newTestService()
	ctx := context.Background()

	userRepo.On("ExistsByUsername", ctx, "george").Return(true, nil)

	_, err := svc.Register(ctx, RegisterRequest{Username: "george", Password: "password", ConfirmPassword: "password"})
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
	userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_Invalid(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.Register(context.Background(), RegisterRequest{Username: "george", Password: "password", ConfirmPassword: "different"})
	assert.Equal(t, domain.KindInvalid, domain.KindOf(err))

	_, err = svc.Register(context.Background(), RegisterRequest{Username: "ge", Password: "password", ConfirmPassword: "password"})
	assert.Equal(t, domain.KindInvalid, domain.KindOf(err))
}

func TestLogin(t *testing.T) {
	svc, userRepo, _, tokenRepo := newTestService()
	ctx := context.Background()

	hash, err := utils.HashPassword("password")
	require.NoError(t, err)
	stored := domain.User{ID: 7, Username: "george", HashedPassword: string(hash), Role: RoleUser}

	userRepo.On("FindByUsername", ctx, "george").Return(stored, nil)
	tokenRepo.On("StoreToken", ctx, mock.MatchedBy(func(data redisRepo.TokenData) bool {
		return data.Username == "george" &&
			data.IPAddress == "203.0.113.9" &&
			data.UserAgent == "curl/8.5.0" &&
			data.ExpiresAt.Sub(data.IssuedAt) == time.Hour
	}), time.Hour).Return(nil)

	token, user, err := svc.Login(ctx, "george", "password", "203.0.113.9", "curl/8.5.0")
	require.NoError(t, err)
	assert.Equal(t, uint(7), user.ID)

	claims, err := utils.ParseJWT("secret", token)
	require.NoError(t, err)
	assert.Equal(t, "george", claims.Username)
	assert.Equal(t, RoleUser, claims.Role)
	tokenRepo.AssertExpectations(t)
}

func TestLogin_BadCredentials(t *testing.T) {
	svc, userRepo, _, _ := newTestService()
	ctx := context.Background()

	hash, err := utils.HashPassword("password")
	require.NoError(t, err)

	userRepo.On("FindByUsername", ctx, "george").Return(domain.User{ID: 7, Username: "george", HashedPassword: string(hash)}, nil)
	userRepo.On("FindByUsername", ctx, "nobody").Return(domain.User{}, domain.NotFound("user not found"))

	_, _, err = svc.Login(ctx, "george", "wrong", "", "")
	assert.Equal(t, domain.KindUnauthorized, domain.KindOf(err))

	_, _, err = svc.Login(ctx, "nobody", "password", "", "")
	assert.Equal(t, domain.KindUnauthorized, domain.KindOf(err))
}

func TestResolveUserID(t *testing.T) {
	svc, userRepo, _, _ := newTestService()
	ctx := context.Background()

	userRepo.On("FindByUsername", ctx, "george").Return(domain.User{ID: 3, Username: "george"}, nil)
	userRepo.On("FindByUsername", ctx, "ghost").Return(domain.User{}, domain.NotFound("user not found"))
	userRepo.On("FindByUsername", ctx, "broken").Return(domain.User{}, errors.New("connection reset"))

	id, err := svc.ResolveUserID(ctx, "george")
	require.NoError(t, err)
	assert.Equal(t, uint(3), id)

	_, err = svc.ResolveUserID(ctx, "ghost")
	assert.Equal(t, domain.KindUnauthorized, domain.KindOf(err))

	_, err = svc.ResolveUserID(ctx, "broken")
	assert.Equal(t, domain.KindInternal, domain.KindOf(err))
}

func TestValidateTokenFromRedis(t *testing.T) {
	svc, _, _, tokenRepo := newTestService()
	ctx := context.Background()

	tokenRepo.On("ValidateToken", ctx, "live").Return("george", nil)
	tokenRepo.On("ValidateToken", ctx, "gone").Return("", redisRepo.ErrTokenNotFound)

	username, err := svc.ValidateTokenFromRedis(ctx, "live")
	require.NoError(t, err)
	assert.Equal(t, "george", username)

	_, err = svc.ValidateTokenFromRedis(ctx, "gone")
	assert.Equal(t, domain.KindUnauthorized, domain.KindOf(err))
}
