package orders

import (
	"context"
	"easyShop/domain"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockResolver struct {
	mock.Mock
}

func (m *mockResolver) ResolveUserID(ctx context.Context, username string) (uint, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(uint), args.Error(1)
}

type mockCartRepo struct {
	mock.Mock
}

func (m *mockCartRepo) GetByUserID(ctx context.Context, userID uint) (domain.ShoppingCart, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(domain.ShoppingCart), args.Error(1)
}

func (m *mockCartRepo) ClearProducts(ctx context.Context, userID uint, productIDs []uint) error {
	args := m.Called(ctx, userID, productIDs)
	return args.Error(0)
}

type mockOrdersRepo struct {
	mock.Mock
}

func (m *mockOrdersRepo) CreateOrder(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	order.OrderID = 100
	return args.Error(0)
}

func (m *mockOrdersRepo) AddLineItems(ctx context.Context, items []domain.OrderLineItem) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

type mockProfileRepo struct {
	mock.Mock
}

func (m *mockProfileRepo) FindByUserID(ctx context.Context, userID uint) (domain.Profile, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(domain.Profile), args.Error(1)
}

type mockLocker struct {
	mock.Mock
	released bool
}

func (m *mockLocker) Acquire(ctx context.Context, userID uint) (func(), error) {
	args := m.Called(ctx, userID)
	if err := args.Error(0); err != nil {
		return nil, err
	}
	return func() { m.released = true }, nil
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishOrderCreated(ctx context.Context, event domain.OrderCreatedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) SendOrderConfirmation(ctx context.Context, profile domain.Profile, order domain.Order, items []domain.OrderLineItem) error {
	args := m.Called(ctx, profile, order, items)
	return args.Error(0)
}

// recordingTransactor tracks whether fn ran to completion, standing in for
// commit versus rollback.
type recordingTransactor struct {
	committed bool
}

func (t *recordingTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := fn(ctx); err != nil {
		return err
	}
	t.committed = true
	return nil
}

type fixture struct {
	svc        *OrdersService
	resolver   *mockResolver
	cartRepo   *mockCartRepo
	orderRepo  *mockOrdersRepo
	profile    *mockProfileRepo
	transactor *recordingTransactor
}

func newFixture() *fixture {
	f := &fixture{
		resolver:   new(mockResolver),
		cartRepo:   new(mockCartRepo),
		orderRepo:  new(mockOrdersRepo),
		profile:    new(mockProfileRepo),
		transactor: &recordingTransactor{},
	}
	f.svc = NewOrdersService(f.resolver, f.cartRepo, f.orderRepo, f.profile, f.transactor)
	return f
}

func cartAB() domain.ShoppingCart {
	cart := domain.NewShoppingCart()
	cart.Add(domain.ShoppingCartItem{
		Product:         domain.Product{ID: 1, Name: "A", Price: decimal.RequireFromString("10.00")},
		Quantity:        2,
		DiscountPercent: decimal.Zero,
	})
	cart.Add(domain.ShoppingCartItem{
		Product:         domain.Product{ID: 2, Name: "B", Price: decimal.RequireFromString("5.00")},
		Quantity:        1,
		DiscountPercent: decimal.Zero,
	})
	return cart
}

func TestCheckout_CartBecomesOrder(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.resolver.On("ResolveUserID", ctx, "george").Return(uint(5), nil)
	f.cartRepo.On("GetByUserID", ctx, uint(5)).Return(cartAB(), nil)
	f.orderRepo.On("CreateOrder", ctx, mock.AnythingOfType("*domain.Order")).Return(nil)

	var written []domain.OrderLineItem
	f.orderRepo.On("AddLineItems", ctx, mock.Anything).
		Run(func(args mock.Arguments) { written = args.Get(1).([]domain.OrderLineItem) }).
		Return(nil)
	f.cartRepo.On("ClearProducts", ctx, uint(5), []uint{1, 2}).Return(nil)

	order, err := f.svc.Checkout(ctx, "george")
	require.NoError(t, err)

	assert.Equal(t, uint(100), order.OrderID)
	assert.Equal(t, uint(5), order.UserID)
	assert.Equal(t, "", order.ShippingAddress)
	assert.False(t, order.ShippingAmount.Valid)

	date := time.Time(order.OrderDate)
	assert.Equal(t, time.UTC, date.Location())
	assert.Zero(t, date.Hour())
	assert.Zero(t, date.Minute())
	assert.Zero(t, date.Second())
	assert.Zero(t, date.Nanosecond())

	require.Len(t, written, 2)
	assert.Equal(t, uint(1), written[0].ProductID)
	assert.Equal(t, uint(100), written[0].OrderID)
	assert.True(t, written[0].SalesPrice.Equal(decimal.RequireFromString("10.00")))
	assert.Equal(t, 2, written[0].Quantity)
	assert.True(t, written[0].Discount.IsZero())
	assert.Equal(t, uint(2), written[1].ProductID)
	assert.True(t, written[1].SalesPrice.Equal(decimal.RequireFromString("5.00")))
	assert.Equal(t, 1, written[1].Quantity)

	assert.True(t, f.transactor.committed)
	f.cartRepo.AssertCalled(t, "ClearProducts", ctx, uint(5), []uint{1, 2})
}

func TestCheckout_EmptyCart(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.resolver.On("ResolveUserID", ctx, "george").Return(uint(5), nil)
	f.cartRepo.On("GetByUserID", ctx, uint(5)).Return(domain.NewShoppingCart(), nil)
	f.orderRepo.On("CreateOrder", ctx, mock.AnythingOfType("*domain.Order")).Return(nil)
	f.orderRepo.On("AddLineItems", ctx, []domain.OrderLineItem{}).Return(nil)
	f.cartRepo.On("ClearProducts", ctx, uint(5), []uint{}).Return(nil)

	order, err := f.svc.Checkout(ctx, "george")
	require.NoError(t, err)
	assert.Equal(t, uint(100), order.OrderID)
	f.orderRepo.AssertExpectations(t)
}

func TestCheckout_FailureIsGeneric(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	cause := errors.New("insert order_line_items: connection reset")

	f.resolver.On("ResolveUserID", ctx, "george").Return(uint(5), nil)
	f.cartRepo.On("GetByUserID", ctx, uint(5)).Return(cartAB(), nil)
	f.orderRepo.On("CreateOrder", ctx, mock.AnythingOfType("*domain.Order")).Return(nil)
	f.orderRepo.On("AddLineItems", ctx, mock.Anything).Return(cause)

	_, err := f.svc.Checkout(ctx, "george")
	require.Error(t, err)

	assert.Equal(t, domain.KindInternal, domain.KindOf(err))
	assert.Equal(t, "checkout failed", domain.PublicMessage(err))
	assert.ErrorIs(t, err, cause)
	assert.False(t, f.transactor.committed)
	f.cartRepo.AssertNotCalled(t, "ClearProducts", mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckout_UnknownCaller(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.resolver.On("ResolveUserID", ctx, "ghost").Return(uint(0), domain.Unauthorized("unknown user"))

	_, err := f.svc.Checkout(ctx, "ghost")
	assert.Equal(t, domain.KindUnauthorized, domain.KindOf(err))
	f.cartRepo.AssertNotCalled(t, "GetByUserID", mock.Anything, mock.Anything)
}

func TestCheckout_LockHeld(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	locker := new(mockLocker)
	f.svc.WithLocker(locker)

	f.resolver.On("ResolveUserID", ctx, "george").Return(uint(5), nil)
	locker.On("Acquire", ctx, uint(5)).Return(domain.Conflict("checkout already in progress", nil))

	_, err := f.svc.Checkout(ctx, "george")
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
	f.cartRepo.AssertNotCalled(t, "GetByUserID", mock.Anything, mock.Anything)
}

func TestCheckout_SideEffectsAreBestEffort(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	locker := new(mockLocker)
	publisher := new(mockPublisher)
	notifier := new(mockNotifier)
	f.svc.WithLocker(locker).WithPublisher(publisher).WithNotifier(notifier)

	profile := domain.Profile{UserID: 5, Email: "george@example.com"}

	f.resolver.On("ResolveUserID", ctx, "george").Return(uint(5), nil)
	locker.On("Acquire", ctx, uint(5)).Return(nil)
	f.cartRepo.On("GetByUserID", ctx, uint(5)).Return(cartAB(), nil)
	f.orderRepo.On("CreateOrder", ctx, mock.AnythingOfType("*domain.Order")).Return(nil)
	f.orderRepo.On("AddLineItems", ctx, mock.Anything).Return(nil)
	f.cartRepo.On("ClearProducts", ctx, uint(5), []uint{1, 2}).Return(nil)
	f.profile.On("FindByUserID", mock.Anything, uint(5)).Return(profile, nil)

	publisher.On("PublishOrderCreated", mock.Anything, mock.MatchedBy(func(e domain.OrderCreatedEvent) bool {
		return e.OrderID == 100 && e.LineItems == 2 && e.Total.Equal(decimal.RequireFromString("25.00"))
	})).Return(errors.New("kafka: client has run out of available brokers"))
	notifier.On("SendOrderConfirmation", mock.Anything, profile, mock.Anything, mock.Anything).
		Return(errors.New("mailer service return negative response 500"))

	order, err := f.svc.Checkout(ctx, "george")
	require.NoError(t, err)
	assert.Equal(t, uint(100), order.OrderID)

	assert.True(t, locker.released)
	publisher.AssertExpectations(t)
	notifier.AssertExpectations(t)
}
