package orders

import (
	"context"
	"easyShop/domain"
	"easyShop/pkg/logger"
	"easyShop/pkg/metrics"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type CallerResolver interface {
	ResolveUserID(ctx context.Context, username string) (uint, error)
}

type CartRepository interface {
	GetByUserID(ctx context.Context, userID uint) (domain.ShoppingCart, error)
	ClearProducts(ctx context.Context, userID uint, productIDs []uint) error
}

type OrdersRepository interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	AddLineItems(ctx context.Context, items []domain.OrderLineItem) error
}

type ProfileRepository interface {
	FindByUserID(ctx context.Context, userID uint) (domain.Profile, error)
}

type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type CheckoutLocker interface {
	Acquire(ctx context.Context, userID uint) (func(), error)
}

type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, event domain.OrderCreatedEvent) error
}

type OrderNotifier interface {
	SendOrderConfirmation(ctx context.Context, profile domain.Profile, order domain.Order, items []domain.OrderLineItem) error
}

const sideEffectTimeout = 5 * time.Second

type OrdersService struct {
	callers     CallerResolver
	cartRepo    CartRepository
	orderRepo   OrdersRepository
	profileRepo ProfileRepository
	transactor  Transactor
	locker      CheckoutLocker
	publisher   EventPublisher
	notifier    OrderNotifier
}

func NewOrdersService(
	callers CallerResolver,
	cartRepo CartRepository,
	orderRepo OrdersRepository,
	profileRepo ProfileRepository,
	transactor Transactor,
) *OrdersService {
	return &OrdersService{
		callers:     callers,
		cartRepo:    cartRepo,
		orderRepo:   orderRepo,
		profileRepo: profileRepo,
		transactor:  transactor,
	}
}

// WithLocker serializes checkouts of one user across instances.
func (s *OrdersService) WithLocker(locker CheckoutLocker) *OrdersService {
	s.locker = locker
	return s
}

func (s *OrdersService) WithPublisher(publisher EventPublisher) *OrdersService {
	s.publisher = publisher
	return s
}

func (s *OrdersService) WithNotifier(notifier OrderNotifier) *OrdersService {
	s.notifier = notifier
	return s
}

// Checkout turns the caller's cart into an order. The order header, its
// line items and the cart clear commit together or not at all.
func (s *OrdersService) Checkout(ctx context.Context, username string) (domain.Order, error) {
	start := time.Now()
	defer func() {
		metrics.CheckoutDuration.Observe(time.Since(start).Seconds())
	}()

	userID, err := s.callers.ResolveUserID(ctx, username)
	if err != nil {
		metrics.CheckoutTotal.WithLabelValues("failed").Inc()
		return domain.Order{}, err
	}

	if s.locker != nil {
		release, err := s.locker.Acquire(ctx, userID)
		if err != nil {
			if domain.KindOf(err) == domain.KindConflict {
				metrics.CheckoutTotal.WithLabelValues("conflict").Inc()
				return domain.Order{}, err
			}
			metrics.CheckoutTotal.WithLabelValues("failed").Inc()
			logger.Error("Failed to acquire checkout lock", "user_id", userID, "error", err)
			return domain.Order{}, domain.Internal("checkout failed", err)
		}
		defer release()
	}

	var (
		order domain.Order
		items []domain.OrderLineItem
		total decimal.Decimal
	)

	err = s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		cart, err := s.cartRepo.GetByUserID(ctx, userID)
		if err != nil {
			return err
		}

		order = domain.Order{
			UserID:          userID,
			OrderDate:       today(),
			ShippingAddress: "",
		}
		if err := s.orderRepo.CreateOrder(ctx, &order); err != nil {
			return err
		}

		items = lineItems(order.OrderID, cart)
		if err := s.orderRepo.AddLineItems(ctx, items); err != nil {
			return err
		}
		total = cart.Total()

		// only the rows read above, an item added meanwhile stays for the next checkout
		return s.cartRepo.ClearProducts(ctx, userID, productIDs(items))
	})
	if err != nil {
		metrics.CheckoutTotal.WithLabelValues("failed").Inc()
		logger.Error("Failed to checkout", "user_id", userID, "error", err)
		return domain.Order{}, domain.Internal("checkout failed", err)
	}

	metrics.CheckoutTotal.WithLabelValues("success").Inc()
	metrics.OrderLineItems.Observe(float64(len(items)))
	logger.Info("Order placed", "order_id", order.OrderID, "user_id", userID, "line_items", len(items))

	s.afterCommit(ctx, order, items, total)

	return order, nil
}

// today is the order date at midnight UTC, matching the stored DATE column.
func today() datatypes.Date {
	y, m, d := time.Now().UTC().Date()
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

// lineItems snapshots the cart in product id order.
func lineItems(orderID uint, cart domain.ShoppingCart) []domain.OrderLineItem {
	items := make([]domain.OrderLineItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, domain.OrderLineItem{
			OrderID:    orderID,
			ProductID:  item.ProductID(),
			SalesPrice: item.Product.Price,
			Quantity:   item.Quantity,
			Discount:   item.DiscountPercent,
		})
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].ProductID < items[j].ProductID
	})

	return items
}

func productIDs(items []domain.OrderLineItem) []uint {
	ids := make([]uint, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}

	return ids
}

// afterCommit runs the best effort side effects of a placed order. The
// order is already durable, so failures are only logged.
func (s *OrdersService) afterCommit(ctx context.Context, order domain.Order, items []domain.OrderLineItem, total decimal.Decimal) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
	defer cancel()

	if s.publisher != nil {
		event := domain.OrderCreatedEvent{
			EventID:    uuid.NewString(),
			OrderID:    order.OrderID,
			UserID:     order.UserID,
			OrderDate:  time.Time(order.OrderDate).Format(time.DateOnly),
			LineItems:  len(items),
			Total:      total,
			OccurredAt: time.Now().UTC(),
		}
		if err := s.publisher.PublishOrderCreated(ctx, event); err != nil {
			logger.Warn("Failed to publish order event", "order_id", order.OrderID, "error", err)
		}
	}

	if s.notifier != nil && len(items) > 0 {
		profile, err := s.profileRepo.FindByUserID(ctx, order.UserID)
		if err != nil {
			logger.Warn("Failed to load profile for order confirmation", "order_id", order.OrderID, "error", err)
			return
		}
		if err := s.notifier.SendOrderConfirmation(ctx, profile, order, items); err != nil {
			logger.Warn("Failed to send order confirmation", "order_id", order.OrderID, "error", err)
		}
	}
}
