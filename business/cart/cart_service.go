package cart

import (
	"context"
	"easyShop/domain"
	"easyShop/pkg/logger"
	"easyShop/pkg/metrics"
)

type CallerResolver interface {
	ResolveUserID(ctx context.Context, username string) (uint, error)
}

type ShoppingCartRepository interface {
	GetByUserID(ctx context.Context, userID uint) (domain.ShoppingCart, error)
	AddItem(ctx context.Context, userID, productID uint) error
	SetQuantity(ctx context.Context, userID, productID uint, quantity int) error
	RemoveItem(ctx context.Context, userID, productID uint) error
	Clear(ctx context.Context, userID uint) error
}

type ProductRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Product, error)
}

type CartService struct {
	callers     CallerResolver
	cartRepo    ShoppingCartRepository
	productRepo ProductRepository
}

func NewCartService(callers CallerResolver, cartRepo ShoppingCartRepository, productRepo ProductRepository) *CartService {
	return &CartService{
		callers:     callers,
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

func (s *CartService) GetCart(ctx context.Context, username string) (domain.ShoppingCart, error) {
	userID, err := s.callers.ResolveUserID(ctx, username)
	if err != nil {
		return domain.ShoppingCart{}, err
	}

	cart, err := s.cartRepo.GetByUserID(ctx, userID)
	if err != nil {
		logger.Error("Failed to get shopping cart", "user_id", userID, "error", err)
		return domain.ShoppingCart{}, err
	}

	return cart, nil
}

// AddItem puts one more unit of the product in the caller's cart.
func (s *CartService) AddItem(ctx context.Context, username string, productID uint) (domain.ShoppingCart, error) {
	userID, err := s.callers.ResolveUserID(ctx, username)
	if err != nil {
		return domain.ShoppingCart{}, err
	}

	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return domain.ShoppingCart{}, err
	}

	if err := s.cartRepo.AddItem(ctx, userID, productID); err != nil {
		logger.Error("Failed to add cart item", "user_id", userID, "product_id", productID, "error", err)
		return domain.ShoppingCart{}, err
	}
	metrics.CartMutations.WithLabelValues("add").Inc()

	return s.cartRepo.GetByUserID(ctx, userID)
}

// SetQuantity overwrites the quantity of a product already in the cart.
// Zero removes the product.
func (s *CartService) SetQuantity(ctx context.Context, username string, productID uint, quantity int) (domain.ShoppingCart, error) {
	if quantity < 0 {
		return domain.ShoppingCart{}, domain.Invalid("quantity cannot be negative")
	}

	userID, err := s.callers.ResolveUserID(ctx, username)
	if err != nil {
		return domain.ShoppingCart{}, err
	}

	if err := s.cartRepo.SetQuantity(ctx, userID, productID, quantity); err != nil {
		if domain.KindOf(err) != domain.KindNotFound {
			logger.Error("Failed to set cart quantity", "user_id", userID, "product_id", productID, "error", err)
		}
		return domain.ShoppingCart{}, err
	}
	metrics.CartMutations.WithLabelValues("set_quantity").Inc()

	return s.cartRepo.GetByUserID(ctx, userID)
}

func (s *CartService) RemoveItem(ctx context.Context, username string, productID uint) (domain.ShoppingCart, error) {
	userID, err := s.callers.ResolveUserID(ctx, username)
	if err != nil {
		return domain.ShoppingCart{}, err
	}

	if err := s.cartRepo.RemoveItem(ctx, userID, productID); err != nil {
		logger.Error("Failed to remove cart item", "user_id", userID, "product_id", productID, "error", err)
		return domain.ShoppingCart{}, err
	}
	metrics.CartMutations.WithLabelValues("remove").Inc()

	return s.cartRepo.GetByUserID(ctx, userID)
}

func (s *CartService) ClearCart(ctx context.Context, username string) (domain.ShoppingCart, error) {
	userID, err := s.callers.ResolveUserID(ctx, username)
	if err != nil {
		return domain.ShoppingCart{}, err
	}

	if err := s.cartRepo.Clear(ctx, userID); err != nil {
		logger.Error("Failed to clear cart", "user_id", userID, "error", err)
		return domain.ShoppingCart{}, err
	}
	metrics.CartMutations.WithLabelValues("clear").Inc()

	return domain.NewShoppingCart(), nil
}
