package rest

import (
	"context"
	"easyShop/domain"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type OrdersService interface {
	Checkout(ctx context.Context, username string) (domain.Order, error)
}

type OrdersHandler struct {
	ordersService OrdersService
	timeout       time.Duration
}

func NewOrdersHandler(ordersService OrdersService, timeout time.Duration) *OrdersHandler {
	return &OrdersHandler{
		ordersService: ordersService,
		timeout:       timeout,
	}
}

// Checkout converts the caller's cart into an order.
func (h *OrdersHandler) Checkout(c echo.Context) error {
	username, err := currentUsername(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	order, err := h.ordersService.Checkout(ctx, username)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, order)
}
