package rest

import (
	"context"
	"easyShop/domain"
	"easyShop/pkg/logger"
	"net/http"
	"strconv"
	"time"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type CartService interface {
	GetCart(ctx context.Context, username string) (domain.ShoppingCart, error)
	AddItem(ctx context.Context, username string, productID uint) (domain.ShoppingCart, error)
	SetQuantity(ctx context.Context, username string, productID uint, quantity int) (domain.ShoppingCart, error)
	RemoveItem(ctx context.Context, username string, productID uint) (domain.ShoppingCart, error)
	ClearCart(ctx context.Context, username string) (domain.ShoppingCart, error)
}

type CartHandler struct {
	cartService CartService
	validator   *validator.Validate
	timeout     time.Duration
}

func NewCartHandler(cartService CartService, timeout time.Duration) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		validator:   validator.New(),
		timeout:     timeout,
	}
}

type SetQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

type CartItemResponse struct {
	Product         domain.Product  `json:"product"`
	Quantity        int             `json:"quantity"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
	LineTotal       decimal.Decimal `json:"lineTotal"`
}

type CartResponse struct {
	Items map[uint]CartItemResponse `json:"items"`
	Total decimal.Decimal           `json:"total"`
}

func newCartResponse(cart domain.ShoppingCart) CartResponse {
	resp := CartResponse{
		Items: make(map[uint]CartItemResponse, len(cart.Items)),
		Total: cart.Total(),
	}
	for id, item := range cart.Items {
		resp.Items[id] = CartItemResponse{
			Product:         item.Product,
			Quantity:        item.Quantity,
			DiscountPercent: item.DiscountPercent,
			LineTotal:       item.LineTotal(),
		}
	}

	return resp
}

func parseProductID(c echo.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}

	return uint(id), true
}

func (h *CartHandler) GetCart(c echo.Context) error {
	username, err := currentUsername(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	cart, err := h.cartService.GetCart(ctx, username)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(newCartResponse(cart)))
}

func (h *CartHandler) AddItem(c echo.Context) error {
	username, err := currentUsername(c)
	if err != nil {
		return err
	}

	productID, ok := parseProductID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid product id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	cart, err := h.cartService.AddItem(ctx, username, productID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(newCartResponse(cart)))
}

func (h *CartHandler) SetQuantity(c echo.Context) error {
	username, err := currentUsername(c)
	if err != nil {
		return err
	}

	productID, ok := parseProductID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid product id"})
	}

	var req SetQuantityRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", "error", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	cart, err := h.cartService.SetQuantity(ctx, username, productID, *req.Quantity)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(newCartResponse(cart)))
}

func (h *CartHandler) RemoveItem(c echo.Context) error {
	username, err := currentUsername(c)
	if err != nil {
		return err
	}

	productID, ok := parseProductID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid product id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	cart, err := h.cartService.RemoveItem(ctx, username, productID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(newCartResponse(cart)))
}

func (h *CartHandler) ClearCart(c echo.Context) error {
	username, err := currentUsername(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	cart, err := h.cartService.ClearCart(ctx, username)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(newCartResponse(cart)))
}
