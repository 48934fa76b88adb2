package rest

import (
	"context"
	"easyShop/domain"
	"net/http"
	"strconv"
	"time"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type ProductService interface {
	SearchProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	GetProductByID(ctx context.Context, id uint) (domain.Product, error)
}

type ProductHandler struct {
	productService ProductService
	timeout        time.Duration
}

func NewProductHandler(productService ProductService, timeout time.Duration) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		timeout:        timeout,
	}
}

// SearchProducts lists products, optionally narrowed by
// ?cat=&minPrice=&maxPrice=&subCategory=.
func (h *ProductHandler) SearchProducts(c echo.Context) error {
	var filter domain.ProductFilter

	if cat := c.QueryParam("cat"); cat != "" {
		id, err := strconv.ParseUint(cat, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid cat"})
		}
		filter.CategoryID = uint(id)
	}
	if raw := c.QueryParam("minPrice"); raw != "" {
		minPrice, err := decimal.NewFromString(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid minPrice"})
		}
		filter.MinPrice = &minPrice
	}
	if raw := c.QueryParam("maxPrice"); raw != "" {
		maxPrice, err := decimal.NewFromString(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid maxPrice"})
		}
		filter.MaxPrice = &maxPrice
	}
	filter.Subcategory = c.QueryParam("subCategory")

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	products, err := h.productService.SearchProducts(ctx, filter)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(products))
}

func (h *ProductHandler) GetProductByID(c echo.Context) error {
	id, ok := parseProductID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid product id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	product, err := h.productService.GetProductByID(ctx, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(product))
}
