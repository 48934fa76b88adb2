package router

import (
	"easyShop/internal/rest"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupUserRoutes(api *echo.Group, handler *rest.UserHandler, authRequired echo.MiddlewareFunc) {
	api.POST("/register", handler.Register)
	api.POST("/login", handler.Login)
	api.POST("/logout", handler.Logout, authRequired)
}

func SetupProductRoutes(api *echo.Group, handler *rest.ProductHandler) {
	products := api.Group("/products")

	products.GET("", handler.SearchProducts)
	products.GET("/:id", handler.GetProductByID)
}

func SetupCategoryRoutes(api *echo.Group, handler *rest.CategoryHandler) {
	categories := api.Group("/categories")

	categories.GET("", handler.GetAllCategories)
	categories.GET("/:id", handler.GetCategoryByID)
}

func SetupCartRoutes(api *echo.Group, handler *rest.CartHandler, authRequired echo.MiddlewareFunc) {
	cart := api.Group("/cart", authRequired)

	cart.GET("", handler.GetCart)
	cart.DELETE("", handler.ClearCart)
	cart.POST("/products/:id", handler.AddItem)
	cart.PUT("/products/:id", handler.SetQuantity)
	cart.DELETE("/products/:id", handler.RemoveItem)
}

func SetOrdersRoutes(api *echo.Group, ordersHandler *rest.OrdersHandler, authRequired echo.MiddlewareFunc) {
	orders := api.Group("/orders", authRequired)
	orders.POST("", ordersHandler.Checkout)
}

func SetProfileRoutes(api *echo.Group, profileHandler *rest.ProfileHandler, authRequired echo.MiddlewareFunc) {
	profile := api.Group("/profile", authRequired)
	profile.GET("", profileHandler.GetProfile)
	profile.PUT("", profileHandler.UpdateProfile)
}

func SetOpsRoutes(e *echo.Echo) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}
