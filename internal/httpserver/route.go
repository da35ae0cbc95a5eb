package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/online_catalog/internal/metrics"
	"github.com/Skotchmaster/online_catalog/internal/middleware/auth"
)

type Deps struct {
	ProductHandler  *ProductHTTP
	CategoryHandler *CategoryHTTP
	UserHandler     *UserHTTP
	JWTSecret       []byte
	Metrics         *metrics.Metrics
	// Ready reports whether dependencies can serve traffic; nil means always ready.
	Ready func(c echo.Context) error
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c); err != nil {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "not ready")
			}
		}
		return c.NoContent(http.StatusOK)
	})
	if d.Metrics != nil {
		e.GET("/metrics", d.Metrics.Handler())
	}

	requireAuth := auth.Bearer(d.JWTSecret)

	products := e.Group("/v1/product")
	products.GET("/search", d.ProductHandler.Search)
	products.GET("/fulltext", d.ProductHandler.FullText)
	products.GET("/:id", d.ProductHandler.Get)
	products.POST("", d.ProductHandler.Create, requireAuth)
	products.PUT("/:id", d.ProductHandler.Update, requireAuth)
	products.DELETE("/:id", d.ProductHandler.Delete, requireAuth)

	categories := e.Group("/v1/category")
	categories.GET("/search", d.CategoryHandler.Search)
	categories.GET("/:id", d.CategoryHandler.Get)
	categories.POST("", d.CategoryHandler.Create, requireAuth)
	categories.PUT("/:id", d.CategoryHandler.Update, requireAuth)
	categories.DELETE("/:id", d.CategoryHandler.Delete, requireAuth)

	users := e.Group("/v1/user")
	users.POST("/token", d.UserHandler.Token)
	users.POST("", d.UserHandler.Create)
	users.GET("/:id", d.UserHandler.Get)
	users.PUT("/:id", d.UserHandler.Update, requireAuth)
	users.DELETE("/:id", d.UserHandler.Delete, requireAuth)
}
