package rec_http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// NewRouter builds the echo instance serving the recommendation API.
// CORS is permissive: any origin may call the endpoint, and preflight
// requests are answered by the middleware without reaching a handler.
func NewRouter(h *Handler) *echo.Echo {
	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{"authorization", "x-client-info", "apikey", "content-type"},
	}))

	e.POST("/v1/recommendations", h.Recommendations)

	return e
}
