package server

import (
	"agentviz/internal/server/routes"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api")

	// Visualization routes
	apiRoutes.GET("/visualizations", routes.GetVisualizationsHandler)
	apiRoutes.GET("/visualizations/:name", routes.GetVisualizationHandler)
	apiRoutes.POST("/render", routes.RenderHandler)
}
