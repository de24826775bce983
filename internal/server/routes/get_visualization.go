package routes

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"

	"agentviz/internal/server/middleware"
)

// GetVisualizationHandler serves one rendered artifact by name.
func GetVisualizationHandler(c echo.Context) error {
	app := c.(*middleware.AppContext).App

	// The name is a bare file name; anything path-like is rejected.
	name := c.Param("name")
	if name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return c.String(http.StatusBadRequest, "invalid artifact name")
	}
	if !strings.HasSuffix(name, ".html") && !strings.HasSuffix(name, ".json") {
		return c.String(http.StatusBadRequest, "invalid artifact name")
	}

	path := filepath.Join(app.OutputDir, name)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return c.String(http.StatusNotFound, "artifact not found")
		}
		return c.String(http.StatusInternalServerError, err.Error())
	}

	return c.File(path)
}
