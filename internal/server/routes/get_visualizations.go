package routes

import (
	"net/http"
	"os"
	"sort"
	"strings"

	"github.com/labstack/echo/v4"

	"agentviz/internal/server/middleware"
)

// GetVisualizationsHandler lists the rendered artifacts in the output
// directory, newest first.
func GetVisualizationsHandler(c echo.Context) error {
	type artifact struct {
		Name     string `json:"name"`
		Size     int64  `json:"size"`
		Modified string `json:"modified"`
	}

	app := c.(*middleware.AppContext).App

	entries, err := os.ReadDir(app.OutputDir)
	if err != nil {
		if os.IsNotExist(err) {
			return c.JSON(http.StatusOK, []artifact{})
		}
		return c.String(http.StatusInternalServerError, err.Error())
	}

	artifacts := []artifact{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".html") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		artifacts = append(artifacts, artifact{
			Name:     entry.Name(),
			Size:     info.Size(),
			Modified: info.ModTime().UTC().Format("2006-01-02T15:04:05Z"),
		})
	}

	sort.Slice(artifacts, func(i, j int) bool {
		return artifacts[i].Modified > artifacts[j].Modified
	})

	return c.JSON(http.StatusOK, artifacts)
}
