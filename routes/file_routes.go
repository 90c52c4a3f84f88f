package routes

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/harisapp/haris_backend/models"
	"github.com/labstack/echo/v4"
)

// RegisterFileRoutes sets up serving of uploaded attachments
func RegisterFileRoutes(e *echo.Echo) {
	e.GET("/uploads/*", ServeFile)
}

// ServeFile serves an uploaded file after guarding against path traversal
func ServeFile(c echo.Context) error {
	path := c.Param("*")
	if path == "" {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "File not found",
		})
	}

	cleanPath := filepath.Clean(path)
	if cleanPath == ".." || strings.HasPrefix(cleanPath, "../") {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "Access denied",
		})
	}

	fullPath := filepath.Join("uploads", cleanPath)
	info, err := os.Stat(fullPath)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "File not found",
		})
	}
	if info.IsDir() {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "Access denied",
		})
	}

	c.Response().Header().Set("Cache-Control", "public, max-age=31536000")
	c.Response().Header().Set("Expires", time.Now().AddDate(1, 0, 0).Format(time.RFC1123))
	return c.File(fullPath)
}
