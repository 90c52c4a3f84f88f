// controllers/upload_controller.go
package controllers

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/harisapp/haris_backend/models"
	"github.com/harisapp/haris_backend/utils"
)

// UploadController stores request attachments under uploads/ and hands back
// the public URL the client then embeds in its request payload.
type UploadController struct{}

func NewUploadController() *UploadController {
	return &UploadController{}
}

// Upload handles POST /api/uploads (multipart, field name "file")
func (uc *UploadController) Upload(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Missing file",
		})
	}
	if fileHeader.Size > utils.MaxFileSize {
		return c.JSON(http.StatusRequestEntityTooLarge, models.Response{
			Status:  http.StatusRequestEntityTooLarge,
			Message: "File exceeds the 10MB limit",
		})
	}

	src, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to read uploaded file",
		})
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, utils.MaxFileSize+1))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to read uploaded file",
		})
	}
	if int64(len(data)) > utils.MaxFileSize {
		return c.JSON(http.StatusRequestEntityTooLarge, models.Response{
			Status:  http.StatusRequestEntityTooLarge,
			Message: "File exceeds the 10MB limit",
		})
	}

	cleanName := utils.CleanFilename(fileHeader.Filename)
	mediaType := utils.DetectMediaType(cleanName)
	storedName := fmt.Sprintf("%s/%d_%s", actor.ID.Hex(), time.Now().UnixNano(), cleanName)

	url, err := utils.UploadFile(data, storedName, mediaType)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	result := map[string]interface{}{
		"url":       url,
		"name":      cleanName,
		"mediaType": mediaType,
	}
	if mediaType == "image" {
		if thumbURL, err := utils.GenerateThumbnail(storedName); err == nil {
			result["thumbnailUrl"] = thumbURL
		}
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "File uploaded",
		Data:    result,
	})
}
