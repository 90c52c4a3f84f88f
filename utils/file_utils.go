package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

const (
	// Base directory for storing uploaded files
	uploadBaseDir = "uploads"
	// Base URL for serving files
	baseURL = "/uploads"
	// Maximum file size (10MB)
	MaxFileSize = 10 * 1024 * 1024
)

var (
	// Allowed image extensions
	allowedImageExts = map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
		".gif":  true,
	}
	// Allowed document extensions
	allowedDocumentExts = map[string]bool{
		".pdf":  true,
		".doc":  true,
		".docx": true,
		".xls":  true,
		".xlsx": true,
	}
)

// ValidateFileType checks if the file extension is allowed for the given media type
func ValidateFileType(filename, mediaType string) error {
	ext := strings.ToLower(filepath.Ext(filename))

	switch mediaType {
	case "image":
		if !allowedImageExts[ext] {
			return fmt.Errorf("invalid image file type: %s", ext)
		}
	case "document":
		if !allowedDocumentExts[ext] {
			return fmt.Errorf("invalid document file type: %s", ext)
		}
	default:
		return fmt.Errorf("unknown media type: %s", mediaType)
	}
	return nil
}

// DetectMediaType classifies a filename as image or document by extension
func DetectMediaType(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if allowedImageExts[ext] {
		return "image"
	}
	return "document"
}

// UploadFile stores the file under uploads/ and returns its public URL
func UploadFile(data []byte, filename, mediaType string) (string, error) {
	if len(data) > MaxFileSize {
		return "", fmt.Errorf("file exceeds maximum size of %d bytes", MaxFileSize)
	}
	if err := ValidateFileType(filename, mediaType); err != nil {
		return "", err
	}

	fullPath := filepath.Join(uploadBaseDir, filepath.FromSlash(filename))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return baseURL + "/" + filepath.ToSlash(filename), nil
}

// GenerateThumbnail creates a 300px-wide thumbnail next to an uploaded image
// and returns its public URL
func GenerateThumbnail(filename string) (string, error) {
	srcPath := filepath.Join(uploadBaseDir, filepath.FromSlash(filename))

	img, err := imaging.Open(srcPath)
	if err != nil {
		return "", fmt.Errorf("failed to open image for thumbnail: %w", err)
	}

	thumb := imaging.Resize(img, 300, 0, imaging.Lanczos)

	ext := filepath.Ext(filename)
	thumbName := strings.TrimSuffix(filename, ext) + "_thumb" + ext
	thumbPath := filepath.Join(uploadBaseDir, filepath.FromSlash(thumbName))

	if err := imaging.Save(thumb, thumbPath); err != nil {
		return "", fmt.Errorf("failed to save thumbnail: %w", err)
	}

	return baseURL + "/" + filepath.ToSlash(thumbName), nil
}
