package storage

import (
	"fmt"
	"path"
	"strings"
	"time"
)

// GenerateDashboardFolderPath generates a consistent folder path for published dashboards
// Format: YYYY/MM/DD/Dashboard-YYYY-MM-DD-HH-MM-SS
func GenerateDashboardFolderPath(timestamp time.Time) string {
	timestamp = timestamp.UTC()
	return fmt.Sprintf("%04d/%02d/%02d/Dashboard-%04d-%02d-%02d-%02d-%02d-%02d",
		timestamp.Year(), timestamp.Month(), timestamp.Day(),
		timestamp.Year(), timestamp.Month(), timestamp.Day(),
		timestamp.Hour(), timestamp.Minute(), timestamp.Second())
}

// GetContentType determines the MIME content type based on file extension
func GetContentType(filename string) string {
	switch strings.ToLower(path.Ext(filename)) {
	case ".json":
		return "application/json"
	case ".txt":
		return "text/plain"
	case ".html":
		return "text/html"
	case ".css":
		return "text/css"
	case ".md":
		return "text/markdown"
	case ".csv":
		return "text/csv"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/octet-stream"
	}
}

// cleanPath normalizes a storage path relative to the storage root.
// Leading ".." elements cannot climb above the root.
func cleanPath(p string) string {
	cleaned := path.Clean("/" + strings.ReplaceAll(p, "\\", "/"))
	return strings.TrimPrefix(cleaned, "/")
}
