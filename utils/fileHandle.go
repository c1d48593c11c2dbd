package utils

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"lms/config"

	"github.com/google/uuid"
)

// Allowed upload types. Both the extension and the sniffed MIME type must
// match, a renamed binary with a .pdf extension gets rejected.
var allowedExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
	".pdf": true, ".doc": true, ".docx": true, ".ppt": true, ".pptx": true,
	".xls": true, ".xlsx": true, ".txt": true, ".md": true,
	".mp4": true, ".zip": true,
}

var allowedMimePrefixes = []string{
	"image/",
	"video/mp4",
	"application/pdf",
	"application/msword",
	"application/vnd.openxmlformats-officedocument",
	"application/vnd.ms-excel",
	"application/vnd.ms-powerpoint",
	"application/zip",
	"application/x-zip-compressed",
	"text/plain",
	"application/octet-stream", // office files often sniff as this
}

// ValidateUpload checks size, extension and detected MIME type against the
// allow-lists
func ValidateUpload(file *multipart.FileHeader) error {
	maxBytes := int64(config.AppConfig.MaxUploadSizeMB) * 1024 * 1024
	if file.Size > maxBytes {
		return fmt.Errorf("file exceeds the %dMB limit", config.AppConfig.MaxUploadSizeMB)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		return fmt.Errorf("file type %s is not allowed", ext)
	}

	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	// Sniff the first 512 bytes for the real content type
	buf := make([]byte, 512)
	n, err := src.Read(buf)
	if err != nil && err != io.EOF {
		return err
	}
	detected := http.DetectContentType(buf[:n])

	for _, prefix := range allowedMimePrefixes {
		if strings.HasPrefix(detected, prefix) {
			return nil
		}
	}
	return fmt.Errorf("content type %s is not allowed", detected)
}

// SaveUploadedFile validates and stores an upload under the configured
// directory with a uuid-based name, returning the stored path
func SaveUploadedFile(file *multipart.FileHeader, subDir string) (string, error) {
	if err := ValidateUpload(file); err != nil {
		return "", err
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	destDir := filepath.Join(config.AppConfig.UploadDir, subDir)
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	newFilename := uuid.NewString() + ext
	filePath := filepath.Join(destDir, newFilename)

	dst, err := os.Create(filePath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}

	return filePath, nil
}

func GetFileURL(filePath string) string {
	if filePath == "" {
		return ""
	}
	// Stored paths are served from the /uploads static mount
	rel := strings.TrimPrefix(filepath.ToSlash(filePath), filepath.ToSlash(config.AppConfig.UploadDir))
	return "/uploads" + rel
}
