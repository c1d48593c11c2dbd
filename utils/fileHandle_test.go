package utils

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"lms/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fileHeader builds a real multipart.FileHeader the way an HTTP upload would
func fileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req, err := http.NewRequest("POST", "/upload", &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))

	files := req.MultipartForm.File["file"]
	require.Len(t, files, 1)
	return files[0]
}

func setupUploadConfig(t *testing.T) {
	t.Helper()
	config.AppConfig = &config.Config{
		UploadDir:       t.TempDir(),
		MaxUploadSizeMB: 1,
	}
}

func TestValidateUploadAcceptsPNG(t *testing.T) {
	setupUploadConfig(t)

	// Minimal PNG signature so content sniffing sees image/png
	png := append([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, make([]byte, 64)...)
	header := fileHeader(t, "diagram.png", png)

	assert.NoError(t, ValidateUpload(header))
}

func TestValidateUploadRejectsDisallowedExtension(t *testing.T) {
	setupUploadConfig(t)

	header := fileHeader(t, "payload.exe", []byte("MZ binary"))

	err := ValidateUpload(header)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ".exe")
}

func TestValidateUploadRejectsMismatchedContent(t *testing.T) {
	setupUploadConfig(t)

	// HTML content renamed to .pdf fails the MIME sniff
	header := fileHeader(t, "notes.pdf", []byte("<html><body>not a pdf</body></html>"))

	err := ValidateUpload(header)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "content type")
}

func TestValidateUploadRejectsOversizedFile(t *testing.T) {
	setupUploadConfig(t)

	big := make([]byte, 2*1024*1024)
	header := fileHeader(t, "big.txt", big)

	err := ValidateUpload(header)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "limit")
}

func TestSaveUploadedFileStoresUnderSubdir(t *testing.T) {
	setupUploadConfig(t)

	header := fileHeader(t, "readme.txt", []byte("plain text content"))

	path, err := SaveUploadedFile(header, "submissions")
	require.NoError(t, err)

	assert.Equal(t, ".txt", filepath.Ext(path))
	assert.NotContains(t, filepath.Base(path), "readme")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(len("plain text content")), info.Size())
}

func TestGetFileURL(t *testing.T) {
	config.AppConfig = &config.Config{UploadDir: "./uploads"}

	assert.Equal(t, "", GetFileURL(""))
	assert.Equal(t, "/uploads/submissions/a.pdf", GetFileURL("./uploads/submissions/a.pdf"))
}
