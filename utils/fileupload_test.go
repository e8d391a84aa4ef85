package utils

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

// createTestFileHeader builds a real multipart.FileHeader from an in-memory form
func createTestFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("swatch", filename)
	assert.NoError(t, err)
	_, err = part.Write(content)
	assert.NoError(t, err)
	assert.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	assert.NoError(t, req.ParseMultipartForm(32<<20))

	return req.MultipartForm.File["swatch"][0]
}

func TestValidateImageFile(t *testing.T) {
	tests := []struct {
		name         string
		filename     string
		content      []byte
		expectedCode string
	}{
		{"valid png", "swatch.png", []byte("png bytes"), ""},
		{"valid jpg", "swatch.jpg", []byte("jpg bytes"), ""},
		{"valid jpeg", "swatch.jpeg", []byte("jpeg bytes"), ""},
		{"valid webp", "swatch.webp", []byte("webp bytes"), ""},
		{"uppercase extension", "SWATCH.PNG", []byte("png bytes"), ""},
		{"unsupported gif", "swatch.gif", []byte("gif bytes"), "INVALID_FILE_TYPE"},
		{"no extension", "swatch", []byte("bytes"), "INVALID_FILE_TYPE"},
		{"empty file", "swatch.png", nil, "EMPTY_FILE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fh := createTestFileHeader(t, tt.filename, tt.content)
			err := ValidateImageFile(fh)

			if tt.expectedCode == "" {
				assert.NoError(t, err)
				return
			}

			var uploadErr *FileUploadError
			assert.ErrorAs(t, err, &uploadErr)
			assert.Equal(t, tt.expectedCode, uploadErr.Code)
		})
	}
}

func TestValidateImageFileMissing(t *testing.T) {
	err := ValidateImageFile(nil)
	var uploadErr *FileUploadError
	assert.ErrorAs(t, err, &uploadErr)
	assert.Equal(t, "MISSING_FILE", uploadErr.Code)
}

func TestValidateImageFileTooLarge(t *testing.T) {
	fh := createTestFileHeader(t, "swatch.png", []byte("bytes"))
	fh.Size = MaxFileSize + 1

	err := ValidateImageFile(fh)
	var uploadErr *FileUploadError
	assert.ErrorAs(t, err, &uploadErr)
	assert.Equal(t, "FILE_TOO_LARGE", uploadErr.Code)
}
