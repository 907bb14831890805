package assetstore

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jobcircle/onboarding-api/pkg/httpclient"
	"github.com/jobcircle/onboarding-api/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	if err := logger.Initialize(logger.Config{
		Level:       "debug",
		Environment: "development",
	}); err != nil {
		panic(err)
	}
}

func TestHTTPStore_Upload(t *testing.T) {
	var gotPath, gotAccessKey, gotSecretKey, gotFileName string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAccessKey = r.Header.Get("X-Storage-Key")
		gotSecretKey = r.Header.Get("X-Storage-Secret")

		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		gotFileName = header.Filename

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"url": "https://files.example.com/cvs/resume.pdf"}`))
	}))
	defer server.Close()

	store := NewHTTPStore(server.URL, "test-key", "test-secret", httpclient.NewStandardClient())

	ref, err := store.Upload(context.Background(), []byte("%PDF-1.4"), "resume.pdf", "application/pdf", PathCVs)
	assert.NoError(t, err)
	assert.Equal(t, "https://files.example.com/cvs/resume.pdf", ref)
	assert.Equal(t, "/cvs", gotPath)
	assert.Equal(t, "test-key", gotAccessKey)
	assert.Equal(t, "test-secret", gotSecretKey)
	assert.Equal(t, "resume.pdf", gotFileName)
}

func TestHTTPStore_Upload_PathFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"path": "cvs/resume.pdf"}`))
	}))
	defer server.Close()

	store := NewHTTPStore(server.URL, "k", "s", httpclient.NewStandardClient())

	ref, err := store.Upload(context.Background(), []byte("data"), "resume.pdf", "application/pdf", PathCVs)
	assert.NoError(t, err)
	assert.Equal(t, "cvs/resume.pdf", ref)
}

func TestHTTPStore_Upload_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bucket unavailable", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	store := NewHTTPStore(server.URL, "k", "s", httpclient.NewStandardClient())

	_, err := store.Upload(context.Background(), []byte("data"), "resume.pdf", "application/pdf", PathCVs)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "status 503")
}

func TestHTTPStore_Upload_MissingReference(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	store := NewHTTPStore(server.URL, "k", "s", httpclient.NewStandardClient())

	_, err := store.Upload(context.Background(), []byte("data"), "resume.pdf", "application/pdf", PathCVs)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no file reference")
}

func TestValidateCV(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		size        int
		wantErr     bool
	}{
		{"valid pdf", "application/pdf", 1024, false},
		{"valid docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", 1024, false},
		{"valid pdf uppercase", "APPLICATION/PDF", 1024, false},
		{"invalid image", "image/png", 1024, true},
		{"invalid text", "text/plain", 1024, true},
		{"too large", "application/pdf", 11 * 1024 * 1024, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCV(tt.contentType, tt.size)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCV() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidatePicture(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		size        int
		wantErr     bool
	}{
		{"valid jpeg", "image/jpeg", 1024, false},
		{"valid png", "image/png", 1024, false},
		{"valid webp", "image/webp", 1024, false},
		{"invalid gif", "image/gif", 1024, true},
		{"invalid pdf", "application/pdf", 1024, true},
		{"too large", "image/png", 6 * 1024 * 1024, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePicture(tt.contentType, tt.size)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePicture() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGenerateFileName(t *testing.T) {
	name := GenerateFileName("My Resume.PDF")
	assert.True(t, strings.HasSuffix(name, ".pdf"))
	assert.NotContains(t, name, " ")

	other := GenerateFileName("My Resume.PDF")
	assert.NotEqual(t, name, other)
}
