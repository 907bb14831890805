package assetstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/jobcircle/onboarding-api/pkg/httpclient"
	"github.com/jobcircle/onboarding-api/pkg/logger"
	"github.com/jobcircle/onboarding-api/pkg/metrics"
	"go.uber.org/zap"
)

// Credential header names expected by the object-store upload endpoint.
const (
	headerAccessKey = "X-Storage-Key"
	headerSecretKey = "X-Storage-Secret"
)

// HTTPStore uploads assets to the object-store HTTP endpoint using multipart
// form data and two static credential headers.
type HTTPStore struct {
	endpoint   string
	accessKey  string
	secretKey  string
	httpClient httpclient.Client
}

// uploadResponse is the object store's success payload. Older deployments
// return the reference under "path" instead of "url".
type uploadResponse struct {
	URL  string `json:"url"`
	Path string `json:"path"`
}

// NewHTTPStore creates an object-store client for the multipart upload endpoint
func NewHTTPStore(endpoint, accessKey, secretKey string, httpClient httpclient.Client) *HTTPStore {
	logger.Info("Object storage client initialized",
		zap.String("backend", "http"),
		zap.String("endpoint", endpoint),
	)

	return &HTTPStore{
		endpoint:   endpoint,
		accessKey:  accessKey,
		secretKey:  secretKey,
		httpClient: httpClient,
	}
}

// Upload sends the file to the store under the given target path and returns
// the stored file's public reference. A non-success status is an error; the
// caller owns any retry decision.
func (s *HTTPStore) Upload(ctx context.Context, data []byte, fileName, contentType, targetPath string) (string, error) {
	start := time.Now()
	operation := "upload"

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return "", fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("failed to write multipart body: %w", err)
	}
	if err := writer.WriteField("path", targetPath); err != nil {
		return "", fmt.Errorf("failed to write path field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/%s", s.endpoint, targetPath), &body)
	if err != nil {
		return "", fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set(headerAccessKey, s.accessKey)
	req.Header.Set(headerSecretKey, s.secretKey)

	resp, err := s.httpClient.Do(req)
	duration := metrics.MeasureDuration(start)
	if err != nil {
		metrics.StorageRequestDuration.WithLabelValues(operation, "error").Observe(duration)
		metrics.StorageRequestTotal.WithLabelValues(operation, "error").Inc()
		logger.LogAPICall(ctx, "object_storage", operation, "error", duration,
			zap.Error(err),
			zap.String("target_path", targetPath),
		)
		return "", fmt.Errorf("failed to upload file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		metrics.StorageRequestDuration.WithLabelValues(operation, "error").Observe(duration)
		metrics.StorageRequestTotal.WithLabelValues(operation, "error").Inc()
		logger.LogAPICall(ctx, "object_storage", operation, "error", duration,
			zap.Int("status_code", resp.StatusCode),
			zap.String("target_path", targetPath),
		)
		return "", fmt.Errorf("object store returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var result uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode upload response: %w", err)
	}

	ref := result.URL
	if ref == "" {
		ref = result.Path
	}
	if ref == "" {
		return "", fmt.Errorf("object store response carried no file reference")
	}

	metrics.StorageRequestDuration.WithLabelValues(operation, "success").Observe(duration)
	metrics.StorageRequestTotal.WithLabelValues(operation, "success").Inc()
	logger.LogAPICall(ctx, "object_storage", operation, "success", duration,
		zap.String("target_path", targetPath),
		zap.Int("size_bytes", len(data)),
	)

	return ref, nil
}
