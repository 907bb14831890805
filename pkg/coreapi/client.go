// Package coreapi talks to the accounts service that owns candidate
// records: registration, activation, CV records and profile approval.
//
// Every method maps to exactly one upstream attempt. Registration and
// activation are not idempotent upstream, so nothing here retries; the
// caller decides what a failure means for its flow.
package coreapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/jobcircle/onboarding-api/internal/models"
	apperrors "github.com/jobcircle/onboarding-api/pkg/errors"
	"github.com/jobcircle/onboarding-api/pkg/httpclient"
	"github.com/jobcircle/onboarding-api/pkg/logger"
	"github.com/jobcircle/onboarding-api/pkg/metrics"
)

const serviceName = "accounts-api"

// Client is the accounts-service API surface this service depends on.
type Client interface {
	Register(ctx context.Context, payload *models.SubmissionPayload) (*RegisterResponse, error)
	Activate(ctx context.Context, req *models.ActivationRequest) (*ActivateResponse, error)
	CreateCVRecord(ctx context.Context, userID, fileRef string) error
	ApproveCandidateProfile(ctx context.Context, userID string) error
}

// RegisterResponse is the upstream reply to a registration call.
type RegisterResponse struct {
	Success bool   `json:"success"`
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

// ActivateResponse is the upstream reply to an activation call. A
// reply without both the access token and the user identity is not a
// success, whatever the status code said.
type ActivateResponse struct {
	AccessToken string                `json:"access_token"`
	User        *models.ActivatedUser `json:"user"`
	Message     string                `json:"message"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// HTTPClient calls the accounts service over HTTP.
type HTTPClient struct {
	baseURL    string
	httpClient httpclient.Client
}

var _ Client = (*HTTPClient)(nil)

// NewClient builds an accounts-service client against the given base
// URL.
func NewClient(baseURL string, httpClient httpclient.Client) *HTTPClient {
	return &HTTPClient{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// Register submits a finalized candidate payload. A reply with
// success=false is returned as an upstream error carrying the service's
// message.
func (c *HTTPClient) Register(ctx context.Context, payload *models.SubmissionPayload) (*RegisterResponse, error) {
	start := time.Now()
	operation := "register"

	url := fmt.Sprintf("%s/candidates/register", c.baseURL)
	resp, err := c.postJSON(ctx, url, payload)
	if err != nil {
		c.observe(ctx, operation, "error", start, err)
		return nil, apperrors.UpstreamError(serviceName, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		upstreamErr := decodeError(resp)
		c.observe(ctx, operation, strconv.Itoa(resp.StatusCode), start, upstreamErr)
		return nil, upstreamErr
	}

	var out RegisterResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		c.observe(ctx, operation, "decode_error", start, err)
		return nil, apperrors.UpstreamError(serviceName, err.Error())
	}
	if !out.Success || out.UserID == "" {
		err := fmt.Errorf("%w: registration rejected: %s", apperrors.ErrUpstream, out.Message)
		c.observe(ctx, operation, "rejected", start, err)
		return nil, err
	}

	c.observe(ctx, operation, "success", start, nil)
	return &out, nil
}

// Activate redeems an activation credential for an access token and
// user identity.
func (c *HTTPClient) Activate(ctx context.Context, req *models.ActivationRequest) (*ActivateResponse, error) {
	start := time.Now()
	operation := "activate"

	url := fmt.Sprintf("%s/auth/activate", c.baseURL)
	resp, err := c.postJSON(ctx, url, req)
	if err != nil {
		c.observe(ctx, operation, "error", start, err)
		return nil, apperrors.UpstreamError(serviceName, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		upstreamErr := decodeError(resp)
		c.observe(ctx, operation, strconv.Itoa(resp.StatusCode), start, upstreamErr)
		return nil, upstreamErr
	}

	var out ActivateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		c.observe(ctx, operation, "decode_error", start, err)
		return nil, apperrors.UpstreamError(serviceName, err.Error())
	}
	if out.AccessToken == "" || out.User == nil {
		err := fmt.Errorf("%w: activation reply missing token or user", apperrors.ErrUpstream)
		c.observe(ctx, operation, "incomplete", start, err)
		return nil, err
	}

	c.observe(ctx, operation, "success", start, nil)
	return &out, nil
}

// CreateCVRecord registers an uploaded CV file against the candidate's
// account.
func (c *HTTPClient) CreateCVRecord(ctx context.Context, userID, fileRef string) error {
	start := time.Now()
	operation := "create_cv_record"

	body := map[string]string{
		"user_id":  userID,
		"file_ref": fileRef,
	}
	url := fmt.Sprintf("%s/cv-records", c.baseURL)
	resp, err := c.postJSON(ctx, url, body)
	if err != nil {
		c.observe(ctx, operation, "error", start, err)
		return apperrors.UpstreamError(serviceName, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		upstreamErr := decodeError(resp)
		c.observe(ctx, operation, strconv.Itoa(resp.StatusCode), start, upstreamErr)
		return upstreamErr
	}

	c.observe(ctx, operation, "success", start, nil)
	return nil
}

// ApproveCandidateProfile marks the candidate's profile reviewable
// after a CV has been attached.
func (c *HTTPClient) ApproveCandidateProfile(ctx context.Context, userID string) error {
	start := time.Now()
	operation := "approve_profile"

	url := fmt.Sprintf("%s/candidates/%s/approve", c.baseURL, userID)
	resp, err := c.postJSON(ctx, url, struct{}{})
	if err != nil {
		c.observe(ctx, operation, "error", start, err)
		return apperrors.UpstreamError(serviceName, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		upstreamErr := decodeError(resp)
		c.observe(ctx, operation, strconv.Itoa(resp.StatusCode), start, upstreamErr)
		return upstreamErr
	}

	c.observe(ctx, operation, "success", start, nil)
	return nil
}

func (c *HTTPClient) postJSON(ctx context.Context, url string, body interface{}) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.httpClient.Do(req)
}

func (c *HTTPClient) observe(ctx context.Context, operation, status string, start time.Time, err error) {
	duration := metrics.MeasureDuration(start)
	metrics.CoreAPIRequestDuration.WithLabelValues(operation, status).Observe(duration)
	metrics.CoreAPIRequestTotal.WithLabelValues(operation, status).Inc()
	fields := []zap.Field{}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	logger.LogAPICall(ctx, serviceName, operation, status, duration, fields...)
}

func decodeError(resp *http.Response) error {
	var body errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && (body.Message != "" || body.Error != "") {
		msg := body.Message
		if msg == "" {
			msg = body.Error
		}
		if resp.StatusCode == http.StatusUnprocessableEntity || resp.StatusCode == http.StatusBadRequest {
			return fmt.Errorf("%w: %s", apperrors.ErrInvalidInput, msg)
		}
		return fmt.Errorf("%w: %s %d: %s", apperrors.ErrUpstream, serviceName, resp.StatusCode, msg)
	}
	return fmt.Errorf("%w: %s returned status %d", apperrors.ErrUpstream, serviceName, resp.StatusCode)
}
