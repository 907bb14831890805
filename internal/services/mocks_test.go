package services_test

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/stretchr/testify/mock"

	"github.com/jobcircle/onboarding-api/internal/models"
	"github.com/jobcircle/onboarding-api/pkg/coreapi"
)

// MockCoreAPIClient is a mock implementation of coreapi.Client
type MockCoreAPIClient struct {
	mock.Mock
}

func (m *MockCoreAPIClient) Register(ctx context.Context, payload *models.SubmissionPayload) (*coreapi.RegisterResponse, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*coreapi.RegisterResponse), args.Error(1)
}

func (m *MockCoreAPIClient) Activate(ctx context.Context, req *models.ActivationRequest) (*coreapi.ActivateResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*coreapi.ActivateResponse), args.Error(1)
}

func (m *MockCoreAPIClient) CreateCVRecord(ctx context.Context, userID, fileRef string) error {
	args := m.Called(ctx, userID, fileRef)
	return args.Error(0)
}

func (m *MockCoreAPIClient) ApproveCandidateProfile(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockUploader is a mock implementation of assetstore.Uploader
type MockUploader struct {
	mock.Mock
}

func (m *MockUploader) Upload(ctx context.Context, data []byte, fileName, contentType, targetPath string) (string, error) {
	args := m.Called(ctx, data, fileName, contentType, targetPath)
	return args.String(0), args.Error(1)
}

// MockSessionSink records the session an activation attempt persists
type MockSessionSink struct {
	mock.Mock
}

func (m *MockSessionSink) PersistSession(user *models.ActivatedUser, accessToken string) error {
	args := m.Called(user, accessToken)
	return args.Error(0)
}

// MockHTTPClient is a mock implementation of httpclient.Client
type MockHTTPClient struct {
	mock.Mock
}

func (m *MockHTTPClient) Post(url, contentType string, body io.Reader) (*http.Response, error) {
	args := m.Called(url, contentType, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*http.Response), args.Error(1)
}

func (m *MockHTTPClient) Get(url string) (*http.Response, error) {
	args := m.Called(url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*http.Response), args.Error(1)
}

func (m *MockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*http.Response), args.Error(1)
}

func emptyResponse(status int) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader("")),
	}
}
