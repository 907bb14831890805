package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/jobcircle/onboarding-api/internal/models"
	"github.com/jobcircle/onboarding-api/internal/services"
	"github.com/jobcircle/onboarding-api/pkg/jwt"
)

// stubActivationService mimics the real workflow closely enough for
// handler tests: it persists through the sink on success so the cookie
// path is exercised.
type stubActivationService struct {
	result *models.ActivationResult
	user   *models.ActivatedUser
}

func (s *stubActivationService) Activate(ctx context.Context, params *models.ActivationParams, sink services.SessionSink) *models.ActivationResult {
	if s.user != nil {
		if err := sink.PersistSession(s.user, "at-123"); err != nil {
			return &models.ActivationResult{State: models.ActivationStateFailed, Error: err.Error()}
		}
	}
	return s.result
}

func activationRouter(stub *stubActivationService) *gin.Engine {
	tm := jwt.NewTokenManager("test-secret-at-least-32-chars-long", "onboarding-api", 24)
	handler := NewActivationHandler(stub, tm, "", false)
	router := gin.New()
	router.POST("/api/v1/activation", handler.Activate)
	router.POST("/api/v1/activation/logout", handler.Logout)
	return router
}

func TestActivationHandler_SuccessSetsSessionCookie(t *testing.T) {
	user := &models.ActivatedUser{ID: "u-42", Email: "ada@example.com", Name: "Ada"}
	stub := &stubActivationService{
		user:   user,
		result: &models.ActivationResult{State: models.ActivationStateDone, Method: models.ActivationMethodToken, User: user},
	}
	router := activationRouter(stub)

	body, _ := json.Marshal(models.ActivationParams{Token: "tok-abc"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/activation", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	cookies := w.Result().Cookies()
	var sessionCookie *http.Cookie
	for _, ck := range cookies {
		if ck.Name == models.CandidateSessionCookie {
			sessionCookie = ck
		}
	}
	assert.NotNil(t, sessionCookie, "activation must set the session cookie")
	assert.True(t, sessionCookie.HttpOnly)
	assert.NotEmpty(t, sessionCookie.Value)
}

func TestActivationHandler_FailedActivation(t *testing.T) {
	stub := &stubActivationService{
		result: &models.ActivationResult{State: models.ActivationStateFailed, Error: "missing identifier"},
	}
	router := activationRouter(stub)

	body, _ := json.Marshal(models.ActivationParams{})
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/activation", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "missing identifier")
	assert.Empty(t, w.Result().Cookies())
}

func TestActivationHandler_MalformedOTPRejectedAtBinding(t *testing.T) {
	stub := &stubActivationService{}
	router := activationRouter(stub)

	body, _ := json.Marshal(map[string]string{"otp": "12ab", "user_id": "u-42"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/activation", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestActivationHandler_Logout(t *testing.T) {
	router := activationRouter(&stubActivationService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/activation/logout", http.NoBody)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	assert.Len(t, cookies, 1)
	assert.Equal(t, models.CandidateSessionCookie, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}
