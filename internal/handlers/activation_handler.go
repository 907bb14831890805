package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jobcircle/onboarding-api/internal/middleware"
	"github.com/jobcircle/onboarding-api/internal/models"
	"github.com/jobcircle/onboarding-api/internal/services"
	"github.com/jobcircle/onboarding-api/pkg/jwt"
)

// ActivationHandler exposes account activation and the session it
// establishes.
type ActivationHandler struct {
	service      services.ActivationServiceInterface
	tokenManager *jwt.TokenManager
	cookieDomain string
	cookieSecure bool
}

// NewActivationHandler creates a new activation handler instance
func NewActivationHandler(
	service services.ActivationServiceInterface,
	tokenManager *jwt.TokenManager,
	cookieDomain string,
	cookieSecure bool,
) *ActivationHandler {
	return &ActivationHandler{
		service:      service,
		tokenManager: tokenManager,
		cookieDomain: cookieDomain,
		cookieSecure: cookieSecure,
	}
}

// cookieSessionSink persists an activated session as a signed cookie
// on the in-flight response.
type cookieSessionSink struct {
	handler *ActivationHandler
	c       *gin.Context
}

func (s *cookieSessionSink) PersistSession(user *models.ActivatedUser, accessToken string) error {
	token, err := s.handler.tokenManager.GenerateToken(user.ID, user.Email, user.Name, accessToken)
	if err != nil {
		return err
	}
	middleware.SetSessionCookie(s.c, token, s.handler.tokenManager.GetExpirationTime(), s.handler.cookieDomain, s.handler.cookieSecure)
	return nil
}

// Activate handles POST /api/v1/activation
func (h *ActivationHandler) Activate(c *gin.Context) {
	var params models.ActivationParams
	if err := c.ShouldBindJSON(&params); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Validation failed", ParseValidationErrors(err), err)
		return
	}

	result := h.service.Activate(c.Request.Context(), &params, &cookieSessionSink{handler: h, c: c})
	if result.State == models.ActivationStateFailed {
		c.JSON(http.StatusUnprocessableEntity, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetSession handles GET /api/v1/activation/session
func (h *ActivationHandler) GetSession(c *gin.Context) {
	session, err := middleware.GetCandidateSession(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// Logout handles POST /api/v1/activation/logout
func (h *ActivationHandler) Logout(c *gin.Context) {
	middleware.ClearSessionCookie(c, h.cookieDomain, h.cookieSecure)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
