package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jobcircle/onboarding-api/internal/models"
	"github.com/jobcircle/onboarding-api/internal/services"
	"github.com/jobcircle/onboarding-api/internal/wizard"
	apperrors "github.com/jobcircle/onboarding-api/pkg/errors"
)

// OnboardingHandler exposes the registration wizard over HTTP.
type OnboardingHandler struct {
	service services.RegistrationServiceInterface
}

// NewOnboardingHandler creates a new onboarding handler instance
func NewOnboardingHandler(service services.RegistrationServiceInterface) *OnboardingHandler {
	return &OnboardingHandler{service: service}
}

// CreateDraft handles POST /api/v1/onboarding/drafts
func (h *OnboardingHandler) CreateDraft(c *gin.Context) {
	c.JSON(http.StatusCreated, h.service.CreateDraft(c.Request.Context()))
}

// GetDraft handles GET /api/v1/onboarding/drafts/:id
func (h *OnboardingHandler) GetDraft(c *gin.Context) {
	state, err := h.service.GetDraft(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// SavePersonal handles PUT /api/v1/onboarding/drafts/:id/personal
func (h *OnboardingHandler) SavePersonal(c *gin.Context) {
	var req models.PersonalInfo
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Validation failed", ParseValidationErrors(err), err)
		return
	}

	if err := h.service.SavePersonal(c.Request.Context(), c.Param("id"), &req); err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// SaveCareer handles PUT /api/v1/onboarding/drafts/:id/career
func (h *OnboardingHandler) SaveCareer(c *gin.Context) {
	var req models.CareerInfo
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Validation failed", ParseValidationErrors(err), err)
		return
	}

	if err := h.service.SaveCareer(c.Request.Context(), c.Param("id"), &req); err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// SelectSkill handles POST /api/v1/onboarding/drafts/:id/skills
func (h *OnboardingHandler) SelectSkill(c *gin.Context) {
	var req models.SelectSkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Validation failed", ParseValidationErrors(err), err)
		return
	}

	state, err := h.service.SelectSkill(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// AddOtherSkill handles POST /api/v1/onboarding/drafts/:id/skills/other
func (h *OnboardingHandler) AddOtherSkill(c *gin.Context) {
	var req models.OtherSkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Validation failed", ParseValidationErrors(err), err)
		return
	}

	state, err := h.service.AddOtherSkill(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// RemoveSkill handles DELETE /api/v1/onboarding/drafts/:id/skills/:skillId
func (h *OnboardingHandler) RemoveSkill(c *gin.Context) {
	state, err := h.service.RemoveSkill(c.Request.Context(), c.Param("id"), c.Param("skillId"))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// SearchSkills handles GET /api/v1/skills/search
func (h *OnboardingHandler) SearchSkills(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		respondError(c, http.StatusBadRequest, "Query parameter 'q' is required", nil)
		return
	}
	draftID := c.Query("draft_id")
	if draftID == "" {
		respondError(c, http.StatusBadRequest, "Query parameter 'draft_id' is required", nil)
		return
	}
	sequence, err := strconv.ParseUint(c.DefaultQuery("sequence", "0"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid sequence number", err)
		return
	}

	resp, err := h.service.SearchSkills(c.Request.Context(), draftID, query, sequence)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// StageAsset handles POST /api/v1/onboarding/drafts/:id/assets/:kind
func (h *OnboardingHandler) StageAsset(c *gin.Context) {
	kind, ok := parseAssetKind(c.Param("kind"))
	if !ok {
		respondError(c, http.StatusBadRequest, "Unknown asset kind", nil)
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Missing file upload", err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Failed to read uploaded file", err)
		return
	}

	contentType := header.Header.Get("Content-Type")
	if err := h.service.StageAsset(c.Request.Context(), c.Param("id"), kind, header.Filename, contentType, data); err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Submit handles POST /api/v1/onboarding/drafts/:id/submit
func (h *OnboardingHandler) Submit(c *gin.Context) {
	var req models.SubmitRequest
	// Body is optional; an empty body means no captcha token
	_ = c.ShouldBindJSON(&req) //nolint:errcheck

	resp, err := h.service.Submit(c.Request.Context(), c.Param("id"), req.RecaptchaToken)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GeneratePassword handles POST /api/v1/onboarding/password
func (h *OnboardingHandler) GeneratePassword(c *gin.Context) {
	c.JSON(http.StatusOK, models.GeneratedPasswordResponse{Password: wizard.GeneratePassword()})
}

func (h *OnboardingHandler) respondServiceError(c *gin.Context, err error) {
	switch {
	case apperrors.Is(err, apperrors.ErrNotFound):
		respondError(c, http.StatusNotFound, "Draft not found or expired", err)
	case apperrors.Is(err, apperrors.ErrInvalidInput):
		respondError(c, http.StatusBadRequest, err.Error(), err)
	case apperrors.Is(err, apperrors.ErrConflict):
		respondError(c, http.StatusConflict, err.Error(), err)
	case apperrors.Is(err, apperrors.ErrUpstream):
		respondError(c, http.StatusBadGateway, "Upstream service unavailable", err)
	default:
		respondError(c, http.StatusInternalServerError, "Internal server error", err)
	}
}

func parseAssetKind(raw string) (models.AssetKind, bool) {
	switch raw {
	case "cv":
		return models.AssetKindCV, true
	case "profile-picture":
		return models.AssetKindProfilePicture, true
	default:
		return "", false
	}
}
