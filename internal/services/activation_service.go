package services

import (
	"context"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/jobcircle/onboarding-api/internal/models"
	"github.com/jobcircle/onboarding-api/pkg/coreapi"
	"github.com/jobcircle/onboarding-api/pkg/logger"
	"github.com/jobcircle/onboarding-api/pkg/metrics"
)

var otpPattern = regexp.MustCompile(`^[0-9]{6}$`)

// ActivationService runs the post-registration activation workflow.
// One call drives the whole attempt through its states; a Failed
// outcome is terminal and the caller gets whatever the attempt
// produced up to that point.
type ActivationService struct {
	coreAPI coreapi.Client
}

var _ ActivationServiceInterface = (*ActivationService)(nil)

// NewActivationService creates a new activation service instance
func NewActivationService(coreAPI coreapi.Client) *ActivationService {
	return &ActivationService{coreAPI: coreAPI}
}

// Activate resolves the identifier set into exactly one credential
// channel, redeems it upstream, persists the session, and attaches the
// carried CV reference. CV attachment failures downgrade to warnings;
// once the account is activated nothing retracts that outcome.
func (s *ActivationService) Activate(ctx context.Context, params *models.ActivationParams, sink SessionSink) *models.ActivationResult {
	req, failure := resolveActivation(params)
	if failure != "" {
		metrics.Activations.WithLabelValues("none", "invalid").Inc()
		return &models.ActivationResult{
			State: models.ActivationStateFailed,
			Error: failure,
		}
	}
	method := string(req.Method)

	upstream, err := s.coreAPI.Activate(ctx, req)
	if err != nil {
		metrics.Activations.WithLabelValues(method, "error").Inc()
		logger.Warn("Activation rejected",
			zap.String("method", method),
			zap.Error(err))
		return &models.ActivationResult{
			State:  models.ActivationStateFailed,
			Method: req.Method,
			Error:  activationFailureMessage(err),
		}
	}

	if err := sink.PersistSession(upstream.User, upstream.AccessToken); err != nil {
		metrics.Activations.WithLabelValues(method, "session_error").Inc()
		logger.Error("Failed to persist session after activation",
			zap.String("user_id", upstream.User.ID),
			zap.Error(err))
		return &models.ActivationResult{
			State:  models.ActivationStateFailed,
			Method: req.Method,
			Error:  "activation succeeded but no session data",
		}
	}

	metrics.Activations.WithLabelValues(method, "success").Inc()
	logger.Info("Account activated",
		zap.String("user_id", upstream.User.ID),
		zap.String("method", method))

	result := &models.ActivationResult{
		State:  models.ActivationStateDone,
		Method: req.Method,
		User:   upstream.User,
	}

	if params.CVRef != "" {
		if warning := s.attachCV(ctx, upstream.User, params.CVRef); warning != "" {
			result.Warning = warning
		}
	}

	return result
}

// attachCV links the uploaded CV to the activated account and marks
// the profile reviewable. Both calls are best-effort: the account is
// already active, so a failure here is reported as a warning and never
// fails the attempt.
func (s *ActivationService) attachCV(ctx context.Context, user *models.ActivatedUser, cvRef string) string {
	if err := s.coreAPI.CreateCVRecord(ctx, user.ID, cvRef); err != nil {
		metrics.CvAttachments.WithLabelValues("error").Inc()
		logger.Error("Failed to create CV record",
			zap.String("user_id", user.ID),
			zap.Error(err))
		return "Your account is active, but the CV could not be attached. You can upload it from your profile."
	}

	if err := s.coreAPI.ApproveCandidateProfile(ctx, user.ID); err != nil {
		metrics.CvAttachments.WithLabelValues("approve_error").Inc()
		logger.Error("Failed to approve candidate profile",
			zap.String("user_id", user.ID),
			zap.Error(err))
		return "Your account is active, but profile review could not be started automatically."
	}

	metrics.CvAttachments.WithLabelValues("success").Inc()
	return ""
}

// resolveActivation picks exactly one credential channel from the raw
// identifier set. A token wins over an OTP when both are present; with
// neither identifier the attempt fails before any upstream call.
func resolveActivation(params *models.ActivationParams) (*models.ActivationRequest, string) {
	token := strings.TrimSpace(params.Token)
	otp := strings.TrimSpace(params.OTP)
	userID := strings.TrimSpace(params.UserID)

	if token != "" {
		return models.NewTokenActivation(token), ""
	}
	if userID == "" {
		return nil, "missing identifier"
	}
	if !otpPattern.MatchString(otp) {
		return nil, "verification code must be 6 digits"
	}
	return models.NewOTPActivation(otp, userID), ""
}

func activationFailureMessage(err error) string {
	// Upstream messages are already user-facing; strip the wrapping
	// added by the client layer. Sentinel text can sit on either end
	// depending on which wrap produced the error.
	msg := err.Error()
	for _, suffix := range []string{": upstream error", ": invalid input"} {
		msg = strings.TrimSuffix(msg, suffix)
	}
	if idx := strings.LastIndex(msg, ": "); idx >= 0 && idx+2 < len(msg) {
		return msg[idx+2:]
	}
	return msg
}
