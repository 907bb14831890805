package services

import (
	"context"

	"github.com/jobcircle/onboarding-api/internal/models"
)

// RegistrationServiceInterface defines the wizard and submission operations
type RegistrationServiceInterface interface {
	CreateDraft(ctx context.Context) *models.CreateDraftResponse
	GetDraft(ctx context.Context, draftID string) (*models.DraftStateResponse, error)
	SavePersonal(ctx context.Context, draftID string, info *models.PersonalInfo) error
	SaveCareer(ctx context.Context, draftID string, info *models.CareerInfo) error
	SelectSkill(ctx context.Context, draftID string, req *models.SelectSkillRequest) (*models.DraftStateResponse, error)
	AddOtherSkill(ctx context.Context, draftID string, req *models.OtherSkillRequest) (*models.DraftStateResponse, error)
	RemoveSkill(ctx context.Context, draftID, skillID string) (*models.DraftStateResponse, error)
	SearchSkills(ctx context.Context, draftID, query string, sequence uint64) (*models.SkillSearchResponse, error)
	StageAsset(ctx context.Context, draftID string, kind models.AssetKind, fileName, contentType string, data []byte) error
	Submit(ctx context.Context, draftID, recaptchaToken string) (*models.SubmitResponse, error)
}

// ActivationServiceInterface defines the account activation workflow
type ActivationServiceInterface interface {
	Activate(ctx context.Context, params *models.ActivationParams, sink SessionSink) *models.ActivationResult
}

// SessionSink receives the session of a freshly activated account. The
// HTTP layer implements it with a signed cookie; tests implement it
// in memory. A sink error fails the activation attempt, since an
// activation whose session cannot be persisted leaves the candidate
// logged out anyway.
type SessionSink interface {
	PersistSession(user *models.ActivatedUser, accessToken string) error
}
