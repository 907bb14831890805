package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/jobcircle/onboarding-api/config"
	"github.com/jobcircle/onboarding-api/internal/models"
	"github.com/jobcircle/onboarding-api/internal/wizard"
	"github.com/jobcircle/onboarding-api/pkg/assetstore"
	"github.com/jobcircle/onboarding-api/pkg/coreapi"
	apperrors "github.com/jobcircle/onboarding-api/pkg/errors"
	"github.com/jobcircle/onboarding-api/pkg/httpclient"
	"github.com/jobcircle/onboarding-api/pkg/logger"
	"github.com/jobcircle/onboarding-api/pkg/metrics"
	"github.com/jobcircle/onboarding-api/pkg/recaptcha"
	"github.com/jobcircle/onboarding-api/pkg/trigger"
)

// RegistrationService drives the onboarding wizard: draft lifecycle,
// skill selection, staged assets, and the final orchestrated
// submission to the accounts service.
type RegistrationService struct {
	store      *wizard.Store
	searcher   *wizard.Searcher
	coreAPI    coreapi.Client
	uploader   assetstore.Uploader
	verifier   *recaptcha.Verifier
	config     *config.Config
	httpClient httpclient.Client
}

var _ RegistrationServiceInterface = (*RegistrationService)(nil)

// NewRegistrationService creates a new registration service instance
func NewRegistrationService(
	store *wizard.Store,
	searcher *wizard.Searcher,
	coreAPI coreapi.Client,
	uploader assetstore.Uploader,
	verifier *recaptcha.Verifier,
	cfg *config.Config,
	httpClient httpclient.Client,
) *RegistrationService {
	return &RegistrationService{
		store:      store,
		searcher:   searcher,
		coreAPI:    coreAPI,
		uploader:   uploader,
		verifier:   verifier,
		config:     cfg,
		httpClient: httpClient,
	}
}

// CreateDraft opens an empty draft.
func (s *RegistrationService) CreateDraft(ctx context.Context) *models.CreateDraftResponse {
	draft := s.store.Create()
	logger.Info("Draft created", zap.String("draft_id", draft.ID))
	return &models.CreateDraftResponse{
		DraftID:   draft.ID,
		ExpiresIn: int(s.store.TTL().Seconds()),
	}
}

// GetDraft returns the wizard state snapshot for a draft.
func (s *RegistrationService) GetDraft(ctx context.Context, draftID string) (*models.DraftStateResponse, error) {
	draft, err := s.store.Get(draftID)
	if err != nil {
		return nil, err
	}
	return draftState(draft), nil
}

// SavePersonal stores the first wizard step. A re-submission reopens
// the frozen step and refreezes it with the new values.
func (s *RegistrationService) SavePersonal(ctx context.Context, draftID string, info *models.PersonalInfo) error {
	draft, err := s.store.Get(draftID)
	if err != nil {
		return err
	}
	if !draft.SetPersonal(info) {
		draft.ReopenPersonal()
		draft.SetPersonal(info)
	}
	logger.Info("Personal step saved", zap.String("draft_id", draftID))
	return nil
}

// SaveCareer stores the second wizard step. The salary bounds arrive
// pre-validated as numeric strings; the cross-field range check
// happens here.
func (s *RegistrationService) SaveCareer(ctx context.Context, draftID string, info *models.CareerInfo) error {
	draft, err := s.store.Get(draftID)
	if err != nil {
		return err
	}
	if _, _, err := parseSalaryRange(info); err != nil {
		return err
	}
	if !info.AcceptedTerms {
		return apperrors.InvalidInputError("accepted_terms", "terms must be accepted")
	}
	draft.SetCareer(info)
	logger.Info("Career step saved", zap.String("draft_id", draftID))
	return nil
}

// SelectSkill applies a catalog pick to the draft. The picked id is
// resolved against the options this draft's searches returned, so the
// stored label always comes from the catalog, never from the client.
func (s *RegistrationService) SelectSkill(ctx context.Context, draftID string, req *models.SelectSkillRequest) (*models.DraftStateResponse, error) {
	draft, err := s.store.Get(draftID)
	if err != nil {
		return nil, err
	}
	if req.SkillID == wizard.OtherSkillSentinel {
		draft.SetOtherMode(true)
		return draftState(draft), nil
	}
	label, ok := s.searcher.Resolve(draftID, req.SkillID)
	if !ok {
		return nil, apperrors.InvalidInputError("skill_id", "not a known catalog skill for this draft")
	}
	wizard.SelectSkill(draft, req.SkillID, label)
	return draftState(draft), nil
}

// AddOtherSkill adds a free-text skill to the draft.
func (s *RegistrationService) AddOtherSkill(ctx context.Context, draftID string, req *models.OtherSkillRequest) (*models.DraftStateResponse, error) {
	draft, err := s.store.Get(draftID)
	if err != nil {
		return nil, err
	}
	if err := wizard.AddOtherSkill(draft, req.Name); err != nil {
		return nil, err
	}
	return draftState(draft), nil
}

// RemoveSkill drops a selected skill from the draft.
func (s *RegistrationService) RemoveSkill(ctx context.Context, draftID, skillID string) (*models.DraftStateResponse, error) {
	draft, err := s.store.Get(draftID)
	if err != nil {
		return nil, err
	}
	wizard.RemoveSkill(draft, skillID)
	return draftState(draft), nil
}

// SearchSkills runs one debounced catalog lookup on behalf of the
// draft's selector.
func (s *RegistrationService) SearchSkills(ctx context.Context, draftID, query string, sequence uint64) (*models.SkillSearchResponse, error) {
	if _, err := s.store.Get(draftID); err != nil {
		return nil, err
	}
	return s.searcher.Search(ctx, draftID, query, sequence)
}

// StageAsset validates and stages a file on the draft. Nothing is
// uploaded here; staged bytes leave the process only after
// registration has succeeded.
func (s *RegistrationService) StageAsset(ctx context.Context, draftID string, kind models.AssetKind, fileName, contentType string, data []byte) error {
	draft, err := s.store.Get(draftID)
	if err != nil {
		return err
	}

	switch kind {
	case models.AssetKindCV:
		if err := assetstore.ValidateCV(contentType, len(data)); err != nil {
			return apperrors.InvalidInputError("file", err.Error())
		}
	case models.AssetKindProfilePicture:
		if err := assetstore.ValidatePicture(contentType, len(data)); err != nil {
			return apperrors.InvalidInputError("file", err.Error())
		}
	default:
		return apperrors.InvalidInputError("kind", "unknown asset kind")
	}

	draft.AttachAsset(&models.DeferredAsset{
		Kind:        kind,
		FileName:    fileName,
		ContentType: contentType,
		Data:        data,
	})
	logger.Info("Asset staged",
		zap.String("draft_id", draftID),
		zap.String("kind", string(kind)),
		zap.Int("size_bytes", len(data)))
	return nil
}

// Submit finalizes a draft: verifies the captcha, assembles the
// submission payload, registers the candidate, then uploads the staged
// CV and builds the activation redirect. At most one submission per
// draft runs at a time; a duplicate trigger while one is in flight is
// a silent no-op.
func (s *RegistrationService) Submit(ctx context.Context, draftID, recaptchaToken string) (*models.SubmitResponse, error) {
	draft, err := s.store.Get(draftID)
	if err != nil {
		return nil, err
	}

	if !draft.TryBeginSubmit() {
		logger.Info("Duplicate submission ignored", zap.String("draft_id", draftID))
		return &models.SubmitResponse{Success: false, Message: "submission already in progress"}, nil
	}
	defer draft.EndSubmit()

	payload, err := s.buildPayload(draft)
	if err != nil {
		metrics.CandidateRegistrations.WithLabelValues("invalid").Inc()
		return nil, err
	}

	// Captcha check runs before anything leaves the process; skipped
	// in development and when no secret is configured.
	if s.verifier != nil && s.config.ReCAPTCHA.SecretKey != "" && !s.config.IsDevelopment() {
		if err := s.verifier.Verify(recaptchaToken); err != nil {
			metrics.CandidateRegistrations.WithLabelValues("captcha_failed").Inc()
			logger.Warn("ReCAPTCHA verification failed", zap.Error(err))
			return &models.SubmitResponse{Success: false, Message: "Captcha verification failed"}, nil
		}
	}

	resp, err := s.coreAPI.Register(ctx, payload)
	if err != nil {
		metrics.CandidateRegistrations.WithLabelValues("error").Inc()
		logger.Error("Registration rejected by accounts service",
			zap.Error(err),
			zap.String("draft_id", draftID))
		// Draft stays in the store so the candidate can fix and retry.
		return &models.SubmitResponse{Success: false, Message: "Registration could not be completed"}, nil
	}

	logger.Info("Candidate registered",
		zap.String("draft_id", draftID),
		zap.String("user_id", resp.UserID),
		zap.String("email", payload.Email))

	// Staged CV is pushed only now, after the account exists. A failed
	// upload downgrades to a warning; the registration stands.
	warning := ""
	cvRef := ""
	if cv := draft.Asset(models.AssetKindCV); cv != nil {
		ref, uploadErr := s.uploadAsset(ctx, cv, assetstore.PathCVs)
		if uploadErr != nil {
			warning = "Your account was created, but the CV upload failed. You can attach it after signing in."
			logger.Error("Deferred CV upload failed",
				zap.Error(uploadErr),
				zap.String("user_id", resp.UserID))
		} else {
			cvRef = ref
		}
	}
	if pic := draft.Asset(models.AssetKindProfilePicture); pic != nil {
		if _, uploadErr := s.uploadAsset(ctx, pic, assetstore.PathProfilePictures); uploadErr != nil {
			logger.Error("Deferred profile picture upload failed",
				zap.Error(uploadErr),
				zap.String("user_id", resp.UserID))
		}
	}

	trigger.CallAsync(s.config.EventTriggers.CandidateRegisteredTriggerURL, resp.UserID, s.httpClient)

	metrics.CandidateRegistrations.WithLabelValues("success").Inc()
	s.store.Discard(draftID)
	s.searcher.Forget(draftID)

	return &models.SubmitResponse{
		Success:     true,
		UserID:      resp.UserID,
		RedirectURL: buildActivationURL(resp.UserID, cvRef),
		Warning:     warning,
	}, nil
}

func (s *RegistrationService) uploadAsset(ctx context.Context, asset *models.DeferredAsset, path string) (string, error) {
	fileName := assetstore.GenerateFileName(asset.FileName)
	ref, err := s.uploader.Upload(ctx, asset.Data, fileName, asset.ContentType, path)
	if err != nil {
		metrics.AssetUploads.WithLabelValues(string(asset.Kind), "error").Inc()
		return "", err
	}
	metrics.AssetUploads.WithLabelValues(string(asset.Kind), "success").Inc()
	return ref, nil
}

// buildPayload flattens a complete draft into the immutable document
// the accounts service receives. Incomplete drafts are rejected here,
// before the captcha or any upstream call.
func (s *RegistrationService) buildPayload(draft *models.RegistrationDraft) (*models.SubmissionPayload, error) {
	personal := draft.Personal()
	if personal == nil {
		return nil, apperrors.InvalidInputError("personal", "step not completed")
	}
	career := draft.Career()
	if career == nil {
		return nil, apperrors.InvalidInputError("career", "step not completed")
	}
	skillIDs := draft.Skills()
	if len(skillIDs) == 0 {
		return nil, apperrors.InvalidInputError("skills", "at least one skill is required")
	}
	if !career.AcceptedTerms {
		return nil, apperrors.InvalidInputError("accepted_terms", "terms must be accepted")
	}

	salaryMin, salaryMax, err := parseSalaryRange(career)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(skillIDs))
	for _, sk := range skillIDs {
		ids = append(ids, sk.ID)
	}

	return &models.SubmissionPayload{
		Role:              models.RoleCandidate,
		FirstName:         strings.TrimSpace(personal.FirstName),
		LastName:          strings.TrimSpace(personal.LastName),
		Email:             strings.TrimSpace(personal.Email),
		Phone:             strings.TrimSpace(personal.Phone),
		Password:          personal.Password,
		CountryID:         personal.CountryID,
		StateID:           personal.StateID,
		CityID:            personal.CityID,
		CategoryID:        career.CategoryID,
		FunctionalAreaID:  career.FunctionalAreaID,
		CareerLevelID:     career.CareerLevelID,
		JobTypeID:         career.JobTypeID,
		DesiredPosition:   strings.TrimSpace(career.DesiredPosition),
		PreferredWorkType: career.PreferredWorkType,
		SalaryRange: models.SalaryRange{
			Min:        salaryMin,
			Max:        salaryMax,
			CurrencyID: career.CurrencyID,
		},
		SkillIDs:      ids,
		AcceptedTerms: career.AcceptedTerms,
	}, nil
}

func parseSalaryRange(career *models.CareerInfo) (float64, float64, error) {
	min, err := strconv.ParseFloat(strings.TrimSpace(career.SalaryMin), 64)
	if err != nil {
		return 0, 0, apperrors.InvalidInputError("salary_min", "must be a number")
	}
	max, err := strconv.ParseFloat(strings.TrimSpace(career.SalaryMax), 64)
	if err != nil {
		return 0, 0, apperrors.InvalidInputError("salary_max", "must be a number")
	}
	if max <= min {
		return 0, 0, apperrors.InvalidInputError("salary_max", "must be greater than salary_min")
	}
	return min, max, nil
}

func buildActivationURL(userID, cvRef string) string {
	q := url.Values{}
	q.Set("user_id", userID)
	if cvRef != "" {
		q.Set("cv_ref", cvRef)
	}
	return fmt.Sprintf("/activate?%s", q.Encode())
}

func draftState(draft *models.RegistrationDraft) *models.DraftStateResponse {
	return &models.DraftStateResponse{
		DraftID:       draft.ID,
		PersonalSaved: draft.Personal() != nil,
		CareerSaved:   draft.Career() != nil,
		Skills:        draft.Skills(),
		OtherMode:     draft.OtherMode(),
		HasCV:         draft.Asset(models.AssetKindCV) != nil,
		HasPicture:    draft.Asset(models.AssetKindProfilePicture) != nil,
	}
}
