package models

// Request and response shapes for the HTTP surface. Validation tags
// follow the binding conventions of the gin validator.

// CreateDraftResponse returns the id of a freshly opened draft.
type CreateDraftResponse struct {
	DraftID   string `json:"draft_id"`
	ExpiresIn int    `json:"expires_in_seconds"`
}

// DraftStateResponse is the read view of a draft: which steps are
// complete and what has been selected so far. Passwords never appear
// here.
type DraftStateResponse struct {
	DraftID       string       `json:"draft_id"`
	PersonalSaved bool         `json:"personal_saved"`
	CareerSaved   bool         `json:"career_saved"`
	Skills        []SkillEntry `json:"skills"`
	OtherMode     bool         `json:"other_mode"`
	HasCV         bool         `json:"has_cv"`
	HasPicture    bool         `json:"has_profile_picture"`
}

// SelectSkillRequest picks a catalog skill onto the draft by its
// option value. The label is resolved server-side from the catalog.
type SelectSkillRequest struct {
	SkillID string `json:"skill_id" binding:"required"`
}

// OtherSkillRequest adds a free-text skill to the draft.
type OtherSkillRequest struct {
	Name string `json:"name" binding:"required,min=2,max=100"`
}

// SkillSearchResponse carries catalog options for the query that is
// still current. Stale is set instead of Options when the sequence was
// superseded while the lookup ran.
type SkillSearchResponse struct {
	Sequence uint64         `json:"sequence"`
	Stale    bool           `json:"stale,omitempty"`
	Options  []CatalogSkill `json:"options,omitempty"`
}

// CatalogSkill is one selectable option from the skill catalog.
type CatalogSkill struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// SubmitRequest finalizes a draft. The captcha token is verified before
// any upstream call in environments where verification is configured.
type SubmitRequest struct {
	RecaptchaToken string `json:"recaptcha_token"`
}

// GeneratedPasswordResponse returns a suggested password for the
// personal step.
type GeneratedPasswordResponse struct {
	Password string `json:"password"`
}
