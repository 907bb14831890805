package models

import (
	"sync"
	"time"
)

// WorkType mirrors the values the accounts service accepts for a
// candidate's preferred work arrangement.
type WorkType string

const (
	WorkTypeRemote WorkType = "Remote"
	WorkTypeHybrid WorkType = "Hybrid"
	WorkTypeOnsite WorkType = "Onsite"
)

// AssetKind identifies a deferred upload slot on a draft.
type AssetKind string

const (
	AssetKindCV             AssetKind = "CV"
	AssetKindProfilePicture AssetKind = "PROFILE_PICTURE"
)

// PersonalInfo is the first wizard step. Once saved it is frozen for
// the rest of the draft's life; later steps can only read it.
type PersonalInfo struct {
	FirstName       string `json:"first_name" binding:"required,min=2,max=100"`
	LastName        string `json:"last_name" binding:"required,min=2,max=100"`
	Email           string `json:"email" binding:"required,email"`
	Phone           string `json:"phone" binding:"required,min=10,max=20"`
	Password        string `json:"password" binding:"required,min=8,max=72"`
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=Password"`
	CountryID       string `json:"country_id" binding:"required"`
	StateID         string `json:"state_id" binding:"required"`
	CityID          string `json:"city_id" binding:"omitempty"`
}

// CareerInfo is the second wizard step. Salary bounds arrive as strings
// from the form surface and are validated as numeric here; the range
// check (max >= min) is enforced by the registration service because it
// spans two fields.
type CareerInfo struct {
	CategoryID        string   `json:"category_id" binding:"required"`
	FunctionalAreaID  string   `json:"functional_area_id" binding:"omitempty"`
	CareerLevelID     string   `json:"career_level_id" binding:"required"`
	JobTypeID         string   `json:"job_type_id" binding:"omitempty"`
	DesiredPosition   string   `json:"desired_position" binding:"omitempty,max=150"`
	PreferredWorkType WorkType `json:"preferred_work_type" binding:"required,oneof=Remote Hybrid Onsite"`
	SalaryMin         string   `json:"salary_min" binding:"required,numeric"`
	SalaryMax         string   `json:"salary_max" binding:"required,numeric"`
	CurrencyID        string   `json:"currency_id" binding:"omitempty"`
	AcceptedTerms     bool     `json:"accepted_terms"`
}

// DeferredAsset is a file the candidate attached during the wizard.
// Bytes stay with the draft; nothing is pushed to storage until
// registration has succeeded. RemoteRef is set after the upload.
type DeferredAsset struct {
	Kind        AssetKind
	FileName    string
	ContentType string
	Data        []byte
	RemoteRef   string
}

// RegistrationDraft is the unit of wizard state. It lives only in
// memory and is discarded after a successful submission or on TTL
// expiry.
//
// Handlers may touch the same draft concurrently, so field access goes
// through the mutex; the submission guard additionally ensures at most
// one submission attempt is in flight at a time.
type RegistrationDraft struct {
	ID        string
	CreatedAt time.Time

	mu             sync.Mutex
	personal       *PersonalInfo
	career         *CareerInfo
	skills         SkillSelection
	otherMode      bool
	assets         map[AssetKind]*DeferredAsset
	submitInFlight bool
}

// NewRegistrationDraft returns an empty draft with the given id.
func NewRegistrationDraft(id string) *RegistrationDraft {
	return &RegistrationDraft{
		ID:        id,
		CreatedAt: time.Now(),
		assets:    make(map[AssetKind]*DeferredAsset),
	}
}

// SetPersonal stores the personal step. It succeeds only once; the
// personal section is immutable after it is first saved.
func (d *RegistrationDraft) SetPersonal(info *PersonalInfo) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.personal != nil {
		return false
	}
	d.personal = info
	return true
}

// ReopenPersonal clears the personal step so the wizard can re-enter
// it. The step refreezes on the next SetPersonal.
func (d *RegistrationDraft) ReopenPersonal() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.personal = nil
}

// Personal returns the saved personal step, or nil.
func (d *RegistrationDraft) Personal() *PersonalInfo {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.personal
}

// SetCareer stores or replaces the career step.
func (d *RegistrationDraft) SetCareer(info *CareerInfo) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.career = info
}

// Career returns the saved career step, or nil.
func (d *RegistrationDraft) Career() *CareerInfo {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.career
}

// MutateSkills runs fn against the draft's skill selection under the
// draft lock.
func (d *RegistrationDraft) MutateSkills(fn func(*SkillSelection)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fn(&d.skills)
}

// Skills returns a snapshot of the current skill selection.
func (d *RegistrationDraft) Skills() []SkillEntry {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.skills.Entries()
}

// SetOtherMode flips the selector between catalog mode and free-text
// mode.
func (d *RegistrationDraft) SetOtherMode(on bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.otherMode = on
}

// OtherMode reports whether the selector is in free-text mode.
func (d *RegistrationDraft) OtherMode() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.otherMode
}

// AttachAsset stores a deferred file on the draft, replacing any
// previous file of the same kind.
func (d *RegistrationDraft) AttachAsset(asset *DeferredAsset) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.assets[asset.Kind] = asset
}

// Asset returns the deferred file of the given kind, or nil.
func (d *RegistrationDraft) Asset(kind AssetKind) *DeferredAsset {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.assets[kind]
}

// TryBeginSubmit claims the submission guard. It returns false when a
// submission is already running, in which case the caller must treat
// the request as a no-op.
func (d *RegistrationDraft) TryBeginSubmit() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.submitInFlight {
		return false
	}
	d.submitInFlight = true
	return true
}

// EndSubmit releases the submission guard.
func (d *RegistrationDraft) EndSubmit() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.submitInFlight = false
}
