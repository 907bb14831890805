package models

// RoleCandidate is the only role this service registers. The accounts
// service uses it to route the account through candidate onboarding.
const RoleCandidate = "CANDIDATE"

// SalaryRange is the numeric form of the career step's salary bounds.
type SalaryRange struct {
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
	CurrencyID string  `json:"currency_id,omitempty"`
}

// SubmissionPayload is the flattened registration document sent to the
// accounts service. Optional fields are omitted rather than sent empty
// so the upstream validator does not reject them.
type SubmissionPayload struct {
	Role              string      `json:"role"`
	FirstName         string      `json:"first_name"`
	LastName          string      `json:"last_name"`
	Email             string      `json:"email"`
	Phone             string      `json:"phone"`
	Password          string      `json:"password"`
	CountryID         string      `json:"country_id"`
	StateID           string      `json:"state_id"`
	CityID            string      `json:"city_id,omitempty"`
	CategoryID        string      `json:"category_id"`
	FunctionalAreaID  string      `json:"functional_area_id,omitempty"`
	CareerLevelID     string      `json:"career_level_id,omitempty"`
	JobTypeID         string      `json:"job_type_id,omitempty"`
	DesiredPosition   string      `json:"desired_position,omitempty"`
	PreferredWorkType WorkType    `json:"preferred_work_type"`
	SalaryRange       SalaryRange `json:"salary_range"`
	SkillIDs          []string    `json:"skill_ids"`
	AcceptedTerms     bool        `json:"accepted_terms"`
}

// SubmitResponse is what the submit endpoint returns to the caller on
// success. RedirectURL points at the activation surface and carries the
// new user id plus the CV reference when one was uploaded.
type SubmitResponse struct {
	Success     bool   `json:"success"`
	UserID      string `json:"user_id,omitempty"`
	RedirectURL string `json:"redirect_url,omitempty"`
	Warning     string `json:"warning,omitempty"`
	Message     string `json:"message,omitempty"`
}
