package models

// ActivationMethod names the credential channel an activation request
// resolved to.
type ActivationMethod string

const (
	ActivationMethodToken ActivationMethod = "TOKEN"
	ActivationMethodOTP   ActivationMethod = "OTP"
)

// ActivationState is the lifecycle of one activation attempt. The
// attempt moves forward only; once Activated is reached a later CV
// attachment failure can no longer fail the attempt.
type ActivationState string

const (
	ActivationStateResolving   ActivationState = "RESOLVING"
	ActivationStateActivating  ActivationState = "ACTIVATING"
	ActivationStateActivated   ActivationState = "ACTIVATED"
	ActivationStateAttachingCV ActivationState = "ATTACHING_CV"
	ActivationStateDone        ActivationState = "DONE"
	ActivationStateFailed      ActivationState = "FAILED"
)

// ActivationParams is the raw identifier set an activation attempt
// starts from, as read off the activation link. When both a token and
// an OTP are present the token wins; when neither is present the
// attempt fails without calling upstream.
type ActivationParams struct {
	Token  string `json:"token"`
	OTP    string `json:"otp" binding:"omitempty,len=6,numeric"`
	UserID string `json:"user_id"`
	CVRef  string `json:"cv_ref"`
}

// ActivationRequest is a resolved activation credential. Exactly one
// method is set per request.
type ActivationRequest struct {
	Method ActivationMethod `json:"method"`
	Token  string           `json:"token,omitempty"`
	OTP    string           `json:"otp,omitempty"`
	UserID string           `json:"user_id,omitempty"`
}

// NewTokenActivation builds a token-channel request.
func NewTokenActivation(token string) *ActivationRequest {
	return &ActivationRequest{Method: ActivationMethodToken, Token: token}
}

// NewOTPActivation builds an OTP-channel request. The user id scopes
// the code to the account it was sent for.
func NewOTPActivation(otp, userID string) *ActivationRequest {
	return &ActivationRequest{Method: ActivationMethodOTP, OTP: otp, UserID: userID}
}

// ActivatedUser is the account identity returned by a successful
// activation call.
type ActivatedUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// ActivationResult is the terminal report of one activation attempt.
// Warning is set when the account activated but post-activation CV
// attachment did not complete.
type ActivationResult struct {
	State   ActivationState  `json:"state"`
	Method  ActivationMethod `json:"method,omitempty"`
	User    *ActivatedUser   `json:"user,omitempty"`
	Warning string           `json:"warning,omitempty"`
	Error   string           `json:"error,omitempty"`
}
