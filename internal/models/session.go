package models

import "time"

// CandidateSessionCookie is the cookie the activation flow sets once a
// session token has been minted.
const CandidateSessionCookie = "candidate_session"

// CandidateSession is the authenticated identity carried by the session
// cookie after activation.
type CandidateSession struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsExpired reports whether the session is past its expiry.
func (s *CandidateSession) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
