// Package wizard holds the in-memory state machine of the onboarding
// wizard: the draft store, the skill selector and its debounced catalog
// search, and the password generator.
package wizard

import (
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/jobcircle/onboarding-api/internal/models"
	apperrors "github.com/jobcircle/onboarding-api/pkg/errors"
	"github.com/jobcircle/onboarding-api/pkg/metrics"
)

// ErrDraftNotFound is returned for unknown or expired draft ids.
var ErrDraftNotFound = apperrors.NotFoundError("draft")

// Store keeps active registration drafts in memory. Drafts expire
// after the configured TTL so abandoned wizards do not accumulate;
// surviving a process restart is deliberately not a goal.
type Store struct {
	cache *gocache.Cache
	ttl   time.Duration
}

// NewStore builds a draft store with the given TTL.
func NewStore(ttl time.Duration) *Store {
	c := gocache.New(ttl, 10*time.Minute)
	c.OnEvicted(func(string, interface{}) {
		metrics.DraftsActive.Dec()
	})
	return &Store{cache: c, ttl: ttl}
}

// Create opens an empty draft and returns it.
func (s *Store) Create() *models.RegistrationDraft {
	draft := models.NewRegistrationDraft(uuid.NewString())
	s.cache.SetDefault(draft.ID, draft)
	metrics.DraftsActive.Inc()
	return draft
}

// Get returns the draft with the given id and refreshes its TTL, so a
// wizard in active use does not expire mid-flow.
func (s *Store) Get(id string) (*models.RegistrationDraft, error) {
	v, ok := s.cache.Get(id)
	if !ok {
		return nil, ErrDraftNotFound
	}
	draft := v.(*models.RegistrationDraft)
	s.cache.SetDefault(id, draft)
	return draft, nil
}

// Discard drops the draft. Missing ids are ignored.
func (s *Store) Discard(id string) {
	s.cache.Delete(id)
}

// TTL returns the configured draft lifetime.
func (s *Store) TTL() time.Duration {
	return s.ttl
}
