package wizard

import (
	"context"
	"sync"
	"time"

	"github.com/jobcircle/onboarding-api/internal/models"
	"github.com/jobcircle/onboarding-api/pkg/catalog"
	"github.com/jobcircle/onboarding-api/pkg/metrics"
)

// DebounceDelay is how long a search waits for a newer keystroke
// before it actually hits the catalog.
const DebounceDelay = 300 * time.Millisecond

// Searcher serializes catalog lookups per draft. Each request carries a
// client-assigned sequence number; a request superseded by a higher
// sequence, whether still debouncing or already waiting on the catalog,
// reports itself stale instead of returning options. A slow response
// for "java" can never overwrite results for "javascript".
type Searcher struct {
	catalog catalog.Client
	delay   time.Duration

	mu     sync.Mutex
	latest map[string]uint64
	// seen accumulates the options each draft has been shown, so a
	// later pick can be resolved to its catalog label server-side.
	seen map[string]map[string]string
}

// NewSearcher builds a searcher with the standard debounce delay.
func NewSearcher(client catalog.Client) *Searcher {
	return NewSearcherWithDelay(client, DebounceDelay)
}

// NewSearcherWithDelay builds a searcher with a custom delay.
func NewSearcherWithDelay(client catalog.Client, delay time.Duration) *Searcher {
	return &Searcher{
		catalog: client,
		delay:   delay,
		latest:  make(map[string]uint64),
		seen:    make(map[string]map[string]string),
	}
}

// Search runs one debounced catalog lookup for the given draft.
func (s *Searcher) Search(ctx context.Context, draftID, query string, seq uint64) (*models.SkillSearchResponse, error) {
	s.observe(draftID, seq)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(s.delay):
	}

	if s.superseded(draftID, seq) {
		metrics.SkillSearches.WithLabelValues("debounced").Inc()
		return &models.SkillSearchResponse{Sequence: seq, Stale: true}, nil
	}

	options, err := s.catalog.Search(ctx, query)
	if err != nil {
		metrics.SkillSearches.WithLabelValues("error").Inc()
		return nil, err
	}

	if s.superseded(draftID, seq) {
		metrics.SkillSearches.WithLabelValues("stale").Inc()
		return &models.SkillSearchResponse{Sequence: seq, Stale: true}, nil
	}

	metrics.SkillSearches.WithLabelValues("success").Inc()
	s.remember(draftID, options)
	return &models.SkillSearchResponse{Sequence: seq, Options: options}, nil
}

// Resolve maps a picked option value back to its catalog label. Only
// values the draft has actually been shown resolve; anything else
// reports false.
func (s *Searcher) Resolve(draftID, value string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	label, ok := s.seen[draftID][value]
	return label, ok
}

// Forget drops the bookkeeping for a draft.
func (s *Searcher) Forget(draftID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.latest, draftID)
	delete(s.seen, draftID)
}

func (s *Searcher) remember(draftID string, options []models.CatalogSkill) {
	s.mu.Lock()
	defer s.mu.Unlock()
	shown := s.seen[draftID]
	if shown == nil {
		shown = make(map[string]string)
		s.seen[draftID] = shown
	}
	for _, opt := range options {
		shown[opt.Value] = opt.Label
	}
}

func (s *Searcher) observe(draftID string, seq uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq > s.latest[draftID] {
		s.latest[draftID] = seq
	}
}

func (s *Searcher) superseded(draftID string, seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest[draftID] != seq
}
