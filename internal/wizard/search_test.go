package wizard_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jobcircle/onboarding-api/internal/models"
	"github.com/jobcircle/onboarding-api/internal/wizard"
)

// stubCatalog answers queries from a fixed table, optionally delaying
// specific queries to simulate a slow upstream.
type stubCatalog struct {
	mu      sync.Mutex
	results map[string][]models.CatalogSkill
	delays  map[string]time.Duration
	calls   []string
}

func (s *stubCatalog) Search(ctx context.Context, query string) ([]models.CatalogSkill, error) {
	s.mu.Lock()
	delay := s.delays[query]
	s.calls = append(s.calls, query)
	s.mu.Unlock()

	if delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.results[query], nil
}

func (s *stubCatalog) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func TestSearcher_ReturnsOptionsForCurrentSequence(t *testing.T) {
	stub := &stubCatalog{results: map[string][]models.CatalogSkill{
		"go": {{Value: "sk-go", Label: "Go"}},
	}}
	searcher := wizard.NewSearcherWithDelay(stub, time.Millisecond)

	resp, err := searcher.Search(context.Background(), "d1", "go", 1)
	assert.NoError(t, err)
	assert.False(t, resp.Stale)
	assert.Equal(t, uint64(1), resp.Sequence)
	assert.Len(t, resp.Options, 1)
	assert.Equal(t, "sk-go", resp.Options[0].Value)
}

func TestSearcher_DebouncesSupersededKeystroke(t *testing.T) {
	stub := &stubCatalog{results: map[string][]models.CatalogSkill{
		"jav":        {{Value: "sk-java", Label: "Java"}},
		"javascript": {{Value: "sk-js", Label: "JavaScript"}},
	}}
	searcher := wizard.NewSearcherWithDelay(stub, 30*time.Millisecond)

	var wg sync.WaitGroup
	var first, second *models.SkillSearchResponse
	wg.Add(2)
	go func() {
		defer wg.Done()
		first, _ = searcher.Search(context.Background(), "d1", "jav", 1)
	}()
	go func() {
		defer wg.Done()
		// The next keystroke lands inside the first request's debounce
		// window and supersedes it.
		time.Sleep(10 * time.Millisecond)
		second, _ = searcher.Search(context.Background(), "d1", "javascript", 2)
	}()
	wg.Wait()

	assert.True(t, first.Stale, "superseded keystroke must not return options")
	assert.False(t, second.Stale)
	assert.Equal(t, "sk-js", second.Options[0].Value)
	assert.Equal(t, 1, stub.callCount(), "debounced keystroke must never reach the catalog")
}

func TestSearcher_DiscardsSlowStaleResponse(t *testing.T) {
	// "java" resolves slowly; "javascript" is typed later but resolves
	// first. The slow response must be discarded, not displayed.
	stub := &stubCatalog{
		results: map[string][]models.CatalogSkill{
			"java":       {{Value: "sk-java", Label: "Java"}},
			"javascript": {{Value: "sk-js", Label: "JavaScript"}},
		},
		delays: map[string]time.Duration{"java": 80 * time.Millisecond},
	}
	searcher := wizard.NewSearcherWithDelay(stub, 5*time.Millisecond)

	var wg sync.WaitGroup
	var slow, fast *models.SkillSearchResponse
	wg.Add(2)
	go func() {
		defer wg.Done()
		slow, _ = searcher.Search(context.Background(), "d1", "java", 1)
	}()
	go func() {
		defer wg.Done()
		// Arrives after the first request's debounce window has
		// elapsed, while its catalog call is still in flight.
		time.Sleep(30 * time.Millisecond)
		fast, _ = searcher.Search(context.Background(), "d1", "javascript", 2)
	}()
	wg.Wait()

	assert.True(t, slow.Stale, "in-flight response for a superseded sequence must be discarded")
	assert.False(t, fast.Stale)
	assert.Equal(t, "sk-js", fast.Options[0].Value)
}

func TestSearcher_SequencesAreIndependentPerDraft(t *testing.T) {
	stub := &stubCatalog{results: map[string][]models.CatalogSkill{
		"go": {{Value: "sk-go", Label: "Go"}},
	}}
	searcher := wizard.NewSearcherWithDelay(stub, time.Millisecond)

	// A high sequence on one draft must not invalidate another draft's
	// requests.
	respB, err := searcher.Search(context.Background(), "draft-b", "go", 100)
	assert.NoError(t, err)
	assert.False(t, respB.Stale)

	respA, err := searcher.Search(context.Background(), "draft-a", "go", 1)
	assert.NoError(t, err)
	assert.False(t, respA.Stale)
}

func TestSearcher_ResolveKnowsOnlyShownOptions(t *testing.T) {
	stub := &stubCatalog{results: map[string][]models.CatalogSkill{
		"go":  {{Value: "sk-go", Label: "Go"}},
		"sql": {{Value: "sk-sql", Label: "SQL"}},
	}}
	searcher := wizard.NewSearcherWithDelay(stub, time.Millisecond)

	_, ok := searcher.Resolve("d1", "sk-go")
	assert.False(t, ok, "nothing resolves before a search returned it")

	_, err := searcher.Search(context.Background(), "d1", "go", 1)
	assert.NoError(t, err)
	_, err = searcher.Search(context.Background(), "d1", "sql", 2)
	assert.NoError(t, err)

	// Options from earlier searches stay resolvable for the draft.
	label, ok := searcher.Resolve("d1", "sk-go")
	assert.True(t, ok)
	assert.Equal(t, "Go", label)
	label, ok = searcher.Resolve("d1", "sk-sql")
	assert.True(t, ok)
	assert.Equal(t, "SQL", label)

	_, ok = searcher.Resolve("d1", "sk-rust")
	assert.False(t, ok, "an id the catalog never returned must not resolve")
	_, ok = searcher.Resolve("d2", "sk-go")
	assert.False(t, ok, "options are scoped to the draft that saw them")

	searcher.Forget("d1")
	_, ok = searcher.Resolve("d1", "sk-go")
	assert.False(t, ok, "forgetting a draft drops its options")
}

func TestSearcher_CancelledContext(t *testing.T) {
	stub := &stubCatalog{}
	searcher := wizard.NewSearcherWithDelay(stub, 50*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := searcher.Search(ctx, "d1", "go", 1)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, stub.callCount())
}

func TestGeneratePassword(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		pw := wizard.GeneratePassword()
		assert.Len(t, pw, 12)
		seen[pw] = true
	}
	assert.Greater(t, len(seen), 1, "generator must not return a constant")
}
