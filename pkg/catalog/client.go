// Package catalog talks to the skill-catalog service. Lookups are
// read-only and safe to retry, so this is the one collaborator wrapped
// in both retry and a circuit breaker; recent results are cached and
// served as a fallback when the breaker is open.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/jobcircle/onboarding-api/internal/models"
	"github.com/jobcircle/onboarding-api/pkg/circuitbreaker"
	apperrors "github.com/jobcircle/onboarding-api/pkg/errors"
	"github.com/jobcircle/onboarding-api/pkg/httpclient"
	"github.com/jobcircle/onboarding-api/pkg/logger"
	"github.com/jobcircle/onboarding-api/pkg/metrics"
	"github.com/jobcircle/onboarding-api/pkg/retry"
)

const serviceName = "skill-catalog"

// Client is the skill-catalog lookup surface.
type Client interface {
	Search(ctx context.Context, query string) ([]models.CatalogSkill, error)
}

// HTTPClient looks up skills over HTTP with a read-through cache.
type HTTPClient struct {
	baseURL    string
	httpClient httpclient.Client
	cache      *gocache.Cache
	breaker    *gobreaker.CircuitBreaker
}

var _ Client = (*HTTPClient)(nil)

// NewClient builds a catalog client. cacheTTL bounds how long a query's
// results are reused before hitting the service again.
func NewClient(baseURL string, httpClient httpclient.Client, cacheTTL time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL:    baseURL,
		httpClient: httpClient,
		cache:      gocache.New(cacheTTL, 2*cacheTTL),
		breaker:    circuitbreaker.NewCircuitBreaker(circuitbreaker.DefaultConfig(serviceName)),
	}
}

// Search returns catalog options matching the query. Results come from
// the cache when fresh; otherwise the service is called with retries,
// and when the breaker is open a stale cached result is better than no
// result at all.
func (c *HTTPClient) Search(ctx context.Context, query string) ([]models.CatalogSkill, error) {
	start := time.Now()
	operation := "search"
	key := cacheKey(query)

	if cached, found := c.cache.Get(key); found {
		metrics.CatalogCacheHits.WithLabelValues("hit").Inc()
		return cached.([]models.CatalogSkill), nil
	}
	metrics.CatalogCacheHits.WithLabelValues("miss").Inc()

	skills, err := circuitbreaker.ExecuteWithFallback(c.breaker,
		func() ([]models.CatalogSkill, error) {
			return retry.DoWithResult(ctx, retry.CatalogConfig(), operation, func() ([]models.CatalogSkill, error) {
				return c.fetch(ctx, query)
			})
		},
		func() ([]models.CatalogSkill, error) {
			// Serve whatever we still hold for this query, even expired.
			if stale, ok := peekExpired(c.cache, key); ok {
				logger.Warn("serving stale catalog results, breaker open",
					zap.String("query", query))
				return stale, nil
			}
			return nil, fmt.Errorf("%w: %s unavailable", apperrors.ErrUpstream, serviceName)
		})

	duration := metrics.MeasureDuration(start)
	if err != nil {
		metrics.CatalogRequestDuration.WithLabelValues(operation, "error").Observe(duration)
		logger.LogAPICall(ctx, serviceName, operation, "error", duration, zap.Error(err))
		return nil, err
	}

	c.cache.SetDefault(key, skills)
	metrics.CatalogRequestDuration.WithLabelValues(operation, "success").Observe(duration)
	logger.LogAPICall(ctx, serviceName, operation, "success", duration,
		zap.String("query", query), zap.Int("results", len(skills)))
	return skills, nil
}

func (c *HTTPClient) fetch(ctx context.Context, query string) ([]models.CatalogSkill, error) {
	reqURL := fmt.Sprintf("%s/skills?query=%s", c.baseURL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.UpstreamError(serviceName, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s returned status %d", apperrors.ErrUpstream, serviceName, resp.StatusCode)
	}

	var skills []models.CatalogSkill
	if err := json.NewDecoder(resp.Body).Decode(&skills); err != nil {
		return nil, apperrors.UpstreamError(serviceName, err.Error())
	}
	return skills, nil
}

func cacheKey(query string) string {
	return "skills:" + strings.ToLower(strings.TrimSpace(query))
}

// peekExpired reads an entry even if its TTL has lapsed. go-cache only
// deletes expired items on its janitor sweep, so recently expired
// results are usually still addressable.
func peekExpired(c *gocache.Cache, key string) ([]models.CatalogSkill, bool) {
	for k, item := range c.Items() {
		if k == key {
			if skills, ok := item.Object.([]models.CatalogSkill); ok {
				return skills, true
			}
		}
	}
	return nil, false
}
