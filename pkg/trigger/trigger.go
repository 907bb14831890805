package trigger

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/jobcircle/onboarding-api/pkg/httpclient"
	"github.com/jobcircle/onboarding-api/pkg/logger"
)

// CallAsync calls a trigger URL asynchronously with the user id as a
// query parameter. Downstream systems (welcome email, CRM sync) hang
// off these triggers. Failures are logged but never block the
// registration flow.
func CallAsync(triggerURL, userID string, httpClient httpclient.Client) {
	if triggerURL == "" {
		// No trigger URL configured, skip silently
		return
	}

	// Run in goroutine to avoid blocking
	go func() {
		targetURL := fmt.Sprintf("%s%s", triggerURL, userID)

		logger.Info("Calling trigger URL",
			zap.String("url", targetURL),
			zap.String("user_id", userID))

		resp, err := httpClient.Get(targetURL)
		if err != nil {
			logger.Error("Failed to call trigger URL",
				zap.Error(err),
				zap.String("url", targetURL),
				zap.String("user_id", userID))
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			logger.Info("Trigger URL called successfully",
				zap.String("url", targetURL),
				zap.String("user_id", userID),
				zap.Int("status_code", resp.StatusCode))
		} else {
			logger.Warn("Trigger URL returned non-success status",
				zap.String("url", targetURL),
				zap.String("user_id", userID),
				zap.Int("status_code", resp.StatusCode))
		}
	}()
}
