package trigger

import (
	"fmt"
	"net/url"

	"github.com/samriddhi-edu/asksamriddhi-api/pkg/httpclient"
	"github.com/samriddhi-edu/asksamriddhi-api/pkg/logger"
	"go.uber.org/zap"
)

// CallAsync notifies the ingest webhook that a knowledge-base document changed
// so the query router can re-index it. Failures are logged but never block the
// admin operation that triggered them.
func CallAsync(webhookURL, documentKey string, httpClient httpclient.Client) {
	if webhookURL == "" {
		// No webhook configured, skip silently
		return
	}

	go func() {
		targetURL := fmt.Sprintf("%s?document=%s", webhookURL, url.QueryEscape(documentKey))

		logger.Info("Calling ingest webhook",
			zap.String("url", webhookURL),
			zap.String("document", documentKey))

		resp, err := httpClient.Get(targetURL)
		if err != nil {
			logger.Error("Failed to call ingest webhook",
				zap.Error(err),
				zap.String("url", webhookURL),
				zap.String("document", documentKey))
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			logger.Info("Ingest webhook called successfully",
				zap.String("document", documentKey),
				zap.Int("status_code", resp.StatusCode))
		} else {
			logger.Warn("Ingest webhook returned non-success status",
				zap.String("document", documentKey),
				zap.Int("status_code", resp.StatusCode))
		}
	}()
}
