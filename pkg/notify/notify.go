package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/your-org/dataqa-history/pkg/logger"
	"github.com/your-org/dataqa-history/pkg/models"
)

// Notifier posts an alert card to a chat webhook when a recorded run has
// failures. A Notifier with an empty URL is a no-op.
type Notifier struct {
	webhookURL string
	client     *http.Client
}

// NewNotifier creates a notifier for the given webhook URL
func NewNotifier(webhookURL string) *Notifier {
	return &Notifier{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

// NotifyRun sends a failure alert for the run. Clean runs are skipped.
func (n *Notifier) NotifyRun(ctx context.Context, item *models.HistoryItem) error {
	if n.webhookURL == "" {
		return nil
	}
	if !item.HasFailures() {
		logger.Debugf("Run %s has no failures, skipping alert", item.ID)
		return nil
	}

	payload := map[string]interface{}{
		"@type":      "MessageCard",
		"@context":   "http://schema.org/extensions",
		"themeColor": "d70000",
		"summary":    fmt.Sprintf("Data quality alert for %s", item.Target),
		"sections": []map[string]interface{}{
			{
				"activityTitle":    "Data Quality Alert",
				"activitySubtitle": fmt.Sprintf("Mode: %s", item.ComparisonMode),
				"facts": []map[string]string{
					{"name": "Execution ID", "value": item.ID},
					{"name": "Status", "value": string(item.Status)},
					{"name": "Total", "value": strconv.Itoa(item.TotalTests)},
					{"name": "Failed", "value": strconv.Itoa(item.FailedTests)},
				},
				"markdown": true,
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode alert payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build alert request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send alert: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	logger.Infof("Sent failure alert for run %s", item.ID)
	return nil
}
