package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fixr105/Seven-Render-sub004/internal/ports"
)

// WebhookNotifier posts notifications to an external delivery webhook.
// Delivery is best effort: callers treat a returned error as a logged
// degradation, never as a reason to fail the action that triggered it.
type WebhookNotifier struct {
	webhookURL string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewWebhookNotifier creates a new webhook notifier
func NewWebhookNotifier(webhookURL string, timeout time.Duration, logger *logrus.Logger) *WebhookNotifier {
	return &WebhookNotifier{
		webhookURL: webhookURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Notify delivers one notification
func (n *WebhookNotifier) Notify(ctx context.Context, notification ports.Notification) error {
	payload, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to deliver notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("notification delivery failed (status %d): %s", resp.StatusCode, string(body))
	}

	n.logger.WithFields(logrus.Fields{
		"target_role": notification.TargetRole,
		"file_id":     notification.FileID,
	}).Debug("Notification delivered")
	return nil
}

// NoopNotifier discards every notification, for deployments without a
// delivery webhook configured.
type NoopNotifier struct{}

// Notify discards the notification
func (NoopNotifier) Notify(ctx context.Context, notification ports.Notification) error {
	return nil
}
