package fulfillment

import (
	"context"
	"fmt"
	"io"
	"time"

	apperrors "zerohunger-chat/internal/common/errors"
	commonhttp "zerohunger-chat/internal/common/http"
	"zerohunger-chat/internal/common/logger"
)

// webhookPayload is the shape partners already consume; keep it stable.
type webhookPayload struct {
	PersonName     string `json:"person_name"`
	Age            int    `json:"age"`
	Location       string `json:"location"`
	FoodRequest    string `json:"food_request"`
	AssistanceType string `json:"assistance_type"`
}

// WebhookNotifier POSTs confirmed requests to the partner webhook.
type WebhookNotifier struct {
	client     *commonhttp.Client
	url        string
	maxRetries int
	log        logger.Logger
}

func NewWebhookNotifier(client *commonhttp.Client, url string, maxRetries int, log logger.Logger) *WebhookNotifier {
	return &WebhookNotifier{
		client:     client,
		url:        url,
		maxRetries: maxRetries,
		log:        log,
	}
}

func (w *WebhookNotifier) Notify(ctx context.Context, rec *Record) error {
	payload := webhookPayload{
		PersonName:     rec.PersonName,
		Age:            rec.Age,
		Location:       rec.Location,
		FoodRequest:    rec.FoodRequest,
		AssistanceType: rec.AssistanceType,
	}

	var lastErr error
	for attempt := 0; attempt <= w.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * 500 * time.Millisecond
			w.log.Warn("Retrying fulfillment webhook", map[string]interface{}{
				"attempt": attempt,
				"backoff": backoff.String(),
				"error":   lastErr.Error(),
			})
			select {
			case <-ctx.Done():
				return apperrors.NewWebhookNotifyFailedError(ctx.Err())
			case <-time.After(backoff):
			}
		}

		lastErr = w.post(ctx, payload)
		if lastErr == nil {
			w.log.Info("Fulfillment webhook notified", map[string]interface{}{
				"requestId": rec.ID,
				"url":       w.url,
			})
			return nil
		}
	}

	return apperrors.NewWebhookNotifyFailedError(lastErr)
}

func (w *WebhookNotifier) post(ctx context.Context, payload webhookPayload) error {
	resp, err := w.client.PostJSON(ctx, w.url, payload)
	if err != nil {
		return err
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
