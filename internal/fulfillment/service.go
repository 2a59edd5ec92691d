package fulfillment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"zerohunger-chat/internal/common/logger"
	"zerohunger-chat/internal/common/metrics"
)

// Dispatcher hands a completed request off to fulfillment.
type Dispatcher interface {
	Dispatch(ctx context.Context, rec *Record) error
}

// Notifier is a best-effort downstream channel (webhook, SMS/email,
// reporting index). A Notifier failure never fails the dispatch.
type Notifier interface {
	Notify(ctx context.Context, rec *Record) error
}

// Service validates, persists and fans a record out to notifiers.
// Only validation and the database insert are fatal.
type Service struct {
	store     RecordStore
	notifiers []Notifier
	log       logger.Logger
}

func NewService(store RecordStore, log logger.Logger, notifiers ...Notifier) *Service {
	return &Service{
		store:     store,
		notifiers: notifiers,
		log:       log,
	}
}

func (s *Service) Dispatch(ctx context.Context, rec *Record) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	if rec.Status == "" {
		rec.Status = StatusPending
	}

	metrics.FulfillmentDispatches.Inc()

	if err := rec.Validate(); err != nil {
		metrics.FulfillmentFailures.WithLabelValues("validate").Inc()
		return err
	}

	if err := s.store.Insert(ctx, rec); err != nil {
		metrics.FulfillmentFailures.WithLabelValues("store").Inc()
		return err
	}

	s.log.Info("Fulfillment record stored", map[string]interface{}{
		"requestId":      rec.ID,
		"sessionId":      rec.SessionID,
		"assistanceType": rec.AssistanceType,
	})

	for _, n := range s.notifiers {
		if err := n.Notify(ctx, rec); err != nil {
			metrics.FulfillmentFailures.WithLabelValues("notify").Inc()
			s.log.WithError(err).Warn("Fulfillment notifier failed", map[string]interface{}{
				"requestId": rec.ID,
			})
		}
	}

	return nil
}
