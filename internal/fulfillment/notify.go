package fulfillment

import (
	"context"
	"fmt"

	apperrors "zerohunger-chat/internal/common/errors"
	"zerohunger-chat/internal/common/logger"
)

// SMSPublisher sends a short text message to a phone number.
type SMSPublisher interface {
	PublishSMS(ctx context.Context, phoneNumber, message string) error
}

// EmailSender sends a plain-text email.
type EmailSender interface {
	SendPlainEmail(ctx context.Context, from, to, subject, body string) error
}

// PartnerNotifyConfig selects which partner channels are active.
type PartnerNotifyConfig struct {
	SMSEnabled   bool
	PartnerPhone string
	EmailEnabled bool
	FromEmail    string
	PartnerEmail string
}

// PartnerNotifier alerts the delivery partner over SMS and email so that
// dispatch does not depend on the partner polling the webhook.
type PartnerNotifier struct {
	sms   SMSPublisher
	email EmailSender
	cfg   PartnerNotifyConfig
	log   logger.Logger
}

func NewPartnerNotifier(sms SMSPublisher, email EmailSender, cfg PartnerNotifyConfig, log logger.Logger) *PartnerNotifier {
	return &PartnerNotifier{
		sms:   sms,
		email: email,
		cfg:   cfg,
		log:   log,
	}
}

func (p *PartnerNotifier) Notify(ctx context.Context, rec *Record) error {
	summary := fmt.Sprintf(
		"New %s food assistance request %s: %s (age %d) at %s needs %s",
		rec.AssistanceType, rec.ID, rec.PersonName, rec.Age, rec.Location, rec.FoodRequest,
	)

	var firstErr error

	if p.cfg.SMSEnabled && p.sms != nil {
		if err := p.sms.PublishSMS(ctx, p.cfg.PartnerPhone, summary); err != nil {
			p.log.WithError(err).Error("Partner SMS notification failed", map[string]interface{}{
				"requestId": rec.ID,
			})
			firstErr = apperrors.NewPartnerNotifyFailedError("sms", err)
		}
	}

	if p.cfg.EmailEnabled && p.email != nil {
		subject := fmt.Sprintf("Food assistance request %s", rec.ID)
		if err := p.email.SendPlainEmail(ctx, p.cfg.FromEmail, p.cfg.PartnerEmail, subject, summary); err != nil {
			p.log.WithError(err).Error("Partner email notification failed", map[string]interface{}{
				"requestId": rec.ID,
			})
			if firstErr == nil {
				firstErr = apperrors.NewPartnerNotifyFailedError("email", err)
			}
		}
	}

	return firstErr
}
