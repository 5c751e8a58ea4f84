package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/jwalitptl/hms-api/pkg/messaging"
)

// ReminderNotification is the payload published for each due reminder.
type ReminderNotification struct {
	PatientID string    `json:"patient_id"`
	Message   string    `json:"message"`
	SentAt    time.Time `json:"sent_at"`
}

// Service delivers reminder notifications over the message broker.
// Downstream consumers (mobile push, SMS gateways) subscribe to the
// channel; this service only guarantees best-effort publication.
type Service struct {
	broker  messaging.Broker
	channel string
}

func NewService(broker messaging.Broker, channel string) *Service {
	return &Service{
		broker:  broker,
		channel: channel,
	}
}

func (s *Service) Notify(ctx context.Context, patientID string, message string) error {
	notification := &ReminderNotification{
		PatientID: patientID,
		Message:   message,
		SentAt:    time.Now(),
	}

	if err := s.broker.Publish(ctx, s.channel, notification); err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}
	return nil
}
