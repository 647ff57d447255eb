package service

import (
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// NATS subjects for domain events.
const (
	SubjectCompensationRequested = "edudesk.compensation.requested"
	SubjectCompensationApproved  = "edudesk.compensation.approved"
	SubjectCompensationRejected  = "edudesk.compensation.rejected"
	SubjectCompensationCompleted = "edudesk.compensation.completed"
	SubjectMessageSent           = "edudesk.messages.sent"
)

// CompensationEvent is the payload published on compensation subjects. It
// carries everything the orchestrating workflow needs to emit the resulting
// attendance record without reading the request back.
type CompensationEvent struct {
	RequestID           uint      `json:"request_id"`
	StudentID           uint      `json:"student_id"`
	OriginalBatchID     uint      `json:"original_batch_id"`
	CompensationBatchID uint      `json:"compensation_batch_id"`
	OriginalClassDate   time.Time `json:"original_class_date"`
	CompensationDate    time.Time `json:"compensation_date"`
	Branch              string    `json:"branch"`
	OccurredAt          time.Time `json:"occurred_at"`
}

// MessageEvent is the payload published when an in-app message is sent.
type MessageEvent struct {
	MessageID   uint      `json:"message_id"`
	SenderID    uint      `json:"sender_id"`
	RecipientID uint      `json:"recipient_id"`
	Subject     string    `json:"subject,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// EventPublisher publishes domain events to interested consumers.
type EventPublisher interface {
	Publish(subject string, payload interface{}) error
}

type natsPublisher struct {
	conn   *nats.Conn
	logger zerolog.Logger
}

// NewEventPublisher wraps a NATS connection. A nil connection yields a
// publisher that drops events, so the API degrades gracefully without a
// broker.
func NewEventPublisher(conn *nats.Conn, logger zerolog.Logger) EventPublisher {
	return &natsPublisher{
		conn:   conn,
		logger: logger.With().Str("component", "event_publisher").Logger(),
	}
}

func (p *natsPublisher) Publish(subject string, payload interface{}) error {
	if p.conn == nil {
		return nil
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	if err := p.conn.Publish(subject, data); err != nil {
		p.logger.Error().Err(err).Str("subject", subject).Msg("failed to publish event")
		return err
	}

	return nil
}
