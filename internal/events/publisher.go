// Package events publishes conversation events to NATS for downstream
// observability. Publishing is fire-and-forget over core NATS; nothing
// here persists state, and a nil *Publisher is a valid no-op.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/bea-tech/site-assistant/internal/model"
	"github.com/bea-tech/site-assistant/pkg/logger"
)

// Subjects for published events.
const (
	SubjectBookingRequested = "beatech.appointments.requested"
	SubjectChatError        = "beatech.chat.errors"
)

// BookingEvent is published when the executor acknowledges a booking.
type BookingEvent struct {
	SessionID   string                   `json:"session_id"`
	Appointment model.AppointmentRequest `json:"appointment"`
	RequestedAt time.Time                `json:"requested_at"`
}

// ErrorEvent is published when a completion round trip fails.
type ErrorEvent struct {
	SessionID  string    `json:"session_id"`
	Kind       string    `json:"kind"`
	Detail     string    `json:"detail"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher wraps a NATS connection.
type Publisher struct {
	conn   *nats.Conn
	logger *logger.Logger
}

// Connect establishes a connection to the NATS server.
func Connect(url string, log *logger.Logger) (*Publisher, error) {
	conn, err := nats.Connect(url,
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Warn("NATS disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("NATS reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	return &Publisher{conn: conn, logger: log}, nil
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	if p == nil || p.conn == nil {
		return
	}
	p.conn.Close()
}

// BookingRequested publishes a booking event.
func (p *Publisher) BookingRequested(sessionID string, req model.AppointmentRequest) {
	p.publish(SubjectBookingRequested, BookingEvent{
		SessionID:   sessionID,
		Appointment: req,
		RequestedAt: time.Now().UTC(),
	})
}

// ChatError publishes a conversation failure event.
func (p *Publisher) ChatError(sessionID, kind, detail string) {
	p.publish(SubjectChatError, ErrorEvent{
		SessionID:  sessionID,
		Kind:       kind,
		Detail:     detail,
		OccurredAt: time.Now().UTC(),
	})
}

func (p *Publisher) publish(subject string, payload any) {
	if p == nil || p.conn == nil {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		p.logger.Warn("failed to encode event", zap.String("subject", subject), zap.Error(err))
		return
	}

	if err := p.conn.Publish(subject, data); err != nil {
		p.logger.Warn("failed to publish event", zap.String("subject", subject), zap.Error(err))
	}
}
