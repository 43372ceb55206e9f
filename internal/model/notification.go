package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Email is an outgoing message.
type Email struct {
	To       string
	From     string
	Subject  string
	HTMLBody string
	TextBody string
	// Stream is the provider message stream, e.g. "outbound".
	Stream string
}

// EmailSender delivers a single email. Implementations do not retry.
type EmailSender interface {
	Send(ctx context.Context, email Email) error
}

// DeliveryStatus is the state of one reminder delivery.
type DeliveryStatus string

const (
	DeliveryPending DeliveryStatus = "pending"
	DeliverySent    DeliveryStatus = "sent"
	DeliveryFailed  DeliveryStatus = "failed"
)

// DeliveryStore records reminder deliveries keyed by (user, run date, threshold).
type DeliveryStore interface {
	// Claim reserves the delivery. It returns false when the tuple was already
	// claimed and has not failed.
	Claim(ctx context.Context, userID uuid.UUID, runDate time.Time, threshold string) (bool, error)
	Complete(ctx context.Context, userID uuid.UUID, runDate time.Time, threshold string, status DeliveryStatus, sendErr string) error
}
