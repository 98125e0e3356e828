// Package notifier defines the transport boundary for outgoing
// notifications. Real email/push/SMS delivery lives outside this service;
// the implementations here log what would have been sent.
package notifier

import (
	"context"

	"github.com/armonia-platform/pqr-service/internal/domain"
)

// SendResult is the per-attempt outcome reported by a transport.
type SendResult struct {
	Success bool
	Error   string
}

// Notifier sends one rendered message over one channel. Implementations
// own their own timeout policy; callers treat failures as data, not errors.
type Notifier interface {
	Send(ctx context.Context, channel domain.Channel, address, subject, body string) SendResult
}
