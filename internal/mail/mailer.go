// Package mail sends transactional email through an HTTP mail provider.
package mail

import "context"

// Message is a single outbound email.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Sender delivers messages. Implementations must be safe for concurrent use.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// NoopSender is the dev fallback when no mail provider is configured.
// It reports success without delivering anything.
type NoopSender struct{}

func (NoopSender) Send(ctx context.Context, msg Message) error {
	return nil
}
