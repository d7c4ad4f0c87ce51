// internal/domain/delivery/target.go
package delivery

import (
	"context"
	"fmt"
)

// ChannelKind identifies the messaging channel behind a Target.
type ChannelKind string

const (
	ChannelPrimary   ChannelKind = "primary"   // Telegram, bearer token in the URL path
	ChannelSecondary ChannelKind = "secondary" // WhatsApp through Twilio, Authorization header
)

// Target is one outbound destination. Targets are built once from configuration.
type Target struct {
	Kind        ChannelKind
	Name        string // human readable channel name, e.g. "telegram"
	Destination string
	Sender      Sender
}

func (t Target) String() string {
	return fmt.Sprintf("%s(%s)", t.Name, t.Destination)
}

// Sender delivers free text to a single destination.
// This keeps the application logic independent from the messaging libraries.
type Sender interface {
	Send(ctx context.Context, destination, text string) error
}
