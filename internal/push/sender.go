package push

import (
	"context"

	"github.com/tgilmour/broadside/internal/model"
)

// Sender delivers push events to a specific connection. Delivery is
// fire-and-forget: implementations must not block the caller waiting
// for the remote peer, and failure to deliver is not an error the
// game core can act on.
type Sender interface {
	Send(ctx context.Context, to model.ConnectionID, event model.Event)
}

// NopSender discards all events. Useful as a default before a
// transport is attached, and in tests that don't assert on pushes.
type NopSender struct{}

var _ Sender = NopSender{}

// Send discards the event
func (NopSender) Send(ctx context.Context, to model.ConnectionID, event model.Event) {}
