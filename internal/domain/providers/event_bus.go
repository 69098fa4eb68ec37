package providers

import (
	"context"
	"fmt"

	"github.com/zatekoja/homeflow/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to booking events
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.BookingEvent) error

	// Subscribe subscribes to events on a channel until ctx is done
	Subscribe(ctx context.Context, channel string) (<-chan *entities.BookingEvent, error)

	// Close closes the event bus and all subscriptions
	Close() error
}

const (
	// EventChannelBookings carries every booking lifecycle event
	EventChannelBookings = "homeflow:bookings"

	// EventChannelProPrefix is the prefix for per-pro channels
	EventChannelProPrefix = "homeflow:pro:"
)

// ProChannel returns the channel name for a specific pro
func ProChannel(proID int64) string {
	return fmt.Sprintf("%s%d", EventChannelProPrefix, proID)
}
