package ports

import (
	"context"

	"github.com/99minutos/account-service/internal/core/domain"
)

// EventPublisher accepts account events for delivery. Implementations may deliver asynchronously.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.AccountEvent) error
}

// EventSink is the final destination of an account event (audit collection, broker topic).
type EventSink interface {
	Deliver(ctx context.Context, event domain.AccountEvent) error
}
