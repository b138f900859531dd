package lending

import (
	"context"
	"time"
)

// Queue is the deferred-execution facility. The contract is at-least-once:
// DispatchReminder will be invoked with the reminder id no earlier than
// notBefore, possibly more than once. Dispatch idempotence, not the queue,
// provides the effective exactly-once behavior. The reminder type lets the
// broker keep same-lead-time schedules together so expiries stay in order.
type Queue interface {
	Schedule(ctx context.Context, reminderID string, reminderType ReminderType, notBefore time.Time) error
}

// Sender delivers a rendered notification. Success or failure is opaque
// beyond the returned error.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// CatalogCache lets the lending service drop cached catalog pages whose
// borrowed/available status just changed.
type CatalogCache interface {
	Invalidate(ctx context.Context)
}

type noopCatalogCache struct{}

func (noopCatalogCache) Invalidate(context.Context) {}
