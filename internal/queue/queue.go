// Package queue implements the deferred execution of reminder dispatches.
// Both implementations guarantee at-least-once invocation at or after the
// requested instant; the dispatcher's own idempotence absorbs duplicates.
package queue

import "context"

// Dispatcher is the reminder entry point invoked when a scheduled instant is
// reached. Implemented by the lending service.
type Dispatcher interface {
	DispatchReminder(ctx context.Context, reminderID string) error
}
