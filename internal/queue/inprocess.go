package queue

import (
	"context"
	"errors"
	"sync"
	"time"

	lendingdomain "library-lending-go/internal/domain/lending"
	"library-lending-go/pkg/logger"
)

const (
	defaultRetryDelay  = time.Minute
	defaultMaxAttempts = 5
	dispatchTimeout    = time.Minute
)

// InProcess schedules reminder dispatches on in-memory timers. It is the
// default facility when no broker is configured; pending reminders are
// re-enqueued at startup since timers do not survive restarts.
type InProcess struct {
	log logger.Logger

	RetryDelay  time.Duration
	MaxAttempts int

	mu         sync.Mutex
	dispatcher Dispatcher
	wg         sync.WaitGroup
}

func NewInProcess(log logger.Logger) *InProcess {
	return &InProcess{
		log:         log,
		RetryDelay:  defaultRetryDelay,
		MaxAttempts: defaultMaxAttempts,
	}
}

// SetDispatcher breaks the construction cycle between the scheduler and the
// lending service; it must be called before the first timer fires.
func (q *InProcess) SetDispatcher(d Dispatcher) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.dispatcher = d
}

func (q *InProcess) Schedule(ctx context.Context, reminderID string, _ lendingdomain.ReminderType, notBefore time.Time) error {
	delay := time.Until(notBefore)
	if delay < 0 {
		delay = 0
	}

	q.wg.Add(1)
	time.AfterFunc(delay, func() {
		defer q.wg.Done()
		q.dispatch(reminderID, 1)
	})
	return nil
}

// Wait blocks until every scheduled timer has fired and finished; used by
// tests and shutdown.
func (q *InProcess) Wait() {
	q.wg.Wait()
}

func (q *InProcess) dispatch(reminderID string, attempt int) {
	q.mu.Lock()
	dispatcher := q.dispatcher
	q.mu.Unlock()
	if dispatcher == nil {
		q.log.Error("queue: no dispatcher bound, dropping reminder", "reminder_id", reminderID)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()

	err := dispatcher.DispatchReminder(ctx, reminderID)
	if err == nil {
		return
	}

	if errors.Is(err, lendingdomain.ErrReminderNotFound) {
		// The id no longer resolves; retrying cannot help.
		q.log.BusinessError("queue: reminder vanished, not retrying", err, "reminder_id", reminderID)
		return
	}

	if attempt >= q.MaxAttempts {
		q.log.InternalError("queue: reminder dispatch gave up", err,
			"reminder_id", reminderID, "attempts", attempt)
		return
	}

	q.log.Warn("queue: reminder dispatch failed, retrying",
		"reminder_id", reminderID, "attempt", attempt, "err", err)

	q.wg.Add(1)
	time.AfterFunc(q.RetryDelay, func() {
		defer q.wg.Done()
		q.dispatch(reminderID, attempt+1)
	})
}
