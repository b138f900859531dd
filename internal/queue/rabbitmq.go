package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"library-lending-go/internal/config"
	lendingdomain "library-lending-go/internal/domain/lending"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Rabbit schedules reminders through RabbitMQ. Future dispatches are parked
// on a wait queue with a per-message TTL; expiry dead-letters the message
// into the dispatch queue, where the consumer picks it up.
//
// RabbitMQ only expires the message at the queue head, so every wait queue
// must hold messages whose expiries are monotone in publish order. Each
// reminder type has a fixed lead time, which makes a per-type wait queue
// monotone; retries go to a separate queue with a uniform queue-level TTL.
// Queues are durable so schedules survive broker and process restarts.
type Rabbit struct {
	url           string
	waitQueue     string
	dispatchQueue string
	retryQueue    string

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

type reminderMessage struct {
	ReminderID string    `json:"reminder_id"`
	FireAt     time.Time `json:"fire_at"`
}

func NewRabbit(cfg config.AMQPConfig) (*Rabbit, error) {
	r := &Rabbit{
		url:           cfg.URL,
		waitQueue:     cfg.WaitQueue,
		dispatchQueue: cfg.DispatchQueue,
		retryQueue:    cfg.DispatchQueue + ".retry",
	}
	if err := r.connect(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Rabbit) connect() error {
	conn, err := amqp.Dial(r.url)
	if err != nil {
		return fmt.Errorf("amqp dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("amqp channel: %w", err)
	}

	if err := r.declareQueues(ch); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return err
	}

	r.conn = conn
	r.ch = ch
	return nil
}

func (r *Rabbit) declareQueues(ch *amqp.Channel) error {
	if _, err := ch.QueueDeclare(r.dispatchQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare %s: %w", r.dispatchQueue, err)
	}

	// Expired messages dead-letter from the wait queues straight into the
	// dispatch queue via the default exchange.
	deadLetter := amqp.Table{
		"x-dead-letter-exchange":    "",
		"x-dead-letter-routing-key": r.dispatchQueue,
	}
	for _, name := range []string{r.warningWaitQueue(), r.dueWaitQueue()} {
		if _, err := ch.QueueDeclare(name, true, false, false, false, deadLetter); err != nil {
			return fmt.Errorf("declare %s: %w", name, err)
		}
	}

	// Retries use a queue-level TTL: every message waits the same delay, so
	// head-of-line blocking behind long-lived schedules cannot occur.
	retryArgs := amqp.Table{
		"x-dead-letter-exchange":    "",
		"x-dead-letter-routing-key": r.dispatchQueue,
		"x-message-ttl":             retryDelay.Milliseconds(),
	}
	if _, err := ch.QueueDeclare(r.retryQueue, true, false, false, false, retryArgs); err != nil {
		return fmt.Errorf("declare %s: %w", r.retryQueue, err)
	}
	return nil
}

func (r *Rabbit) warningWaitQueue() string { return r.waitQueue + ".warning" }
func (r *Rabbit) dueWaitQueue() string     { return r.waitQueue + ".due" }

// publishPlan resolves where a schedule goes: due dispatches hit the dispatch
// queue directly, future ones park on the wait queue for their reminder type
// with the remaining delay as the per-message TTL.
func (r *Rabbit) publishPlan(reminderType lendingdomain.ReminderType, notBefore, now time.Time) (queueName, expiration string) {
	delay := notBefore.Sub(now)
	if delay <= 0 {
		return r.dispatchQueue, ""
	}

	queueName = r.dueWaitQueue()
	if reminderType == lendingdomain.ReminderThreeDaysWarning {
		queueName = r.warningWaitQueue()
	}
	return queueName, strconv.FormatInt(delay.Milliseconds(), 10)
}

func (r *Rabbit) Schedule(ctx context.Context, reminderID string, reminderType lendingdomain.ReminderType, notBefore time.Time) error {
	body, err := json.Marshal(reminderMessage{ReminderID: reminderID, FireAt: notBefore})
	if err != nil {
		return err
	}

	queueName, expiration := r.publishPlan(reminderType, notBefore, time.Now())
	publishing := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Expiration:   expiration,
		Body:         body,
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.ch.PublishWithContext(ctx, "", queueName, false, false, publishing); err != nil {
		return fmt.Errorf("amqp publish: %w", err)
	}
	return nil
}

// scheduleRetry parks a failed dispatch on the retry queue; the queue-level
// TTL delays it without competing with long-dated schedules.
func (r *Rabbit) scheduleRetry(ctx context.Context, body []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	err := r.ch.PublishWithContext(ctx, "", r.retryQueue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("amqp publish retry: %w", err)
	}
	return nil
}

func (r *Rabbit) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ch != nil {
		_ = r.ch.Close()
	}
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}
