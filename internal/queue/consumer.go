package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	lendingdomain "library-lending-go/internal/domain/lending"
	"library-lending-go/pkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	retryDelay        = time.Minute
	maxReconnectDelay = 30 * time.Second
)

// StartConsumer consumes the dispatch queue until ctx is cancelled, invoking
// the dispatcher once per delivery. It dials its own connection and keeps a
// reconnect loop with backoff so a broker restart does not kill dispatching.
func (r *Rabbit) StartConsumer(ctx context.Context, dispatcher Dispatcher, log logger.Logger) {
	backoff := time.Second
	for {
		if ctx.Err() != nil {
			return
		}

		conn, err := amqp.Dial(r.url)
		if err != nil {
			log.Warn("queue: consumer dial failed", "err", err, "retry_in", backoff)
			if !sleepCtx(ctx, backoff) {
				return
			}
			if backoff < maxReconnectDelay {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		if err := r.consumeLoop(ctx, conn, dispatcher, log); err != nil {
			log.Warn("queue: consume loop ended, reconnecting", "err", err)
		}
		_ = conn.Close()
	}
}

func (r *Rabbit) consumeLoop(ctx context.Context, conn *amqp.Connection, dispatcher Dispatcher, log logger.Logger) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(10, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}

	if err := r.declareQueues(ch); err != nil {
		return err
	}

	deliveries, err := ch.Consume(r.dispatchQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case delivery, ok := <-deliveries:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			r.handleDelivery(ctx, delivery, dispatcher, log)
		}
	}
}

func (r *Rabbit) handleDelivery(ctx context.Context, delivery amqp.Delivery, dispatcher Dispatcher, log logger.Logger) {
	var message reminderMessage
	if err := json.Unmarshal(delivery.Body, &message); err != nil {
		log.Error("queue: undecodable reminder message", "err", err)
		_ = delivery.Nack(false, false)
		return
	}

	err := dispatcher.DispatchReminder(ctx, message.ReminderID)
	switch {
	case err == nil:
		_ = delivery.Ack(false)
	case errors.Is(err, lendingdomain.ErrReminderNotFound):
		// Invalid id is fatal for this message; retrying cannot succeed.
		log.BusinessError("queue: reminder vanished, dropping", err, "reminder_id", message.ReminderID)
		_ = delivery.Ack(false)
	default:
		// Transient failure (store or notification sender): park the message
		// on the retry queue so the retry is delayed instead of hot.
		log.Warn("queue: reminder dispatch failed, delaying retry",
			"reminder_id", message.ReminderID, "err", err)
		if retryErr := r.scheduleRetry(ctx, delivery.Body); retryErr != nil {
			log.InternalError("queue: retry publish failed, requeueing", retryErr,
				"reminder_id", message.ReminderID)
			_ = delivery.Nack(false, true)
			return
		}
		_ = delivery.Ack(false)
	}
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
