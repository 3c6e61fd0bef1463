package mailer

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const mailTasksQueue = "mail.tasks"

// AMQPQueue publishes mail tasks to a durable RabbitMQ queue so they
// survive a server restart and can be consumed by a separate worker.
type AMQPQueue struct {
	ch *amqp.Channel
}

func NewAMQPQueue(conn *amqp.Connection) (*AMQPQueue, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}

	// declare up front so publish never fails on missing infra
	if _, err := ch.QueueDeclare(mailTasksQueue, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare %s: %w", mailTasksQueue, err)
	}

	return &AMQPQueue{ch: ch}, nil
}

func (q *AMQPQueue) Close() error {
	return q.ch.Close()
}

func (q *AMQPQueue) Enqueue(ctx context.Context, t Task) error {
	body, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("marshal task: %w", err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return q.ch.PublishWithContext(
		pubCtx,
		"", // default exchange
		mailTasksQueue,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}

// StartAMQPWorker consumes the mail task queue with the given worker
// until ctx is cancelled. Failed tasks are dropped after logging.
func StartAMQPWorker(ctx context.Context, conn *amqp.Connection, w *Worker, logger *log.Logger) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}

	if _, err := ch.QueueDeclare(mailTasksQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(mailTasksQueue, "mail-worker", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				logger.Println("stopping mail worker")
				return
			case msg, ok := <-msgs:
				if !ok {
					logger.Println("mail task channel closed")
					return
				}

				var t Task
				if err := json.Unmarshal(msg.Body, &t); err != nil {
					logger.Printf("bad mail task payload: %v", err)
					_ = msg.Nack(false, false)
					continue
				}
				if err := w.Process(ctx, t); err != nil {
					logger.Printf("mail task %q failed: %v", t.Kind, err)
					_ = msg.Nack(false, false)
					continue
				}
				_ = msg.Ack(false)
			}
		}
	}()

	return nil
}
