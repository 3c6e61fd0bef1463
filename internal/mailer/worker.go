package mailer

import (
	"context"
	"fmt"
	"log"
)

// Worker turns queued tasks into emails. Delivery problems are logged
// and swallowed; there is no retry, at-most-once is acceptable here.
type Worker struct {
	mailer Mailer
	dir    Directory
	from   string
	logger *log.Logger
}

func NewWorker(m Mailer, dir Directory, from string, logger *log.Logger) *Worker {
	return &Worker{mailer: m, dir: dir, from: from, logger: logger}
}

// Process composes and sends the email for one task.
func (w *Worker) Process(ctx context.Context, t Task) error {
	var (
		rcpt    Recipient
		subject string
		body    string
		err     error
	)

	switch t.Kind {
	case TaskOrderCreated:
		rcpt, err = w.dir.OrderRecipient(ctx, t.OrderID)
		subject = fmt.Sprintf("Order nr. %d", t.OrderID)
		body = fmt.Sprintf("Dear %s,\n\nYour order was placed successfully. Order number %d.", rcpt.Name, t.OrderID)
	case TaskCustomerRegistered:
		rcpt, err = w.dir.CustomerRecipient(ctx, t.CustomerID)
		subject = "Welcome to OnlineShop"
		body = fmt.Sprintf("Dear %s,\n\nYou have successfully registered at OnlineShop.", rcpt.Name)
	default:
		return fmt.Errorf("unknown mail task kind %q", t.Kind)
	}
	if err != nil {
		return fmt.Errorf("resolve recipient: %w", err)
	}

	if err := w.mailer.Send(subject, body, w.from, []string{rcpt.Email}); err != nil {
		return fmt.Errorf("send: %w", err)
	}
	return nil
}

// InProcessQueue runs the worker on a buffered channel inside the
// server process. Suitable for a single instance; the AMQP queue
// covers everything else.
type InProcessQueue struct {
	worker *Worker
	tasks  chan Task
	logger *log.Logger
}

func NewInProcessQueue(w *Worker, size int, logger *log.Logger) *InProcessQueue {
	return &InProcessQueue{worker: w, tasks: make(chan Task, size), logger: logger}
}

// Start consumes tasks until ctx is cancelled.
func (q *InProcessQueue) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case t := <-q.tasks:
				if err := q.worker.Process(ctx, t); err != nil {
					q.logger.Printf("mail task %q failed: %v", t.Kind, err)
				}
			}
		}
	}()
}

func (q *InProcessQueue) Enqueue(ctx context.Context, t Task) error {
	select {
	case q.tasks <- t:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return fmt.Errorf("mail queue full, dropping %q task", t.Kind)
	}
}
