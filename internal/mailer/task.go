package mailer

import "context"

// TaskKind selects which email a task produces.
type TaskKind string

const (
	// TaskOrderCreated confirms a successful checkout.
	TaskOrderCreated TaskKind = "order_created"
	// TaskCustomerRegistered welcomes a new customer.
	TaskCustomerRegistered TaskKind = "customer_registered"
)

// Task is a queued email job. Tasks reference records by id; the
// worker resolves them at send time.
type Task struct {
	Kind       TaskKind `json:"kind"`
	OrderID    int      `json:"orderId,omitempty"`
	CustomerID int      `json:"customerId,omitempty"`
}

// Queue accepts tasks for asynchronous delivery. Enqueue must return
// promptly; a slow or failing mail send never delays the caller.
type Queue interface {
	Enqueue(ctx context.Context, t Task) error
}

// Recipient is who a task's email goes to.
type Recipient struct {
	Email string
	Name  string
}

// Directory resolves task references into recipients. Wired from the
// user and order services at startup.
type Directory interface {
	OrderRecipient(ctx context.Context, orderID int) (Recipient, error)
	CustomerRecipient(ctx context.Context, customerID int) (Recipient, error)
}
