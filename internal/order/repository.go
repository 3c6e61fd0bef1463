package order

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	ErrNotFound = errors.New("order not found")
)

// Repository defines persistence for orders and their items.
type Repository interface {
	// Create inserts the order together with all of its items. The
	// write is all-or-nothing: if any item insert fails, no order row
	// remains either.
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id int) (*Order, error)
	ListByCustomer(ctx context.Context, customerID int) ([]Order, error)
	UpdateStatus(ctx context.Context, id int, status Status) error
	// MarkPaid flips the paid flag and records the gateway transaction
	// id in a single write.
	MarkPaid(ctx context.Context, id int, transactionID string) error
}

// InMemoryRepository is used for tests and the in-memory dev server.
type InMemoryRepository struct {
	mu     sync.RWMutex
	orders map[int]*Order
	nextID int

	// FailItems makes Create fail after the order would have been
	// written, exercising the all-or-nothing contract in tests.
	FailItems bool
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{orders: make(map[int]*Order), nextID: 1}
}

func (r *InMemoryRepository) Create(ctx context.Context, o *Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailItems {
		return errors.New("item insert failed")
	}

	o.ID = r.nextID
	r.nextID++
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}
	cp := *o
	cp.Items = append([]Item(nil), o.Items...)
	r.orders[o.ID] = &cp
	return nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id int) (*Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *o
	cp.Items = append([]Item(nil), o.Items...)
	return &cp, nil
}

func (r *InMemoryRepository) ListByCustomer(ctx context.Context, customerID int) ([]Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Order, 0)
	for _, o := range r.orders {
		if o.CustomerID == customerID {
			cp := *o
			cp.Items = append([]Item(nil), o.Items...)
			out = append(out, cp)
		}
	}
	return out, nil
}

func (r *InMemoryRepository) UpdateStatus(ctx context.Context, id int, status Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return ErrNotFound
	}
	o.Status = status
	return nil
}

func (r *InMemoryRepository) MarkPaid(ctx context.Context, id int, transactionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return ErrNotFound
	}
	o.Paid = true
	o.TransactionID = transactionID
	return nil
}

// Count reports how many orders exist, used by checkout tests to
// verify that failed validation writes nothing.
func (r *InMemoryRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.orders)
}
