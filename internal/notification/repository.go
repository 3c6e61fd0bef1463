package notification

import (
	"sync"
)

type Repository interface {
	Append(customerID int, text string) (Notification, error)
	ListUnread(customerID int) ([]Notification, error)
	MarkAllRead(customerID int) error
}

// InMemoryRepository for tests and the in-memory dev server.
type InMemoryRepository struct {
	mu     sync.RWMutex
	data   []Notification
	nextID int
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{nextID: 1}
}

func (r *InMemoryRepository) Append(customerID int, text string) (Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := Notification{ID: r.nextID, CustomerID: customerID, Text: text}
	r.nextID++
	r.data = append(r.data, n)
	return n, nil
}

func (r *InMemoryRepository) ListUnread(customerID int) ([]Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Notification, 0)
	for _, n := range r.data {
		if n.CustomerID == customerID && !n.Read {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *InMemoryRepository) MarkAllRead(customerID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.data {
		if r.data[i].CustomerID == customerID {
			r.data[i].Read = true
		}
	}
	return nil
}
