package category

import (
	"errors"
	"sync"
)

var (
	ErrNotFound = errors.New("category not found")
)

// Repository provides access to category rows.
type Repository interface {
	List() ([]Category, error)
	GetByID(id int) (Category, error)
	Create(c Category) (Category, error)
}

// InMemoryRepository is a simple in-memory implementation useful for
// tests and seeding local data.
type InMemoryRepository struct {
	mu      sync.RWMutex
	storage []Category
	nextID  int
}

func NewInMemoryRepository(seed []Category) *InMemoryRepository {
	r := &InMemoryRepository{storage: make([]Category, 0, len(seed)), nextID: 1}
	maxID := 0
	for _, c := range seed {
		r.storage = append(r.storage, c)
		if c.ID > maxID {
			maxID = c.ID
		}
	}
	r.nextID = maxID + 1
	return r
}

func (r *InMemoryRepository) List() ([]Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Category, len(r.storage))
	copy(out, r.storage)
	return out, nil
}

func (r *InMemoryRepository) GetByID(id int) (Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.storage {
		if c.ID == id {
			return c, nil
		}
	}
	return Category{}, ErrNotFound
}

func (r *InMemoryRepository) Create(c Category) (Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == 0 {
		c.ID = r.nextID
		r.nextID++
	}
	r.storage = append(r.storage, c)
	return c, nil
}
