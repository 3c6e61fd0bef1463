package product

import (
	"errors"
	"sync"
)

var (
	ErrNotFound = errors.New("product not found")
)

type Repository interface {
	List() []Product
	ListByCategory(categoryID int) []Product
	ListByIDs(ids []int) ([]Product, error)
	GetByID(id int) (Product, error)
	Create(p Product) (Product, error)
}

// InMemoryRepository is a simple in-memory implementation useful for
// tests and seeding local data.
type InMemoryRepository struct {
	mu      sync.RWMutex
	storage []Product
	nextID  int
}

func NewInMemoryRepository(seed []Product) *InMemoryRepository {
	r := &InMemoryRepository{
		storage: make([]Product, 0, len(seed)),
		nextID:  1,
	}

	maxID := 0
	for _, p := range seed {
		r.storage = append(r.storage, p)
		if p.ID > maxID {
			maxID = p.ID
		}
	}

	r.nextID = maxID + 1
	return r
}

func (r *InMemoryRepository) List() []Product {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Product, len(r.storage))
	copy(out, r.storage)
	return out
}

func (r *InMemoryRepository) ListByCategory(categoryID int) []Product {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Product, 0)
	for _, p := range r.storage {
		if p.CategoryID == categoryID {
			out = append(out, p)
		}
	}
	return out
}

// ListByIDs returns the products whose id is present in ids, ordered
// the same way as the ids argument. Missing ids are skipped.
func (r *InMemoryRepository) ListByIDs(ids []int) ([]Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byID := make(map[int]Product, len(r.storage))
	for _, p := range r.storage {
		byID[p.ID] = p
	}

	out := make([]Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *InMemoryRepository) GetByID(id int) (Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.storage {
		if p.ID == id {
			return p, nil
		}
	}
	return Product{}, ErrNotFound
}

func (r *InMemoryRepository) Create(p Product) (Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == 0 {
		p.ID = r.nextID
		r.nextID++
	}
	r.storage = append(r.storage, p)
	return p, nil
}

// SetPrice changes a product's live price in place, used by tests to
// verify that cart lines keep their captured price.
func (r *InMemoryRepository) SetPrice(id int, price float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.storage {
		if r.storage[i].ID == id {
			r.storage[i].Price = price
			return
		}
	}
}

// Remove deletes a product, used by tests to produce dangling cart lines.
func (r *InMemoryRepository) Remove(id int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.storage {
		if r.storage[i].ID == id {
			r.storage = append(r.storage[:i], r.storage[i+1:]...)
			return
		}
	}
}
