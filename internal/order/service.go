package order

import (
	"context"
	"errors"
	"fmt"
	"log"
)

// StatusHook observes order status writes. Hooks run synchronously on
// the write path; their failures are isolated and never propagate to
// the caller, so a broken observer cannot fail a checkout.
type StatusHook func(o *Order)

// Service provides business logic for orders.
type Service struct {
	repo  Repository
	hooks []StatusHook
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

// OnStatusChange registers a hook fired for every status write,
// including the initial write at creation.
func (s *Service) OnStatusChange(hook StatusHook) {
	s.hooks = append(s.hooks, hook)
}

// Place persists a new order with all of its items.
func (s *Service) Place(ctx context.Context, o *Order) error {
	if len(o.Items) == 0 {
		return errors.New("order has no items")
	}
	if o.Status == "" {
		o.Status = StatusNew
	}
	if !o.Status.Valid() {
		return fmt.Errorf("invalid order status %q", o.Status)
	}

	if err := s.repo.Create(ctx, o); err != nil {
		return err
	}

	s.fireStatusHooks(o)
	return nil
}

// SetStatus writes a new status and notifies the hooks.
func (s *Service) SetStatus(ctx context.Context, id int, status Status) error {
	if !status.Valid() {
		return fmt.Errorf("invalid order status %q", status)
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return err
	}

	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.Printf("order: load %d after status write: %v", id, err)
		return nil
	}
	s.fireStatusHooks(o)
	return nil
}

func (s *Service) GetByID(ctx context.Context, id int) (*Order, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByCustomer(ctx context.Context, customerID int) ([]Order, error) {
	return s.repo.ListByCustomer(ctx, customerID)
}

func (s *Service) MarkPaid(ctx context.Context, id int, transactionID string) error {
	return s.repo.MarkPaid(ctx, id, transactionID)
}

func (s *Service) fireStatusHooks(o *Order) {
	for _, hook := range s.hooks {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("order: status hook panicked for order %d: %v", o.ID, r)
				}
			}()
			hook(o)
		}()
	}
}
