package notification

import (
	"fmt"
	"log"

	"github.com/avolkov/online-shop-backend/internal/order"
)

// Service maintains the per-customer notification log.
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

func (s *Service) ListUnread(customerID int) ([]Notification, error) {
	return s.repo.ListUnread(customerID)
}

func (s *Service) MarkAllRead(customerID int) error {
	return s.repo.MarkAllRead(customerID)
}

// OrderStatusHook appends a notification for the order's customer on
// every status write. Registered with the order service; write errors
// are logged only, a failed notification never fails an order write.
func (s *Service) OrderStatusHook(o *order.Order) {
	text := fmt.Sprintf("Your order #%d is now %q.", o.ID, o.Status)
	if _, err := s.repo.Append(o.CustomerID, text); err != nil {
		log.Printf("notification: append for order %d: %v", o.ID, err)
	}
}
