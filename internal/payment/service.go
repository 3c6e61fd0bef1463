package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/avolkov/online-shop-backend/internal/order"
)

// Service settles orders against the payment gateway.
type Service struct {
	orders  *order.Service
	gateway Gateway
}

func NewService(orders *order.Service, gateway Gateway) *Service {
	return &Service{orders: orders, gateway: gateway}
}

func (s *Service) ClientToken(ctx context.Context) (string, error) {
	return s.gateway.ClientToken(ctx)
}

// Process settles the order for its server-computed total. On success
// the paid flag and transaction id land in one durable write; on any
// failure the order is left unmodified and stays payable. Orders are
// only ever settled by their owner.
func (s *Service) Process(ctx context.Context, orderID, customerID int, nonce string) (*order.Order, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.CustomerID != customerID {
		return nil, order.ErrNotFound
	}
	if o.Paid {
		// settling twice would double-charge; the first result stands
		return o, nil
	}

	total := o.TotalCost()
	settlement, err := s.gateway.Settle(ctx, total, nonce)
	if err != nil {
		if errors.Is(err, ErrDeclined) {
			return nil, ErrDeclined
		}
		return nil, fmt.Errorf("settle order %d: %w", orderID, err)
	}

	if settlement.Amount != total {
		return nil, ErrAmountMismatch
	}

	if err := s.orders.MarkPaid(ctx, o.ID, settlement.TransactionID); err != nil {
		return nil, fmt.Errorf("mark order %d paid: %w", o.ID, err)
	}

	o.Paid = true
	o.TransactionID = settlement.TransactionID
	return o, nil
}
