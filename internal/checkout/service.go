package checkout

import (
	"context"
	"errors"
	"log"

	"github.com/avolkov/online-shop-backend/internal/cart"
	"github.com/avolkov/online-shop-backend/internal/mailer"
	"github.com/avolkov/online-shop-backend/internal/order"
	"github.com/avolkov/online-shop-backend/internal/session"
)

// PendingOrderKey is where the order id awaiting payment is kept in
// the session between checkout and the payment step.
const PendingOrderKey = "pending_order_id"

var (
	ErrEmptyCart = errors.New("cart is empty")
)

// Service converts a live cart into a durable order.
type Service struct {
	orders *order.Service
	carts  *cart.Service
	mail   mailer.Queue
}

func NewService(orders *order.Service, carts *cart.Service, mail mailer.Queue) *Service {
	return &Service{orders: orders, carts: carts, mail: mail}
}

// CartView renders the cart about to be checked out, pruning lines
// whose product left the catalog.
func (s *Service) CartView(sess *session.Session) (cart.View, error) {
	return s.carts.View(sess)
}

// Place runs one checkout:
//
//  1. validate the form; invalid input touches nothing;
//  2. resolve the cart against the catalog, pruning lines whose
//     product has vanished since they were added (the same policy the
//     cart view applies), and snapshot the surviving lines into an
//     order with its items, written all-or-nothing by the order
//     repository;
//  3. clear the cart; a failed clear does not undo the order;
//  4. remember the order id for the payment step and queue the
//     confirmation email, both without blocking on failures.
func (s *Service) Place(ctx context.Context, customerID int, form OrderForm, sess *session.Session) (*order.Order, error) {
	if verr := form.Validate(); verr != nil {
		return nil, verr
	}

	view, err := s.carts.View(sess)
	if err != nil {
		return nil, err
	}
	if len(view.Items) == 0 {
		return nil, ErrEmptyCart
	}

	o := &order.Order{
		CustomerID: customerID,
		City:       form.City,
		Address:    form.Address,
		PostalCode: form.PostalCode,
		Comment:    form.Comment,
		Status:     order.StatusNew,
		BuyingType: order.BuyingType(form.BuyingType),
	}
	for _, it := range view.Items {
		o.Items = append(o.Items, order.Item{
			ProductID: it.Product.ID,
			Price:     it.UnitPrice,
			Quantity:  it.Quantity,
		})
	}

	if err := s.orders.Place(ctx, o); err != nil {
		return nil, err
	}

	// the order stands even if the session write fails; the customer
	// may see stale cart contents on the next load, nothing worse
	c := cart.FromSession(sess)
	c.Clear()
	if err := c.SaveTo(sess); err != nil {
		log.Printf("checkout: clear cart for order %d: %v", o.ID, err)
	}
	if err := sess.Set(PendingOrderKey, o.ID); err != nil {
		log.Printf("checkout: store pending order %d: %v", o.ID, err)
	}

	if err := s.mail.Enqueue(ctx, mailer.Task{Kind: mailer.TaskOrderCreated, OrderID: o.ID}); err != nil {
		log.Printf("checkout: enqueue confirmation for order %d: %v", o.ID, err)
	}

	return o, nil
}
