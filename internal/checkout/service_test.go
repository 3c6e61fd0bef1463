package checkout

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avolkov/online-shop-backend/internal/cart"
	"github.com/avolkov/online-shop-backend/internal/mailer"
	"github.com/avolkov/online-shop-backend/internal/order"
	"github.com/avolkov/online-shop-backend/internal/product"
	"github.com/avolkov/online-shop-backend/internal/session"
)

type fakeQueue struct {
	mu    sync.Mutex
	tasks []mailer.Task
}

func (q *fakeQueue) Enqueue(ctx context.Context, t mailer.Task) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tasks = append(q.tasks, t)
	return nil
}

type fixture struct {
	svc      *Service
	orders   *order.InMemoryRepository
	products *product.InMemoryRepository
	queue    *fakeQueue
}

func newFixture() *fixture {
	orders := order.NewInMemoryRepository()
	products := product.NewInMemoryRepository([]product.Product{
		{ID: 1, Title: "Colombia Supremo", Price: 100, Available: true},
		{ID: 2, Title: "Sencha", Price: 50, Available: true},
	})
	queue := &fakeQueue{}
	carts := cart.NewService(product.NewService(products))
	svc := NewService(order.NewService(orders), carts, queue)
	return &fixture{svc: svc, orders: orders, products: products, queue: queue}
}

func sessionWithCart(t *testing.T) *session.Session {
	t.Helper()
	sess := session.New("sid")
	c := cart.New()
	require.NoError(t, c.Add(1, 100, 2, false))
	require.NoError(t, c.Add(2, 50, 1, false))
	require.NoError(t, c.SaveTo(sess))
	return sess
}

func validForm() OrderForm {
	return OrderForm{
		City:       "Riga",
		Address:    "Main st. 1",
		PostalCode: "1010",
		BuyingType: "delivery",
	}
}

func TestPlace_SnapshotsCartIntoOrder(t *testing.T) {
	f := newFixture()
	sess := sessionWithCart(t)

	o, err := f.svc.Place(context.Background(), 42, validForm(), sess)
	require.NoError(t, err)

	assert.Equal(t, 42, o.CustomerID)
	assert.Equal(t, order.StatusNew, o.Status)
	assert.False(t, o.Paid)
	require.Len(t, o.Items, 2)
	assert.Equal(t, order.Item{ProductID: 1, Price: 100, Quantity: 2}, o.Items[0])
	assert.Equal(t, order.Item{ProductID: 2, Price: 50, Quantity: 1}, o.Items[1])
	assert.Equal(t, 250.0, o.TotalCost())

	// cart is cleared in the persisted session form
	assert.Equal(t, 0, cart.FromSession(sess).Len())

	// the pending order id is remembered for the payment step
	var pending int
	ok, err := sess.Get(PendingOrderKey, &pending)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, o.ID, pending)

	// exactly one confirmation task was queued
	require.Len(t, f.queue.tasks, 1)
	assert.Equal(t, mailer.TaskOrderCreated, f.queue.tasks[0].Kind)
	assert.Equal(t, o.ID, f.queue.tasks[0].OrderID)
}

func TestPlace_DropsLinesForVanishedProducts(t *testing.T) {
	f := newFixture()
	sess := sessionWithCart(t)

	// product 2 leaves the catalog between add and checkout; its line
	// must not survive into the order or its total
	f.products.Remove(2)

	o, err := f.svc.Place(context.Background(), 42, validForm(), sess)
	require.NoError(t, err)

	require.Len(t, o.Items, 1)
	assert.Equal(t, order.Item{ProductID: 1, Price: 100, Quantity: 2}, o.Items[0])
	assert.Equal(t, 200.0, o.TotalCost())
}

func TestPlace_CartOfOnlyVanishedProductsIsEmpty(t *testing.T) {
	f := newFixture()
	sess := sessionWithCart(t)

	f.products.Remove(1)
	f.products.Remove(2)

	_, err := f.svc.Place(context.Background(), 42, validForm(), sess)
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Equal(t, 0, f.orders.Count())
	assert.Empty(t, f.queue.tasks)
}

func TestPlace_InvalidFormTouchesNothing(t *testing.T) {
	f := newFixture()
	sess := sessionWithCart(t)

	form := validForm()
	form.City = "" // missing city
	_, err := f.svc.Place(context.Background(), 42, form, sess)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "city")

	assert.Equal(t, 0, f.orders.Count(), "no order rows on validation failure")
	assert.Equal(t, 2, cart.FromSession(sess).Len(), "cart unchanged on validation failure")
	assert.Empty(t, f.queue.tasks)
}

func TestPlace_PickupNeedsNoAddress(t *testing.T) {
	f := newFixture()
	sess := sessionWithCart(t)

	_, err := f.svc.Place(context.Background(), 42, OrderForm{City: "Riga", BuyingType: "self"}, sess)
	assert.NoError(t, err)
}

func TestPlace_EmptyCartRejected(t *testing.T) {
	f := newFixture()
	sess := session.New("sid")

	_, err := f.svc.Place(context.Background(), 42, validForm(), sess)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestPlace_WriteFailureLeavesCartIntact(t *testing.T) {
	f := newFixture()
	f.orders.FailItems = true
	sess := sessionWithCart(t)

	_, err := f.svc.Place(context.Background(), 42, validForm(), sess)
	require.Error(t, err)

	assert.Equal(t, 0, f.orders.Count(), "failed write leaves no order behind")
	assert.Equal(t, 2, cart.FromSession(sess).Len(), "cart kept for retry")
	assert.Empty(t, f.queue.tasks)
}
