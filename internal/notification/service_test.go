package notification

import (
	"context"
	"testing"

	"github.com/avolkov/online-shop-backend/internal/order"
)

func TestOrderStatusHook_AppendsOneUnreadPerWrite(t *testing.T) {
	repo := NewInMemoryRepository()
	svc := NewService(repo)

	orders := order.NewService(order.NewInMemoryRepository())
	orders.OnStatusChange(svc.OrderStatusHook)

	o := &order.Order{
		CustomerID: 42,
		City:       "Riga",
		BuyingType: order.BuyingDelivery,
		Items:      []order.Item{{ProductID: 1, Price: 10, Quantity: 1}},
	}
	if err := orders.Place(context.Background(), o); err != nil {
		t.Fatalf("place: %v", err)
	}
	if err := orders.SetStatus(context.Background(), o.ID, order.StatusInProgress); err != nil {
		t.Fatalf("set status: %v", err)
	}

	unread, err := svc.ListUnread(42)
	if err != nil {
		t.Fatalf("list unread: %v", err)
	}
	if len(unread) != 2 {
		t.Fatalf("expected 2 unread notifications (create + status change), got %d", len(unread))
	}
}

func TestMarkAllRead_LeavesOtherCustomersAlone(t *testing.T) {
	repo := NewInMemoryRepository()
	svc := NewService(repo)

	repo.Append(1, "order #1 is new")
	repo.Append(1, "order #1 is in_progress")
	repo.Append(2, "order #2 is new")

	if err := svc.MarkAllRead(1); err != nil {
		t.Fatalf("mark all read: %v", err)
	}

	if unread, _ := svc.ListUnread(1); len(unread) != 0 {
		t.Fatalf("expected no unread for customer 1, got %d", len(unread))
	}
	if unread, _ := svc.ListUnread(2); len(unread) != 1 {
		t.Fatalf("expected customer 2 untouched, got %d unread", len(unread))
	}
}
