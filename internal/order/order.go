package order

import "time"

// Status tracks an order through fulfilment. It is independent of the
// paid flag: an unpaid order may be at any status before settlement.
type Status string

const (
	StatusNew        Status = "new"
	StatusInProgress Status = "in_progress"
	StatusReady      Status = "is_ready"
	StatusCompleted  Status = "completed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusInProgress, StatusReady, StatusCompleted:
		return true
	}
	return false
}

// BuyingType selects how the customer receives the order.
type BuyingType string

const (
	BuyingSelfPickup BuyingType = "self"
	BuyingDelivery   BuyingType = "delivery"
)

func (b BuyingType) Valid() bool {
	return b == BuyingSelfPickup || b == BuyingDelivery
}

// Item is one product snapshot inside an order. Price is copied from
// the cart line at checkout and never follows later catalog changes.
type Item struct {
	ProductID int     `json:"productId"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

func (it Item) Cost() float64 {
	return it.Price * float64(it.Quantity)
}

// Order is a durable record of a checkout.
type Order struct {
	ID            int        `json:"orderId"`
	CustomerID    int        `json:"customerId"`
	City          string     `json:"city"`
	Address       string     `json:"address"`
	PostalCode    string     `json:"postalCode"`
	Comment       string     `json:"comment,omitempty"`
	Status        Status     `json:"status"`
	BuyingType    BuyingType `json:"buyingType"`
	Paid          bool       `json:"paid"`
	TransactionID string     `json:"transactionId,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	Items         []Item     `json:"items"`
}

// TotalCost is the server-side order total, always computed from the
// item snapshots and never trusted from a client.
func (o *Order) TotalCost() float64 {
	var total float64
	for _, it := range o.Items {
		total += it.Cost()
	}
	return total
}
