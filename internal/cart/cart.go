package cart

import (
	"encoding/json"
	"errors"
)

var (
	// ErrInvalidQuantity is returned when an add/update would leave a
	// line with a quantity below 1. Removal is its own operation, a
	// quantity dropping to zero is never a silent delete.
	ErrInvalidQuantity = errors.New("cart quantity must be at least 1")
)

// Line is one product's entry in a cart. UnitPrice is captured when
// the line is created and never follows later catalog price changes.
type Line struct {
	ProductID int     `json:"productId"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"price"`
}

func (l Line) Subtotal() float64 {
	return l.UnitPrice * float64(l.Quantity)
}

// Cart is an insertion-ordered collection of lines keyed by product
// id, at most one line per product. It is rebuilt from session state
// on every request and has no database identity of its own.
type Cart struct {
	lines []Line
	index map[int]int // product id -> position in lines
}

func New() *Cart {
	return &Cart{index: make(map[int]int)}
}

// Add creates a line with the given unit price when the product is not
// in the cart yet. For an existing line the stored price is kept;
// updateQuantity replaces the quantity, otherwise it is incremented.
func (c *Cart) Add(productID int, unitPrice float64, quantity int, updateQuantity bool) error {
	pos, exists := c.index[productID]
	if !exists {
		if quantity < 1 {
			return ErrInvalidQuantity
		}
		c.index[productID] = len(c.lines)
		c.lines = append(c.lines, Line{ProductID: productID, Quantity: quantity, UnitPrice: unitPrice})
		return nil
	}

	next := c.lines[pos].Quantity + quantity
	if updateQuantity {
		next = quantity
	}
	if next < 1 {
		return ErrInvalidQuantity
	}
	c.lines[pos].Quantity = next
	return nil
}

// Remove deletes the line for productID. Removing an absent product is
// a no-op, not an error.
func (c *Cart) Remove(productID int) {
	pos, ok := c.index[productID]
	if !ok {
		return
	}
	c.lines = append(c.lines[:pos], c.lines[pos+1:]...)
	delete(c.index, productID)
	for id, p := range c.index {
		if p > pos {
			c.index[id] = p - 1
		}
	}
}

// Lines returns a snapshot of the cart in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Len() int {
	return len(c.lines)
}

// Total is the sum of all line subtotals, zero for an empty cart.
func (c *Cart) Total() float64 {
	var total float64
	for _, l := range c.lines {
		total += l.Subtotal()
	}
	return total
}

// Clear drops every line.
func (c *Cart) Clear() {
	c.lines = nil
	c.index = make(map[int]int)
}

// MarshalJSON serializes the cart as an ordered array of lines so the
// insertion order survives session storage.
func (c *Cart) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.lines)
}

func (c *Cart) UnmarshalJSON(data []byte) error {
	var lines []Line
	if err := json.Unmarshal(data, &lines); err != nil {
		return err
	}
	c.lines = lines
	c.index = make(map[int]int, len(lines))
	for i, l := range lines {
		c.index[l.ProductID] = i
	}
	return nil
}
