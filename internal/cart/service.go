package cart

import (
	"github.com/avolkov/online-shop-backend/internal/product"
	"github.com/avolkov/online-shop-backend/internal/session"
)

// Item is one resolved cart line as shown to the user.
type Item struct {
	Product   product.Product `json:"product"`
	Quantity  int             `json:"quantity"`
	UnitPrice float64         `json:"price"`
	Subtotal  float64         `json:"subtotal"`
}

// View is the rendered cart: resolved items plus the running total.
type View struct {
	Items []Item  `json:"items"`
	Total float64 `json:"total"`
}

// Service ties the session cart to the catalog.
type Service struct {
	products product.ServiceInterface
}

func NewService(products product.ServiceInterface) *Service {
	return &Service{products: products}
}

// Add puts a product into the session cart, capturing its current
// catalog price for new lines. With updateQuantity the stored quantity
// is replaced instead of incremented.
func (s *Service) Add(sess *session.Session, productID, quantity int, updateQuantity bool) error {
	p, err := s.products.GetByID(productID)
	if err != nil {
		return err
	}

	c := FromSession(sess)
	if err := c.Add(p.ID, p.Price, quantity, updateQuantity); err != nil {
		return err
	}
	return c.SaveTo(sess)
}

func (s *Service) Remove(sess *session.Session, productID int) error {
	c := FromSession(sess)
	c.Remove(productID)
	return c.SaveTo(sess)
}

func (s *Service) Clear(sess *session.Session) error {
	c := FromSession(sess)
	c.Clear()
	return c.SaveTo(sess)
}

// View resolves the session cart against the catalog. Lines whose
// product has disappeared since they were added are dropped silently
// and pruned from the session, the remaining cart stays intact.
func (s *Service) View(sess *session.Session) (View, error) {
	c := FromSession(sess)
	lines := c.Lines()

	ids := make([]int, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ProductID)
	}

	products, err := s.products.ListByIDs(ids)
	if err != nil {
		return View{}, err
	}
	byID := make(map[int]product.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	view := View{Items: make([]Item, 0, len(lines))}
	pruned := false
	for _, l := range lines {
		p, ok := byID[l.ProductID]
		if !ok {
			c.Remove(l.ProductID)
			pruned = true
			continue
		}
		view.Items = append(view.Items, Item{
			Product:   p,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Subtotal:  l.Subtotal(),
		})
	}
	view.Total = c.Total()

	if pruned {
		if err := c.SaveTo(sess); err != nil {
			return View{}, err
		}
	}
	return view, nil
}
