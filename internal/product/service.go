package product

// Service provides business logic for the catalog.
type Service struct {
	repo Repository
}

// ServiceInterface lets other features depend on the product service
// without binding to the concrete type.
type ServiceInterface interface {
	List() []Product
	ListByCategory(categoryID int) []Product
	ListByIDs(ids []int) ([]Product, error)
	GetByID(id int) (Product, error)
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

// List returns only products currently marked available.
func (s *Service) List() []Product {
	out := make([]Product, 0)
	for _, p := range s.repo.List() {
		if p.Available {
			out = append(out, p)
		}
	}
	return out
}

func (s *Service) ListByCategory(categoryID int) []Product {
	return s.repo.ListByCategory(categoryID)
}

func (s *Service) ListByIDs(ids []int) ([]Product, error) {
	return s.repo.ListByIDs(ids)
}

func (s *Service) GetByID(id int) (Product, error) {
	if id <= 0 {
		return Product{}, ErrNotFound
	}
	return s.repo.GetByID(id)
}

func (s *Service) Create(p Product) (Product, error) {
	return s.repo.Create(p)
}
