package category

// Service provides business logic for categories.
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

// List returns all categories; repository failures collapse to an
// empty slice so the storefront keeps rendering.
func (s *Service) List() []Category {
	items, err := s.repo.List()
	if err != nil {
		return []Category{}
	}
	return items
}

func (s *Service) GetByID(id int) (Category, error) {
	return s.repo.GetByID(id)
}

func (s *Service) Create(title string) (Category, error) {
	return s.repo.Create(Category{Title: title, Slug: Slugify(title)})
}
