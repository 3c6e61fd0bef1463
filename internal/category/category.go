package category

import "strings"

// Category is a catalog section products belong to.
type Category struct {
	ID    int    `json:"categoryId"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

// Slugify builds a URL-safe slug from a category title.
func Slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = strings.Join(strings.Fields(s), "-")
	return s
}
