package category

import (
	"database/sql"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	listCategoriesQuery = `
        SELECT category_id, title, slug
        FROM categories
        ORDER BY category_id
    `
	getCategoryQuery = `
        SELECT category_id, title, slug
        FROM categories
        WHERE category_id = $1
    `
	insertCategoryQuery = `
        INSERT INTO categories (title, slug)
        VALUES ($1, $2)
        RETURNING category_id
    `
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List() ([]Category, error) {
	rows, err := r.db.Query(listCategoriesQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Category, 0)
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Title, &c.Slug); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetByID(id int) (Category, error) {
	var c Category
	if err := r.db.QueryRow(getCategoryQuery, id).Scan(&c.ID, &c.Title, &c.Slug); err != nil {
		if err == sql.ErrNoRows {
			return Category{}, ErrNotFound
		}
		return Category{}, err
	}
	return c, nil
}

func (r *PostgresRepository) Create(c Category) (Category, error) {
	if err := r.db.QueryRow(insertCategoryQuery, c.Title, c.Slug).Scan(&c.ID); err != nil {
		return Category{}, err
	}
	return c, nil
}
