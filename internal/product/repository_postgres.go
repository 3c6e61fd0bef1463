package product

import (
	"database/sql"

	"github.com/lib/pq"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	productColumns = `product_id, title, slug, description, category_id, price, manufacturer, weight, available, quantity`

	listProductsQuery = `
        SELECT ` + productColumns + `
        FROM products
        WHERE available = true
        ORDER BY product_id
    `
	listByCategoryQuery = `
        SELECT ` + productColumns + `
        FROM products
        WHERE category_id = $1 AND available = true
        ORDER BY product_id
    `
	listByIDsQuery = `
        SELECT ` + productColumns + `
        FROM products
        WHERE product_id = ANY($1::int[])
        ORDER BY array_position($1::int[], product_id)
    `
	getProductQuery = `
        SELECT ` + productColumns + `
        FROM products
        WHERE product_id = $1
    `
	insertProductQuery = `
        INSERT INTO products (title, slug, description, category_id, price, manufacturer, weight, available, quantity)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING product_id
    `
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List() []Product {
	return r.queryList(listProductsQuery)
}

func (r *PostgresRepository) ListByCategory(categoryID int) []Product {
	return r.queryList(listByCategoryQuery, categoryID)
}

func (r *PostgresRepository) ListByIDs(ids []int) ([]Product, error) {
	if len(ids) == 0 {
		return []Product{}, nil
	}

	rows, err := r.db.Query(listByIDsQuery, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Product, 0, len(ids))
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetByID(id int) (Product, error) {
	row := r.db.QueryRow(getProductQuery, id)
	p, err := scanProduct(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return Product{}, ErrNotFound
		}
		return Product{}, err
	}
	return p, nil
}

func (r *PostgresRepository) Create(p Product) (Product, error) {
	err := r.db.QueryRow(insertProductQuery,
		p.Title, p.Slug, p.Description, p.CategoryID, p.Price,
		p.Manufacturer, p.Weight, p.Available, p.Quantity,
	).Scan(&p.ID)
	if err != nil {
		return Product{}, err
	}
	return p, nil
}

func (r *PostgresRepository) queryList(query string, args ...any) []Product {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return []Product{}
	}
	defer rows.Close()

	out := make([]Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			continue
		}
		out = append(out, p)
	}
	return out
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Description, &p.CategoryID,
		&p.Price, &p.Manufacturer, &p.Weight, &p.Available, &p.Quantity)
	return p, err
}
