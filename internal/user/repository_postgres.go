package user

import (
	"database/sql"
	"errors"
)

type PostgresRepository struct {
	db *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

const (
	customerColumns = `customer_id, email, password, first_name, last_name, phone, address, created_at`

	getCustomerByIDQuery = `
		SELECT ` + customerColumns + `
		FROM customers
		WHERE customer_id = $1
	`
	getCustomerByEmailQuery = `
		SELECT ` + customerColumns + `
		FROM customers
		WHERE email = $1
	`
	insertCustomerQuery = `
		INSERT INTO customers (email, password, first_name, last_name, phone, address)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING customer_id, created_at
	`
	updateCustomerQuery = `
		UPDATE customers
		SET first_name = $1,
			last_name = $2,
			phone = $3,
			address = $4,
			password = $5
		WHERE customer_id = $6
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByID(id int) (User, error) {
	return scanUser(r.db.QueryRow(getCustomerByIDQuery, id))
}

func (r *PostgresRepository) GetByEmail(email string) (User, error) {
	return scanUser(r.db.QueryRow(getCustomerByEmailQuery, email))
}

func (r *PostgresRepository) Create(u User) (User, error) {
	err := r.db.QueryRow(insertCustomerQuery,
		u.Email, u.Password, u.FirstName, u.LastName, u.Phone, u.Address,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		return User{}, err
	}
	return u, nil
}

func (r *PostgresRepository) Update(id int, update User) (User, error) {
	existing, err := r.GetByID(id)
	if err != nil {
		return User{}, err
	}

	password := existing.Password
	if update.Password != "" {
		password = update.Password
	}

	res, err := r.db.Exec(updateCustomerQuery,
		update.FirstName, update.LastName, update.Phone, update.Address, password, id,
	)
	if err != nil {
		return User{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return User{}, ErrNotFound
	}

	return r.GetByID(id)
}

func scanUser(row rowScanner) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Password, &u.FirstName, &u.LastName, &u.Phone, &u.Address, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	return u, nil
}
