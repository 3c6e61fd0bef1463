package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreate_CommitsOrderWithItems(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresRepository(db)

	o := &Order{
		CustomerID: 7,
		City:       "Riga",
		Address:    "Main st. 1",
		PostalCode: "1010",
		Status:     StatusNew,
		BuyingType: BuyingDelivery,
		CreatedAt:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Items: []Item{
			{ProductID: 1, Price: 100, Quantity: 2},
			{ProductID: 2, Price: 50, Quantity: 1},
		},
	}

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO orders").
		WithArgs(7, "Riga", "Main st. 1", "1010", "", "new", "delivery", false, "", o.CreatedAt).
		WillReturnRows(sqlmock.NewRows([]string{"order_id"}).AddRow(11))
	mock.ExpectExec("INSERT INTO order_items").
		WithArgs(11, 1, 100.0, 2).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO order_items").
		WithArgs(11, 2, 50.0, 1).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Create(context.Background(), o))
	assert.Equal(t, 11, o.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_RollsBackWhenItemInsertFails(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresRepository(db)

	o := &Order{
		CustomerID: 7,
		City:       "Riga",
		Status:     StatusNew,
		BuyingType: BuyingSelfPickup,
		CreatedAt:  time.Now().UTC(),
		Items:      []Item{{ProductID: 1, Price: 100, Quantity: 2}},
	}

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO orders").
		WillReturnRows(sqlmock.NewRows([]string{"order_id"}).AddRow(12))
	mock.ExpectExec("INSERT INTO order_items").
		WillReturnError(errors.New("constraint violation"))
	mock.ExpectRollback()

	err = repo.Create(context.Background(), o)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert order item")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkPaid_SingleWrite(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectExec("UPDATE orders SET paid = true").
		WithArgs(5, "txn-abc").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.MarkPaid(context.Background(), 5, "txn-abc"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkPaid_UnknownOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectExec("UPDATE orders SET paid = true").
		WithArgs(99, "txn-abc").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.MarkPaid(context.Background(), 99, "txn-abc"), ErrNotFound)
}

func TestGetByID_LoadsItems(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresRepository(db)

	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery("FROM orders").WithArgs(11).WillReturnRows(
		sqlmock.NewRows([]string{"order_id", "customer_id", "city", "address", "postal_code", "comment", "status", "buying_type", "paid", "transaction_id", "created_at"}).
			AddRow(11, 7, "Riga", "Main st. 1", "1010", "", "new", "delivery", false, "", created))
	mock.ExpectQuery("FROM order_items").WithArgs(11).WillReturnRows(
		sqlmock.NewRows([]string{"product_id", "price", "quantity"}).
			AddRow(1, 100.0, 2).
			AddRow(2, 50.0, 1))

	o, err := repo.GetByID(context.Background(), 11)
	require.NoError(t, err)
	assert.Equal(t, StatusNew, o.Status)
	assert.Len(t, o.Items, 2)
	assert.Equal(t, 250.0, o.TotalCost())
	assert.NoError(t, mock.ExpectationsWereMet())
}
