package notification

import (
	"database/sql"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	insertNotificationQuery = `
        INSERT INTO notifications (customer_id, text, read)
        VALUES ($1, $2, false)
        RETURNING notification_id
    `
	listUnreadQuery = `
        SELECT notification_id, customer_id, text, read
        FROM notifications
        WHERE customer_id = $1 AND read = false
        ORDER BY notification_id
    `
	markAllReadQuery = `
        UPDATE notifications SET read = true
        WHERE customer_id = $1 AND read = false
    `
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Append(customerID int, text string) (Notification, error) {
	n := Notification{CustomerID: customerID, Text: text}
	if err := r.db.QueryRow(insertNotificationQuery, customerID, text).Scan(&n.ID); err != nil {
		return Notification{}, err
	}
	return n, nil
}

func (r *PostgresRepository) ListUnread(customerID int) ([]Notification, error) {
	rows, err := r.db.Query(listUnreadQuery, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Notification, 0)
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.CustomerID, &n.Text, &n.Read); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) MarkAllRead(customerID int) error {
	_, err := r.db.Exec(markAllReadQuery, customerID)
	return err
}
