package notification

// Notification is one unread/read message in a customer's log.
type Notification struct {
	ID         int    `json:"notificationId"`
	CustomerID int    `json:"customerId"`
	Text       string `json:"text"`
	Read       bool   `json:"read"`
}
