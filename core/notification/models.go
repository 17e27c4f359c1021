package notification

import (
	"fmt"
	"time"
)

const (
	StatusRead   = "Read"
	StatusUnread = "Unread"
)

// Notification is a message held in its recipient's mailbox.
// IDs are sequential per recipient, starting at 1.
type Notification struct {
	ID          int       `json:"id"`
	Message     string    `json:"message"`
	SenderID    int       `json:"sender_id"`
	RecipientID int       `json:"recipient_id"`
	CreatedAt   time.Time `json:"created_at"` // UTC
	IsRead      bool      `json:"is_read"`
}

func (n Notification) Status() string {
	if n.IsRead {
		return StatusRead
	}
	return StatusUnread
}

func (n Notification) String() string {
	return fmt.Sprintf("ID: %d | Status: %s | %s\nMessage: %s",
		n.ID, n.Status(), n.CreatedAt.Format("2006-01-02"), n.Message)
}

// Delivery is the outcome of sending one message to one recipient.
type Delivery struct {
	RecipientID    int
	NotificationID int
	Err            error
}

func (d Delivery) OK() bool { return d.Err == nil }
