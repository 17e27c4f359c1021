package notification

import (
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/eduplatform/core"
	"github.com/trezcool/eduplatform/core/user"
)

var (
	// errors
	ErrNotFound          = core.NewNotFoundError("notification not found")
	ErrRecipientNotFound = core.NewNotFoundError("recipient not found")
)

type (
	// Directory resolves recipients.
	Directory interface {
		GetByID(id int) (user.Account, error)
	}

	Repository interface {
		// AppendNotification stores n in the recipient's mailbox and assigns the next per-recipient ID.
		AppendNotification(n Notification) (Notification, error)
		// QueryNotifications returns the recipient's notifications oldest first.
		QueryNotifications(recipientID int) ([]Notification, error)
		MarkRead(recipientID, id int) (Notification, error)
		DeleteNotification(recipientID, id int) error
		DeleteMailbox(recipientID int) error
	}

	Service struct {
		repo Repository
		dir  Directory
	}
)

func NewService(repo Repository, dir Directory) *Service {
	return &Service{repo: repo, dir: dir}
}

func (svc *Service) Send(senderID, recipientID int, message string) (Notification, error) {
	if _, err := svc.dir.GetByID(recipientID); err != nil {
		if core.IsNotFound(err) {
			return Notification{}, ErrRecipientNotFound
		}
		return Notification{}, err
	}
	return svc.repo.AppendNotification(Notification{
		Message:     message,
		SenderID:    senderID,
		RecipientID: recipientID,
		CreatedAt:   time.Now().UTC(),
	})
}

// SendMany sends message to each recipient independently.
// A failed delivery does not undo the others.
func (svc *Service) SendMany(senderID int, recipientIDs []int, message string) []Delivery {
	deliveries := make([]Delivery, 0, len(recipientIDs))
	for _, rid := range recipientIDs {
		d := Delivery{RecipientID: rid}
		if n, err := svc.Send(senderID, rid, message); err != nil {
			d.Err = errors.Wrapf(err, "sending to %d", rid)
		} else {
			d.NotificationID = n.ID
		}
		deliveries = append(deliveries, d)
	}
	return deliveries
}

func (svc *Service) List(recipientID int) ([]Notification, error) {
	return svc.repo.QueryNotifications(recipientID)
}

func (svc *Service) UnreadCount(recipientID int) (int, error) {
	notifs, err := svc.repo.QueryNotifications(recipientID)
	if err != nil {
		return 0, err
	}
	var count int
	for _, n := range notifs {
		if !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (svc *Service) MarkRead(recipientID, id int) (Notification, error) {
	return svc.repo.MarkRead(recipientID, id)
}

func (svc *Service) Delete(recipientID, id int) error {
	return svc.repo.DeleteNotification(recipientID, id)
}

func (svc *Service) DeleteMailbox(recipientID int) error {
	return svc.repo.DeleteMailbox(recipientID)
}
