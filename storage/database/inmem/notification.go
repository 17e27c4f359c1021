package inmemdb

import (
	"github.com/trezcool/eduplatform/core/notification"
)

type notificationRepository struct {
	db *mailboxTable
}

func NewNotificationRepository(db *DB) notification.Repository {
	return &notificationRepository{db: db.notification}
}

func (repo *notificationRepository) AppendNotification(n notification.Notification) (notification.Notification, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	box, ok := repo.db.table[n.RecipientID]
	if !ok {
		box = &mailbox{}
		repo.db.table[n.RecipientID] = box
	}
	box.seq++
	n.ID = box.seq
	box.notifications = append(box.notifications, n)
	return n, nil
}

func (repo *notificationRepository) QueryNotifications(recipientID int) ([]notification.Notification, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	box, ok := repo.db.table[recipientID]
	if !ok {
		return []notification.Notification{}, nil
	}
	return append([]notification.Notification{}, box.notifications...), nil
}

func (repo *notificationRepository) find(recipientID, id int) (*mailbox, int) {
	box, ok := repo.db.table[recipientID]
	if !ok {
		return nil, -1
	}
	for i, n := range box.notifications {
		if n.ID == id {
			return box, i
		}
	}
	return box, -1
}

func (repo *notificationRepository) MarkRead(recipientID, id int) (notification.Notification, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	box, idx := repo.find(recipientID, id)
	if idx < 0 {
		return notification.Notification{}, notification.ErrNotFound
	}
	box.notifications[idx].IsRead = true
	return box.notifications[idx], nil
}

func (repo *notificationRepository) DeleteNotification(recipientID, id int) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	box, idx := repo.find(recipientID, id)
	if idx < 0 {
		return notification.ErrNotFound
	}
	box.notifications = append(box.notifications[:idx], box.notifications[idx+1:]...)
	return nil
}

func (repo *notificationRepository) DeleteMailbox(recipientID int) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	delete(repo.db.table, recipientID)
	return nil
}
