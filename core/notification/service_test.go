package notification_test

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/eduplatform/core/notification"
	"github.com/trezcool/eduplatform/core/user"
	"github.com/trezcool/eduplatform/tests"
)

func TestService_Send(t *testing.T) {
	env := testutil.Setup(t)
	svc := env.School.Mailbox
	admin := testutil.CreateUser(t, env.Repos.Users, "Root", "root@school.test", "", user.RoleAdmin)
	parent := testutil.CreateUser(t, env.Repos.Users, "Pam", "pam@home.test", "", user.RoleParent)

	for i, msg := range []string{"first", "second", "third"} {
		n, err := svc.Send(admin.ID, parent.ID, msg)
		require.NoError(t, err)
		assert.Equal(t, i+1, n.ID)
		assert.False(t, n.IsRead)
		assert.Equal(t, notification.StatusUnread, n.Status())
	}

	// IDs are per recipient
	n, err := svc.Send(parent.ID, admin.ID, "hi")
	require.NoError(t, err)
	assert.Equal(t, 1, n.ID)

	_, err = svc.Send(admin.ID, 404, "lost")
	assert.Equal(t, notification.ErrRecipientNotFound, err)

	list, err := svc.List(parent.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"first", "second", "third"}, []string{list[0].Message, list[1].Message, list[2].Message})

	count, err := svc.UnreadCount(parent.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestService_SendMany(t *testing.T) {
	env := testutil.Setup(t)
	svc := env.School.Mailbox
	admin := testutil.CreateUser(t, env.Repos.Users, "Root", "root@school.test", "", user.RoleAdmin)
	p1 := testutil.CreateUser(t, env.Repos.Users, "Pam", "pam@home.test", "", user.RoleParent)
	p2 := testutil.CreateUser(t, env.Repos.Users, "Pat", "pat@home.test", "", user.RoleParent)

	deliveries := svc.SendMany(admin.ID, []int{p1.ID, 404, p2.ID}, "meeting")
	require.Len(t, deliveries, 3)

	tests := []struct {
		name        string
		recipientID int
		wantOK      bool
	}{
		{name: "first parent", recipientID: p1.ID, wantOK: true},
		{name: "unknown", recipientID: 404},
		{name: "second parent", recipientID: p2.ID, wantOK: true},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := deliveries[i]
			assert.Equal(t, tt.recipientID, d.RecipientID)
			assert.Equal(t, tt.wantOK, d.OK())
			if !tt.wantOK {
				assert.Equal(t, notification.ErrRecipientNotFound, errors.Cause(d.Err))
				return
			}
			list, err := svc.List(tt.recipientID)
			require.NoError(t, err)
			require.Len(t, list, 1)
			assert.Equal(t, d.NotificationID, list[0].ID)
			assert.Equal(t, admin.ID, list[0].SenderID)
		})
	}
}

func TestService_MarkReadAndDelete(t *testing.T) {
	env := testutil.Setup(t)
	svc := env.School.Mailbox
	admin := testutil.CreateUser(t, env.Repos.Users, "Root", "root@school.test", "", user.RoleAdmin)
	parent := testutil.CreateUser(t, env.Repos.Users, "Pam", "pam@home.test", "", user.RoleParent)
	for _, msg := range []string{"a", "b", "c"} {
		_, err := svc.Send(admin.ID, parent.ID, msg)
		require.NoError(t, err)
	}

	n, err := svc.MarkRead(parent.ID, 2)
	require.NoError(t, err)
	assert.True(t, n.IsRead)
	assert.Equal(t, notification.StatusRead, n.Status())
	count, _ := svc.UnreadCount(parent.ID)
	assert.Equal(t, 2, count)

	tests := []struct {
		name        string
		recipientID int
		id          int
	}{
		{name: "unknown id", recipientID: parent.ID, id: 9},
		{name: "someone else's mailbox", recipientID: admin.ID, id: 1},
		{name: "unknown recipient", recipientID: 404, id: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.MarkRead(tt.recipientID, tt.id)
			assert.Equal(t, notification.ErrNotFound, err)
			assert.Equal(t, notification.ErrNotFound, svc.Delete(tt.recipientID, tt.id))
		})
	}

	require.NoError(t, svc.Delete(parent.ID, 1))
	list, err := svc.List(parent.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, []int{2, 3}, []int{list[0].ID, list[1].ID})

	// IDs are not reused after a deletion
	n, err = svc.Send(admin.ID, parent.ID, "d")
	require.NoError(t, err)
	assert.Equal(t, 4, n.ID)

	require.NoError(t, svc.DeleteMailbox(parent.ID))
	list, err = svc.List(parent.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestNotification_String(t *testing.T) {
	n := notification.Notification{ID: 3, Message: "hello", IsRead: true}
	s := n.String()
	assert.True(t, strings.HasPrefix(s, "ID: 3 | Status: "+notification.StatusRead), s)
	assert.True(t, strings.HasSuffix(s, "Message: hello"), s)
}
