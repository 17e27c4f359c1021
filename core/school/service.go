// Package school ties the directory, the coursework ledger, the scheduling board
// and the mailboxes together for the steps that span more than one of them.
package school

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/trezcool/eduplatform/core"
	"github.com/trezcool/eduplatform/core/coursework"
	"github.com/trezcool/eduplatform/core/notification"
	"github.com/trezcool/eduplatform/core/schedule"
	"github.com/trezcool/eduplatform/core/user"
)

var ErrNoParents = core.NewNotFoundError("no parents linked to this student")

type Service struct {
	Users      *user.Service
	Coursework *coursework.Service
	Schedules  *schedule.Service
	Mailbox    *notification.Service
}

// Repositories groups the storage behind every component.
type Repositories struct {
	Users         user.Repository
	Coursework    coursework.Repository
	Schedules     schedule.Repository
	Notifications notification.Repository
}

func NewService(repos Repositories) *Service {
	usrSvc := user.NewService(repos.Users)
	return &Service{
		Users:      usrSvc,
		Coursework: coursework.NewService(repos.Coursework, usrSvc),
		Schedules:  schedule.NewService(repos.Schedules, usrSvc),
		Mailbox:    notification.NewService(repos.Notifications, usrSvc),
	}
}

func GradeMessage(studentName string, value, assignmentID int, comment string) string {
	return fmt.Sprintf("Your child %s received grade %d for assignment %d with comment: %s",
		studentName, value, assignmentID, comment)
}

// GradeAndNotify grades the submission and, if notify is set, tells every parent of the student.
// Failed deliveries are reported in the returned slice and never undo the grade.
func (svc *Service) GradeAndNotify(teacherID, assignmentID, studentID, value int, comment string, notify bool) (coursework.Submission, []notification.Delivery, error) {
	if _, err := svc.Users.GetByRoleAndID(user.RoleTeacher, teacherID); err != nil {
		return coursework.Submission{}, nil, err
	}
	sub, err := svc.Coursework.Grade(assignmentID, studentID, value, comment)
	if err != nil {
		return coursework.Submission{}, nil, err
	}
	if !notify {
		return sub, nil, nil
	}

	student, err := svc.Users.GetByID(studentID)
	if err != nil {
		return sub, nil, errors.Wrap(err, "resolving graded student")
	}
	deliveries, err := svc.NotifyParents(teacherID, studentID, GradeMessage(student.Name, value, assignmentID, sub.Comment))
	if err != nil && err != ErrNoParents {
		return sub, deliveries, err
	}
	return sub, deliveries, nil
}

// NotifyParents sends message to every parent linked to the student.
func (svc *Service) NotifyParents(senderID, studentID int, message string) ([]notification.Delivery, error) {
	parents, err := svc.Users.ParentsOf(studentID)
	if err != nil {
		return nil, err
	}
	if len(parents) == 0 {
		return nil, ErrNoParents
	}
	ids := lo.Map(parents, func(p user.Account, _ int) int { return p.ID })
	return svc.Mailbox.SendMany(senderID, ids, message), nil
}

// RemoveAccount deletes the account from the directory and drops its mailbox.
// Schedules and assignments keep referencing the removed ID.
func (svc *Service) RemoveAccount(id int) error {
	if err := svc.Users.Remove(id); err != nil {
		return err
	}
	return svc.Mailbox.DeleteMailbox(id)
}
