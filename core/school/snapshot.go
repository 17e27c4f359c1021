package school

import (
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/pkg/errors"

	"github.com/trezcool/eduplatform/core/coursework"
	"github.com/trezcool/eduplatform/core/schedule"
	"github.com/trezcool/eduplatform/core/user"
)

type (
	// AccountRecord flattens an Account and its role specific fields.
	AccountRecord struct {
		ID           int
		Name         string
		Email        string
		Role         user.Role
		PasswordHash []byte
		CreatedAt    time.Time

		Level        string   // students
		AverageGrade float64  // students; valid only if HasGrades
		HasGrades    bool     // students
		Subjects     []string // teachers
		Children     []int    // parents
	}

	AssignmentRecord struct {
		coursework.Assignment
		Submissions []coursework.Submission
	}

	// Snapshot is a read-only, point-in-time copy of the school state.
	// Notifications are session-only and not part of it.
	Snapshot struct {
		ID          uuid.UUID
		TakenAt     time.Time
		Accounts    []AccountRecord
		Assignments []AssignmentRecord
		Schedules   []schedule.Schedule
	}
)

func (s Snapshot) AccountsByRole(role user.Role) []AccountRecord {
	res := make([]AccountRecord, 0)
	for _, acc := range s.Accounts {
		if acc.Role == role {
			res = append(res, acc)
		}
	}
	return res
}

// Snapshot copies accounts (ordered by ID), assignments with their submissions and all schedules.
func (svc *Service) Snapshot() (Snapshot, error) {
	snap := Snapshot{
		ID:      uuid.New(),
		TakenAt: time.Now().UTC(),
	}

	users, err := svc.Users.QueryAll()
	if err != nil {
		return Snapshot{}, errors.Wrap(err, "querying accounts")
	}
	snap.Accounts = make([]AccountRecord, 0, len(users))
	for _, usr := range users {
		rec, err := svc.accountRecord(usr)
		if err != nil {
			return Snapshot{}, err
		}
		snap.Accounts = append(snap.Accounts, rec)
	}

	assignments, err := svc.Coursework.QueryAssignments(coursework.QueryFilter{})
	if err != nil {
		return Snapshot{}, errors.Wrap(err, "querying assignments")
	}
	snap.Assignments = make([]AssignmentRecord, 0, len(assignments))
	for _, a := range assignments {
		subs, err := svc.Coursework.AssignmentSubmissions(a.ID)
		if err != nil {
			return Snapshot{}, errors.Wrapf(err, "querying submissions of assignment %d", a.ID)
		}
		snap.Assignments = append(snap.Assignments, AssignmentRecord{Assignment: a, Submissions: subs})
	}

	if snap.Schedules, err = svc.Schedules.QueryAll(); err != nil {
		return Snapshot{}, errors.Wrap(err, "querying schedules")
	}
	return snap, nil
}

func (svc *Service) accountRecord(usr user.Account) (AccountRecord, error) {
	var rec AccountRecord
	if err := copier.CopyWithOption(&rec, &usr, copier.Option{DeepCopy: true}); err != nil {
		return AccountRecord{}, errors.Wrapf(err, "copying account %d", usr.ID)
	}

	switch prof := usr.Profile.(type) {
	case user.StudentProfile:
		rec.Level = prof.Level
		avg, ok, err := svc.Coursework.AverageGrade(usr.ID)
		if err != nil {
			return AccountRecord{}, errors.Wrapf(err, "averaging grades of %d", usr.ID)
		}
		rec.AverageGrade, rec.HasGrades = avg, ok
	case user.TeacherProfile:
		rec.Subjects = append([]string(nil), prof.Subjects...)
	case user.ParentProfile:
		rec.Children = append([]int(nil), prof.Children...)
	}
	return rec, nil
}
