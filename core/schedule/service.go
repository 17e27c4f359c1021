package schedule

import (
	"github.com/trezcool/eduplatform/core"
	"github.com/trezcool/eduplatform/core/user"
)

var (
	// errors
	ErrAlreadyExists    = core.NewConflictError("a schedule already exists for this class and day")
	ErrScheduleNotFound = core.NewNotFoundError("schedule not found")
	ErrTeacherNotFound  = core.NewNotFoundError("teacher not found")
	ErrSlotOccupied     = core.NewConflictError("time slot already occupied")
	ErrNoSuchLesson     = core.NewNotFoundError("no lesson found at this time")
)

type (
	// Directory resolves teachers referenced by lessons.
	Directory interface {
		GetByID(id int) (user.Account, error)
		GetByRoleAndID(role user.Role, id int) (user.Account, error)
	}

	Repository interface {
		// CreateSchedule fails with ErrAlreadyExists if the (class, day) pair is taken.
		CreateSchedule(s Schedule) (Schedule, error)
		GetSchedule(classID, day string) (Schedule, error)
		// QueryAllSchedules returns every schedule ordered by class then day.
		QueryAllSchedules() ([]Schedule, error)
		// AddLesson fails with ErrSlotOccupied if the time label is already used.
		AddLesson(classID, day string, lesson Lesson) error
		RemoveLesson(classID, day, time string) error
	}

	Service struct {
		repo Repository
		dir  Directory
	}
)

func NewService(repo Repository, dir Directory) *Service {
	return &Service{repo: repo, dir: dir}
}

func (svc *Service) CreateSchedule(classID, day string) (Schedule, error) {
	cd := ClassDay{ClassID: classID, Day: day}
	if err := cd.Validate(); err != nil {
		return Schedule{}, err
	}
	return svc.repo.CreateSchedule(Schedule{
		ClassID: cd.ClassID,
		Day:     cd.Day,
		Lessons: make(map[string]Lesson),
	})
}

func (svc *Service) GetSchedule(classID, day string) (Schedule, error) {
	return svc.repo.GetSchedule(core.CleanString(classID), core.CleanString(day))
}

func (svc *Service) QueryAll() ([]Schedule, error) {
	return svc.repo.QueryAllSchedules()
}

func (svc *Service) AddLesson(classID, day, time, subject string, teacherID int) (Lesson, error) {
	slot := Slot{ClassID: classID, Day: day, Time: time}
	if err := slot.Validate(); err != nil {
		return Lesson{}, err
	}
	if _, err := svc.repo.GetSchedule(slot.ClassID, slot.Day); err != nil {
		return Lesson{}, err
	}
	if _, err := svc.dir.GetByRoleAndID(user.RoleTeacher, teacherID); err != nil {
		if core.IsNotFound(err) {
			return Lesson{}, ErrTeacherNotFound
		}
		return Lesson{}, err
	}

	lesson := Lesson{
		Time:      slot.Time,
		Subject:   core.CleanString(subject),
		TeacherID: teacherID,
	}
	if err := svc.repo.AddLesson(slot.ClassID, slot.Day, lesson); err != nil {
		return Lesson{}, err
	}
	return lesson, nil
}

func (svc *Service) RemoveLesson(classID, day, time string) error {
	slot := Slot{ClassID: classID, Day: day, Time: time}
	if err := slot.Validate(); err != nil {
		return err
	}
	return svc.repo.RemoveLesson(slot.ClassID, slot.Day, slot.Time)
}

// View lists the lessons of a class day ordered by time label.
// Teachers that no longer resolve are shown as UnknownTeacher.
func (svc *Service) View(classID, day string) ([]LessonView, error) {
	sched, err := svc.GetSchedule(classID, day)
	if err != nil {
		return nil, err
	}
	lessons := sched.SortedLessons()
	views := make([]LessonView, 0, len(lessons))
	for _, l := range lessons {
		name := UnknownTeacher
		if teacher, err := svc.dir.GetByID(l.TeacherID); err == nil {
			name = teacher.Name
		} else if !core.IsNotFound(err) {
			return nil, err
		}
		views = append(views, LessonView{Lesson: l, TeacherName: name})
	}
	return views, nil
}
