package schedule

import (
	"sort"

	"github.com/samber/lo"

	"github.com/trezcool/eduplatform/core"
)

// UnknownTeacher is displayed for lessons whose teacher no longer resolves.
const UnknownTeacher = "Unknown"

type Lesson struct {
	Time      string `json:"time"`
	Subject   string `json:"subject"`
	TeacherID int    `json:"teacher_id"`
}

// Schedule is the day plan of one class. Lessons are keyed by time label.
type Schedule struct {
	ID      int               `json:"id"`
	ClassID string            `json:"class_id"`
	Day     string            `json:"day"`
	Lessons map[string]Lesson `json:"lessons"`
}

// SortedLessons returns the lessons ordered by their time label, compared as stored.
func (s Schedule) SortedLessons() []Lesson {
	lessons := lo.Values(s.Lessons)
	sort.Slice(lessons, func(i, j int) bool { return lessons[i].Time < lessons[j].Time })
	return lessons
}

func (s Schedule) Clone() Schedule {
	lessons := make(map[string]Lesson, len(s.Lessons))
	for t, l := range s.Lessons {
		lessons[t] = l
	}
	s.Lessons = lessons
	return s
}

// LessonView is a Lesson with its teacher resolved to a display name.
type LessonView struct {
	Lesson
	TeacherName string `json:"teacher_name"`
}

// Slot addresses a time position within one class day.
type Slot struct {
	ClassID string `json:"class_id" validate:"notblank"`
	Day     string `json:"day" validate:"notblank"`
	Time    string `json:"time" validate:"notblank"`
}

func (s *Slot) Validate() error {
	s.ClassID = core.CleanString(s.ClassID)
	s.Day = core.CleanString(s.Day)
	s.Time = core.CleanString(s.Time)
	return core.ValidateStruct(s)
}

// ClassDay addresses one Schedule.
type ClassDay struct {
	ClassID string `json:"class_id" validate:"notblank"`
	Day     string `json:"day" validate:"notblank"`
}

func (d *ClassDay) Validate() error {
	d.ClassID = core.CleanString(d.ClassID)
	d.Day = core.CleanString(d.Day)
	return core.ValidateStruct(d)
}
