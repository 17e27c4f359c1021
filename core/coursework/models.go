package coursework

import (
	"time"

	"github.com/trezcool/eduplatform/core"
)

const (
	MinGrade = 1
	MaxGrade = 5
)

type Assignment struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Deadline    time.Time `json:"deadline"`
	Subject     string    `json:"subject"`
	TeacherID   int       `json:"teacher_id"`
	ClassID     string    `json:"class_id"`
	CreatedAt   time.Time `json:"created_at"` // UTC
}

// Submission is a student's answer to an Assignment.
// Grade is nil until the submission has been graded.
type Submission struct {
	AssignmentID int       `json:"assignment_id"`
	StudentID    int       `json:"student_id"`
	Content      string    `json:"content"`
	SubmittedAt  time.Time `json:"submitted_at"` // UTC
	Grade        *int      `json:"grade"`
	Comment      string    `json:"comment"`
	GradedAt     time.Time `json:"graded_at"` // UTC
}

func (s Submission) IsGraded() bool { return s.Grade != nil }

// GradeValue returns the grade, or 0 when the submission is not graded yet.
func (s Submission) GradeValue() int {
	if s.Grade == nil {
		return 0
	}
	return *s.Grade
}

func (s Submission) Clone() Submission {
	if s.Grade != nil {
		g := *s.Grade
		s.Grade = &g
	}
	return s
}

// NewAssignment contains information needed to create an Assignment.
type NewAssignment struct {
	TeacherID   int       `json:"teacher_id"`
	Title       string    `json:"title" validate:"notblank"`
	Description string    `json:"description"`
	Deadline    time.Time `json:"deadline"`
	Subject     string    `json:"subject"`
	ClassID     string    `json:"class_id" validate:"notblank"`
}

func (na *NewAssignment) Validate() error {
	na.Title = core.CleanString(na.Title)
	na.Description = core.CleanString(na.Description)
	na.Subject = core.CleanString(na.Subject)
	na.ClassID = core.CleanString(na.ClassID)
	return core.ValidateStruct(na)
}

// QueryFilter applies AND operation on set fields.
type QueryFilter struct {
	TeacherID int
	ClassID   string
}

func (qf QueryFilter) Match(a Assignment) bool {
	if qf.TeacherID != 0 && a.TeacherID != qf.TeacherID {
		return false
	}
	if qf.ClassID != "" && a.ClassID != qf.ClassID {
		return false
	}
	return true
}
