package coursework

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/trezcool/eduplatform/core"
	"github.com/trezcool/eduplatform/core/user"
)

var (
	// errors
	ErrAssignmentNotFound = core.NewNotFoundError("assignment not found")
	ErrNoSuchSubmission   = core.NewNotFoundError("no submission found for this student and assignment")
	ErrAlreadySubmitted   = core.NewConflictError("assignment already submitted")

	invalidGradeText = fmt.Sprintf("grade must be between %d and %d", MinGrade, MaxGrade)
	ErrInvalidGrade  = core.NewValidationError(
		errors.New(invalidGradeText),
		core.FieldError{Field: "grade", Error: invalidGradeText},
	)
)

type (
	// Directory resolves the accounts referenced by the ledger.
	Directory interface {
		GetByRoleAndID(role user.Role, id int) (user.Account, error)
	}

	Repository interface {
		CreateAssignment(a Assignment) (Assignment, error)
		GetAssignmentByID(id int) (Assignment, error)
		// QueryAssignments returns matching assignments ordered by ID.
		QueryAssignments(filter QueryFilter) ([]Assignment, error)
		// CreateSubmission fails with ErrAlreadySubmitted if the (assignment, student) pair already has one.
		CreateSubmission(s Submission) (Submission, error)
		GetSubmission(assignmentID, studentID int) (Submission, error)
		UpdateSubmission(s Submission) (Submission, error)
		// QuerySubmissionsByStudent returns the student's submissions ordered by assignment ID.
		QuerySubmissionsByStudent(studentID int) ([]Submission, error)
		// QuerySubmissionsByAssignment returns the assignment's submissions in submission order.
		QuerySubmissionsByAssignment(assignmentID int) ([]Submission, error)
	}

	Service struct {
		repo Repository
		dir  Directory
	}
)

func NewService(repo Repository, dir Directory) *Service {
	return &Service{repo: repo, dir: dir}
}

func (svc *Service) CreateAssignment(na NewAssignment) (Assignment, error) {
	if err := na.Validate(); err != nil {
		return Assignment{}, err
	}
	if _, err := svc.dir.GetByRoleAndID(user.RoleTeacher, na.TeacherID); err != nil {
		return Assignment{}, err
	}
	return svc.repo.CreateAssignment(Assignment{
		Title:       na.Title,
		Description: na.Description,
		Deadline:    na.Deadline,
		Subject:     na.Subject,
		TeacherID:   na.TeacherID,
		ClassID:     na.ClassID,
		CreatedAt:   time.Now().UTC(),
	})
}

func (svc *Service) GetAssignment(id int) (Assignment, error) {
	return svc.repo.GetAssignmentByID(id)
}

func (svc *Service) QueryAssignments(filter QueryFilter) ([]Assignment, error) {
	return svc.repo.QueryAssignments(filter)
}

// Submit records the student's content for the assignment.
// A second submission for the same pair fails with ErrAlreadySubmitted and leaves the first one untouched.
func (svc *Service) Submit(studentID, assignmentID int, content string) (Submission, error) {
	if _, err := svc.dir.GetByRoleAndID(user.RoleStudent, studentID); err != nil {
		return Submission{}, err
	}
	if _, err := svc.repo.GetAssignmentByID(assignmentID); err != nil {
		return Submission{}, err
	}
	return svc.repo.CreateSubmission(Submission{
		AssignmentID: assignmentID,
		StudentID:    studentID,
		Content:      content,
		SubmittedAt:  time.Now().UTC(),
	})
}

// Grade sets the grade and comment of an existing submission, overwriting any previous grade.
func (svc *Service) Grade(assignmentID, studentID, value int, comment string) (Submission, error) {
	sub, err := svc.repo.GetSubmission(assignmentID, studentID)
	if err != nil {
		return Submission{}, err
	}
	if value < MinGrade || value > MaxGrade {
		return Submission{}, ErrInvalidGrade
	}
	sub.Grade = &value
	sub.Comment = core.CleanString(comment)
	sub.GradedAt = time.Now().UTC()
	return svc.repo.UpdateSubmission(sub)
}

// AverageGrade returns the mean of the student's graded submissions.
// ok is false when nothing has been graded yet; the returned 0 is then not an average.
func (svc *Service) AverageGrade(studentID int) (avg float64, ok bool, err error) {
	subs, err := svc.repo.QuerySubmissionsByStudent(studentID)
	if err != nil {
		return 0, false, err
	}
	graded := lo.Filter(subs, func(s Submission, _ int) bool { return s.IsGraded() })
	if len(graded) == 0 {
		return 0, false, nil
	}
	total := lo.SumBy(graded, func(s Submission) int { return *s.Grade })
	return float64(total) / float64(len(graded)), true, nil
}

func (svc *Service) StudentSubmissions(studentID int) ([]Submission, error) {
	return svc.repo.QuerySubmissionsByStudent(studentID)
}

func (svc *Service) AssignmentSubmissions(assignmentID int) ([]Submission, error) {
	if _, err := svc.repo.GetAssignmentByID(assignmentID); err != nil {
		return nil, err
	}
	return svc.repo.QuerySubmissionsByAssignment(assignmentID)
}
