package inmemdb

import (
	"sort"

	"github.com/samber/lo"

	"github.com/trezcool/eduplatform/core/coursework"
)

type courseworkRepository struct {
	db *courseworkTable
}

func NewCourseworkRepository(db *DB) coursework.Repository {
	return &courseworkRepository{db: db.coursework}
}

func (repo *courseworkRepository) CreateAssignment(a coursework.Assignment) (coursework.Assignment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.pkCount++
	a.ID = repo.db.pkCount
	stored := a
	repo.db.assignments[a.ID] = &stored
	return a, nil
}

func (repo *courseworkRepository) GetAssignmentByID(id int) (coursework.Assignment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if a, ok := repo.db.assignments[id]; ok {
		return *a, nil
	}
	return coursework.Assignment{}, coursework.ErrAssignmentNotFound
}

func (repo *courseworkRepository) QueryAssignments(filter coursework.QueryFilter) ([]coursework.Assignment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	res := make([]coursework.Assignment, 0, len(repo.db.assignments))
	for _, a := range repo.db.assignments {
		if filter.Match(*a) {
			res = append(res, *a)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

func (repo *courseworkRepository) CreateSubmission(s coursework.Submission) (coursework.Submission, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.assignments[s.AssignmentID]; !ok {
		return coursework.Submission{}, coursework.ErrAssignmentNotFound
	}
	key := submissionKey{assignmentID: s.AssignmentID, studentID: s.StudentID}
	if _, ok := repo.db.submissions[key]; ok {
		return coursework.Submission{}, coursework.ErrAlreadySubmitted
	}
	stored := s.Clone()
	repo.db.submissions[key] = &stored
	repo.db.byStudent[s.StudentID] = append(repo.db.byStudent[s.StudentID], s.AssignmentID)
	repo.db.byAssignment[s.AssignmentID] = append(repo.db.byAssignment[s.AssignmentID], s.StudentID)
	return s, nil
}

func (repo *courseworkRepository) GetSubmission(assignmentID, studentID int) (coursework.Submission, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if s, ok := repo.db.submissions[submissionKey{assignmentID: assignmentID, studentID: studentID}]; ok {
		return s.Clone(), nil
	}
	return coursework.Submission{}, coursework.ErrNoSuchSubmission
}

func (repo *courseworkRepository) UpdateSubmission(s coursework.Submission) (coursework.Submission, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	// only grading fields are mutable
	orig, ok := repo.db.submissions[submissionKey{assignmentID: s.AssignmentID, studentID: s.StudentID}]
	if !ok {
		return coursework.Submission{}, coursework.ErrNoSuchSubmission
	}
	graded := s.Clone()
	orig.Grade = graded.Grade
	orig.Comment = graded.Comment
	orig.GradedAt = graded.GradedAt
	return orig.Clone(), nil
}

func (repo *courseworkRepository) QuerySubmissionsByStudent(studentID int) ([]coursework.Submission, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	ids := append([]int(nil), repo.db.byStudent[studentID]...)
	sort.Ints(ids)
	return lo.Map(ids, func(aid int, _ int) coursework.Submission {
		return repo.db.submissions[submissionKey{assignmentID: aid, studentID: studentID}].Clone()
	}), nil
}

func (repo *courseworkRepository) QuerySubmissionsByAssignment(assignmentID int) ([]coursework.Submission, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	return lo.Map(repo.db.byAssignment[assignmentID], func(sid int, _ int) coursework.Submission {
		return repo.db.submissions[submissionKey{assignmentID: assignmentID, studentID: sid}].Clone()
	}), nil
}
