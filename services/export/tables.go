package exportsvc

import (
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cast"

	"github.com/trezcool/eduplatform/core/school"
	"github.com/trezcool/eduplatform/core/user"
)

const timeLayout = "2006-01-02 15:04:05"

// table is one tabular view of a snapshot, written as an xlsx sheet or a csv file.
type table struct {
	name   string
	header []string
	rows   [][]interface{}
}

func (t table) fileSuffix() string {
	return strings.ToLower(t.name)
}

// strings renders a row for text based formats.
func (t table) strings(row []interface{}) []string {
	return lo.Map(row, func(v interface{}, _ int) string { return cast.ToString(v) })
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

func joinInts(ids []int) string {
	return strings.Join(lo.Map(ids, func(id int, _ int) string { return cast.ToString(id) }), ",")
}

// buildTables lays out the snapshot as Users, Students, Teachers, Parents, Assignments and Schedules.
func buildTables(snap school.Snapshot) []table {
	users := table{name: "Users", header: []string{"ID", "Full Name", "Email", "Role", "Created At"}}
	for _, acc := range snap.Accounts {
		users.rows = append(users.rows, []interface{}{acc.ID, acc.Name, acc.Email, acc.Role.String(), formatTime(acc.CreatedAt)})
	}

	students := table{name: "Students", header: []string{"ID", "Level", "Average Grade"}}
	for _, acc := range snap.AccountsByRole(user.RoleStudent) {
		var avg interface{} = ""
		if acc.HasGrades {
			avg = acc.AverageGrade
		}
		students.rows = append(students.rows, []interface{}{acc.ID, acc.Level, avg})
	}

	teachers := table{name: "Teachers", header: []string{"ID", "Subjects"}}
	for _, acc := range snap.AccountsByRole(user.RoleTeacher) {
		teachers.rows = append(teachers.rows, []interface{}{acc.ID, strings.Join(acc.Subjects, ", ")})
	}

	parents := table{name: "Parents", header: []string{"ID", "Children"}}
	for _, acc := range snap.AccountsByRole(user.RoleParent) {
		parents.rows = append(parents.rows, []interface{}{acc.ID, joinInts(acc.Children)})
	}

	assignments := table{
		name:   "Assignments",
		header: []string{"ID", "Title", "Subject", "Class ID", "Teacher ID", "Deadline", "Student ID", "Submitted At", "Grade", "Comment"},
	}
	for _, a := range snap.Assignments {
		base := []interface{}{a.ID, a.Title, a.Subject, a.ClassID, a.TeacherID, formatTime(a.Deadline)}
		if len(a.Submissions) == 0 {
			assignments.rows = append(assignments.rows, append(base, "", "", "", ""))
			continue
		}
		for _, sub := range a.Submissions {
			var grade interface{} = ""
			if sub.IsGraded() {
				grade = sub.GradeValue()
			}
			row := append(append([]interface{}{}, base...), sub.StudentID, formatTime(sub.SubmittedAt), grade, sub.Comment)
			assignments.rows = append(assignments.rows, row)
		}
	}

	schedules := table{name: "Schedules", header: []string{"Class ID", "Day", "Time", "Subject", "Teacher ID"}}
	for _, s := range snap.Schedules {
		for _, l := range s.SortedLessons() {
			schedules.rows = append(schedules.rows, []interface{}{s.ClassID, s.Day, l.Time, l.Subject, l.TeacherID})
		}
	}

	return []table{users, students, teachers, parents, assignments, schedules}
}
