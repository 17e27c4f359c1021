package exportsvc

import (
	"os"
	"strings"
	"text/template"
	"time"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/trezcool/eduplatform/core/schedule"
	"github.com/trezcool/eduplatform/core/school"
	"github.com/trezcool/eduplatform/core/user"
)

var sqlTmpl = template.Must(template.New("sql").Funcs(template.FuncMap{
	"q":       sqlQuote,
	"time":    func(t time.Time) string { return sqlQuote(formatTime(t)) },
	"ints":    func(ids []int) string { return sqlQuote(joinInts(ids)) },
	"strs":    func(ss []string) string { return sqlQuote(strings.Join(ss, ", ")) },
	"byRole":  func(s school.Snapshot, role string) []school.AccountRecord { return s.AccountsByRole(user.Role(role)) },
	"lessons": lessonRows,
}).Parse(`-- {{ .ID }} taken at {{ time .TakenAt }}

CREATE TABLE Users (
    id INT PRIMARY KEY,
    full_name VARCHAR(100) NOT NULL,
    email VARCHAR(100) NOT NULL,
    role VARCHAR(20) NOT NULL,
    created_at DATETIME NOT NULL,
    password_hash VARCHAR(60) NOT NULL
);

CREATE TABLE Students (
    user_id INT PRIMARY KEY,
    level VARCHAR(20),
    FOREIGN KEY (user_id) REFERENCES Users(id)
);

CREATE TABLE Teachers (
    user_id INT PRIMARY KEY,
    subjects TEXT,
    FOREIGN KEY (user_id) REFERENCES Users(id)
);

CREATE TABLE Parents (
    user_id INT PRIMARY KEY,
    children TEXT,
    FOREIGN KEY (user_id) REFERENCES Users(id)
);

CREATE TABLE Assignments (
    id INT PRIMARY KEY,
    title VARCHAR(100) NOT NULL,
    description TEXT,
    deadline DATETIME,
    subject VARCHAR(50),
    teacher_id INT NOT NULL,
    class_id VARCHAR(20) NOT NULL
);

CREATE TABLE Submissions (
    assignment_id INT NOT NULL,
    student_id INT NOT NULL,
    content TEXT,
    submitted_at DATETIME NOT NULL,
    grade INT CHECK (grade BETWEEN 1 AND 5),
    comment TEXT,
    PRIMARY KEY (assignment_id, student_id),
    FOREIGN KEY (assignment_id) REFERENCES Assignments(id)
);

CREATE TABLE Lessons (
    class_id VARCHAR(20) NOT NULL,
    day VARCHAR(20) NOT NULL,
    time VARCHAR(20) NOT NULL,
    subject VARCHAR(50),
    teacher_id INT NOT NULL,
    PRIMARY KEY (class_id, day, time)
);

-- Users
{{ range .Accounts -}}
INSERT INTO Users (id, full_name, email, role, created_at, password_hash)
VALUES ({{ .ID }}, {{ q .Name }}, {{ q .Email }}, {{ q .Role.String }}, {{ time .CreatedAt }}, {{ q (printf "%s" .PasswordHash) }});
{{ end }}
-- Students
{{ range byRole . "student" -}}
INSERT INTO Students (user_id, level) VALUES ({{ .ID }}, {{ q .Level }});
{{ end }}
-- Teachers
{{ range byRole . "teacher" -}}
INSERT INTO Teachers (user_id, subjects) VALUES ({{ .ID }}, {{ strs .Subjects }});
{{ end }}
-- Parents
{{ range byRole . "parent" -}}
INSERT INTO Parents (user_id, children) VALUES ({{ .ID }}, {{ ints .Children }});
{{ end }}
-- Assignments
{{ range .Assignments -}}
INSERT INTO Assignments (id, title, description, deadline, subject, teacher_id, class_id)
VALUES ({{ .ID }}, {{ q .Title }}, {{ q .Description }}, {{ if .Deadline.IsZero }}NULL{{ else }}{{ time .Deadline }}{{ end }}, {{ q .Subject }}, {{ .TeacherID }}, {{ q .ClassID }});
{{ end }}
-- Submissions
{{ range .Assignments }}{{ range .Submissions -}}
INSERT INTO Submissions (assignment_id, student_id, content, submitted_at, grade, comment)
VALUES ({{ .AssignmentID }}, {{ .StudentID }}, {{ q .Content }}, {{ time .SubmittedAt }}, {{ if .IsGraded }}{{ .GradeValue }}{{ else }}NULL{{ end }}, {{ q .Comment }});
{{ end }}{{ end }}
-- Lessons
{{ range lessons .Schedules -}}
INSERT INTO Lessons (class_id, day, time, subject, teacher_id)
VALUES ({{ q .ClassID }}, {{ q .Day }}, {{ q .Time }}, {{ q .Subject }}, {{ .TeacherID }});
{{ end }}`))

// sqlQuote returns s as a single quoted SQL string literal.
func sqlQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

type lessonRow struct {
	ClassID   string
	Day       string
	Time      string
	Subject   string
	TeacherID int
}

func lessonRows(schedules []schedule.Schedule) []lessonRow {
	return lo.FlatMap(schedules, func(s schedule.Schedule, _ int) []lessonRow {
		return lo.Map(s.SortedLessons(), func(l schedule.Lesson, _ int) lessonRow {
			return lessonRow{ClassID: s.ClassID, Day: s.Day, Time: l.Time, Subject: l.Subject, TeacherID: l.TeacherID}
		})
	})
}

// writeSQL writes the schema followed by one INSERT per record.
func writeSQL(path string, snap school.Snapshot) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	defer func() {
		if cErr := f.Close(); err == nil && cErr != nil {
			err = errors.Wrapf(cErr, "closing %s", path)
		}
	}()

	if err := sqlTmpl.Execute(f, snap); err != nil {
		return errors.Wrapf(err, "rendering %s", path)
	}
	return nil
}
