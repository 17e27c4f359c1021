package exportsvc

import (
	"encoding/csv"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/eduplatform/core"
	"github.com/trezcool/eduplatform/core/coursework"
	"github.com/trezcool/eduplatform/core/school"
	"github.com/trezcool/eduplatform/core/user"
	"github.com/trezcool/eduplatform/services/logger"
	"github.com/trezcool/eduplatform/tests"
)

var fixedNow = time.Date(2026, time.October, 16, 14, 30, 5, 0, time.UTC)

func newTestExporter(conf *core.Config) *Exporter {
	e := NewExporter(conf, logsvc.NewStdLogger(log.New(io.Discard, "", 0), false))
	e.now = func() time.Time { return fixedNow }
	return e
}

func sampleSnapshot(t *testing.T) school.Snapshot {
	env := testutil.Setup(t)
	svc := env.School
	teacher := testutil.Register(t, svc.Users, user.NewUser{Name: "Tom O'Brien", Email: "tom@school.test", Password: "t", Role: user.RoleTeacher, Subjects: []string{"Math", "Physics"}})
	student := testutil.Register(t, svc.Users, user.NewUser{Name: "Ada", Email: "ada@school.test", Password: "s", Role: user.RoleStudent, Level: "5B"})
	parent := testutil.Register(t, svc.Users, user.NewUser{Name: "Pam", Email: "pam@home.test", Password: "p", Role: user.RoleParent})
	_, err := svc.Users.LinkParentChild(parent.ID, student.ID)
	require.NoError(t, err)

	asgmt, err := svc.Coursework.CreateAssignment(coursework.NewAssignment{TeacherID: teacher.ID, Title: "Fractions", Subject: "Math", ClassID: "5B"})
	require.NoError(t, err)
	_, err = svc.Coursework.Submit(student.ID, asgmt.ID, "hello, world")
	require.NoError(t, err)
	_, _, err = svc.GradeAndNotify(teacher.ID, asgmt.ID, student.ID, 4, "good", false)
	require.NoError(t, err)

	_, err = svc.Schedules.CreateSchedule("5B", "Monday")
	require.NoError(t, err)
	_, err = svc.Schedules.AddLesson("5B", "Monday", "09:00", "Math", teacher.ID)
	require.NoError(t, err)

	snap, err := svc.Snapshot()
	require.NoError(t, err)
	return snap
}

func readAudit(t *testing.T, path string) []string {
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

func TestExporter_ExportAll(t *testing.T) {
	dir := t.TempDir()
	snap := sampleSnapshot(t)
	e := newTestExporter(&core.Config{ExportDir: dir, ExportLog: "export_log.txt"})

	results := e.ExportAll(snap)
	require.Len(t, results, 3)
	for _, r := range results {
		require.NoError(t, r.Err, r.Format)
		for _, p := range r.Paths {
			assert.FileExists(t, p)
		}
	}

	prefix := filepath.Join(dir, "eduplatform_export_20261016_143005")

	t.Run("xlsx", func(t *testing.T) {
		f, err := excelize.OpenFile(prefix + ".xlsx")
		require.NoError(t, err)
		defer f.Close()

		assert.Equal(t, []string{"Users", "Students", "Teachers", "Parents", "Assignments", "Schedules"}, f.GetSheetList())
		rows, err := f.GetRows("Users")
		require.NoError(t, err)
		require.Len(t, rows, 4)
		assert.Equal(t, []string{"ID", "Full Name", "Email", "Role", "Created At"}, rows[0])
		assert.Equal(t, "Tom O'Brien", rows[1][1])

		rows, err = f.GetRows("Students")
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "5B", rows[1][1])
		assert.Equal(t, "4", rows[1][2])
	})

	t.Run("csv", func(t *testing.T) {
		tests := []struct {
			suffix   string
			wantRows int
		}{
			{"users", 4},
			{"students", 2},
			{"teachers", 2},
			{"parents", 2},
			{"assignments", 2},
			{"schedules", 2},
		}
		for _, tt := range tests {
			t.Run(tt.suffix, func(t *testing.T) {
				f, err := os.Open(prefix + "_" + tt.suffix + ".csv")
				require.NoError(t, err)
				defer f.Close()
				records, err := csv.NewReader(f).ReadAll()
				require.NoError(t, err)
				assert.Len(t, records, tt.wantRows)
			})
		}

		f, err := os.Open(prefix + "_assignments.csv")
		require.NoError(t, err)
		defer f.Close()
		records, err := csv.NewReader(f).ReadAll()
		require.NoError(t, err)
		assert.Equal(t, "Fractions", records[1][1])
		assert.Equal(t, "4", records[1][8])
		assert.Equal(t, "good", records[1][9])
	})

	t.Run("sql", func(t *testing.T) {
		data, err := os.ReadFile(prefix + ".sql")
		require.NoError(t, err)
		script := string(data)
		assert.Contains(t, script, "CREATE TABLE Users (")
		assert.Contains(t, script, "'Tom O''Brien'")
		assert.Contains(t, script, "INSERT INTO Teachers (user_id, subjects) VALUES (1, 'Math, Physics');")
		assert.Contains(t, script, "INSERT INTO Parents (user_id, children) VALUES (3, '2');")
		assert.Contains(t, script, "'hello, world'")
		assert.Contains(t, script, "VALUES ('5B', 'Monday', '09:00', 'Math', 1);")
		assert.Equal(t, 3, strings.Count(script, "INSERT INTO Users"))
	})

	t.Run("audit log", func(t *testing.T) {
		lines := readAudit(t, filepath.Join(dir, "export_log.txt"))
		require.Len(t, lines, 5)
		assert.True(t, strings.HasSuffix(lines[0], "Export "+snap.ID.String()+" started"))
		assert.True(t, strings.HasSuffix(lines[1], "XLSX export succeeded"))
		assert.True(t, strings.HasSuffix(lines[2], "CSV export succeeded"))
		assert.True(t, strings.HasSuffix(lines[3], "SQL export succeeded"))
		assert.True(t, strings.HasSuffix(lines[4], "completed"))
	})

	// a second run appends to the log
	e.ExportAll(snap)
	assert.Len(t, readAudit(t, filepath.Join(dir, "export_log.txt")), 10)
}

func TestExporter_ExportAll_Failure(t *testing.T) {
	tmp := t.TempDir()
	blocked := filepath.Join(tmp, "not_a_dir")
	require.NoError(t, os.WriteFile(blocked, []byte("x"), 0o644))
	logPath := filepath.Join(tmp, "audit.txt")

	e := newTestExporter(&core.Config{ExportDir: blocked, ExportLog: logPath})
	results := e.ExportAll(school.Snapshot{})
	require.Len(t, results, 3)
	for _, r := range results {
		assert.False(t, r.OK(), r.Format)
	}

	lines := readAudit(t, logPath)
	require.Len(t, lines, 5)
	assert.Contains(t, lines[1], "XLSX export failed")
	assert.Contains(t, lines[3], "SQL export failed")
}

func TestPrefix(t *testing.T) {
	assert.Equal(t, "eduplatform_export_20261016_143005", Prefix(fixedNow))
}
