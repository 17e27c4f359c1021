// Package exportsvc writes school snapshots to disk as an xlsx workbook, a set of csv files and a sql script.
package exportsvc

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/eduplatform/core"
	"github.com/trezcool/eduplatform/core/school"
)

const (
	FormatXLSX = "XLSX"
	FormatCSV  = "CSV"
	FormatSQL  = "SQL"

	prefixLayout = "20060102_150405"
)

// Result is the outcome of one artifact of an export run.
type Result struct {
	Format string
	Paths  []string
	Err    error
}

func (r Result) OK() bool { return r.Err == nil }

type Exporter struct {
	dir     string
	logPath string
	log     core.Logger
	now     func() time.Time
}

func NewExporter(conf *core.Config, log core.Logger) *Exporter {
	logPath := conf.ExportLog
	if logPath != "" && !filepath.IsAbs(logPath) {
		logPath = filepath.Join(conf.ExportDir, logPath)
	}
	return &Exporter{
		dir:     conf.ExportDir,
		logPath: logPath,
		log:     log,
		now:     time.Now,
	}
}

// Prefix is the common file name prefix of the artifacts of a run started at t.
func Prefix(t time.Time) string {
	return "eduplatform_export_" + t.Format(prefixLayout)
}

// ExportAll writes every artifact of snap. Each artifact succeeds or fails on its own,
// and its outcome is appended to the export log.
func (e *Exporter) ExportAll(snap school.Snapshot) []Result {
	prefix := Prefix(e.now())
	audit := e.openAudit()
	defer audit.Close()

	audit.line("Export %s started", snap.ID)
	e.log.Info("export started", map[string]interface{}{"snapshot": snap.ID.String(), "prefix": prefix})

	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		err = errors.Wrapf(err, "creating export dir %s", e.dir)
		results := []Result{{Format: FormatXLSX, Err: err}, {Format: FormatCSV, Err: err}, {Format: FormatSQL, Err: err}}
		e.report(audit, results)
		audit.line("Export %s completed", snap.ID)
		return results
	}

	tables := buildTables(snap)
	results := make([]Result, 0, 3)

	xlsxPath := filepath.Join(e.dir, prefix+".xlsx")
	results = append(results, Result{Format: FormatXLSX, Paths: []string{xlsxPath}, Err: writeXLSX(xlsxPath, tables)})

	csvPaths, err := writeCSV(e.dir, prefix, tables)
	results = append(results, Result{Format: FormatCSV, Paths: csvPaths, Err: err})

	sqlPath := filepath.Join(e.dir, prefix+".sql")
	results = append(results, Result{Format: FormatSQL, Paths: []string{sqlPath}, Err: writeSQL(sqlPath, snap)})

	e.report(audit, results)
	audit.line("Export %s completed", snap.ID)
	return results
}

func (e *Exporter) report(audit *auditLog, results []Result) {
	for _, r := range results {
		if r.OK() {
			audit.line("%s export succeeded", r.Format)
			e.log.Info(r.Format+" export succeeded", map[string]interface{}{"paths": r.Paths})
			continue
		}
		audit.line("%s export failed: %v", r.Format, r.Err)
		e.log.Error(r.Format+" export failed", r.Err)
	}
}

// auditLog appends timestamped lines to the export log. It turns into a no-op if the log cannot be opened.
type auditLog struct {
	w   io.WriteCloser
	now func() time.Time
}

func (e *Exporter) openAudit() *auditLog {
	a := &auditLog{now: e.now}
	if e.logPath == "" {
		return a
	}
	if err := os.MkdirAll(filepath.Dir(e.logPath), 0o755); err != nil {
		e.log.Warn("export log unavailable", errors.Wrap(err, "creating export log dir"))
		return a
	}
	f, err := os.OpenFile(e.logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		e.log.Warn("export log unavailable", errors.Wrapf(err, "opening %s", e.logPath))
		return a
	}
	a.w = f
	return a
}

func (a *auditLog) line(format string, args ...interface{}) {
	if a.w == nil {
		return
	}
	fmt.Fprintf(a.w, "%s: %s\n", a.now().Format("2006-01-02 15:04:05"), fmt.Sprintf(format, args...))
}

func (a *auditLog) Close() {
	if a.w != nil {
		a.w.Close()
	}
}
