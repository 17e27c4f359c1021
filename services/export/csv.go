package exportsvc

import (
	"encoding/csv"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// writeCSV writes one <prefix>_<table>.csv file per table and returns the written paths.
func writeCSV(dir, prefix string, tables []table) ([]string, error) {
	paths := make([]string, 0, len(tables))
	for _, t := range tables {
		path := filepath.Join(dir, prefix+"_"+t.fileSuffix()+".csv")
		if err := writeCSVFile(path, t); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeCSVFile(path string, t table) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	defer func() {
		if cErr := f.Close(); err == nil && cErr != nil {
			err = errors.Wrapf(cErr, "closing %s", path)
		}
	}()

	w := csv.NewWriter(f)
	if err := w.Write(t.header); err != nil {
		return errors.Wrapf(err, "writing %s header", path)
	}
	for _, row := range t.rows {
		if err := w.Write(t.strings(row)); err != nil {
			return errors.Wrapf(err, "writing %s", path)
		}
	}
	w.Flush()
	return errors.Wrapf(w.Error(), "flushing %s", path)
}
