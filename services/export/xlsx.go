package exportsvc

import (
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/xuri/excelize/v2"
)

// writeXLSX saves every table as a sheet of one workbook.
func writeXLSX(path string, tables []table) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cErr := f.Close(); err == nil && cErr != nil {
			err = errors.Wrap(cErr, "closing workbook")
		}
	}()

	for i, t := range tables {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), t.name); err != nil {
				return errors.Wrapf(err, "naming sheet %s", t.name)
			}
		} else if _, err := f.NewSheet(t.name); err != nil {
			return errors.Wrapf(err, "creating sheet %s", t.name)
		}

		if err := setRow(f, t.name, 1, lo.ToAnySlice(t.header)); err != nil {
			return err
		}
		for r, row := range t.rows {
			if err := setRow(f, t.name, r+2, row); err != nil {
				return err
			}
		}
	}
	f.SetActiveSheet(0)

	if err := f.SaveAs(path); err != nil {
		return errors.Wrapf(err, "saving %s", path)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return errors.Wrapf(err, "addressing row %d", row)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return errors.Wrapf(err, "writing %s!%s", sheet, cell)
	}
	return nil
}
