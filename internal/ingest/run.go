package ingest

import (
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/pipeops/ili-alignment/internal/model"
)

// LoadRunFile reads one inspection run's rows from a local .xlsx or .csv
// file and resolves its columns into the canonical RawRow shape. The sheet
// name, when the file is an XLSX workbook with more than one sheet, lets a
// single multi-year workbook (like ILIDataV2.xlsx in a vendor deliverable)
// be loaded one run at a time.
func LoadRunFile(path string, sheetName string) ([]model.RawRow, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx":
		rows, err := ReadXLSXRun(path, XLSXOptions{SheetName: sheetName})
		if err != nil {
			return nil, eris.Wrapf(err, "ingest: load run %q", path)
		}
		return rows, nil
	case ".csv":
		rows, err := ReadCSVRun(path)
		if err != nil {
			return nil, eris.Wrapf(err, "ingest: load run %q", path)
		}
		return rows, nil
	default:
		return nil, eris.Errorf("ingest: unsupported run file extension %q", ext)
	}
}
