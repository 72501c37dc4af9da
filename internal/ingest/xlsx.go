package ingest

import (
	"context"
	"regexp"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/pipeops/ili-alignment/internal/model"
)

// XLSXOptions configures the XLSX parser.
type XLSXOptions struct {
	SheetIndex int             // default 0
	SheetName  string          // if set, overrides SheetIndex
	SkipRows   int             // number of header rows to skip
	HeaderCh   chan<- []string // optional: receives the first row
}

// ReadXLSXRun reads one inspection run's sheet from a vendor XLSX workbook
// and resolves its columns into the canonical RawRow shape in one step, the
// way a vendor's `ILIDataV2.xlsx`-style multi-year delivery (one sheet per
// inspection year) is actually consumed: callers never need the raw string
// rows themselves, only the resolved run.
func ReadXLSXRun(path string, opts XLSXOptions) ([]model.RawRow, error) {
	rows, err := readXLSXRows(path, opts)
	if err != nil {
		return nil, err
	}
	return ResolveRows(rows), nil
}

// sheetYearPattern extracts a 4-digit inspection year embedded in a sheet
// name, matching the "2019", "ILI-2019", "Run 2019 Data" naming conventions
// original_source/'s per-year-sheet workbooks use.
var sheetYearPattern = regexp.MustCompile(`(19|20)\d{2}`)

// SheetYears maps each sheet name in an XLSX workbook to the inspection
// year embedded in its name, for callers that need to auto-discover which
// sheet corresponds to which --year without being told explicitly.
// Sheets whose name carries no recognizable year are omitted.
func SheetYears(path string) (map[string]int, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: open file")
	}

	years := make(map[string]int)
	for _, sheet := range f.Sheets {
		match := sheetYearPattern.FindString(sheet.Name)
		if match == "" {
			continue
		}
		year, err := strconv.Atoi(match)
		if err != nil {
			continue
		}
		years[sheet.Name] = year
	}
	return years, nil
}

// readXLSXRows reads a single sheet of an XLSX file and returns all rows as
// string slices.
func readXLSXRows(path string, opts XLSXOptions) ([][]string, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: open file")
	}

	sheet, err := getSheet(f, opts)
	if err != nil {
		return nil, err
	}

	var rows [][]string
	for i, row := range sheet.Rows {
		cells := rowToStrings(row)

		if i == 0 && opts.HeaderCh != nil {
			opts.HeaderCh <- cells
		}

		if i < opts.SkipRows {
			continue
		}

		rows = append(rows, cells)
	}

	return rows, nil
}

// StreamXLSXRun reads one run's sheet and sends resolved RawRow values to a
// channel, for a vendor delivery too large to hold entirely in memory
// before resolution. Both channels are closed when processing completes.
func StreamXLSXRun(ctx context.Context, path string, opts XLSXOptions) (<-chan model.RawRow, <-chan error) {
	rowCh := make(chan model.RawRow, 64)
	errCh := make(chan error, 1)

	go func() {
		defer close(rowCh)
		defer close(errCh)

		f, err := xlsx.OpenFile(path)
		if err != nil {
			errCh <- eris.Wrap(err, "xlsx: open file")
			return
		}

		sheet, err := getSheet(f, opts)
		if err != nil {
			errCh <- err
			return
		}

		var header []string
		var resolved map[int]string

		for i, row := range sheet.Rows {
			if ctx.Err() != nil {
				errCh <- eris.Wrap(ctx.Err(), "xlsx: context cancelled")
				return
			}

			cells := rowToStrings(row)

			if i == 0 {
				header = cells
				resolved = ResolveHeaders(header)
				if opts.HeaderCh != nil {
					select {
					case opts.HeaderCh <- cells:
					case <-ctx.Done():
						errCh <- eris.Wrap(ctx.Err(), "xlsx: context cancelled sending header")
						return
					}
				}
			}

			if i < opts.SkipRows || i == 0 {
				continue
			}

			select {
			case rowCh <- resolveRow(header, resolved, cells):
			case <-ctx.Done():
				errCh <- eris.Wrap(ctx.Err(), "xlsx: context cancelled")
				return
			}
		}
	}()

	return rowCh, errCh
}

func getSheet(f *xlsx.File, opts XLSXOptions) (*xlsx.Sheet, error) {
	if opts.SheetName != "" {
		sheet, ok := f.Sheet[opts.SheetName]
		if !ok {
			return nil, eris.Errorf("xlsx: sheet %q not found", opts.SheetName)
		}
		return sheet, nil
	}

	if opts.SheetIndex >= len(f.Sheets) {
		return nil, eris.Errorf("xlsx: sheet index %d out of range (file has %d sheets)", opts.SheetIndex, len(f.Sheets))
	}

	return f.Sheets[opts.SheetIndex], nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}
