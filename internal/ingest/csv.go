// Package ingest reads raw inspection run tables from the formats vendors
// actually deliver them in — FTP-hosted or zipped bundles of XLSX/CSV sheets —
// and resolves their columns into the canonical row shape the alignment
// engine expects.
package ingest

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/pipeops/ili-alignment/internal/model"
)

// CSVOptions configures the streaming CSV parser.
type CSVOptions struct {
	Delimiter  rune            // default ','
	HasHeader  bool            // if true, first row is skipped but sent to HeaderCh
	HeaderCh   chan<- []string // optional: receives the header row
	Comment    rune            // comment character (0 = none)
	LazyQuotes bool
	TrimSpace  bool
}

// ReadCSVRun reads one inspection run's rows from a local CSV file and
// resolves its columns into the canonical RawRow shape in one step, mirroring
// ReadXLSXRun's contract for the other format a vendor might deliver a run
// in.
func ReadCSVRun(path string) ([]model.RawRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "csv: open file")
	}
	defer f.Close() //nolint:errcheck

	rowCh, errCh := StreamCSV(context.Background(), f, CSVOptions{TrimSpace: true})

	var rows [][]string
	for row := range rowCh {
		rows = append(rows, row)
	}
	if err := <-errCh; err != nil {
		return nil, err
	}
	return ResolveRows(rows), nil
}

// StreamCSVRun reads a CSV file and sends resolved RawRow values to a
// channel, for a vendor delivery too large to hold entirely in memory
// before resolution. Both channels are closed when processing completes.
func StreamCSVRun(ctx context.Context, r io.Reader) (<-chan model.RawRow, <-chan error) {
	headerCh := make(chan []string, 1)
	rawCh, rawErrCh := StreamCSV(ctx, r, CSVOptions{TrimSpace: true, HasHeader: true, HeaderCh: headerCh})

	rowCh := make(chan model.RawRow, 64)
	errCh := make(chan error, 1)

	go func() {
		defer close(rowCh)
		defer close(errCh)

		var header []string
		var resolved map[int]string
		select {
		case header = <-headerCh:
			resolved = ResolveHeaders(header)
		case err := <-rawErrCh:
			if err != nil {
				errCh <- err
			}
			return
		}

		for row := range rawCh {
			select {
			case rowCh <- resolveRow(header, resolved, row):
			case <-ctx.Done():
				errCh <- eris.Wrap(ctx.Err(), "csv: context cancelled")
				return
			}
		}
		if err := <-rawErrCh; err != nil {
			errCh <- err
		}
	}()

	return rowCh, errCh
}

// StreamCSV reads a CSV file and sends rows to a channel.
// Caller must consume the returned row channel. Errors are sent on the error channel.
// Both channels are closed when processing completes.
func StreamCSV(ctx context.Context, r io.Reader, opts CSVOptions) (<-chan []string, <-chan error) {
	rowCh := make(chan []string, 64)
	errCh := make(chan error, 1)

	go func() {
		defer close(rowCh)
		defer close(errCh)

		var reader *csv.Reader
		if opts.TrimSpace {
			reader = csv.NewReader(&trimReader{r: r})
		} else {
			reader = csv.NewReader(r)
		}

		if opts.Delimiter != 0 {
			reader.Comma = opts.Delimiter
		}
		if opts.Comment != 0 {
			reader.Comment = opts.Comment
		}
		reader.LazyQuotes = opts.LazyQuotes
		reader.FieldsPerRecord = -1 // allow variable fields

		first := true
		for {
			if ctx.Err() != nil {
				errCh <- eris.Wrap(ctx.Err(), "csv: context cancelled")
				return
			}

			record, err := reader.Read()
			if err == io.EOF {
				return
			}
			if err != nil {
				errCh <- eris.Wrap(err, "csv: read row")
				return
			}

			if opts.TrimSpace {
				for i, field := range record {
					record[i] = strings.TrimSpace(field)
				}
			}

			if first && opts.HasHeader {
				first = false
				if opts.HeaderCh != nil {
					select {
					case opts.HeaderCh <- record:
					case <-ctx.Done():
						errCh <- eris.Wrap(ctx.Err(), "csv: context cancelled sending header")
						return
					}
				}
				continue
			}
			first = false

			select {
			case rowCh <- record:
			case <-ctx.Done():
				errCh <- eris.Wrap(ctx.Err(), "csv: context cancelled")
				return
			}
		}
	}()

	return rowCh, errCh
}

// trimReader wraps an io.Reader and is used to enable TrimSpace at the reader level.
// Actual field trimming happens after csv parsing in StreamCSV.
type trimReader struct {
	r io.Reader
}

func (t *trimReader) Read(p []byte) (int, error) {
	return t.r.Read(p)
}
