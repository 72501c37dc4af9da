package ingest

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// tabularExtensions is the set of file extensions ExtractRunBundle treats as
// run tables. A vendor's zipped delivery routinely bundles the K runs'
// spreadsheets alongside a PDF report and cover sheet; those extras are
// never written to destDir at all.
var tabularExtensions = map[string]bool{".xlsx": true, ".csv": true}

// ExtractRunBundle extracts a vendor's zipped delivery to destDir, writing
// only its XLSX/CSV run tables and skipping report PDFs, cover sheets, and
// any other member. Returns the extracted table paths in archive order.
func ExtractRunBundle(zipPath, destDir string) ([]string, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, eris.Wrap(err, "zip: open archive")
	}
	defer r.Close() //nolint:errcheck

	var tables []string
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if !tabularExtensions[strings.ToLower(filepath.Ext(f.Name))] {
			continue
		}
		path, err := extractZIPEntry(f, destDir)
		if err != nil {
			return tables, err
		}
		tables = append(tables, path)
	}

	return tables, nil
}

// extractZIPEntry extracts a single zip.File to the destination directory.
func extractZIPEntry(f *zip.File, destDir string) (string, error) {
	// Sanitize against zip slip
	destPath := filepath.Join(destDir, f.Name)
	if !strings.HasPrefix(filepath.Clean(destPath), filepath.Clean(destDir)+string(os.PathSeparator)) {
		return "", eris.Errorf("zip: illegal path %q (zip slip attempt)", f.Name)
	}

	// Ensure parent directory exists
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return "", eris.Wrap(err, "zip: create parent directory")
	}

	rc, err := f.Open()
	if err != nil {
		return "", eris.Wrap(err, "zip: open entry")
	}
	defer rc.Close() //nolint:errcheck

	out, err := os.Create(destPath)
	if err != nil {
		return "", eris.Wrap(err, "zip: create file")
	}
	defer out.Close() //nolint:errcheck

	if _, err := io.Copy(out, rc); err != nil {
		return "", eris.Wrap(err, "zip: write file")
	}

	return destPath, nil
}
