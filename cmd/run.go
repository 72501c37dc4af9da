package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/pipeops/ili-alignment/internal/engine"
	"github.com/pipeops/ili-alignment/internal/ingest"
	"github.com/pipeops/ili-alignment/internal/model"
	"github.com/pipeops/ili-alignment/internal/report"
)

var (
	runInputs []string
	runYears  []int
	runSheet  string
	runOutput string
	runFormat string
	runZip    string
	runZipDir string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Align and match anomalies across K in-line inspection runs",
	Long: `Reads one input file per inspection run (.xlsx or .csv, or a single
multi-sheet workbook addressed by --sheet per --input), aligns them into a
common coordinate frame, matches anomalies across runs, and writes the
result as JSON or a multi-sheet XLSX workbook.

Each --input may instead be an ftp:// URL, fetched from an anonymous FTP
drop box before parsing. --zip extracts a vendor's zipped delivery bundle
first and prepends its XLSX/CSV members to the input list, in archive
order.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		inputs := runInputs
		if runZip != "" {
			destDir := runZipDir
			if destDir == "" {
				dir, err := os.MkdirTemp("", "ili-alignment-zip-")
				if err != nil {
					return eris.Wrap(err, "run: create zip extraction dir")
				}
				destDir = dir
			}
			tables, err := ingest.ExtractRunBundle(runZip, destDir)
			if err != nil {
				return eris.Wrapf(err, "run: extract zip bundle %s", runZip)
			}
			zap.L().Info("extracted run bundle", zap.String("zip", runZip), zap.Int("tables", len(tables)))
			inputs = append(append([]string{}, tables...), inputs...)
		}

		if len(inputs) != len(runYears) {
			return eris.Errorf("run: got %d run input(s) (--input plus any --zip members) but %d --year flags", len(inputs), len(runYears))
		}

		ftpFetcher := ingest.NewFTPFetcher(ingest.FTPOptions{
			Timeout:     time.Duration(cfg.Ingest.FTPTimeoutSeconds) * time.Second,
			RateLimiter: rate.NewLimiter(rate.Limit(cfg.Ingest.FTPRateLimitPerSecond), cfg.Ingest.FTPBurst),
		})

		rawRuns := make([][]model.RawRow, len(inputs))
		for i, path := range inputs {
			localPath, err := resolveRunInput(cmd, ftpFetcher, path)
			if err != nil {
				return err
			}
			rows, err := ingest.LoadRunFile(localPath, runSheet)
			if err != nil {
				return eris.Wrapf(err, "run: load %s", path)
			}
			rawRuns[i] = rows
		}

		result, err := engine.Run(rawRuns, runYears, cfg.Engine)
		if err != nil {
			return eris.Wrap(err, "run: align")
		}

		zap.L().Info("alignment complete",
			zap.String("run_id", result.RunID),
			zap.Int("chains", len(result.Chains)),
			zap.Int("aligned_anomalies", len(result.AlignedAnomalies)),
		)

		return writeResult(result, runYears)
	},
}

// resolveRunInput turns a run's --input value into a local file path,
// downloading it first when it names an FTP drop box (some operators still
// deliver vendor runs that way instead of emailing a local file).
func resolveRunInput(cmd *cobra.Command, fetcher *ingest.FTPFetcher, path string) (string, error) {
	if !strings.HasPrefix(path, "ftp://") {
		return path, nil
	}

	tmp, err := os.CreateTemp("", "ili-alignment-ftp-*"+filepath.Ext(path))
	if err != nil {
		return "", eris.Wrap(err, "run: create ftp temp file")
	}
	tmpPath := tmp.Name()
	_ = tmp.Close()

	if _, err := fetcher.DownloadToFile(cmd.Context(), path, tmpPath); err != nil {
		return "", eris.Wrapf(err, "run: fetch %s over ftp", path)
	}

	zap.L().Info("fetched run over ftp", zap.String("url", path), zap.String("local_path", tmpPath))
	return tmpPath, nil
}

func writeResult(result model.EngineResult, years []int) error {
	if runOutput == "" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	out, err := os.Create(runOutput)
	if err != nil {
		return eris.Wrapf(err, "run: create output %s", runOutput)
	}
	defer out.Close() //nolint:errcheck

	switch runFormat {
	case "xlsx":
		runYears := make(map[int]int, len(years))
		for i, y := range years {
			runYears[i] = y
		}
		return report.WriteWorkbook(result, runYears, out)
	default:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
}

func init() {
	runCmd.Flags().StringSliceVar(&runInputs, "input", nil, "input run file path (repeatable, one per run)")
	runCmd.Flags().IntSliceVar(&runYears, "year", nil, "inspection year for the run at the same position (repeatable)")
	runCmd.Flags().StringVar(&runSheet, "sheet", "", "sheet name to read when an input is a multi-sheet XLSX workbook")
	runCmd.Flags().StringVar(&runOutput, "output", "", "output file path (default: stdout as JSON)")
	runCmd.Flags().StringVar(&runFormat, "format", "json", "output format when --output is set: json or xlsx")
	runCmd.Flags().StringVar(&runZip, "zip", "", "path to a vendor delivery .zip; its XLSX/CSV members are extracted and prepended to --input")
	runCmd.Flags().StringVar(&runZipDir, "zip-dir", "", "extraction directory for --zip (default: a temp directory)")
	_ = runCmd.MarkFlagRequired("year")
	rootCmd.AddCommand(runCmd)
}
