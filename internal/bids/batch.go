// Package bids batches dcm2bids over a sorted subject/session tree and
// records study dates in a studies.tsv index.
package bids

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
)

const (
	dcm2bidsBinary = "dcm2bids"
	scaffoldBinary = "dcm2bids_scaffold"

	studiesFileName = "studies.tsv"
	studiesHeader   = "subject\tsession\tdate\n"
)

// Options configures a batch conversion.
type Options struct {
	// SourceDir holds one directory per subject, each containing one
	// directory per session named after the study date.
	SourceDir string
	// OutputDir is the BIDS output root, scaffolded on first use.
	OutputDir string
	// ConfigPath is the dcm2bids configuration file.
	ConfigPath string
	// SkipConversion records sessions in studies.tsv without invoking
	// dcm2bids.
	SkipConversion bool
}

// Run converts every subject/session under SourceDir. Per-session
// conversion failures are logged and counted, never fatal; setup
// problems (missing source tree, missing binaries) abort before any
// session is touched.
func Run(opts Options, logger *slog.Logger) (converted, failed int, err error) {
	info, err := os.Stat(opts.SourceDir)
	if err != nil {
		return 0, 0, fmt.Errorf("source directory does not exist: %s", opts.SourceDir)
	}
	if !info.IsDir() {
		return 0, 0, fmt.Errorf("source path is not a directory: %s", opts.SourceDir)
	}

	if !opts.SkipConversion {
		if _, err := exec.LookPath(dcm2bidsBinary); err != nil {
			return 0, 0, fmt.Errorf("dcm2bids not installed")
		}
	}

	if err := scaffoldOutput(opts.OutputDir, logger); err != nil {
		return 0, 0, err
	}

	studies, err := openStudiesFile(opts.OutputDir)
	if err != nil {
		return 0, 0, err
	}
	defer studies.Close()

	subjects, err := subdirectories(opts.SourceDir)
	if err != nil {
		return 0, 0, err
	}

	for _, subject := range subjects {
		sessions, err := subdirectories(filepath.Join(opts.SourceDir, subject))
		if err != nil {
			logger.Warn("could not list subject sessions", "subject", subject, "error", err)
			continue
		}

		for i, date := range sessions {
			sessionLabel := fmt.Sprintf("ses-%02d", i+1)

			if !opts.SkipConversion {
				if err := convertSession(opts, subject, date, sessionLabel, logger); err != nil {
					logger.Warn("dcm2bids failed", "subject", subject, "session", sessionLabel, "error", err)
					failed++
					continue
				}
				converted++
			}

			row := fmt.Sprintf("%s\t%s\t%s\n", subject, sessionLabel, date)
			if _, err := studies.WriteString(row); err != nil {
				return converted, failed, fmt.Errorf("could not update %s: %w", studiesFileName, err)
			}
		}
	}

	return converted, failed, nil
}

func scaffoldOutput(outputDir string, logger *slog.Logger) error {
	if _, err := os.Stat(outputDir); err == nil {
		return nil
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("could not create BIDS directory: %w", err)
	}

	scaffold, err := exec.LookPath(scaffoldBinary)
	if err != nil {
		logger.Warn("dcm2bids_scaffold not installed, skipping scaffold")
		return nil
	}

	cmd := exec.Command(scaffold, "-o", outputDir)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s failed: %s", scaffoldBinary, string(output))
	}
	return nil
}

func openStudiesFile(outputDir string) (*os.File, error) {
	path := filepath.Join(outputDir, studiesFileName)

	_, statErr := os.Stat(path)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("could not open %s: %w", studiesFileName, err)
	}

	if statErr != nil {
		if _, err := file.WriteString(studiesHeader); err != nil {
			file.Close()
			return nil, fmt.Errorf("could not write %s header: %w", studiesFileName, err)
		}
	}
	return file, nil
}

func convertSession(opts Options, subject, date, sessionLabel string, logger *slog.Logger) error {
	sessionPath := filepath.Join(opts.SourceDir, subject, date)

	cmd := exec.Command(dcm2bidsBinary,
		"-d", sessionPath,
		"-p", subject,
		"-s", sessionLabel,
		"-c", opts.ConfigPath,
		"-o", opts.OutputDir,
	)
	logger.Info("executing dcm2bids", "command", strings.Join(cmd.Args, " "))

	output, err := cmd.CombinedOutput()
	if len(output) > 0 {
		logger.Debug("dcm2bids output", "subject", subject, "session", sessionLabel, "output", string(output))
	}
	if err != nil {
		return fmt.Errorf("%w: %s", err, string(output))
	}
	return nil
}

func subdirectories(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
