package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/BV-RADS/BIDS-creator-tool/internal/anonymize"
	"github.com/BV-RADS/BIDS-creator-tool/internal/correlation"
	"github.com/BV-RADS/BIDS-creator-tool/internal/dispatch"
	"github.com/BV-RADS/BIDS-creator-tool/internal/runlock"
	"github.com/BV-RADS/BIDS-creator-tool/internal/sorter"
)

const unresolvedLogName = "missing_patient_ids.log"

// sharedFlags are the options common to the sort, filter and archive
// commands.
type sharedFlags struct {
	input       string
	output      string
	anonymize   bool
	correlation string
	workers     int
}

func (f *sharedFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.input, "dicomin", "", "Input directory containing unsorted DICOM files")
	cmd.Flags().StringVar(&f.output, "dicomout", "", "Output directory for the sorted tree")
	cmd.Flags().BoolVar(&f.anonymize, "anonymize", false, "Clear PatientName and PatientBirthDate")
	cmd.Flags().StringVar(&f.correlation, "id-correlation", "", "Correlation file mapping old PatientIDs to new ones")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "Worker pool size (0 = half the CPU cores)")
	_ = cmd.MarkFlagRequired("dicomin")
	_ = cmd.MarkFlagRequired("dicomout")
}

// buildAnonymizeOptions loads the optional correlation table. An
// unreadable table is a setup failure that aborts the run.
func buildAnonymizeOptions(flags sharedFlags, logger *slog.Logger) (anonymize.Options, *correlation.UnresolvedSet, error) {
	opts := anonymize.Options{Clear: flags.anonymize}

	if flags.correlation == "" {
		return opts, nil, nil
	}

	table, err := correlation.Load(flags.correlation, logger)
	if err != nil {
		return opts, nil, err
	}
	logger.Info("loaded correlation table", "mappings", table.Len(), "path", flags.correlation)

	unresolved := correlation.NewUnresolvedSet()
	opts.Table = table
	opts.Unresolved = unresolved
	return opts, unresolved, nil
}

// runSorter executes a configured sorter over the input tree, holding
// the output-root lock for the duration, and reports the tally.
func runSorter(ctx context.Context, s *sorter.Sorter, flags sharedFlags, unresolved *correlation.UnresolvedSet) error {
	release, err := runlock.Acquire(flags.output)
	if err != nil {
		return err
	}
	defer release()

	tally, err := s.Run(ctx, flags.input)
	if err != nil {
		return err
	}

	if unresolved != nil && unresolved.Len() > 0 {
		logPath := filepath.Join(flags.output, unresolvedLogName)
		if err := unresolved.WriteLog(logPath); err != nil {
			s.Logger.Warn("could not write unresolved ID log", "error", err)
		} else {
			s.Logger.Info("unresolved patient IDs logged", "count", unresolved.Len(), "path", logPath)
		}
	}

	printSummary(tally)
	return nil
}

func printSummary(tally dispatch.Tally) {
	fmt.Fprintln(os.Stdout, renderSummary(tally))
}
