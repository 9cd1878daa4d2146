package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/BV-RADS/BIDS-creator-tool/internal/sink"
	"github.com/BV-RADS/BIDS-creator-tool/internal/sorter"
)

func newSortCommand(app *appContext) *cobra.Command {
	var flags sharedFlags
	var pattern string
	var decompress bool

	cmd := &cobra.Command{
		Use:   "sort",
		Short: "Sort DICOM files into a patient/date/series tree",
		Long: "Copies, optionally anonymizes, and optionally decompresses DICOM files " +
			"into a structured directory. PatientIDs can be replaced through a " +
			"correlation file.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := app.setup()
			if err != nil {
				return err
			}

			anonOpts, unresolved, err := buildAnonymizeOptions(flags, logger)
			if err != nil {
				return err
			}

			if pattern == "" {
				pattern = cfg.Sorting.Pattern
			}
			workers := flags.workers
			if workers == 0 {
				workers = cfg.Sorting.Workers
			}

			s := &sorter.Sorter{
				Logger:     logger,
				DestRoot:   flags.output,
				Pattern:    pattern,
				Anonymize:  anonOpts,
				Decompress: decompress,
				Naming:     sorter.NameFromSource,
				Policy:     sink.Uniquify,
				Workers:    workers,
				Progress:   os.Stderr,
			}

			return runSorter(cmd.Context(), s, flags, unresolved)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&pattern, "pattern", "", "Destination path template (default from config)")
	cmd.Flags().BoolVar(&decompress, "decompress", false, "Decompress DICOM files during processing")

	return cmd
}
