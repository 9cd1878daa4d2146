package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/BV-RADS/BIDS-creator-tool/internal/seriesfilter"
	"github.com/BV-RADS/BIDS-creator-tool/internal/sink"
	"github.com/BV-RADS/BIDS-creator-tool/internal/sorter"
)

func newFilterCommand(app *appContext) *cobra.Command {
	var flags sharedFlags
	var move bool
	var force bool
	var digit string
	var contains []string

	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Sort only the series matching the acquisition filter",
		Long: "Copies or moves DICOM files whose series metadata matches the " +
			"acceptance filter into a patient/series tree, naming each file " +
			"after its SOPInstanceUID. Existing destinations are skipped " +
			"unless --force is given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := app.setup()
			if err != nil {
				return err
			}

			anonOpts, unresolved, err := buildAnonymizeOptions(flags, logger)
			if err != nil {
				return err
			}

			predicate := seriesfilter.Predicate{
				Digit:      cfg.Filter.Digit,
				Substrings: cfg.Filter.Substrings,
			}
			if digit != "" {
				predicate.Digit = digit
			}
			if len(contains) > 0 {
				predicate.Substrings = contains
			}

			workers := flags.workers
			if workers == 0 {
				workers = 1 // preserves a stable skip/copy log order
			}

			s := &sorter.Sorter{
				Logger:    logger,
				DestRoot:  flags.output,
				Pattern:   "%PatientID%/%SeriesDescription%",
				Anonymize: anonOpts,
				Filter:    &predicate,
				Naming:    sorter.NameFromInstanceUID,
				Policy:    sink.Guarded,
				Force:     force,
				Move:      move,
				Workers:   workers,
				Progress:  os.Stderr,
			}

			return runSorter(cmd.Context(), s, flags, unresolved)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&move, "move", false, "Move files instead of copying them")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing destination files")
	cmd.Flags().StringVar(&digit, "digit", "", "Required final digit of the series number (default from config)")
	cmd.Flags().StringSliceVar(&contains, "contains", nil, "Series description substrings to accept (default from config)")

	return cmd
}
