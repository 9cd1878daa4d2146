package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/BV-RADS/BIDS-creator-tool/internal/archive"
	"github.com/BV-RADS/BIDS-creator-tool/internal/counter"
	"github.com/BV-RADS/BIDS-creator-tool/internal/sink"
	"github.com/BV-RADS/BIDS-creator-tool/internal/sorter"
)

// archivePattern is the fixed media-archive layout: sequential date and
// series tokens keep paths short enough for DICOMDIR.
const archivePattern = "%PatientID%/dicom/%DateID%/%SeriesID%"

func newArchiveCommand(app *appContext) *cobra.Command {
	var flags sharedFlags
	var noDicomdir bool

	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Build a DICOMDIR-ready patient archive",
		Long: "Organizes DICOM files into a compact PatientID/dicom/DATnnnn/SEQnnnn " +
			"layout with sequential image names, optionally anonymizing them, then " +
			"creates a DICOMDIR index for each patient with dcmmkdir.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := app.setup()
			if err != nil {
				return err
			}

			if !noDicomdir {
				if err := archive.CheckTools(); err != nil {
					return err
				}
			}

			anonOpts, unresolved, err := buildAnonymizeOptions(flags, logger)
			if err != nil {
				return err
			}

			registry := counter.NewRegistry(counter.Format{
				DatePrefix:   cfg.Counters.DatePrefix,
				DateWidth:    cfg.Counters.DateWidth,
				SeriesPrefix: cfg.Counters.SeriesPrefix,
				SeriesWidth:  cfg.Counters.SeriesWidth,
				ImagePrefix:  cfg.Counters.ImagePrefix,
				ImageWidth:   cfg.Counters.ImageWidth,
			})

			s := &sorter.Sorter{
				Logger:    logger,
				DestRoot:  flags.output,
				Pattern:   archivePattern,
				Anonymize: anonOpts,
				Counters:  registry,
				Naming:    sorter.NameFromImageCounter,
				Policy:    sink.Uniquify,
				Workers:   flags.workers,
				Progress:  os.Stderr,
			}

			if err := runSorter(cmd.Context(), s, flags, unresolved); err != nil {
				return err
			}

			if !noDicomdir {
				built, failed := archive.BuildAll(flags.output, logger)
				logger.Info("DICOMDIR creation finished", "built", built, "failed", failed)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&noDicomdir, "no-dicomdir", false, "Skip DICOMDIR creation")

	return cmd
}
