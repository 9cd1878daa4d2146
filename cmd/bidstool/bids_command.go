package main

import (
	"github.com/spf13/cobra"

	"github.com/BV-RADS/BIDS-creator-tool/internal/bids"
)

func newBidsCommand(app *appContext) *cobra.Command {
	var sourceDir string
	var outputDir string
	var configFile string
	var noBids bool

	cmd := &cobra.Command{
		Use:   "bids",
		Short: "Run dcm2bids over a sorted subject/session tree",
		Long: "Executes dcm2bids once per subject and session found under the source " +
			"directory and maintains a studies.tsv record of study dates.",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logger, err := app.setup()
			if err != nil {
				return err
			}

			converted, failed, err := bids.Run(bids.Options{
				SourceDir:      sourceDir,
				OutputDir:      outputDir,
				ConfigPath:     configFile,
				SkipConversion: noBids,
			}, logger)
			if err != nil {
				return err
			}

			logger.Info("batch process completed", "converted", converted, "failed", failed)
			return nil
		},
	}

	cmd.Flags().StringVar(&sourceDir, "dicomin", "sourcedata", "DICOM input directory, one folder per subject")
	cmd.Flags().StringVar(&outputDir, "output", "BIDSDIR", "BIDS output directory")
	cmd.Flags().StringVar(&configFile, "config-file", "dcm2bids_config.json", "dcm2bids configuration file")
	cmd.Flags().BoolVar(&noBids, "nobids", false, "Record sessions without converting to BIDS")

	return cmd
}
