package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/BV-RADS/BIDS-creator-tool/internal/dicomfile"
	"github.com/BV-RADS/BIDS-creator-tool/internal/dispatch"
	"github.com/BV-RADS/BIDS-creator-tool/internal/protocol"
)

func newProtocolCommand(app *appContext) *cobra.Command {
	var workers int

	cmd := &cobra.Command{
		Use:   "protocol <dicom-folder>",
		Short: "Stamp each file's ProtocolName with its parent folder name",
		Long: "Recursively rewrites the ProtocolName tag (0018,1030) of every file " +
			"under the given folder to the basename of its immediate parent " +
			"directory, saving files in place.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logger, err := app.setup()
			if err != nil {
				return err
			}

			root := args[0]
			info, err := os.Stat(root)
			if err != nil {
				return fmt.Errorf("input directory does not exist: %s", root)
			}
			if !info.IsDir() {
				return fmt.Errorf("input path is not a directory: %s", root)
			}

			files, err := dicomfile.FindFiles(root)
			if err != nil {
				return fmt.Errorf("could not enumerate input files: %w", err)
			}
			if len(files) == 0 {
				fmt.Println("No files found in the specified folder.")
				return nil
			}
			logger.Info("enumerated input files", "count", len(files), "root", root)

			rewriter := &protocol.Rewriter{Logger: logger}
			tally := dispatch.Run(cmd.Context(), files, dispatch.Options{
				Workers:  workers,
				Progress: os.Stderr,
			}, rewriter.Process)

			printSummary(tally)
			return nil
		},
	}

	cmd.Flags().IntVar(&workers, "workers", 0, "Worker pool size (0 = half the CPU cores)")

	return cmd
}
