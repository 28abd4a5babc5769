package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"hdframe/internal"
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize [source...]",
	Short: "Normalize photos from files and directories",
	Long: `Normalize rotates, filters and letterboxes every photo given on the command
line. Directories contribute the files directly inside them that match --ext.
Pass - as the only source to read paths from standard input, one per line.

Every file is attempted; failures are reported at the end.`,
	Example: `  hdframe normalize ~/DCIM/100_FUJI ~/DCIM/LG -o ~/frame
  find /media/card -name '*.jpg' | hdframe normalize -`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sources, err := internal.ResolveSources(args, cmd.InOrStdin())
		if err != nil {
			return err
		}

		p, err := newPipeline(cmd)
		if err != nil {
			return err
		}
		defer p.Close()

		files, err := internal.ExpandSources(sources, p.conf.Extensions)
		if err != nil {
			return err
		}

		cmd.Printf("Found %d photos\n", len(files))
		if p.conf.DryRun {
			cmd.Println("Dry run mode: no files will be written")
		}

		summary, runErr := p.normalizer.Run(cmd.Context(), files)

		cmd.Printf("Processed %d: %d written, %d excluded by date", summary.Total, summary.Written, summary.Excluded)
		if summary.DryRun > 0 {
			cmd.Printf(", %d planned", summary.DryRun)
		}
		cmd.Printf(", %d failed\n", summary.Stats.Total)

		if summary.Stats.Total > 0 {
			cmd.PrintErr(summary.Stats.GenerateReport())
			return fmt.Errorf("%d of %d files failed", summary.Stats.Total, summary.Total)
		}
		return runErr
	},
}

func init() {
	addPipelineFlags(normalizeCmd.Flags())
	rootCmd.AddCommand(normalizeCmd)
}
