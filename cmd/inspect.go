package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"hdframe/internal"
)

var formatFlag string

var inspectCmd = &cobra.Command{
	Use:   "inspect [source...]",
	Short: "Report what normalize would do with a set of photos",
	Long: `Inspect reads only the metadata of each photo and reports camera vendors,
orientation decisions, rotations, the capture date range, files before the
cutoff and output name collisions. Nothing is decoded or written.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sources, err := internal.ResolveSources(args, cmd.InOrStdin())
		if err != nil {
			return err
		}

		conf, err := internal.LoadConfig(cmd.Flags())
		if err != nil {
			return err
		}
		cutoff, err := conf.CutoffTime()
		if err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		logger, err := internal.NewLogger(conf.LogLevel, conf.LogFile)
		if err != nil {
			return err
		}
		defer logger.Close()

		reader, closeMeta, err := internal.OpenMetadataReader(conf.UseExifTool)
		if err != nil {
			return err
		}
		defer closeMeta()

		files, err := internal.ExpandSources(sources, conf.Extensions)
		if err != nil {
			return err
		}

		results := internal.AnalyzePhotos(files, reader, internal.DateFilter{Cutoff: cutoff}, logger.Logger)
		return internal.DisplayAnalytics(cmd.OutOrStdout(), results, formatFlag)
	},
}

func init() {
	fs := inspectCmd.Flags()
	fs.StringVar(&formatFlag, "format", "table", "Output format: table, json")
	fs.String("cutoff", internal.DefaultCutoff, "Count photos captured before this time as excluded")
	fs.StringSlice("ext", []string{".jpg"}, "File extensions picked from directories (case-sensitive)")
	fs.Bool("exiftool", false, "Read metadata with the exiftool binary instead of the built-in EXIF parser")
	fs.String("log-level", "warn", "Log level: debug, info, warn, error")
	fs.String("log-file", "", "Also write JSON logs to this file")

	rootCmd.AddCommand(inspectCmd)
}
