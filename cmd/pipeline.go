package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"hdframe/internal"
)

// addPipelineFlags registers the flags shared by every command that
// normalizes photos. Defaults here mirror internal.LoadConfig.
func addPipelineFlags(fs *pflag.FlagSet) {
	fs.StringP("output", "o", filepath.Join(os.TempDir(), "hdframe"), "Directory for normalized images")
	fs.String("cutoff", internal.DefaultCutoff, "Skip photos captured before this time (YYYY-MM-DDTHH:MM:SS)")
	fs.Int("width", 1920, "Canvas width in pixels")
	fs.Int("height", 1080, "Canvas height in pixels")
	fs.String("background", "black", "Canvas colour, a colour name or #rrggbb")
	fs.StringSlice("ext", []string{".jpg"}, "File extensions picked from directories (case-sensitive)")
	fs.Int("quality", 95, "JPEG quality of the output")
	fs.String("filter", "lanczos", "Resample filter: lanczos, catmullrom, linear, box, nearest")
	fs.Bool("exiftool", false, "Read metadata with the exiftool binary instead of the built-in EXIF parser")
	fs.BoolP("dry-run", "n", false, "Decide everything but write no files")
	fs.String("log-level", "info", "Log level: debug, info, warn, error")
	fs.String("log-file", "", "Also write JSON logs to this file")
}

// pipeline is everything a command needs to normalize files.
type pipeline struct {
	conf       *internal.Config
	logger     *internal.Logger
	normalizer *internal.Normalizer
	closeMeta  func() error
}

// newPipeline loads configuration and builds the normalizer. Any error here
// happens before a single file is touched.
func newPipeline(cmd *cobra.Command) (*pipeline, error) {
	conf, err := internal.LoadConfig(cmd.Flags())
	if err != nil {
		return nil, err
	}

	logger, err := internal.NewLogger(conf.LogLevel, conf.LogFile)
	if err != nil {
		return nil, err
	}

	reader, closeMeta, err := internal.OpenMetadataReader(conf.UseExifTool)
	if err != nil {
		logger.Close()
		return nil, err
	}

	n, err := internal.NewNormalizer(conf, reader, logger.Logger)
	if err != nil {
		closeMeta()
		logger.Close()
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &pipeline{conf: conf, logger: logger, normalizer: n, closeMeta: closeMeta}, nil
}

func (p *pipeline) Close() error {
	err := p.closeMeta()
	if lerr := p.logger.Close(); err == nil {
		err = lerr
	}
	return err
}
