package internal

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Outcome is what happened to one source file.
type Outcome int

const (
	OutcomeFailed Outcome = iota
	OutcomeWritten
	OutcomeExcluded
	OutcomeDryRun
)

// Normalizer runs source files through the metadata, date, orientation and
// canvas stages and writes one JPEG per accepted file.
type Normalizer struct {
	Reader     MetadataReader
	Filter     DateFilter
	Compositor Compositor
	OutputDir  string
	Quality    int
	DryRun     bool
	Log        *zap.Logger

	// written maps output paths produced by this normalizer to their source.
	written map[string]string
}

// NewNormalizer builds a Normalizer from validated configuration. Unless this
// is a dry run the output directory is created and checked for writability.
func NewNormalizer(cfg *Config, reader MetadataReader, log *zap.Logger) (*Normalizer, error) {
	cutoff, err := cfg.CutoffTime()
	if err != nil {
		return nil, err
	}
	comp, err := cfg.Compositor()
	if err != nil {
		return nil, err
	}
	if cfg.Quality < 1 || cfg.Quality > 100 {
		return nil, fmt.Errorf("jpeg quality must be between 1 and 100, got %d", cfg.Quality)
	}
	if !cfg.DryRun {
		if err := EnsureOutputDir(cfg.Output); err != nil {
			return nil, err
		}
	}
	return &Normalizer{
		Reader:     reader,
		Filter:     DateFilter{Cutoff: cutoff},
		Compositor: comp,
		OutputDir:  cfg.Output,
		Quality:    cfg.Quality,
		DryRun:     cfg.DryRun,
		Log:        log,
	}, nil
}

// Summary counts the outcomes of a run.
type Summary struct {
	Total    int
	Written  int
	Excluded int
	DryRun   int
	Stats    *ErrorStats
}

// Run processes files in the given order. A failing file is reported and
// skipped; the combined error lists every failure. Cancelling ctx stops the
// run between files.
func (n *Normalizer) Run(ctx context.Context, files []string) (*Summary, error) {
	summary := &Summary{Stats: NewErrorStats()}
	var errs error

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			errs = multierr.Append(errs, err)
			break
		}
		summary.Total++

		outcome, perr := n.Handle(path)
		switch outcome {
		case OutcomeWritten:
			summary.Written++
		case OutcomeExcluded:
			summary.Excluded++
		case OutcomeDryRun:
			summary.DryRun++
		case OutcomeFailed:
			summary.Stats.Add(perr)
			errs = multierr.Append(errs, perr)
		}
	}

	return summary, errs
}

// Handle processes one file and logs the outcome. Failures come back
// categorized.
func (n *Normalizer) Handle(path string) (Outcome, *ProcessError) {
	outcome, err := n.process(path)
	if err == nil {
		return outcome, nil
	}

	perr := CategorizeError(path, err)
	fields := []zap.Field{
		zap.String("file", path),
		zap.String("category", string(perr.Category)),
		zap.Error(perr.OriginalErr),
	}
	if perr.Severity == ErrorSeverityWarning {
		n.Log.Warn("skipping file", fields...)
	} else {
		n.Log.Error("failed to normalize file", fields...)
	}
	return OutcomeFailed, perr
}

func (n *Normalizer) process(path string) (Outcome, error) {
	rec, err := n.Reader.Read(path)
	if err != nil {
		return OutcomeFailed, err
	}

	dec := Decide(rec.Make, rec.Orientation, rec.Width, rec.Height)
	n.Log.Info(filepath.Base(path),
		zap.String("size", rec.Size()),
		zap.Stringer("orientation_tag", rec.Orientation),
		zap.Stringer("captured", rec.CaptureTime),
		zap.String("make", rec.Make),
		zap.Stringer("orientation", dec.Orientation),
	)

	name, keep, err := n.Filter.Apply(rec.CaptureTime)
	if err != nil {
		return OutcomeFailed, err
	}
	if !keep {
		n.Log.Info("captured before cutoff, excluded",
			zap.String("file", path), zap.Time("cutoff", n.Filter.Cutoff))
		return OutcomeExcluded, nil
	}

	if dec.Policy == PassthroughWithWarning {
		n.Log.Warn("unrecognized camera vendor, passing through unrotated",
			zap.String("file", path), zap.String("make", rec.Make))
	}
	if dec.Degraded {
		n.Log.Warn("dimensions missing from metadata, orientation decided in degraded mode",
			zap.String("file", path), zap.String("size", rec.Size()))
	}

	dest := filepath.Join(n.OutputDir, name)
	n.warnOverwrite(path, dest)

	if n.DryRun {
		n.Log.Info("dry run, not writing",
			zap.String("file", path), zap.String("dest", dest), zap.Int("rotation", dec.Rotation))
		n.remember(path, dest)
		return OutcomeDryRun, nil
	}

	img, format, err := decodeImage(path)
	if err != nil {
		return OutcomeFailed, err
	}
	img = Rotate(img, dec.Rotation, n.Compositor.Background)

	res, err := n.Compositor.Composite(img, format)
	if err != nil {
		return OutcomeFailed, err
	}

	if err := writeJPEGAtomic(dest, res.Image, n.Quality); err != nil {
		return OutcomeFailed, err
	}
	n.remember(path, dest)

	n.Log.Debug("wrote canvas",
		zap.String("dest", dest),
		zap.Int("rotation", dec.Rotation),
		zap.Int("scaled_width", res.Scaled.X),
		zap.Int("scaled_height", res.Scaled.Y),
		zap.Int("left", res.Left),
		zap.Int("top", res.Top),
		zap.String("format", res.Format),
	)
	return OutcomeWritten, nil
}

// warnOverwrite flags a second photo mapping onto the same name. The later
// file still wins.
func (n *Normalizer) warnOverwrite(src, dest string) {
	if prev, ok := n.written[dest]; ok {
		n.Log.Warn("output name already used in this run, overwriting",
			zap.String("file", src), zap.String("previous", prev), zap.String("dest", dest))
		return
	}
	if _, err := os.Stat(dest); err == nil {
		n.Log.Warn("overwriting existing output", zap.String("file", src), zap.String("dest", dest))
	}
}

func (n *Normalizer) remember(src, dest string) {
	if n.written == nil {
		n.written = make(map[string]string)
	}
	n.written[dest] = src
}

func decodeImage(path string) (image.Image, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	return img, format, nil
}

// writeJPEGAtomic encodes to dest.tmp and renames it into place, so dest is
// never left half-written.
func writeJPEGAtomic(dest string, img image.Image, quality int) error {
	tmp := dest + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return err
	}

	if err := imaging.Encode(out, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		out.Close()
		os.Remove(tmp)
		return &fs.PathError{Op: "encode", Path: tmp, Err: err}
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return err
	}

	if err := os.Rename(tmp, dest); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
