package internal

import (
	"fmt"
	"os"
	"strings"

	"github.com/barasher/go-exiftool"
)

// ExifToolReader reads metadata through a long-running exiftool process. It
// understands more maker formats than ExifReader but needs the exiftool binary.
type ExifToolReader struct {
	et *exiftool.Exiftool
}

func NewExifToolReader() (*ExifToolReader, error) {
	et, err := exiftool.NewExiftool(exiftool.NoPrintConversion())
	if err != nil {
		return nil, fmt.Errorf("failed to start exiftool: %w", err)
	}
	return &ExifToolReader{et: et}, nil
}

func (r *ExifToolReader) Read(path string) (ImageRecord, error) {
	rec := ImageRecord{Path: path}

	// exiftool reports unreadable files as a generic error; stat first so
	// they are classified as I/O failures.
	if _, err := os.Stat(path); err != nil {
		return rec, err
	}

	results := r.et.ExtractMetadata(path)
	if len(results) == 0 {
		return rec, fmt.Errorf("exiftool returned no result for %s", path)
	}
	fm := results[0]
	if fm.Err != nil {
		return rec, fmt.Errorf("%w: %v", ErrMetadataMissing, fm.Err)
	}

	rec.Width = positive(toolInt(fm, "ExifImageWidth"))
	rec.Height = positive(toolInt(fm, "ExifImageHeight"))
	rec.Orientation = toolInt(fm, "Orientation")
	rec.CaptureTime = toolString(fm, "ModifyDate")

	mk := toolString(fm, "Make")
	if !mk.Valid {
		return rec, fmt.Errorf("%w: no Make tag", ErrMetadataMissing)
	}
	rec.Make = mk.Value

	return rec, nil
}

func (r *ExifToolReader) Close() error {
	return r.et.Close()
}

func toolInt(fm exiftool.FileMetadata, key string) Opt[int] {
	v, err := fm.GetInt(key)
	if err != nil {
		return Opt[int]{}
	}
	return Some(int(v))
}

func toolString(fm exiftool.FileMetadata, key string) Opt[string] {
	s, err := fm.GetString(key)
	if err != nil {
		return Opt[string]{}
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return Opt[string]{}
	}
	return Some(s)
}

// OpenMetadataReader picks the reader for the run. The returned close func
// must be called once the run is over.
func OpenMetadataReader(useExifTool bool) (MetadataReader, func() error, error) {
	if !useExifTool {
		return ExifReader{}, func() error { return nil }, nil
	}
	r, err := NewExifToolReader()
	if err != nil {
		return nil, nil, err
	}
	return r, r.Close, nil
}
