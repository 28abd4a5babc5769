package internal

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
)

// Opt is a metadata value that may be absent from the file.
type Opt[T any] struct {
	Value T
	Valid bool
}

func Some[T any](v T) Opt[T] {
	return Opt[T]{Value: v, Valid: true}
}

func (o Opt[T]) String() string {
	if !o.Valid {
		return "?"
	}
	return fmt.Sprint(o.Value)
}

// ImageRecord is what the metadata says about one source file. Only Make is
// mandatory.
type ImageRecord struct {
	Path        string
	Width       Opt[int]
	Height      Opt[int]
	Orientation Opt[int]
	Make        string
	CaptureTime Opt[string]
}

// Size formats the recorded dimensions as WxH, with ? for absent values.
func (r ImageRecord) Size() string {
	return r.Width.String() + "x" + r.Height.String()
}

// MetadataReader reads the attributes the normalization decisions depend on.
type MetadataReader interface {
	Read(path string) (ImageRecord, error)
}

// ExifReader reads EXIF tags directly from the file with goexif.
type ExifReader struct{}

func (ExifReader) Read(path string) (ImageRecord, error) {
	rec := ImageRecord{Path: path}

	f, err := os.Open(path)
	if err != nil {
		return rec, err
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if x == nil {
		return rec, fmt.Errorf("%w: %v", ErrMetadataMissing, err)
	}

	rec.Width = positive(exifInt(x, exif.PixelXDimension))
	rec.Height = positive(exifInt(x, exif.PixelYDimension))
	rec.Orientation = exifInt(x, exif.Orientation)
	rec.CaptureTime = exifString(x, exif.DateTime)

	mk := exifString(x, exif.Make)
	if !mk.Valid {
		return rec, fmt.Errorf("%w: no Make tag", ErrMetadataMissing)
	}
	rec.Make = mk.Value

	return rec, nil
}

func exifInt(x *exif.Exif, name exif.FieldName) Opt[int] {
	tag, err := x.Get(name)
	if err != nil {
		return Opt[int]{}
	}
	v, err := tag.Int(0)
	if err != nil {
		// Some writers store numbers as ASCII.
		s, serr := tag.StringVal()
		if serr != nil {
			return Opt[int]{}
		}
		v, err = strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return Opt[int]{}
		}
	}
	return Some(v)
}

func exifString(x *exif.Exif, name exif.FieldName) Opt[string] {
	tag, err := x.Get(name)
	if err != nil {
		return Opt[string]{}
	}
	s, err := tag.StringVal()
	if err != nil {
		return Opt[string]{}
	}
	s = strings.TrimSpace(strings.TrimRight(s, "\x00"))
	if s == "" {
		return Opt[string]{}
	}
	return Some(s)
}

func positive(o Opt[int]) Opt[int] {
	if o.Valid && o.Value <= 0 {
		return Opt[int]{}
	}
	return o
}
