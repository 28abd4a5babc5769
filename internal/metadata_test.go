package internal

import (
	"errors"
	"io/fs"
	"path/filepath"
	"testing"
)

func TestExifReader_ReadsAllFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "DSCF0001.jpg")
	writeJPEG(t, path, createTestImage(40, 30), &exifFields{
		Make:        "FUJIFILM",
		Orientation: 6,
		DateTime:    "2017:03:05 14:07:09",
		Width:       4000,
		Height:      3000,
	})

	rec, err := ExifReader{}.Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if rec.Path != path {
		t.Errorf("path = %q", rec.Path)
	}
	if rec.Make != "FUJIFILM" {
		t.Errorf("make = %q", rec.Make)
	}
	if rec.Orientation != Some(6) {
		t.Errorf("orientation = %v", rec.Orientation)
	}
	if rec.Width != Some(4000) || rec.Height != Some(3000) {
		t.Errorf("size = %s", rec.Size())
	}
	if rec.CaptureTime != Some("2017:03:05 14:07:09") {
		t.Errorf("capture time = %v", rec.CaptureTime)
	}
}

func TestExifReader_ShortMakeStoredInline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lg.jpg")
	writeJPEG(t, path, createTestImage(30, 40), &exifFields{Make: "LGE", DateTime: "2018:01:01 00:00:00"})

	rec, err := ExifReader{}.Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if rec.Make != "LGE" {
		t.Errorf("make = %q", rec.Make)
	}
	if rec.Width.Valid || rec.Height.Valid || rec.Orientation.Valid {
		t.Errorf("expected absent dimensions and orientation, got %s tag %v", rec.Size(), rec.Orientation)
	}
	if rec.Size() != "?x?" {
		t.Errorf("size = %q", rec.Size())
	}
}

func TestExifReader_MissingMake(t *testing.T) {
	dir := t.TempDir()

	noMake := filepath.Join(dir, "nomake.jpg")
	writeJPEG(t, noMake, createTestImage(10, 10), &exifFields{Orientation: 1, DateTime: "2018:01:01 00:00:00"})
	if _, err := (ExifReader{}).Read(noMake); !errors.Is(err, ErrMetadataMissing) {
		t.Errorf("expected ErrMetadataMissing, got %v", err)
	}

	noExif := filepath.Join(dir, "noexif.jpg")
	writeJPEG(t, noExif, createTestImage(10, 10), nil)
	if _, err := (ExifReader{}).Read(noExif); !errors.Is(err, ErrMetadataMissing) {
		t.Errorf("expected ErrMetadataMissing, got %v", err)
	}
}

func TestExifReader_MissingFile(t *testing.T) {
	_, err := ExifReader{}.Read(filepath.Join(t.TempDir(), "gone.jpg"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected fs.ErrNotExist, got %v", err)
	}
}

func TestOpt(t *testing.T) {
	if s := (Opt[int]{}).String(); s != "?" {
		t.Errorf("absent = %q", s)
	}
	if s := Some(8).String(); s != "8" {
		t.Errorf("present = %q", s)
	}
	if positive(Some(0)).Valid || positive(Some(-1)).Valid {
		t.Error("non-positive dimensions should be absent")
	}
	if !positive(Some(1)).Valid {
		t.Error("positive dimension dropped")
	}
}
