package internal

import (
	"fmt"
	"time"
)

const (
	// ExifTimeLayout is the EXIF DateTime format.
	ExifTimeLayout = "2006:01:02 15:04:05"
	// DefaultCutoff excludes anything captured before Christmas Eve 2016.
	DefaultCutoff = "2016-12-24T00:00:00"

	nameLayout = "20060102-150405"
)

var cutoffLayouts = []string{
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02",
}

// ParseCutoff parses s as a wall-clock time. An explicit zone offset is
// dropped, since EXIF capture times carry none.
func ParseCutoff(s string) (time.Time, error) {
	for _, layout := range cutoffLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid cutoff %q: expected YYYY-MM-DDTHH:MM:SS", s)
}

// DateFilter drops photos taken before Cutoff and names the rest after their
// capture time.
type DateFilter struct {
	Cutoff time.Time
}

// Apply reports whether a photo with the given capture time is kept and, if
// so, its output file name. Capture at exactly Cutoff is kept.
func (f DateFilter) Apply(capture Opt[string]) (string, bool, error) {
	if !capture.Valid {
		return "", false, fmt.Errorf("%w: no DateTime tag", ErrTimestampUnavailable)
	}
	t, err := time.Parse(ExifTimeLayout, capture.Value)
	if err != nil {
		return "", false, fmt.Errorf("%w: %q: %v", ErrTimestampUnavailable, capture.Value, err)
	}
	if t.Before(f.Cutoff) {
		return "", false, nil
	}
	return CanonicalName(t), true, nil
}

func CanonicalName(t time.Time) string {
	return t.Format(nameLayout) + ".jpg"
}
