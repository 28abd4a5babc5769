package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
)

// AnalyticsResults describes what normalizing a set of photos would do,
// without decoding or writing any pixels.
type AnalyticsResults struct {
	TotalFiles    int                     `json:"total_files"`
	Vendors       map[string]*VendorStats `json:"vendors"`
	Orientations  map[string]int          `json:"orientations"`
	Rotations     map[int]int             `json:"rotations"`
	Degraded      int                     `json:"degraded"`
	BeforeCutoff  int                     `json:"before_cutoff"`
	NoTimestamp   int                     `json:"no_timestamp"`
	NoMetadata    int                     `json:"no_metadata"`
	Unreadable    int                     `json:"unreadable"`
	Collisions    []Collision             `json:"collisions,omitempty"`
	DateRange     DateRange               `json:"date_range"`
	Cutoff        time.Time               `json:"cutoff"`
	ScanDuration  time.Duration           `json:"scan_duration"`
	outputSources map[string][]string
}

type VendorStats struct {
	Policy string `json:"policy"`
	Count  int    `json:"count"`
}

type DateRange struct {
	Earliest time.Time `json:"earliest"`
	Latest   time.Time `json:"latest"`
}

// Collision is an output name more than one source maps onto.
type Collision struct {
	Name    string   `json:"name"`
	Sources []string `json:"sources"`
}

// AnalyzePhotos reads metadata for every file and tallies the decisions the
// normalizer would make. Unreadable files are counted, not returned as errors.
func AnalyzePhotos(files []string, reader MetadataReader, filter DateFilter, log *zap.Logger) *AnalyticsResults {
	start := time.Now()
	results := &AnalyticsResults{
		Vendors:       make(map[string]*VendorStats),
		Orientations:  make(map[string]int),
		Rotations:     make(map[int]int),
		Cutoff:        filter.Cutoff,
		outputSources: make(map[string][]string),
	}

	for _, path := range files {
		results.TotalFiles++
		rec, err := reader.Read(path)
		if err != nil {
			if errors.Is(err, ErrMetadataMissing) {
				results.NoMetadata++
			} else {
				results.Unreadable++
			}
			log.Debug("cannot read metadata", zap.String("file", path), zap.Error(err))
			continue
		}
		results.add(path, rec, filter)
	}

	for name, sources := range results.outputSources {
		if len(sources) > 1 {
			results.Collisions = append(results.Collisions, Collision{Name: name, Sources: sources})
		}
	}
	sort.Slice(results.Collisions, func(i, j int) bool {
		return results.Collisions[i].Name < results.Collisions[j].Name
	})

	results.ScanDuration = time.Since(start)
	return results
}

func (r *AnalyticsResults) add(path string, rec ImageRecord, filter DateFilter) {
	dec := Decide(rec.Make, rec.Orientation, rec.Width, rec.Height)

	vendor := rec.Make
	if vendor == "" {
		vendor = "(unknown)"
	}
	vs, ok := r.Vendors[vendor]
	if !ok {
		vs = &VendorStats{Policy: dec.Policy.String()}
		r.Vendors[vendor] = vs
	}
	vs.Count++

	r.Orientations[dec.Orientation.String()]++
	r.Rotations[dec.Rotation]++
	if dec.Degraded {
		r.Degraded++
	}

	name, keep, err := filter.Apply(rec.CaptureTime)
	if err != nil {
		r.NoTimestamp++
		return
	}
	if t, err := time.Parse(ExifTimeLayout, rec.CaptureTime.Value); err == nil {
		if r.DateRange.Earliest.IsZero() || t.Before(r.DateRange.Earliest) {
			r.DateRange.Earliest = t
		}
		if t.After(r.DateRange.Latest) {
			r.DateRange.Latest = t
		}
	}
	if !keep {
		r.BeforeCutoff++
		return
	}
	r.outputSources[name] = append(r.outputSources[name], path)
}

// Accepted is the number of files that would be written.
func (r *AnalyticsResults) Accepted() int {
	return r.TotalFiles - r.NoMetadata - r.Unreadable - r.NoTimestamp - r.BeforeCutoff
}

// DisplayAnalytics writes results as a table or, with format "json", as JSON.
func DisplayAnalytics(w io.Writer, results *AnalyticsResults, format string) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(results)
	case "table", "":
		displayTable(w, results)
		return nil
	default:
		return fmt.Errorf("unknown format %q, want table or json", format)
	}
}

func displayTable(w io.Writer, r *AnalyticsResults) {
	fmt.Fprintf(w, "=== hdframe inspect: %d files ===\n\n", r.TotalFiles)

	fmt.Fprintf(w, "📷 Cameras:\n")
	vendors := make([]string, 0, len(r.Vendors))
	for v := range r.Vendors {
		vendors = append(vendors, v)
	}
	sort.Slice(vendors, func(i, j int) bool {
		if r.Vendors[vendors[i]].Count != r.Vendors[vendors[j]].Count {
			return r.Vendors[vendors[i]].Count > r.Vendors[vendors[j]].Count
		}
		return vendors[i] < vendors[j]
	})
	for _, v := range vendors {
		fmt.Fprintf(w, "  - %s: %d (%s)\n", v, r.Vendors[v].Count, r.Vendors[v].Policy)
	}

	fmt.Fprintf(w, "\n🔄 Orientation:\n")
	read := r.TotalFiles - r.NoMetadata - r.Unreadable
	for _, o := range []Orientation{Landscape, Portrait} {
		n := r.Orientations[o.String()]
		fmt.Fprintf(w, "  - %s: %d (%d%%)\n", o, n, percentage(n, read))
	}
	angles := make([]int, 0, len(r.Rotations))
	for a := range r.Rotations {
		if a != 0 {
			angles = append(angles, a)
		}
	}
	sort.Ints(angles)
	for _, a := range angles {
		fmt.Fprintf(w, "  - rotate %+d°: %d\n", a, r.Rotations[a])
	}
	if r.Degraded > 0 {
		fmt.Fprintf(w, "  - missing dimensions: %d\n", r.Degraded)
	}

	fmt.Fprintf(w, "\n📅 Dates:\n")
	if !r.DateRange.Earliest.IsZero() {
		fmt.Fprintf(w, "  - Range: %s to %s\n",
			r.DateRange.Earliest.Format("2006-01-02"), r.DateRange.Latest.Format("2006-01-02"))
	}
	fmt.Fprintf(w, "  - Before %s: %d\n", r.Cutoff.Format("2006-01-02"), r.BeforeCutoff)
	if r.NoTimestamp > 0 {
		fmt.Fprintf(w, "  - No usable timestamp: %d\n", r.NoTimestamp)
	}

	if len(r.Collisions) > 0 {
		fmt.Fprintf(w, "\n⚠️  Name collisions (%d):\n", len(r.Collisions))
		for _, c := range r.Collisions[:min(5, len(r.Collisions))] {
			names := make([]string, len(c.Sources))
			for i, s := range c.Sources {
				names[i] = filepath.Base(s)
			}
			fmt.Fprintf(w, "  - %s <- %s\n", c.Name, strings.Join(names, ", "))
		}
		if len(r.Collisions) > 5 {
			fmt.Fprintf(w, "  - ... and %d more\n", len(r.Collisions)-5)
		}
	}

	fmt.Fprintf(w, "\n💡 Summary:\n")
	fmt.Fprintf(w, "  ✅ Would write: %d\n", r.Accepted())
	if r.NoMetadata+r.Unreadable > 0 {
		fmt.Fprintf(w, "  ❌ Unreadable or without EXIF: %d\n", r.NoMetadata+r.Unreadable)
	}
	fmt.Fprintf(w, "  ⏱️  Scanned in %v\n", r.ScanDuration.Round(time.Millisecond))
}

func percentage(part, total int) int {
	if total == 0 {
		return 0
	}
	return (part * 100) / total
}
