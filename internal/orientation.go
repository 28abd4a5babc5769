package internal

// Orientation is the subject's logical orientation, independent of how the
// pixels are stored.
type Orientation int

const (
	Landscape Orientation = iota
	Portrait
)

func (o Orientation) String() string {
	if o == Portrait {
		return "Portrait"
	}
	return "Landscape"
}

// Policy is how a camera vendor records orientation.
type Policy int

const (
	// RotateOnTagMismatch: pixels are stored in sensor orientation and the
	// EXIF tag says how to turn them upright.
	RotateOnTagMismatch Policy = iota
	// TrustPixelAspect: pixels are already upright; the tag is not meaningful.
	TrustPixelAspect
	// PassthroughWithWarning: unknown vendor, nothing is rotated.
	PassthroughWithWarning
)

func (p Policy) String() string {
	switch p {
	case RotateOnTagMismatch:
		return "rotate-on-tag-mismatch"
	case TrustPixelAspect:
		return "trust-pixel-aspect"
	default:
		return "passthrough"
	}
}

var vendorPolicies = map[string]Policy{
	"FUJIFILM":          RotateOnTagMismatch,
	"NIKON CORPORATION": RotateOnTagMismatch,
	"Canon":             RotateOnTagMismatch,
	"samsung":           RotateOnTagMismatch,
	"LGE":               TrustPixelAspect,
}

// PolicyFor matches vendor exactly against the known vendors.
func PolicyFor(vendor string) Policy {
	if p, ok := vendorPolicies[vendor]; ok {
		return p
	}
	return PassthroughWithWarning
}

// dims are the recorded dimensions with absent values set to -1, which is
// how they take part in comparisons. degraded is set when that happened.
type dims struct {
	w, h     int
	degraded bool
}

func legacyDims(width, height Opt[int]) dims {
	d := dims{w: -1, h: -1}
	if width.Valid {
		d.w = width.Value
	} else {
		d.degraded = true
	}
	if height.Valid {
		d.h = height.Value
	} else {
		d.degraded = true
	}
	return d
}

type rule interface {
	logical(tag int, d dims) Orientation
	rotation(tag int, d dims) int
}

type rotateOnTagMismatch struct{}

func (rotateOnTagMismatch) logical(tag int, _ dims) Orientation {
	if tag == 6 || tag == 8 {
		return Portrait
	}
	return Landscape
}

func (rotateOnTagMismatch) rotation(tag int, d dims) int {
	switch {
	case tag == 8 && d.w > d.h:
		return -90
	case tag == 6 && d.w > d.h:
		return 90
	case tag == 3:
		return 180
	}
	return 0
}

type trustPixelAspect struct{}

func (trustPixelAspect) logical(_ int, d dims) Orientation { return aspect(d) }
func (trustPixelAspect) rotation(int, dims) int            { return 0 }

type passthroughWithWarning struct{}

func (passthroughWithWarning) logical(_ int, d dims) Orientation { return aspect(d) }
func (passthroughWithWarning) rotation(int, dims) int            { return 0 }

func aspect(d dims) Orientation {
	if d.h > d.w {
		return Portrait
	}
	return Landscape
}

var rules = [...]rule{
	RotateOnTagMismatch:    rotateOnTagMismatch{},
	TrustPixelAspect:       trustPixelAspect{},
	PassthroughWithWarning: passthroughWithWarning{},
}

// Decision is the outcome of the orientation policy for one image.
type Decision struct {
	Policy      Policy
	Orientation Orientation
	// Rotation in degrees, positive is clockwise.
	Rotation int
	// Degraded is set when width or height was missing and -1 stood in for it.
	Degraded bool
}

// Decide applies the vendor's orientation policy. It is total: unknown vendors
// and absent values never fail.
func Decide(vendor string, tag, width, height Opt[int]) Decision {
	p := PolicyFor(vendor)
	r := rules[p]
	d := legacyDims(width, height)

	t := -1
	if tag.Valid {
		t = tag.Value
	}

	return Decision{
		Policy:      p,
		Orientation: r.logical(t, d),
		Rotation:    r.rotation(t, d),
		Degraded:    d.degraded,
	}
}
