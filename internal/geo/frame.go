package geo

import (
	"fmt"
	"strconv"
	"strings"
)

// Frame identifies a coordinate reference system by EPSG code.
// The zero value means "no frame declared"; callers that accept a zero
// frame default it to the canonical frame.
type Frame struct {
	EPSG int
}

// Canonical is the canonical longitude/latitude frame (EPSG:4326). AOIs and
// generated cell sets are always expressed in this frame before reprojection
// into a working frame.
var Canonical = Frame{EPSG: 4326}

// ParseFrame parses a frame label. Accepted forms: "EPSG:4326", "epsg:4326",
// a bare code "4326", and the empty string (which parses to the zero frame,
// meaning "not declared").
func ParseFrame(label string) (Frame, error) {
	s := strings.TrimSpace(label)
	if s == "" {
		return Frame{}, nil
	}
	if rest, ok := strings.CutPrefix(strings.ToUpper(s), "EPSG:"); ok {
		s = rest
	}
	code, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || code <= 0 {
		return Frame{}, fmt.Errorf("%w: %q", ErrInvalidFrame, label)
	}
	return Frame{EPSG: code}, nil
}

// MustParseFrame is ParseFrame for statically known labels; it panics on
// parse failure.
func MustParseFrame(label string) Frame {
	f, err := ParseFrame(label)
	if err != nil {
		// ALLOW-PANIC: static label, programmer error
		panic(err)
	}
	return f
}

// String returns the "EPSG:<code>" form, or "" for the zero frame.
func (f Frame) String() string {
	if f.IsZero() {
		return ""
	}
	return fmt.Sprintf("EPSG:%d", f.EPSG)
}

// IsZero reports whether no frame is declared.
func (f Frame) IsZero() bool {
	return f.EPSG == 0
}

// IsCanonical reports whether the frame is the canonical lon/lat frame.
// The zero frame is not canonical; it is merely undeclared.
func (f Frame) IsCanonical() bool {
	return f.EPSG == Canonical.EPSG
}

// OrCanonical returns the frame itself, or the canonical frame when no
// frame is declared.
func (f Frame) OrCanonical() Frame {
	if f.IsZero() {
		return Canonical
	}
	return f
}
