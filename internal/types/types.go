package types

import (
	"math"
	"strings"
)

// Side is the direction of market exposure reported by the platform.
type Side string

const (
	SideLong    Side = "Long"
	SideShort   Side = "Short"
	SideFlat    Side = "Flat"
	SideUnknown Side = "Unknown" // token outside the allow-list
)

// ParseSide maps a raw side token to a Side. Matching ignores case and
// surrounding space, so "long" and "Long" are the same side. "None" is the
// platform's spelling of no position and maps to SideFlat. Every other token
// collapses to SideUnknown, which means two different unrecognised tokens
// compare equal and a switch between them is not a change.
func ParseSide(token string) Side {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "long":
		return SideLong
	case "short":
		return SideShort
	case "flat", "none":
		return SideFlat
	default:
		return SideUnknown
	}
}

// Snapshot is the position state observed at one instant.
type Snapshot struct {
	Side     Side    `json:"side"`
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price"`
}

// FlatSnapshot returns the defaults used before anything has been observed.
func FlatSnapshot() Snapshot {
	return Snapshot{Side: SideFlat}
}

// Equal reports structural equality. NaN fields are equal to each other so
// repeated malformed content is suppressed like any other identical read.
func (s Snapshot) Equal(o Snapshot) bool {
	return s.Side == o.Side &&
		sameNumber(s.Quantity, o.Quantity) &&
		sameNumber(s.Price, o.Price)
}

// Malformed reports whether any field came from an unparseable token.
func (s Snapshot) Malformed() bool {
	return s.Side == SideUnknown || math.IsNaN(s.Quantity) || math.IsNaN(s.Price)
}

func sameNumber(a, b float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.IsNaN(a) && math.IsNaN(b)
	}
	return a == b
}
