// Package validate holds the pure predicate and sanitizer functions applied
// to every inbound payload before it may touch registry state. A payload
// with any failing required field is dropped whole; callers never apply a
// partial update.
package validate

import (
	"math"
	"strings"
	"unicode/utf8"
)

const (
	// WorldBound is the exclusive limit on the magnitude of any position
	// component.
	WorldBound = 10000

	maxNameLen    = 20
	maxChatLen    = 200
	maxVehicleLen = 20

	// NamePlaceholder replaces names that did not arrive as strings.
	NamePlaceholder = "???"
)

var (
	nameStripper = strings.NewReplacer("<", "", ">", "", "&", "", `"`, "", "'", "")
	chatStripper = strings.NewReplacer("<", "", ">", "", "&", "")
)

// Finite reports whether v is a usable number (not NaN, not ±Inf).
func Finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Position reports whether all three components are finite and inside the
// world bound.
func Position(x, y, z float64) bool {
	for _, v := range [3]float64{x, y, z} {
		if !Finite(v) || math.Abs(v) >= WorldBound {
			return false
		}
	}
	return true
}

// Rotation accepts any finite value; normalization is a display concern.
func Rotation(v float64) bool {
	return Finite(v)
}

// Name coerces an arbitrary decoded JSON value into a display name:
// non-string input yields the fixed placeholder, strings are truncated to
// 20 bytes and stripped of markup-significant characters.
func Name(v any) string {
	s, ok := v.(string)
	if !ok {
		return NamePlaceholder
	}
	return nameStripper.Replace(truncate(s, maxNameLen))
}

// Chat sanitizes a chat message. The second return is false when nothing
// broadcastable remains, in which case the message is dropped entirely.
func Chat(s string) (string, bool) {
	s = chatStripper.Replace(truncate(s, maxChatLen))
	if strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}

// VehicleType sanitizes the optional vehicle tag. Nil passes through; a
// present value is truncated and stripped like a name.
func VehicleType(v *string) *string {
	if v == nil {
		return nil
	}
	s := nameStripper.Replace(truncate(*v, maxVehicleLen))
	return &s
}

// truncate cuts s to at most max bytes without splitting a multi-byte rune:
// the cut point backs up to the nearest rune start, so the result is valid
// UTF-8 whenever the input is.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// ClampHealth clamps to [0,100].
func ClampHealth(v float64) float64 {
	return clamp(v, 0, 100)
}

// ClampMoney clamps to [0,+inf).
func ClampMoney(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

// ClampWanted clamps to [0,5]. Fractional levels pass through clamped;
// integer semantics are not enforced.
func ClampWanted(v float64) float64 {
	return clamp(v, 0, 5)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
