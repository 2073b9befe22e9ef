package repository

// Resolution is a bar interval in the provider's notation.
type Resolution string

const (
	Res5m    Resolution = "5"
	Res15m   Resolution = "15"
	Res30m   Resolution = "30"
	Res60m   Resolution = "60"
	ResDaily Resolution = "D"
)

// IsValidResolution returns true if r is a supported resolution.
func IsValidResolution(r Resolution) bool {
	switch r {
	case Res5m, Res15m, Res30m, Res60m, ResDaily:
		return true
	default:
		return false
	}
}

// DefaultResolution returns the default resolution.
func DefaultResolution() Resolution { return ResDaily }

// NormalizeResolution converts a raw string to a valid resolution (or default).
func NormalizeResolution(s string) Resolution {
	if s == "" {
		return DefaultResolution()
	}
	r := Resolution(s)
	if IsValidResolution(r) {
		return r
	}
	return DefaultResolution()
}

// BarsPerDay returns how many regular-session bars one trading day yields at
// the given resolution. Used to translate day-denominated horizons to bars.
func BarsPerDay(r Resolution) int {
	switch r {
	case Res5m:
		return 78
	case Res15m:
		return 26
	case Res30m:
		return 13
	case Res60m:
		return 7
	default:
		return 1
	}
}
