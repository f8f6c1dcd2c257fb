package player

import "math"

// clampLevel bounds a volume level to [0, 1].
func clampLevel(level float64) float64 {
	return max(0, min(level, 1))
}

// levelToVolume converts a 0.0-1.0 level to beep's Volume value.
// beep uses a logarithmic scale with base 2: 0 means unchanged, -1 half,
// -2 quarter. A level of 0 maps to -10, which is effectively silent.
func levelToVolume(level float64) float64 {
	if level <= 0 {
		return -10
	}
	if level >= 1 {
		return 0
	}
	return math.Log2(level)
}
