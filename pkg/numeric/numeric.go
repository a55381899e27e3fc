// Package numeric holds small helpers for presenting computed figures.
package numeric

import "math"

// Round rounds v to the given number of decimal places, half away from zero.
// Infinite and NaN values are returned unchanged.
func Round(v float64, places int) float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return v
	}
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// Percent returns part/whole*100 rounded to one decimal, or 0 when whole is 0.
func Percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return Round(float64(part)/float64(whole)*100, 1)
}
