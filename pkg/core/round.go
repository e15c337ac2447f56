package core

import "math"

// RoundFloat rounds val to precision decimal places, half away from zero.
func RoundFloat(val float64, precision int) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}
