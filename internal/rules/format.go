package rules

import (
	"math"
	"strconv"
)

// Round2 rounds v to two decimal places, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// number formats v with one decimal place at minimum ("15" → "15.0").
func number(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if math.Trunc(v) == v {
		s += ".0"
	}
	return s
}

func percent(v float64) string { return number(v) + "%" }
