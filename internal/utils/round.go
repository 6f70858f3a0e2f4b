package utils

import "math"

// Round2 rounds half away from zero to 2 decimal places.
func Round2(f float64) float64 { return math.Round(f*100) / 100 }

// Round3 rounds half away from zero to 3 decimal places.
func Round3(f float64) float64 { return math.Round(f*1000) / 1000 }
