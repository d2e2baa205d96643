package service

import "math"

// RoundingPrecision is the multiplier used to round monetary ratios to two
// decimal places in API responses.
const RoundingPrecision = 100

// round rounds a float64 value to two decimal places using the package
// RoundingPrecision constant. Used for percentage values in summaries so
// the ROI renders as e.g. 10.00 rather than 9.999999999999998.
func round(value float64) float64 {
	return math.Round(value*RoundingPrecision) / RoundingPrecision
}
