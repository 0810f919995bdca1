package errors

import (
	"math"
)

// CheckNumericalStability checks if values contain NaN or Inf
// and returns an error if numerical instability is detected.
func CheckNumericalStability(operation string, values []float64, iteration int) error {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return NewNumericalInstabilityError(operation, values, iteration)
		}
	}
	return nil
}

// CheckScalar checks a single scalar value for numerical instability.
func CheckScalar(operation string, value float64, iteration int) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return NewNumericalInstabilityError(operation, []float64{value}, iteration)
	}
	return nil
}

// WarnIfUnstable forwards a NumericalInstabilityError to Warn when value is
// NaN or Inf. It reports whether a warning was emitted.
func WarnIfUnstable(operation string, value float64, iteration int) bool {
	if err := CheckScalar(operation, value, iteration); err != nil {
		Warn(err)
		return true
	}
	return false
}

// SafeDivide returns numerator/denominator, or 0 when the denominator is 0.
// The second result reports whether the division was defined.
func SafeDivide(numerator, denominator float64) (float64, bool) {
	if denominator == 0 {
		return 0, false
	}
	return numerator / denominator, true
}
