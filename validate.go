package vecturakit

import (
	"fmt"
	"math"
	"strings"
)

// maxTextBytes bounds a single document's text, mirroring the teacher
// module's defensive size checks on stored blobs.
const maxTextBytes = 1 << 20 // 1 MiB

func validateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return &InvalidInputError{Reason: "text must not be empty"}
	}
	if len(text) > maxTextBytes {
		return &InvalidInputError{Reason: fmt.Sprintf("text exceeds maximum size of %d bytes", maxTextBytes)}
	}
	return nil
}

// validateVector checks a vector is non-empty and free of NaN/Inf, the same
// checks the teacher module ran before persisting a vector.
func validateVector(vector []float32) error {
	if len(vector) == 0 {
		return &InvalidInputError{Reason: "vector must not be empty"}
	}
	for _, val := range vector {
		f := float64(val)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return &InvalidInputError{Reason: "vector must not contain NaN or Inf values"}
		}
	}
	return nil
}

func validateDimension(vector []float32, expected int) error {
	if expected > 0 && len(vector) != expected {
		return &DimensionMismatchError{Expected: expected, Got: len(vector)}
	}
	return nil
}

func validateNumResults(n int) error {
	if n <= 0 {
		return &InvalidInputError{Reason: "num_results must be > 0"}
	}
	return nil
}

func validateThreshold(threshold *float64) error {
	if threshold == nil {
		return nil
	}
	if *threshold < -1 || *threshold > 1 {
		return &InvalidInputError{Reason: "threshold must be within [-1, 1]"}
	}
	return nil
}
