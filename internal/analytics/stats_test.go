package analytics_test

import (
	"math"
	"testing"

	"github.com/douanehq/douane/internal/analytics"
)

const epsilon = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestMean(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected float64
	}{
		{"empty", nil, 0},
		{"single", []float64{5}, 5},
		{"uniform", []float64{4, 4, 4, 4}, 4},
		{"mixed", []float64{2, 4, 4, 4, 5, 5, 7, 9}, 5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := analytics.Mean(tc.values); !almostEqual(got, tc.expected) {
				t.Errorf("Mean(%v) = %v, expected %v", tc.values, got, tc.expected)
			}
		})
	}
}

func TestVariance(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected float64
	}{
		{"empty", nil, 0},
		{"single", []float64{5}, 0},
		{"uniform", []float64{4, 4, 4, 4}, 0},
		{"known population", []float64{2, 4, 4, 4, 5, 5, 7, 9}, 4},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := analytics.Variance(tc.values); !almostEqual(got, tc.expected) {
				t.Errorf("Variance(%v) = %v, expected %v", tc.values, got, tc.expected)
			}
		})
	}
}

func TestStdDev(t *testing.T) {
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	if got := analytics.StdDev(values); !almostEqual(got, 2) {
		t.Errorf("StdDev(%v) = %v, expected 2", values, got)
	}
}

func TestCoefficientOfVariation(t *testing.T) {
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	if got := analytics.CoefficientOfVariation(values); !almostEqual(got, 0.4) {
		t.Errorf("CoefficientOfVariation(%v) = %v, expected 0.4", values, got)
	}

	if got := analytics.CoefficientOfVariation([]float64{0, 0, 0}); got != 0 {
		t.Errorf("expected 0 for zero mean, got %v", got)
	}

	if got := analytics.CoefficientOfVariation(nil); got != 0 {
		t.Errorf("expected 0 for empty values, got %v", got)
	}
}
