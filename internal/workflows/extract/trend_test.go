package extract

import "testing"

func TestVelocityTrend(t *testing.T) {
	cases := []struct {
		name    string
		history []float64
		want    Trend
	}{
		{"increasing", []float64{10, 10, 10, 10, 20, 20, 20}, TrendIncreasing},
		{"decreasing", []float64{20, 20, 20, 20, 10, 10, 10}, TrendDecreasing},
		{"flat", []float64{10, 10, 10, 10, 10, 10}, TrendStable},
		{"within threshold", []float64{10, 10, 10, 10.5, 10.5, 10.5}, TrendStable},
		{"empty", nil, TrendStable},
		{"single sample", []float64{42}, TrendStable},
		{"two samples up", []float64{10, 20}, TrendIncreasing},
		{"zero baseline", []float64{0, 0, 0, 5}, TrendStable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := VelocityTrend(tc.history); got != tc.want {
				t.Errorf("VelocityTrend(%v) = %q, want %q", tc.history, got, tc.want)
			}
		})
	}
}
