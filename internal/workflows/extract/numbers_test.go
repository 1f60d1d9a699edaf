package extract

import "testing"

func TestReviewHours(t *testing.T) {
	cases := []struct {
		text string
		want float64
	}{
		{"should take about 4 hours to review", 4},
		{"1.5 hrs of careful reading", 1.5},
		{"quick skim, 30 minutes", DefaultReviewHours},
		{"", DefaultReviewHours},
	}
	for _, tc := range cases {
		if got := ReviewHours(tc.text); got != tc.want {
			t.Errorf("ReviewHours(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}

func TestEffortPoints(t *testing.T) {
	cases := []struct {
		text string
		want float64
	}{
		{"estimate: 5 story points", 5},
		{"roughly 8 points of work", 8},
		{"no estimate given", DefaultEffortPoints},
	}
	for _, tc := range cases {
		if got := EffortPoints(tc.text); got != tc.want {
			t.Errorf("EffortPoints(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}

func TestReadinessScore(t *testing.T) {
	cases := []struct {
		text string
		want float64
	}{
		{"readiness is 85%", 85},
		{"I'd put it at 92/100", 92},
		{"readiness: 40", 40},
		{"looks fine overall", DefaultReadiness},
		{"150% readiness", 100},
	}
	for _, tc := range cases {
		if got := ReadinessScore(tc.text); got != tc.want {
			t.Errorf("ReadinessScore(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}
