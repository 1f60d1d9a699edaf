package workflows

import (
	"context"

	"devflow-backend/internal/llm"
	"devflow-backend/internal/workflows/extract"
)

// InsightsParams are the inputs to the team analytics read.
type InsightsParams struct {
	Team               string
	Period             string
	IncludePredictions bool
}

// TeamInsights analyzes a team's delivery metrics. It is a pure read: no
// workflow record is created, so there is nothing to sync afterwards.
func (s *Service) TeamInsights(ctx context.Context, params InsightsParams) (TeamInsights, error) {
	var sample TeamMetricsSample
	if s.Metrics != nil {
		gathered, err := s.Metrics.TeamMetrics(ctx, params.Team, params.Period)
		if err != nil {
			return TeamInsights{}, err
		}
		sample = gathered
	}

	analysis, err := s.LLM.Analyze(ctx, llm.AnalyzeInput{
		Kind: "team",
		Context: map[string]any{
			"team":                params.Team,
			"period":              params.Period,
			"includePredictions":  params.IncludePredictions,
			"velocityHistory":     sample.VelocityHistory,
			"avgPrSize":           sample.AvgPRSize,
			"avgReviewTimeHours":  sample.AvgReviewTimeHours,
			"deploymentFrequency": sample.DeploymentFrequency,
			"cycleTimeDays":       sample.CycleTimeDays,
		},
	})
	if err != nil {
		return TeamInsights{}, err
	}
	s.saveTranscript(ctx, "team-"+params.Team, analysis)

	var current float64
	if n := len(sample.VelocityHistory); n > 0 {
		current = sample.VelocityHistory[n-1]
	}

	return TeamInsights{
		Team: params.Team,
		Velocity: Velocity{
			Current:    current,
			Historical: sample.VelocityHistory,
			Trend:      extract.VelocityTrend(sample.VelocityHistory),
		},
		Bottlenecks: extract.Bottlenecks(analysis.Analysis),
		TeamMetrics: TeamMetrics{
			AvgPRSize:           sample.AvgPRSize,
			AvgReviewTimeHours:  sample.AvgReviewTimeHours,
			DeploymentFrequency: sample.DeploymentFrequency,
			CycleTimeDays:       sample.CycleTimeDays,
		},
		Summary:    analysis.Analysis,
		Confidence: llm.ClampConfidence(analysis.Confidence),
	}, nil
}
