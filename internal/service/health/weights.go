package health

import (
	"math"

	"github.com/mamadbah2/herdadvisor/internal/domain/models"
	"github.com/mamadbah2/herdadvisor/internal/service/scoring"
)

// Weights are the empirical coefficients of the confidence score. They are
// tunable; DefaultWeights reproduces the reference behaviour.
type Weights struct {
	Coverage         float64
	MatchRate        float64
	Severity         map[models.Severity]float64
	Contagious       float64
	PenaltyPerExcess float64
	MaxPenalty       float64
}

// DefaultWeights returns the stock coefficients.
func DefaultWeights() Weights {
	return Weights{
		Coverage:  0.7,
		MatchRate: 0.3,
		Severity: map[models.Severity]float64{
			models.SeverityCritical: 1.10,
			models.SeverityHigh:     1.05,
			models.SeverityMedium:   1.00,
			models.SeverityLow:      0.95,
		},
		Contagious:       1.05,
		PenaltyPerExcess: 0.10,
		MaxPenalty:       0.30,
	}
}

// Confidence scores a disease given the number of matching symptoms, the size
// of its symptom profile and the number of observed symptoms. The result is in
// [0, 1] and is 0 whenever nothing matches.
func (w Weights) Confidence(disease models.Disease, matching, profileSize, observed int) float64 {
	if matching == 0 || profileSize == 0 || observed == 0 {
		return 0
	}

	coverage := float64(matching) / float64(profileSize)
	matchRate := float64(matching) / float64(observed)

	severityWeight, ok := w.Severity[disease.Severity]
	if !ok {
		severityWeight = 1.0
	}
	contagionWeight := 1.0
	if disease.Contagious {
		contagionWeight = w.Contagious
	}

	excess := math.Max(0, float64(observed-matching))
	penalty := math.Min(w.MaxPenalty, w.PenaltyPerExcess*excess)

	score := (w.Coverage*coverage+w.MatchRate*matchRate)*severityWeight*contagionWeight - penalty
	return scoring.Clamp(score, 0, 1)
}
