package routing

import (
	"math"

	"github.com/trailatlas/trailgraph-backend-go/internal/config"
)

// Scorer computes route similarity and the overall route score from weighted
// relative distance and elevation errors plus shape quality. Weights are
// externally configured and must sum to 1.0 (enforced by config.Validate).
type Scorer struct {
	distanceWeight  float64
	elevationWeight float64
	qualityWeight   float64
}

// NewScorer creates a scorer from the configured weights
func NewScorer(cfg *config.Config) *Scorer {
	return &Scorer{
		distanceWeight:  cfg.DistanceWeight,
		elevationWeight: cfg.ElevationWeight,
		qualityWeight:   cfg.QualityWeight,
	}
}

// Similarity measures how close the actual distance and elevation gain are to
// the targets, in [0, 1]. It is independent of shape quality.
func (s *Scorer) Similarity(actualKm, targetKm, actualGain, targetGain float64) float64 {
	distTerm := closeness(actualKm, targetKm)
	elevTerm := closeness(actualGain, targetGain)

	denom := s.distanceWeight + s.elevationWeight
	if denom == 0 {
		return 0
	}
	return (s.distanceWeight*distTerm + s.elevationWeight*elevTerm) / denom
}

// Score blends the fit terms with the classifier's shape confidence using the
// configured three-way weights
func (s *Scorer) Score(actualKm, targetKm, actualGain, targetGain, quality float64) float64 {
	return s.distanceWeight*closeness(actualKm, targetKm) +
		s.elevationWeight*closeness(actualGain, targetGain) +
		s.qualityWeight*quality
}

// closeness maps the relative error |actual-target|/target onto [0, 1],
// where 1 is an exact match. A zero target matches only a zero actual.
func closeness(actual, target float64) float64 {
	if target <= 0 {
		if actual <= 0 {
			return 1
		}
		return 0
	}
	relErr := math.Abs(actual-target) / target
	if relErr >= 1 {
		return 0
	}
	return 1 - relErr
}
