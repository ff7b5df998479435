package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trailatlas/trailgraph-backend-go/internal/config"
)

func testScorer() *Scorer {
	return NewScorer(&config.Config{
		DistanceWeight:  0.5,
		ElevationWeight: 0.3,
		QualityWeight:   0.2,
	})
}

func TestSimilarity_ExactMatch(t *testing.T) {
	s := testScorer()
	assert.InDelta(t, 1.0, s.Similarity(10, 10, 500, 500), 1e-9)
}

func TestSimilarity_PartialMatch(t *testing.T) {
	s := testScorer()
	// 20% distance error, exact elevation: (0.5*0.8 + 0.3*1.0) / 0.8
	assert.InDelta(t, 0.875, s.Similarity(8, 10, 500, 500), 1e-9)
}

func TestSimilarity_ZeroTarget(t *testing.T) {
	s := testScorer()
	// A zero elevation target matches only zero actual gain
	assert.InDelta(t, 1.0, s.Similarity(10, 10, 0, 0), 1e-9)
	assert.InDelta(t, 0.5/0.8, s.Similarity(10, 10, 300, 0), 1e-9)
}

func TestScore_BlendsQuality(t *testing.T) {
	s := testScorer()
	// Perfect fit with loop confidence 0.95
	assert.InDelta(t, 0.5+0.3+0.2*0.95, s.Score(10, 10, 500, 500, 0.95), 1e-9)
	// Everything off by 100% or more floors the fit terms
	assert.InDelta(t, 0.2*0.95, s.Score(25, 10, 2000, 500, 0.95), 1e-9)
}

func TestScore_MonotonicInFit(t *testing.T) {
	s := testScorer()
	better := s.Score(9.5, 10, 480, 500, 0.9)
	worse := s.Score(6, 10, 200, 500, 0.9)
	assert.Greater(t, better, worse)
}
