package model

import "fmt"

// FeatureVector is a positional numeric vector matching a FeatureSchema's
// column order exactly. It never contains an undefined slot: every element
// is either a resolved value or a schema fallback.
type FeatureVector []float64

// Estimator is the opaque scoring capability: feature vector in, numeric AQI
// estimate out. Tests inject deterministic fakes; production uses the
// artifact-backed implementation returned by Load.
type Estimator interface {
	Score(features FeatureVector) (float64, error)
}

// estimatorArtifact is the serialized form of a fitted model (estimator.json).
type estimatorArtifact struct {
	Type         string             `json:"type"`
	Intercept    float64            `json:"intercept"`
	Coefficients map[string]float64 `json:"coefficients"`
}

// LinearEstimator scores a feature vector as intercept + w·x. Weights are
// resolved positionally against the schema at load time, so Score is a plain
// dot product on the hot path.
type LinearEstimator struct {
	intercept float64
	weights   []float64
}

func newLinearEstimator(artifact estimatorArtifact, columns []string) (*LinearEstimator, error) {
	weights := make([]float64, len(columns))
	for i, col := range columns {
		w, ok := artifact.Coefficients[col]
		if !ok {
			return nil, fmt.Errorf("estimator has no coefficient for feature column %q", col)
		}
		weights[i] = w
	}
	return &LinearEstimator{intercept: artifact.Intercept, weights: weights}, nil
}

// Score computes the AQI estimate. The vector length must match the schema
// the estimator was loaded against; a mismatch means the caller bypassed
// Assemble and is a programming error surfaced as a plain error.
func (e *LinearEstimator) Score(features FeatureVector) (float64, error) {
	if len(features) != len(e.weights) {
		return 0, fmt.Errorf("feature vector has %d values, estimator expects %d", len(features), len(e.weights))
	}
	sum := e.intercept
	for i, v := range features {
		sum += e.weights[i] * v
	}
	return sum, nil
}
