// Package model loads the trained estimator artifact bundle and assembles
// feature vectors against its exported schema. The bundle is produced by an
// external training run and consists of three files: the fitted estimator,
// the ordered feature-column list, and training metadata (provenance plus
// per-column fallback statistics). Everything here is read-only after Load;
// concurrent requests share a single Artifacts value without locking.
package model

import (
	"fmt"
	"strings"

	"github.com/AshVenn/openaq-aqi-predictor/internal/domain"
)

// FeatureSchema is the positional input contract of the estimator: the
// ordered column names and the per-column fallback values captured at
// training time. A column with no fallback entry is mandatory — assembly
// fails when it cannot be resolved from the request.
type FeatureSchema struct {
	Columns   []string
	Fallbacks map[string]float64
}

// Metadata describes the trained estimator's provenance and interpretation.
// Serialized as model_meta.json by the training pipeline.
type Metadata struct {
	ModelName       string             `json:"best_model_name"`
	Version         string             `json:"version"`
	TrainedAt       string             `json:"trained_at"`
	InputPollutants []string           `json:"input_pollutants"`
	Features        []string           `json:"features"`
	OutputUnit      string             `json:"output_unit"`
	Fallbacks       map[string]float64 `json:"fallbacks"`
}

// MissingRequiredFeatureError reports a schema column that could not be
// resolved from the request and has no training-time fallback.
type MissingRequiredFeatureError struct {
	Column string
}

func (e *MissingRequiredFeatureError) Error() string {
	return fmt.Sprintf("feature %q is required but could not be resolved and has no fallback", e.Column)
}

// missingSuffix marks the indicator columns emitted by the training pipeline
// for each pollutant, e.g. "pm25_is_missing".
const missingSuffix = "_is_missing"

// PollutantColumn reports whether a schema column is derived from a pollutant
// reading (either the value column or its missing indicator), and which one.
// The HTTP layer uses this to distinguish insufficient input data from a
// misconfigured schema.
func PollutantColumn(name string) (domain.Pollutant, bool) {
	base := strings.TrimSuffix(name, missingSuffix)
	p, err := domain.ParsePollutant(base)
	if err != nil {
		return "", false
	}
	return p, true
}
