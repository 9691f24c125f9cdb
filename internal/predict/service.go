// Package predict orchestrates the prediction pipeline: request validation,
// reading normalization, breakpoint diagnostics, feature assembly, and
// estimator scoring. The service is stateless across requests; all shared
// state (artifacts, tables) is immutable after startup.
package predict

import (
	"context"
	"log/slog"
	"time"

	"github.com/AshVenn/openaq-aqi-predictor/internal/domain"
	"github.com/AshVenn/openaq-aqi-predictor/internal/model"
	"github.com/google/uuid"
)

// Service runs predictions against a loaded artifact bundle.
type Service struct {
	artifacts *model.Artifacts
	logger    *slog.Logger
}

// New creates a prediction service. The artifacts are shared read-only with
// every request.
func New(artifacts *model.Artifacts, logger *slog.Logger) *Service {
	return &Service{artifacts: artifacts, logger: logger}
}

// Predict runs the full pipeline for one request and assembles the response.
// It fails with the first error any stage raises — no partial results — and
// surfaces the error kind unchanged for the transport layer to map.
//
// When every pollutant in the estimator's input set has a present reading,
// the exact breakpoint AQI is reported as the primary estimate and the model
// is not invoked (fixed policy: the breakpoint computation is the definition
// of AQI, the model exists to fill gaps). Otherwise the estimator's output is
// primary and the breakpoint AQI remains a diagnostic.
func (s *Service) Predict(_ context.Context, req Request) (Result, error) {
	if err := validate(req); err != nil {
		return Result{}, err
	}

	readings, provided := toReadings(req)

	record, err := domain.Normalize(readings)
	if err != nil {
		return Result{}, err
	}

	overall, err := domain.OverallAQI(record)
	if err != nil {
		return Result{}, err
	}

	result := Result{
		RequestID:  uuid.NewString(),
		SubIndices: make([]SubIndex, 0, len(overall.SubIndices)),
		Model: ModelInfo{
			Name:            s.artifacts.Meta.ModelName,
			Version:         s.artifacts.Meta.Version,
			InputPollutants: s.artifacts.Meta.InputPollutants,
			Features:        s.artifacts.Schema.Columns,
		},
		Input: InputSummary{
			Latitude:           req.Latitude,
			Longitude:          req.Longitude,
			Timestamp:          req.Timestamp.UTC().Format(time.RFC3339),
			ProvidedPollutants: provided,
		},
		GeneratedAt: clock.Now().UTC(),
	}

	for _, sub := range overall.SubIndices {
		result.SubIndices = append(result.SubIndices, SubIndex{
			Pollutant:     string(sub.Pollutant),
			Value:         sub.Value,
			Concentration: sub.Concentration,
			Unit:          domain.CanonicalUnit(sub.Pollutant),
			Extrapolated:  sub.Extrapolated,
		})
	}

	if overall.Determined {
		exact := overall.AQI
		result.ExactAQI = &exact
		result.ExactCategory = overall.Category
		result.DominantPollutant = string(overall.Dominant)
		result.UsedExact = true
	}

	if result.UsedExact && s.inputsComplete(record) {
		result.AQI = result.ExactAQI
		result.Category = result.ExactCategory
		return result, nil
	}

	vector, err := model.Assemble(record, req.Latitude, req.Longitude, req.Timestamp, s.artifacts.Schema)
	if err != nil {
		return Result{}, err
	}

	estimate, err := s.artifacts.Estimator.Score(vector)
	if err != nil {
		return Result{}, err
	}

	result.AQI = &estimate
	result.Category = domain.Category(estimate)
	result.UsedModel = true

	s.logger.Debug("prediction served",
		"request_id", result.RequestID,
		"aqi", estimate,
		"provided", len(provided),
	)
	return result, nil
}

// inputsComplete reports whether every pollutant the estimator was trained
// on has a present canonical value.
func (s *Service) inputsComplete(record domain.CanonicalRecord) bool {
	for _, name := range s.artifacts.Meta.InputPollutants {
		p, err := domain.ParsePollutant(name)
		if err != nil {
			return false
		}
		if _, ok := record.Value(p); !ok {
			return false
		}
	}
	return len(s.artifacts.Meta.InputPollutants) > 0
}

func validate(req Request) error {
	if req.Latitude < -90 || req.Latitude > 90 {
		return &ValidationError{Field: "latitude", Message: "must be between -90 and 90"}
	}
	if req.Longitude < -180 || req.Longitude > 180 {
		return &ValidationError{Field: "longitude", Message: "must be between -180 and 180"}
	}
	if req.Timestamp.IsZero() {
		return &ValidationError{Field: "timestamp", Message: "is required"}
	}
	for name := range req.Pollutants {
		if _, err := domain.ParsePollutant(name); err != nil {
			return &ValidationError{Field: "pollutants." + name, Message: "unknown pollutant"}
		}
	}
	for name := range req.Units {
		if _, err := domain.ParsePollutant(name); err != nil {
			return &ValidationError{Field: "units." + name, Message: "unknown pollutant"}
		}
	}
	return nil
}

// toReadings converts the wire maps into domain readings and collects the
// provided pollutant names in stable order.
func toReadings(req Request) (map[domain.Pollutant]domain.Reading, []string) {
	readings := make(map[domain.Pollutant]domain.Reading, len(req.Pollutants))
	var provided []string

	for _, p := range domain.Pollutants() {
		c, ok := req.Pollutants[string(p)]
		if !ok || c == nil {
			continue
		}
		readings[p] = domain.Reading{
			Concentration: c,
			Unit:          req.Units[string(p)],
		}
		provided = append(provided, string(p))
	}
	return readings, provided
}
