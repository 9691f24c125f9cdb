package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/AshVenn/openaq-aqi-predictor/internal/predict"
)

// ScoringTransformer implements Transformer by running each observation
// through the prediction service.
type ScoringTransformer struct {
	svc    *predict.Service
	logger *slog.Logger
}

// NewTransformer creates a ScoringTransformer backed by the given service.
func NewTransformer(svc *predict.Service, logger *slog.Logger) *ScoringTransformer {
	return &ScoringTransformer{svc: svc, logger: logger}
}

func (t *ScoringTransformer) Transform(ctx context.Context, raw RawEvent) (ScoredEvent, error) {
	var obs Observation
	if err := json.Unmarshal(raw.Value, &obs); err != nil {
		return ScoredEvent{}, fmt.Errorf("parse observation: %w", err)
	}

	result, err := t.svc.Predict(ctx, predict.Request{
		Latitude:   obs.Latitude,
		Longitude:  obs.Longitude,
		Timestamp:  obs.Timestamp,
		Pollutants: obs.Pollutants,
		Units:      obs.Units,
	})
	if err != nil {
		return ScoredEvent{}, fmt.Errorf("score observation from station %q: %w", obs.StationID, err)
	}

	return ScoredEvent{
		ID:        ObservationID(obs),
		StationID: obs.StationID,
		Result:    result,
	}, nil
}

// Serialize marshals a scored event into its sink-topic key, value, and
// headers. The key is the deterministic observation ID so compacted topics
// keep exactly one score per observation.
func Serialize(event ScoredEvent) (key, value []byte, headers map[string]string, err error) {
	value, err = json.Marshal(event)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("serialize scored event: %w", err)
	}

	headers = map[string]string{
		"scored_at": event.GeneratedAt.UTC().Format(time.RFC3339),
	}
	if event.DominantPollutant != "" {
		headers["dominant_pollutant"] = event.DominantPollutant
	}
	return []byte(event.ID), value, headers, nil
}
