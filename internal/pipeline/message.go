package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/AshVenn/openaq-aqi-predictor/internal/predict"
)

// Observation is the flat JSON shape published to the source topic by
// station collectors. Pollutant keys absent from the map were not measured;
// explicit nulls mean the sensor reported no value.
type Observation struct {
	StationID  string              `json:"station_id"`
	Latitude   float64             `json:"latitude"`
	Longitude  float64             `json:"longitude"`
	Timestamp  time.Time           `json:"timestamp"`
	Pollutants map[string]*float64 `json:"pollutants"`
	Units      map[string]string   `json:"units,omitempty"`
}

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// ScoredEvent is the enriched form destined for the sink topic: the full
// prediction result keyed by a deterministic observation identity, so
// replays of the same source message overwrite rather than duplicate.
type ScoredEvent struct {
	ID        string `json:"id"`
	StationID string `json:"station_id,omitempty"`
	predict.Result
}

// ObservationID derives a stable identifier from the fields that make an
// observation unique: station, coordinates, and measurement time.
func ObservationID(obs Observation) string {
	seed := fmt.Sprintf("%s|%.6f|%.6f|%s",
		obs.StationID, obs.Latitude, obs.Longitude, obs.Timestamp.UTC().Format(time.RFC3339))
	sum := sha256.Sum256([]byte(seed))
	return hex.EncodeToString(sum[:16])
}
