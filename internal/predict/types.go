package predict

import (
	"fmt"
	"time"
)

// Request is a single prediction request: a location, a timestamp, and up to
// six pollutant readings with optional declared units. A nil concentration
// means the pollutant was not measured; an omitted unit defaults to the
// pollutant's canonical unit.
type Request struct {
	Latitude   float64             `json:"latitude"`
	Longitude  float64             `json:"longitude"`
	Timestamp  time.Time           `json:"timestamp"`
	Pollutants map[string]*float64 `json:"pollutants"`
	Units      map[string]string   `json:"units,omitempty"`
}

// ValidationError reports a request field that failed validation before any
// pipeline stage ran. It is a client input error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid request field %s: %s", e.Field, e.Message)
}

// SubIndex is the per-pollutant diagnostic included in a Result.
type SubIndex struct {
	Pollutant     string  `json:"pollutant"`
	Value         float64 `json:"value"`
	Concentration float64 `json:"concentration"`
	Unit          string  `json:"unit"`
	Extrapolated  bool    `json:"extrapolated,omitempty"`
}

// ModelInfo identifies the estimator that served a prediction.
type ModelInfo struct {
	Name            string   `json:"name"`
	Version         string   `json:"version,omitempty"`
	InputPollutants []string `json:"input_pollutants"`
	Features        []string `json:"features"`
}

// InputSummary echoes back what the request supplied.
type InputSummary struct {
	Latitude           float64  `json:"latitude"`
	Longitude          float64  `json:"longitude"`
	Timestamp          string   `json:"timestamp"`
	ProvidedPollutants []string `json:"provided_pollutants"`
}

// Result is the assembled prediction response. AQI is the primary estimate;
// ExactAQI is the breakpoint-based diagnostic. Both are pointers because each
// can be legitimately absent: ExactAQI when no pollutant was measured, AQI
// never in practice but kept symmetric for the wire format. Absence is an
// explicit null, never a zero.
type Result struct {
	RequestID         string       `json:"request_id"`
	AQI               *float64     `json:"aqi"`
	Category          string       `json:"aqi_category,omitempty"`
	ExactAQI          *float64     `json:"aqi_exact"`
	ExactCategory     string       `json:"aqi_category_exact,omitempty"`
	DominantPollutant string       `json:"dominant_pollutant,omitempty"`
	SubIndices        []SubIndex   `json:"sub_indices"`
	UsedModel         bool         `json:"used_model"`
	UsedExact         bool         `json:"used_exact"`
	Model             ModelInfo    `json:"model"`
	Input             InputSummary `json:"input"`
	GeneratedAt       time.Time    `json:"generated_at"`
}
