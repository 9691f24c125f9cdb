package domain

import "fmt"

// Pollutant identifies one of the six pollutants the system measures.
type Pollutant string

const (
	PM25 Pollutant = "pm25"
	PM10 Pollutant = "pm10"
	NO2  Pollutant = "no2"
	O3   Pollutant = "o3"
	CO   Pollutant = "co"
	SO2  Pollutant = "so2"
)

// pollutants lists the full set in stable order. The order is load-bearing:
// tie-breaking in OverallAQI and feature-column iteration both follow it.
var pollutants = []Pollutant{PM25, PM10, NO2, O3, CO, SO2}

// Pollutants returns the fixed pollutant set in stable order.
func Pollutants() []Pollutant {
	out := make([]Pollutant, len(pollutants))
	copy(out, pollutants)
	return out
}

// ParsePollutant validates a pollutant identifier string.
func ParsePollutant(s string) (Pollutant, error) {
	p := Pollutant(s)
	for _, known := range pollutants {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown pollutant %q", s)
}

// Reading is a single raw pollutant measurement as supplied by the caller.
// A nil Concentration means the pollutant was not measured. An empty Unit
// defaults to the pollutant's canonical unit.
type Reading struct {
	Concentration *float64
	Unit          string
}

// CanonicalRecord maps every pollutant to either a canonical-unit
// concentration or an explicit missing marker. It always covers the full
// pollutant set and is immutable once built by Normalize.
type CanonicalRecord struct {
	values map[Pollutant]float64
}

// Value returns the canonical concentration for p and whether it is present.
func (r CanonicalRecord) Value(p Pollutant) (float64, bool) {
	v, ok := r.values[p]
	return v, ok
}

// Present returns the pollutants with a measured concentration, in stable order.
func (r CanonicalRecord) Present() []Pollutant {
	out := make([]Pollutant, 0, len(r.values))
	for _, p := range pollutants {
		if _, ok := r.values[p]; ok {
			out = append(out, p)
		}
	}
	return out
}

// Complete reports whether every pollutant in the set has a present value.
func (r CanonicalRecord) Complete() bool {
	return len(r.values) == len(pollutants)
}
