package domain

import "math"

// Normalize converts a set of raw readings into a CanonicalRecord covering
// the full pollutant set. Absent or nil readings become explicit missing
// markers; present readings are validated and converted to canonical units.
// The first invalid reading or unsupported unit fails the whole call — no
// partial record is produced.
func Normalize(readings map[Pollutant]Reading) (CanonicalRecord, error) {
	values := make(map[Pollutant]float64, len(readings))

	for _, p := range pollutants {
		reading, ok := readings[p]
		if !ok || reading.Concentration == nil {
			continue
		}

		c := *reading.Concentration
		if c < 0 || math.IsNaN(c) || math.IsInf(c, 0) {
			return CanonicalRecord{}, &InvalidReadingError{Pollutant: p, Value: c}
		}

		converted, err := Convert(p, c, reading.Unit)
		if err != nil {
			return CanonicalRecord{}, err
		}
		values[p] = converted
	}

	return CanonicalRecord{values: values}, nil
}
