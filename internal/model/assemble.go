package model

import (
	"strings"
	"time"

	"github.com/AshVenn/openaq-aqi-predictor/internal/domain"
)

// Assemble maps a canonical pollutant record plus location and timestamp into
// the feature vector the estimator expects. Output length and order exactly
// match the schema — the estimator interprets its input positionally, so this
// ordering is the pipeline's most important invariant.
//
// Resolution policy per column:
//   - a pollutant name resolves to its canonical concentration, falling back
//     to the schema's training-time statistic when the reading is missing;
//   - "<pollutant>_is_missing" resolves to a 0/1 indicator;
//   - "hour", "day_of_week" (Monday=0, matching the training features) and
//     "month" derive from the timestamp in UTC;
//   - "latitude"/"longitude" come from the request location;
//   - anything else resolves to its fallback alone.
//
// A column with neither a resolvable value nor a fallback fails assembly
// with a *MissingRequiredFeatureError.
func Assemble(record domain.CanonicalRecord, lat, lon float64, ts time.Time, schema FeatureSchema) (FeatureVector, error) {
	utc := ts.UTC()
	vector := make(FeatureVector, len(schema.Columns))

	for i, col := range schema.Columns {
		v, err := resolveColumn(col, record, lat, lon, utc, schema.Fallbacks)
		if err != nil {
			return nil, err
		}
		vector[i] = v
	}
	return vector, nil
}

func resolveColumn(col string, record domain.CanonicalRecord, lat, lon float64, utc time.Time, fallbacks map[string]float64) (float64, error) {
	if strings.HasSuffix(col, missingSuffix) {
		if p, ok := PollutantColumn(col); ok {
			if _, present := record.Value(p); present {
				return 0, nil
			}
			return 1, nil
		}
	}

	if p, ok := PollutantColumn(col); ok {
		if v, present := record.Value(p); present {
			return v, nil
		}
		return fallbackOrFail(col, fallbacks)
	}

	switch col {
	case "hour":
		return float64(utc.Hour()), nil
	case "day_of_week":
		// time.Weekday counts from Sunday; the training features count from
		// Monday.
		return float64((int(utc.Weekday()) + 6) % 7), nil
	case "month":
		return float64(utc.Month()), nil
	case "latitude":
		return lat, nil
	case "longitude":
		return lon, nil
	}

	return fallbackOrFail(col, fallbacks)
}

func fallbackOrFail(col string, fallbacks map[string]float64) (float64, error) {
	if v, ok := fallbacks[col]; ok {
		return v, nil
	}
	return 0, &MissingRequiredFeatureError{Column: col}
}
