package domain

import (
	"fmt"
	"math"
)

// Breakpoint is one published EPA tier: a concentration range in the
// pollutant's canonical unit mapped to an index range.
type Breakpoint struct {
	CLow  float64
	CHigh float64
	ILow  int
	IHigh int
}

// breakpoints holds the US EPA AQI breakpoint tables, one ascending tier
// sequence per pollutant, in canonical units. The ozone table is the 8-hour
// table with the published 1-hour upper ranges folded in as the top tiers
// (fixed policy, never selected per request). Static reference data.
var breakpoints = map[Pollutant][]Breakpoint{
	PM25: {
		{0.0, 12.0, 0, 50},
		{12.1, 35.4, 51, 100},
		{35.5, 55.4, 101, 150},
		{55.5, 150.4, 151, 200},
		{150.5, 250.4, 201, 300},
		{250.5, 350.4, 301, 400},
		{350.5, 500.4, 401, 500},
	},
	PM10: {
		{0, 54, 0, 50},
		{55, 154, 51, 100},
		{155, 254, 101, 150},
		{255, 354, 151, 200},
		{355, 424, 201, 300},
		{425, 504, 301, 400},
		{505, 604, 401, 500},
	},
	O3: {
		{0.000, 0.054, 0, 50},
		{0.055, 0.070, 51, 100},
		{0.071, 0.085, 101, 150},
		{0.086, 0.105, 151, 200},
		{0.106, 0.200, 201, 300},
		{0.201, 0.604, 301, 500},
	},
	CO: {
		{0.0, 4.4, 0, 50},
		{4.5, 9.4, 51, 100},
		{9.5, 12.4, 101, 150},
		{12.5, 15.4, 151, 200},
		{15.5, 30.4, 201, 300},
		{30.5, 40.4, 301, 400},
		{40.5, 50.4, 401, 500},
	},
	SO2: {
		{0, 35, 0, 50},
		{36, 75, 51, 100},
		{76, 185, 101, 150},
		{186, 304, 151, 200},
		{305, 604, 201, 300},
		{605, 804, 301, 400},
		{805, 1004, 401, 500},
	},
	NO2: {
		{0, 53, 0, 50},
		{54, 100, 51, 100},
		{101, 360, 101, 150},
		{361, 649, 151, 200},
		{650, 1249, 201, 300},
		{1250, 1649, 301, 400},
		{1650, 2049, 401, 500},
	},
}

// precision is the published concentration precision each pollutant's table
// is defined at. Truncating to it before lookup closes the gaps between
// published tiers (12.0 → 12.1 for PM2.5, and so on).
var precision = map[Pollutant]float64{
	PM25: 0.1,
	PM10: 1,
	O3:   0.001,
	CO:   0.1,
	SO2:  1,
	NO2:  1,
}

// SubIndexResult is the per-pollutant outcome of a breakpoint lookup.
type SubIndexResult struct {
	Pollutant     Pollutant
	Value         float64 // rounded to the nearest integer per EPA convention
	Concentration float64 // canonical concentration after truncation
	Tier          Breakpoint
	Extrapolated  bool // concentration exceeded the top published tier
}

// Overall is the combined breakpoint result for a canonical record.
// Determined is false when no pollutant had a present concentration; the
// remaining fields are then zero and must not be interpreted.
type Overall struct {
	Determined bool
	AQI        float64
	Category   string
	Dominant   Pollutant
	SubIndices []SubIndexResult
}

// SubIndex computes the EPA sub-index for a canonical concentration.
// Concentrations above the top published tier extrapolate along the top
// tier's slope. A negative concentration is rejected defensively; Normalize
// should have blocked it upstream.
func SubIndex(p Pollutant, concentration float64) (SubIndexResult, error) {
	table, ok := breakpoints[p]
	if !ok {
		return SubIndexResult{}, fmt.Errorf("no breakpoint table for pollutant %q", p)
	}
	if concentration < 0 {
		return SubIndexResult{}, &InvalidReadingError{Pollutant: p, Value: concentration}
	}

	prec := precision[p]
	// Work in integer multiples of the table precision. This makes the
	// truncation exact and the tier comparisons immune to binary float
	// artifacts (12.5/0.1 is 124.999… in float64).
	n := int64(math.Floor(concentration/prec + 1e-9))
	truncated := float64(n) * prec

	for _, tier := range table {
		lo := int64(math.Round(tier.CLow / prec))
		hi := int64(math.Round(tier.CHigh / prec))
		if n < lo || n > hi {
			continue
		}
		return SubIndexResult{
			Pollutant:     p,
			Value:         math.Round(interpolate(tier, truncated)),
			Concentration: truncated,
			Tier:          tier,
		}, nil
	}

	// Above the top published tier: extend the top tier's slope.
	top := table[len(table)-1]
	slope := float64(top.IHigh-top.ILow) / (top.CHigh - top.CLow)
	value := float64(top.IHigh) + slope*(truncated-top.CHigh)
	return SubIndexResult{
		Pollutant:     p,
		Value:         math.Round(value),
		Concentration: truncated,
		Tier:          top,
		Extrapolated:  true,
	}, nil
}

func interpolate(tier Breakpoint, c float64) float64 {
	return float64(tier.ILow) +
		float64(tier.IHigh-tier.ILow)/(tier.CHigh-tier.CLow)*(c-tier.CLow)
}

// OverallAQI computes sub-indices for every present pollutant and combines
// them: the overall AQI is the maximum sub-index and the dominant pollutant
// is the one that achieved it (first in stable pollutant order on ties).
// A record with nothing present yields Determined=false.
func OverallAQI(record CanonicalRecord) (Overall, error) {
	var result Overall

	for _, p := range pollutants {
		c, ok := record.Value(p)
		if !ok {
			continue
		}
		sub, err := SubIndex(p, c)
		if err != nil {
			return Overall{}, err
		}
		result.SubIndices = append(result.SubIndices, sub)

		if !result.Determined || sub.Value > result.AQI {
			result.Determined = true
			result.AQI = sub.Value
			result.Dominant = p
		}
	}

	if result.Determined {
		result.Category = Category(result.AQI)
	}
	return result, nil
}

// Category maps an AQI value to its EPA descriptor. Values above 500 stay
// "Hazardous"; the scale has no higher label.
func Category(aqi float64) string {
	switch {
	case aqi <= 50:
		return "Good"
	case aqi <= 100:
		return "Moderate"
	case aqi <= 150:
		return "Unhealthy for Sensitive Groups"
	case aqi <= 200:
		return "Unhealthy"
	case aqi <= 300:
		return "Very Unhealthy"
	default:
		return "Hazardous"
	}
}
