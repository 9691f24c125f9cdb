package domain

import "strings"

// Canonical unit spellings used throughout the package.
const (
	UnitUgM3 = "ug/m3"
	UnitMgM3 = "mg/m3"
	UnitPPM  = "ppm"
	UnitPPB  = "ppb"
)

// molarVolume is the volume of one mole of ideal gas in liters at the EPA
// reference conditions of 25 °C and 1 atm. Gas conversions between mass
// concentration and mixing ratio assume these conditions.
const molarVolume = 24.45

// molarMass holds molar masses in g/mol for the gaseous pollutants.
var molarMass = map[Pollutant]float64{
	O3:  48.00,
	NO2: 46.01,
	SO2: 64.07,
	CO:  28.01,
}

// canonicalUnit is the unit each pollutant's breakpoint table and feature
// column are defined in.
var canonicalUnit = map[Pollutant]string{
	PM25: UnitUgM3,
	PM10: UnitUgM3,
	O3:   UnitPPM,
	CO:   UnitPPM,
	SO2:  UnitPPB,
	NO2:  UnitPPB,
}

// CanonicalUnit returns the canonical unit spelling for a pollutant.
func CanonicalUnit(p Pollutant) string {
	return canonicalUnit[p]
}

// normalizeUnitSpelling folds the accepted spellings of a unit string to the
// canonical form: micro sign → "u", "m^3" and "m³" → "m3", lower-case,
// surrounding whitespace stripped.
func normalizeUnitSpelling(unit string) string {
	u := strings.ToLower(strings.TrimSpace(unit))
	u = strings.ReplaceAll(u, "µ", "u") // micro sign
	u = strings.ReplaceAll(u, "μ", "u") // greek mu
	u = strings.ReplaceAll(u, "m^3", "m3")
	u = strings.ReplaceAll(u, "m³", "m3")
	return u
}

// Convert converts a concentration from a declared unit into the pollutant's
// canonical unit. An empty unit string means the value is already canonical.
// Convert is pure and deterministic; it fails only with an
// *UnsupportedUnitError when the unit is not in the pollutant's accepted set.
func Convert(p Pollutant, value float64, fromUnit string) (float64, error) {
	target := canonicalUnit[p]
	unit := normalizeUnitSpelling(fromUnit)
	if unit == "" || unit == target {
		return value, nil
	}

	// Particulates are mass-concentration only.
	if p == PM25 || p == PM10 {
		if unit == UnitMgM3 {
			return value * 1000.0, nil
		}
		return 0, &UnsupportedUnitError{Pollutant: p, Unit: fromUnit}
	}

	mw := molarMass[p]

	switch target {
	case UnitPPM:
		switch unit {
		case UnitPPB:
			return value / 1000.0, nil
		case UnitUgM3:
			return ugm3ToPpm(value, mw), nil
		case UnitMgM3:
			return ugm3ToPpm(value*1000.0, mw), nil
		}
	case UnitPPB:
		switch unit {
		case UnitPPM:
			return value * 1000.0, nil
		case UnitUgM3:
			return ugm3ToPpm(value, mw) * 1000.0, nil
		case UnitMgM3:
			return ugm3ToPpm(value*1000.0, mw) * 1000.0, nil
		}
	}

	return 0, &UnsupportedUnitError{Pollutant: p, Unit: fromUnit}
}

// ugm3ToPpm converts a mass concentration in µg/m³ to a mixing ratio in ppm:
// ppm = (µg/m³ · 24.45) / (MW · 1000).
func ugm3ToPpm(value, mw float64) float64 {
	return (value * molarVolume) / (mw * 1000.0)
}

// ppmToUgm3 is the inverse of ugm3ToPpm.
func ppmToUgm3(value, mw float64) float64 {
	return (value * mw * 1000.0) / molarVolume
}
