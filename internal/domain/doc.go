// Package domain implements the measurement-to-AQI core: pollutant unit
// conversion, reading normalization, and the US EPA breakpoint index engine.
//
// # Pollutants and Canonical Units
//
// The pollutant set is fixed: PM2.5, PM10, NO2, O3, CO, SO2. Every breakpoint
// table and feature column is defined against one canonical unit per pollutant:
//
//	pm25, pm10  →  µg/m³ (mass concentration)
//	o3, co      →  ppm   (mixing ratio)
//	so2, no2    →  ppb   (mixing ratio)
//
// Particulate readings are accepted in µg/m³ or mg/m³ only. Gaseous readings
// are additionally accepted in mass-concentration units; converting between
// mass concentration and mixing ratio uses the pollutant's molar mass and a
// molar volume of 24.45 L/mol, the EPA reference conditions of 25 °C and
// 1 atm. See [Convert].
//
// # Unit Spellings
//
// Declared unit strings arrive in several spellings ("µg/m³", "ug/m^3",
// "UG/M3", ...). They are folded to a canonical spelling before lookup:
// micro sign → "u", superscript ³ and "^3" → "3", case and surrounding
// whitespace ignored. An unrecognized spelling, or a unit outside the
// pollutant's accepted set, is an [UnsupportedUnitError].
//
// # Breakpoint Index
//
// Sub-indices follow the EPA piecewise-linear formula
//
//	I = Ilo + (Ihi-Ilo)/(Chi-Clo) · (C-Clo)
//
// over the published breakpoint tables. Concentrations are truncated to the
// pollutant's published precision before tier lookup (PM2.5 to 0.1 µg/m³,
// O3 to 0.001 ppm, ...), which closes the deliberate gaps between published
// tiers so every non-negative concentration resolves to exactly one tier.
// The final sub-index is rounded to the nearest integer, the EPA reporting
// convention for all pollutants. Concentrations above the top published tier
// extrapolate along the top tier's slope instead of failing, so extreme
// readings still produce an index (above 500).
//
// The ozone table is the 8-hour table with the published 1-hour upper ranges
// folded in as the top tiers. This is a fixed policy: table selection never
// depends on the request.
//
// # Overall AQI
//
// The overall AQI is the maximum sub-index over the pollutants with a present
// canonical concentration; the pollutant that achieves it is the dominant
// pollutant. A record with no present concentrations yields an explicitly
// undetermined result — never a numeric zero, since 0 is a valid AQI.
package domain
