package domain

import "fmt"

// UnsupportedUnitError reports a declared unit outside the pollutant's
// accepted set. It is a client input error: no conversion is attempted.
type UnsupportedUnitError struct {
	Pollutant Pollutant
	Unit      string
}

func (e *UnsupportedUnitError) Error() string {
	return fmt.Sprintf("unsupported unit %q for pollutant %s", e.Unit, e.Pollutant)
}

// InvalidReadingError reports a supplied concentration that is negative or
// non-finite. It is a client input error: no partial record is produced.
type InvalidReadingError struct {
	Pollutant Pollutant
	Value     float64
}

func (e *InvalidReadingError) Error() string {
	return fmt.Sprintf("invalid concentration %g for pollutant %s", e.Value, e.Pollutant)
}
