package grouplight

import "fmt"

// ValidatePalette checks a configured colour list.
//
// Each entry must be either a non-empty string (a symbolic colour name)
// or a non-empty list of numbers (an explicit component list such as an
// RGB triple or a hue/saturation pair). Anything else — bare numbers,
// maps, empty strings, empty lists — rejects the whole list on the first
// offending entry.
//
// Validation runs once at configuration load. It is pure: no side
// effects, no normalisation of the entries.
func ValidatePalette(colorList []any) error {
	if colorList == nil {
		return fmt.Errorf("%w: colour list is missing", ErrInvalidPalette)
	}

	for i, entry := range colorList {
		switch v := entry.(type) {
		case string:
			if v == "" {
				return fmt.Errorf("%w: entry %d is an empty string", ErrInvalidPalette, i)
			}
		case []any:
			if len(v) == 0 {
				return fmt.Errorf("%w: entry %d is an empty list", ErrInvalidPalette, i)
			}
			for j, comp := range v {
				if !isNumber(comp) {
					return fmt.Errorf("%w: entry %d component %d is not a number (got %T)",
						ErrInvalidPalette, i, j, comp)
				}
			}
		default:
			return fmt.Errorf("%w: entry %d must be a colour name or component list (got %T)",
				ErrInvalidPalette, i, entry)
		}
	}

	return nil
}

// isNumber reports whether a decoded YAML/JSON value is numeric.
// YAML decodes integers as int and floats as float64; JSON decodes
// everything as float64.
func isNumber(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	}
	return false
}
