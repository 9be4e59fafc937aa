package media

import "strconv"

// The merge helpers implement the partial-update contract: an absent or
// empty client value retains the stored value. This mirrors the source
// system, where falsy form fields never overwrite.

func mergeString(existing, incoming string) string {
	if incoming == "" {
		return existing
	}
	return incoming
}

func mergeCoordinate(existing *float64, incoming string) *float64 {
	if incoming == "" {
		return existing
	}
	if parsed := parseCoordinate(incoming); parsed != nil {
		return parsed
	}
	return existing
}

// parseCoordinate parses a form-supplied coordinate. Unparseable values
// degrade to nil rather than failing the request.
func parseCoordinate(value string) *float64 {
	if value == "" {
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil
	}
	return &f
}
