package events

import (
	"fmt"
	"strconv"
	"time"
)

// Date formats accepted from the transport, tried in order
var dateFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// CoercePrice converts the transport representation of a price (number or
// numeric string) to a float64. Negative values are rejected here so the error
// names the field instead of surfacing as a generic validation failure.
func CoercePrice(value interface{}) (float64, error) {
	var price float64
	switch v := value.(type) {
	case float64:
		price = v
	case int:
		price = float64(v)
	case string:
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: price %q is not numeric", ErrInvalidInput, v)
		}
		price = parsed
	default:
		return 0, fmt.Errorf("%w: price has unsupported type %T", ErrInvalidInput, value)
	}
	if price < 0 {
		return 0, fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}
	return price, nil
}

// CoerceDate parses the transport date string into a UTC time. A bare date
// parses to midnight UTC.
func CoerceDate(value string) (time.Time, error) {
	for _, format := range dateFormats {
		if parsed, err := time.Parse(format, value); err == nil {
			return parsed.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: date %q must be ISO8601", ErrInvalidInput, value)
}
