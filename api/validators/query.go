package validators

import (
	"net/url"
	"strconv"
	"strings"

	pkgerrors "github.com/zora-fashion/storefront/pkg/errors"
)

// IntBounds describes an optional integer query parameter.
type IntBounds struct {
	Default int
	Min     int
	Max     int
}

// QueryInt reads key from values. A missing or blank value yields b.Default; anything that is
// not an integer within [b.Min, b.Max] is a validation error naming the field.
func QueryInt(values url.Values, key string, b IntBounds) (int, error) {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return b.Default, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be numeric").
			WithDetails(map[string]any{"field": key})
	}
	if value < b.Min || value > b.Max {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter out of range").
			WithDetails(map[string]any{"field": key, "min": b.Min, "max": b.Max})
	}
	return value, nil
}
