package services

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

// ErrInvalidUpdates is returned when an update names a field that may not be
// changed or carries a value of the wrong type.
var ErrInvalidUpdates = errors.New("invalid updates")

// checkAllowed rejects updates containing keys outside allowed.
func checkAllowed(updates map[string]any, allowed ...string) error {
	permitted := make(map[string]struct{}, len(allowed))
	for _, key := range allowed {
		permitted[key] = struct{}{}
	}

	var rejected []string
	for key := range updates {
		if _, ok := permitted[key]; !ok {
			rejected = append(rejected, key)
		}
	}
	if len(rejected) > 0 {
		sort.Strings(rejected)
		return fmt.Errorf("%w: %s", ErrInvalidUpdates, strings.Join(rejected, ", "))
	}
	return nil
}

func stringField(updates map[string]any, key string) (string, bool, error) {
	raw, ok := updates[key]
	if !ok {
		return "", false, nil
	}
	value, ok := raw.(string)
	if !ok {
		return "", false, fmt.Errorf("%w: %s must be a string", ErrInvalidUpdates, key)
	}
	return value, true, nil
}

func boolField(updates map[string]any, key string) (bool, bool, error) {
	raw, ok := updates[key]
	if !ok {
		return false, false, nil
	}
	value, ok := raw.(bool)
	if !ok {
		return false, false, fmt.Errorf("%w: %s must be a boolean", ErrInvalidUpdates, key)
	}
	return value, true, nil
}

// intField accepts JSON numbers without a fractional part.
func intField(updates map[string]any, key string) (int, bool, error) {
	raw, ok := updates[key]
	if !ok {
		return 0, false, nil
	}
	value, ok := raw.(float64)
	if !ok || value != math.Trunc(value) || math.Abs(value) > math.MaxInt32 {
		return 0, false, fmt.Errorf("%w: %s must be an integer", ErrInvalidUpdates, key)
	}
	return int(value), true, nil
}
