// Package patching holds a small weather-report module used by the
// acceptance tests to exercise umock.Patch against a registered namespace.
package patching

import (
	"fmt"

	"github.com/ntoll/umock"
)

// FetchFunc returns the current temperature for a city.
type FetchFunc func(city string) (int, error)

// Namespace holds this module's patchable collaborators. The slot values
// are reached by descriptor, e.g. "uat.weather:fetch".
//
//nolint:gochecknoglobals // the registered namespace is the patch surface
var Namespace = map[string]any{
	"fetch": FetchFunc(fetchLive),
}

//nolint:gochecknoinits // namespace registration belongs with the namespace
func init() {
	umock.MustRegister("uat.weather", Namespace)
}

// fetchLive stands in for a real upstream call.
func fetchLive(string) (int, error) {
	return 21, nil
}

// Report formats a one-line weather report using whatever currently
// occupies the fetch slot: the live function, a patched-in FetchFunc, or a
// mock's bound Call method.
func Report(city string) (string, error) {
	var temperature int

	switch fetch := Namespace["fetch"].(type) {
	case FetchFunc:
		degrees, err := fetch(city)
		if err != nil {
			return "", err
		}

		temperature = degrees
	case func(args ...any) (any, error):
		result, err := fetch(city)
		if err != nil {
			return "", err
		}

		degrees, ok := result.(int)
		if !ok {
			return "", fmt.Errorf("fetch returned %T, want int", result)
		}

		temperature = degrees
	default:
		return "", fmt.Errorf("unusable fetch slot: %T", fetch)
	}

	return fmt.Sprintf("%s: %d degrees", city, temperature), nil
}
