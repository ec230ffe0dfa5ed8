package hydrator

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"

	"formspec/internal/naming"
)

// Hydrator converts between an object and a map of its values.
type Hydrator interface {
	Extract(obj any) (map[string]any, error)
	Hydrate(data map[string]any, obj any) error
}

// Options are the options understood by the built-in hydrators.
type Options struct {
	UnderscoreSeparatedKeys *bool `mapstructure:"underscore_separated_keys"`
}

// DecodeOptions decodes a raw option map. Unknown options are an error.
func DecodeOptions(raw map[string]any) (Options, error) {
	var opts Options
	if len(raw) == 0 {
		return opts, nil
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &opts,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return opts, err
	}

	if err := dec.Decode(raw); err != nil {
		return opts, fmt.Errorf("decode hydrator options: %w", err)
	}

	return opts, nil
}

// keyFunc translates a Go identifier into an extracted key.
func keyFunc(underscore bool) func(string) string {
	if underscore {
		return naming.Snake
	}

	return naming.LowerCamel
}

// matchName compares a data key with a field or method name regardless of
// case and separators.
func matchName(key, name string) bool {
	return naming.Normalize(key) == naming.Normalize(name)
}

// decodeInto decodes data into result, matching keys loosely.
func decodeInto(data any, result any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           result,
		WeaklyTypedInput: true,
		MatchName:        matchName,
		Squash:           true,
	})
	if err != nil {
		return err
	}

	return dec.Decode(data)
}
