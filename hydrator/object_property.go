package hydrator

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/go-viper/mapstructure/v2"
)

// ObjectProperty reads and writes exported struct fields.
type ObjectProperty struct {
	underscore bool
}

// NewObjectProperty returns an ObjectProperty hydrator. Keys are lowerCamel
// unless underscore is set.
func NewObjectProperty(underscore bool) *ObjectProperty {
	return &ObjectProperty{underscore: underscore}
}

// Extract implements Hydrator.
func (h *ObjectProperty) Extract(obj any) (map[string]any, error) {
	if err := requireStruct(obj, false); err != nil {
		return nil, err
	}

	raw := make(map[string]any)
	if err := mapstructure.Decode(obj, &raw); err != nil {
		return nil, fmt.Errorf("extract %T: %w", obj, err)
	}

	return renameKeys(raw, keyFunc(h.underscore)), nil
}

// Hydrate implements Hydrator.
func (h *ObjectProperty) Hydrate(data map[string]any, obj any) error {
	if err := requireStruct(obj, true); err != nil {
		return err
	}

	if err := decodeInto(data, obj); err != nil {
		return fmt.Errorf("hydrate %T: %w", obj, err)
	}

	return nil
}

func renameKeys(m map[string]any, key func(string) string) map[string]any {
	out := make(map[string]any, len(m))

	for k, v := range m {
		if nested, ok := v.(map[string]any); ok {
			v = renameKeys(nested, key)
		}

		out[key(k)] = v
	}

	return out
}

var errNotStruct = errors.New("hydrator: object must be a struct or a pointer to a struct")

func requireStruct(obj any, pointer bool) error {
	if obj == nil {
		return errNotStruct
	}

	t := reflect.TypeOf(obj)
	if t.Kind() == reflect.Pointer {
		if reflect.ValueOf(obj).IsNil() {
			return errNotStruct
		}

		t = t.Elem()
	} else if pointer {
		return errors.New("hydrator: object must be a pointer to a struct")
	}

	if t.Kind() != reflect.Struct {
		return errNotStruct
	}

	return nil
}
