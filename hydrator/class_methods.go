package hydrator

import (
	"fmt"
	"reflect"
	"strings"
)

// ClassMethods reads values through GetX and IsX methods and writes them
// through SetX methods.
type ClassMethods struct {
	underscore bool
}

// NewClassMethods returns a ClassMethods hydrator. Keys are snake_case
// unless underscore is false.
func NewClassMethods(underscore bool) *ClassMethods {
	return &ClassMethods{underscore: underscore}
}

// Extract implements Hydrator.
func (h *ClassMethods) Extract(obj any) (map[string]any, error) {
	if err := requireStruct(obj, false); err != nil {
		return nil, err
	}

	key := keyFunc(h.underscore)
	v := reflect.ValueOf(obj)
	t := v.Type()
	out := make(map[string]any)

	for i := range t.NumMethod() {
		m := t.Method(i)

		// receiver plus no arguments, one result
		if m.Type.NumIn() != 1 || m.Type.NumOut() != 1 {
			continue
		}

		var prop string

		switch {
		case strings.HasPrefix(m.Name, "Get") && len(m.Name) > 3:
			prop = m.Name[3:]
		case strings.HasPrefix(m.Name, "Is") && len(m.Name) > 2 && m.Type.Out(0).Kind() == reflect.Bool:
			prop = m.Name[2:]
		default:
			continue
		}

		out[key(prop)] = v.Method(i).Call(nil)[0].Interface()
	}

	return out, nil
}

// Hydrate implements Hydrator. Keys without a matching setter are ignored.
func (h *ClassMethods) Hydrate(data map[string]any, obj any) error {
	if err := requireStruct(obj, true); err != nil {
		return err
	}

	v := reflect.ValueOf(obj)
	t := v.Type()

	for k, raw := range data {
		for i := range t.NumMethod() {
			m := t.Method(i)
			if !strings.HasPrefix(m.Name, "Set") || m.Type.NumIn() != 2 || !matchName(k, m.Name[3:]) {
				continue
			}

			arg := reflect.New(m.Type.In(1))
			if err := decodeInto(raw, arg.Interface()); err != nil {
				return fmt.Errorf("hydrate %T.%s: %w", obj, m.Name, err)
			}

			v.Method(i).Call([]reflect.Value{arg.Elem()})

			break
		}
	}

	return nil
}
