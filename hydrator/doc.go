// Package hydrator converts objects to field maps and back.
//
// Forms and fieldsets bound to an object use a hydrator to read the
// object's current values and to write submitted data back. Two hydrators
// are built in: ObjectProperty works on exported fields, ClassMethods on
// GetX/IsX/SetX methods. Both translate keys to snake_case unless the
// underscore_separated_keys option is false, in which case keys are
// lowerCamelCase.
package hydrator
