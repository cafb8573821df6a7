package rest

import "reflect"

// Param describes one declared parameter of a controller method: its name
// and its declared type. A nil Type is the dynamic sentinel, resolved by
// name at request time. Go has no runtime access to parameter names, so
// controllers declare these explicitly per route.
type Param struct {
	Name string
	Type reflect.Type
}

// Typed declares a parameter with a concrete type. The name may be empty
// for a pure container-resolved dependency.
func Typed[T any](name string) Param {
	return Param{Name: name, Type: reflect.TypeOf((*T)(nil)).Elem()}
}

// Dynamic declares an untyped parameter resolved by name, first from path
// parameters, then from the per-request injection cache.
func Dynamic(name string) Param {
	return Param{Name: name}
}

// Req is the request-object parameter.
func Req() Param {
	return Param{Name: "req", Type: reflect.TypeOf(&Request{})}
}

// Res is the response-object parameter.
func Res() Param {
	return Param{Name: "res", Type: reflect.TypeOf(&Response{})}
}
