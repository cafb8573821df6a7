package inject

import (
	"fmt"
	"reflect"

	"github.com/ctrlware/go-ctrl-boot/rest"
)

var (
	errorType  = reflect.TypeOf((*error)(nil)).Elem()
	anyType    = reflect.TypeOf((*any)(nil)).Elem()
	stringType = reflect.TypeOf("")
)

// Invoke binds the plan and calls fn with the resolved arguments applied
// positionally. The raw result is returned: a pending async channel is not
// awaited here, the dispatcher does that through AwaitResult so cancellation
// stays in its hands.
func Invoke(fn reflect.Value, p *Plan, req *rest.Request, res *rest.Response) (any, error) {
	args, err := Bind(p, req, res)
	if err != nil {
		return nil, err
	}

	ft := fn.Type()
	if ft.NumIn() != len(args) {
		return nil, fmt.Errorf("handler takes %d arguments, plan resolved %d", ft.NumIn(), len(args))
	}

	in := make([]reflect.Value, len(args))
	for i, a := range args {
		v, err := conform(a, ft.In(i))
		if err != nil {
			// a resolved value the slot cannot accept means the request
			// carried the wrong shape, not that the server is broken
			return nil, &UnresolvedParameterError{
				Name:  p.nameAt(i),
				cause: fmt.Errorf("parameter %d: %w", i, err),
			}
		}
		in[i] = v
	}

	return interpretReturn(fn.Call(in))
}

// CheckSignature verifies at registration time that a handler's Go
// signature can accept what its plan resolves. Everything statically
// knowable is rejected here; what depends on per-request data (the concrete
// type behind a named lookup) is left to the conform step in Invoke.
func CheckSignature(ft reflect.Type, p *Plan) error {
	if ft.Kind() != reflect.Func {
		return fmt.Errorf("handler is %v, not a func", ft)
	}
	if err := checkReturnShape(ft); err != nil {
		return err
	}

	if p.Noop() {
		if ft.NumIn() != 2 || ft.In(0) != requestType || ft.In(1) != responseType {
			return fmt.Errorf("passthrough handler must take (*rest.Request, *rest.Response), got %v", ft)
		}
		return nil
	}

	if ft.NumIn() != len(p.steps) {
		return fmt.Errorf("handler takes %d parameters, plan resolves %d", ft.NumIn(), len(p.steps))
	}
	for i, ins := range p.steps {
		if err := checkSlot(ins, ft.In(i)); err != nil {
			return fmt.Errorf("parameter %d: %w", i, err)
		}
	}
	return nil
}

func checkSlot(ins instruction, pt reflect.Type) error {
	switch ins := ins.(type) {
	case fromRequest:
		if pt != requestType {
			return fmt.Errorf("resolves to *rest.Request, handler wants %v", pt)
		}
	case fromResponse:
		if pt != responseType {
			return fmt.Errorf("resolves to *rest.Response, handler wants %v", pt)
		}
	case fromContainer:
		if pt != anyType && !ins.typ.AssignableTo(pt) {
			return fmt.Errorf("container builds %v, handler wants %v", ins.typ, pt)
		}
	case fallback:
		// the named branch's type is per-request; the slot is viable if it
		// can take a path string, the container branch's type, or anything
		ok := pt == anyType || pt == stringType
		for _, child := range ins.children {
			if c, isCtn := child.(fromContainer); isCtn && c.typ.AssignableTo(pt) {
				ok = true
			}
		}
		if !ok {
			return fmt.Errorf("no fallback branch can produce %v", pt)
		}
	case fromNamed:
		// any pt is viable: middleware may inject a value of exactly pt
	}
	return nil
}

func checkReturnShape(ft reflect.Type) error {
	switch ft.NumOut() {
	case 0, 1:
		return nil
	case 2:
		if ft.Out(1) != errorType {
			return fmt.Errorf("second return value must be error, got %v", ft.Out(1))
		}
		return nil
	default:
		return fmt.Errorf("handler returns %d values, at most two supported", ft.NumOut())
	}
}

func conform(a any, pt reflect.Type) (reflect.Value, error) {
	if a == nil {
		switch pt.Kind() {
		case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
			return reflect.Zero(pt), nil
		}
		return reflect.Value{}, fmt.Errorf("nil value for non-nilable %v", pt)
	}

	av := reflect.ValueOf(a)
	if av.Type().AssignableTo(pt) {
		return av, nil
	}
	return reflect.Value{}, fmt.Errorf("resolved %T, handler wants %v", a, pt)
}

func interpretReturn(out []reflect.Value) (any, error) {
	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		v := out[0]
		if v.Type() == errorType {
			if v.IsNil() {
				return nil, nil
			}
			return nil, v.Interface().(error)
		}
		return v.Interface(), nil
	case 2:
		if !out[1].IsNil() {
			return nil, out[1].Interface().(error)
		}
		return out[0].Interface(), nil
	default:
		return nil, fmt.Errorf("unsupported return shape: %d values", len(out))
	}
}
