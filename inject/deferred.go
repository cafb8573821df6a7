package inject

import (
	"context"
	"reflect"
)

// IsDeferred reports whether a handler result is a pending asynchronous
// channel in the async.Result shape: a receivable channel of a two-field
// struct {Data T; Err error}. Detection is structural so the check does not
// couple the binder to the async package.
func IsDeferred(result any) bool {
	if result == nil {
		return false
	}
	t := reflect.TypeOf(result)
	if t.Kind() != reflect.Chan || t.ChanDir()&reflect.RecvDir == 0 {
		return false
	}
	return isResultStruct(t.Elem())
}

func isResultStruct(t reflect.Type) bool {
	if t.Kind() != reflect.Struct || t.NumField() != 2 {
		return false
	}
	if _, ok := t.FieldByName("Data"); !ok {
		return false
	}
	errField, ok := t.FieldByName("Err")
	return ok && errField.Type == errorType
}

// AwaitResult waits for a deferred handler result or for ctx cancellation,
// whichever comes first. A cancellation observed while awaiting is returned
// to the dispatcher, never swallowed.
func AwaitResult(ctx context.Context, result any) (any, error) {
	v := reflect.ValueOf(result)

	chosen, recv, ok := reflect.Select([]reflect.SelectCase{
		{Dir: reflect.SelectRecv, Chan: v},
		{Dir: reflect.SelectRecv, Chan: reflect.ValueOf(ctx.Done())},
	})
	if chosen == 1 {
		return nil, ctx.Err()
	}
	if !ok {
		return nil, nil // closed without a value
	}

	if errField := recv.FieldByName("Err"); !errField.IsNil() {
		return nil, errField.Interface().(error)
	}
	return recv.FieldByName("Data").Interface(), nil
}
