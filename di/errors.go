package di

import (
	"fmt"
	"reflect"
)

// NoProviderError is returned when neither a singleton nor a provider is
// registered for the requested type.
type NoProviderError struct {
	Type reflect.Type
}

func (e *NoProviderError) Error() string {
	return fmt.Sprintf("no provider for %v", e.Type)
}

// CircularDependencyError is returned when provider resolution re-enters a
// type that is already being resolved.
type CircularDependencyError struct {
	Type reflect.Type
}

func (e *CircularDependencyError) Error() string {
	return fmt.Sprintf("circular dependency while resolving %v", e.Type)
}
