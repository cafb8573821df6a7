package di

import (
	"fmt"
	"reflect"
	"sort"
	"sync"
)

// Dependency injection container for go-ctrl-boot.
//
// Registration happens during application assembly, single-threaded.
// Resolution is also reachable from in-flight requests (typed controller
// parameters resolve through Make), so lookups take a lock; singletons are
// memoised the first time a provider runs.
type Container struct {
	mu         sync.RWMutex
	singletons map[reflect.Type]reflect.Value
	providers  map[reflect.Type]reflect.Value // func(deps...) T
	resolving  map[reflect.Type]bool
}

func New() *Container {
	return &Container{
		singletons: make(map[reflect.Type]reflect.Value),
		providers:  make(map[reflect.Type]reflect.Value),
		resolving:  make(map[reflect.Type]bool),
	}
}

// Provide registers value as the singleton for its concrete type.
func (c *Container) Provide(value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.singletons[reflect.TypeOf(value)] = reflect.ValueOf(value)
}

// ProvideAs registers value under the interface type pointed to by ifacePtr,
// e.g. ProvideAs(client, (*MongoClient)(nil)).
func (c *Container) ProvideAs(value any, ifacePtr any) error {
	pt := reflect.TypeOf(ifacePtr)
	if pt == nil || pt.Kind() != reflect.Ptr || pt.Elem().Kind() != reflect.Interface {
		return fmt.Errorf("ProvideAs: second argument must be a pointer to an interface, got %v", pt)
	}

	iface := pt.Elem()
	vt := reflect.TypeOf(value)
	if vt == nil || !vt.Implements(iface) {
		return fmt.Errorf("ProvideAs: %v does not implement %v", vt, iface)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.singletons[iface] = reflect.ValueOf(value)
	return nil
}

// ProvideFunc registers a provider function. Its single return type becomes
// resolvable; parameters are resolved recursively when the provider runs.
func (c *Container) ProvideFunc(fn any) error {
	ft := reflect.TypeOf(fn)
	if ft == nil || ft.Kind() != reflect.Func {
		return fmt.Errorf("ProvideFunc: expected a function, got %v", ft)
	}
	if ft.NumOut() != 1 {
		return fmt.Errorf("ProvideFunc: provider must return exactly one value, got %d", ft.NumOut())
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.providers[ft.Out(0)] = reflect.ValueOf(fn)
	return nil
}

// Resolve returns the value registered or provided for t.
func (c *Container) Resolve(t reflect.Type) (reflect.Value, error) {
	c.mu.RLock()
	v, ok := c.singletons[t]
	c.mu.RUnlock()
	if ok {
		return v, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resolveLocked(t)
}

func (c *Container) resolveLocked(t reflect.Type) (reflect.Value, error) {
	if v, ok := c.singletons[t]; ok {
		return v, nil
	}
	if c.resolving[t] {
		return reflect.Value{}, &CircularDependencyError{Type: t}
	}

	p, ok := c.providers[t]
	if !ok {
		return reflect.Value{}, &NoProviderError{Type: t}
	}

	c.resolving[t] = true
	defer delete(c.resolving, t)

	args := make([]reflect.Value, p.Type().NumIn())
	for i := range args {
		v, err := c.resolveLocked(p.Type().In(i))
		if err != nil {
			return v, err
		}
		args[i] = v
	}
	v := p.Call(args)[0]
	c.singletons[t] = v // memoise
	return v, nil
}

// Make produces a value of type t, consulting the contextual bindings first.
// A binding whose dynamic type is assignable to t wins over any registered
// provider; keys are scanned in sorted order so the outcome is deterministic.
// With no contextual match it falls back to Resolve.
func (c *Container) Make(t reflect.Type, injecting map[string]any) (any, error) {
	if len(injecting) > 0 {
		keys := make([]string, 0, len(injecting))
		for k := range injecting {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			v := injecting[k]
			if v == nil {
				continue
			}
			if reflect.TypeOf(v).AssignableTo(t) {
				return v, nil
			}
		}
	}

	v, err := c.Resolve(t)
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

// Call invokes fn with every parameter resolved from the container. Used for
// controller and activity factories.
func (c *Container) Call(fn any) ([]reflect.Value, error) {
	fv := reflect.ValueOf(fn)
	ft := fv.Type()
	if ft.Kind() != reflect.Func {
		return nil, fmt.Errorf("Call: expected a function, got %v", ft)
	}

	args := make([]reflect.Value, ft.NumIn())
	for i := range args {
		v, err := c.Resolve(ft.In(i))
		if err != nil {
			return nil, fmt.Errorf("resolving argument %d of %v: %w", i, ft, err)
		}
		args[i] = v
	}
	return fv.Call(args), nil
}
