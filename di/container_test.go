package di

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

// ─── simple types used in tests ───────────────────────────────────────────────
type cache struct{ id int }
type repo struct{ dep *cache }
type svc struct{}

type greeter interface{ Greet() string }

type englishGreeter struct{}

func (englishGreeter) Greet() string { return "hello" }

// ──────────────────────────────────────────────────────────────────────────────
// 1. singleton resolution
// ──────────────────────────────────────────────────────────────────────────────
func TestContainer_ResolveSingleton(t *testing.T) {
	c := New()

	orig := &cache{id: 42}
	c.Provide(orig)

	v, err := c.Resolve(reflect.TypeOf(orig))
	if err != nil {
		t.Fatalf("resolve returned error: %v", err)
	}
	got := v.Interface().(*cache)

	if got != orig {
		t.Fatalf("resolve returned %p, want %p (same singleton)", got, orig)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// 2. interface binding
// ──────────────────────────────────────────────────────────────────────────────
func TestContainer_ProvideAs(t *testing.T) {
	c := New()

	if err := c.ProvideAs(englishGreeter{}, (*greeter)(nil)); err != nil {
		t.Fatalf("ProvideAs error: %v", err)
	}

	v, err := c.Resolve(reflect.TypeOf((*greeter)(nil)).Elem())
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}
	if v.Interface().(greeter).Greet() != "hello" {
		t.Fatalf("wrong implementation bound")
	}
}

func TestContainer_ProvideAsRejectsNonInterface(t *testing.T) {
	c := New()

	err := c.ProvideAs(englishGreeter{}, &cache{})
	assert.Error(t, err)

	err = c.ProvideAs(&cache{}, (*greeter)(nil))
	assert.Error(t, err, "value must implement the interface")
}

// ──────────────────────────────────────────────────────────────────────────────
// 3. provider without deps
// ──────────────────────────────────────────────────────────────────────────────
func TestContainer_ResolveProvider(t *testing.T) {
	c := New()

	if err := c.ProvideFunc(func() *cache { return &cache{id: 7} }); err != nil {
		t.Fatalf("ProvideFunc error: %v", err)
	}

	v, err := c.Resolve(reflect.TypeOf(&cache{}))
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}
	got := v.Interface().(*cache)
	if got.id != 7 {
		t.Fatalf("unexpected value: %+v", got)
	}

	// provider result must be memoised → second resolve same pointer
	v2, _ := c.Resolve(reflect.TypeOf(&cache{}))
	if got != v2.Interface().(*cache) {
		t.Fatalf("provider result not cached; got two distinct pointers")
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// 4. provider with nested dependency
// ──────────────────────────────────────────────────────────────────────────────
func TestContainer_ResolveNestedProvider(t *testing.T) {
	c := New()

	_ = c.ProvideFunc(func() *cache { return &cache{id: 11} })
	_ = c.ProvideFunc(func(dep *cache) *repo { return &repo{dep: dep} })

	v, err := c.Resolve(reflect.TypeOf(&repo{}))
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}
	r := v.Interface().(*repo)

	if r.dep == nil || r.dep.id != 11 {
		t.Fatalf("nested dependency not injected: %+v", r)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// 5. missing provider / singleton should error
// ──────────────────────────────────────────────────────────────────────────────
func TestContainer_ResolveMissing(t *testing.T) {
	c := New()

	_, err := c.Resolve(reflect.TypeOf(&svc{}))
	if err == nil {
		t.Fatalf("expected error for missing provider")
	}

	var npe *NoProviderError
	if !errors.As(err, &npe) {
		t.Fatalf("want NoProviderError, got %T", err)
	}
	if npe.Type != reflect.TypeOf(&svc{}) {
		t.Fatalf("error carries wrong type: %v", npe.Type)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// 6. circular providers should error, not hang
// ──────────────────────────────────────────────────────────────────────────────
func TestContainer_ResolveCycle(t *testing.T) {
	c := New()

	_ = c.ProvideFunc(func(r *repo) *cache { return &cache{} })
	_ = c.ProvideFunc(func(a *cache) *repo { return &repo{} })

	_, err := c.Resolve(reflect.TypeOf(&cache{}))

	var cde *CircularDependencyError
	if !errors.As(err, &cde) {
		t.Fatalf("want CircularDependencyError, got %v", err)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// 7. Make: contextual bindings beat providers, sorted-key determinism
// ──────────────────────────────────────────────────────────────────────────────
func TestContainer_MakeContextualBinding(t *testing.T) {
	c := New()
	_ = c.ProvideFunc(func() *cache { return &cache{id: 1} })

	fromRequest := &cache{id: 99}
	got, err := c.Make(reflect.TypeOf(&cache{}), map[string]any{"session": fromRequest})
	if err != nil {
		t.Fatalf("make error: %v", err)
	}
	if got.(*cache) != fromRequest {
		t.Fatalf("contextual binding should win over provider")
	}
}

func TestContainer_MakeIsDeterministicAcrossKeys(t *testing.T) {
	c := New()

	first := &cache{id: 1}
	second := &cache{id: 2}

	// both values assignable; lexicographically smaller key must win
	for i := 0; i < 10; i++ {
		got, err := c.Make(reflect.TypeOf(&cache{}), map[string]any{
			"b-key": second,
			"a-key": first,
		})
		if err != nil {
			t.Fatalf("make error: %v", err)
		}
		if got.(*cache) != first {
			t.Fatalf("iteration %d: want value under a-key, got %+v", i, got)
		}
	}
}

func TestContainer_MakeFallsBackToResolve(t *testing.T) {
	c := New()
	_ = c.ProvideFunc(func() *cache { return &cache{id: 5} })

	got, err := c.Make(reflect.TypeOf(&cache{}), map[string]any{"unrelated": "text"})
	if err != nil {
		t.Fatalf("make error: %v", err)
	}
	if got.(*cache).id != 5 {
		t.Fatalf("expected provider fallback, got %+v", got)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// 8. Call: factory invocation with resolved args
// ──────────────────────────────────────────────────────────────────────────────
func TestContainer_CallResolvesFactoryArgs(t *testing.T) {
	c := New()
	c.Provide(&cache{id: 3})

	out, err := c.Call(func(dep *cache) *repo { return &repo{dep: dep} })
	if err != nil {
		t.Fatalf("call error: %v", err)
	}
	r := out[0].Interface().(*repo)
	if r.dep == nil || r.dep.id != 3 {
		t.Fatalf("factory args not resolved: %+v", r)
	}
}

func TestContainer_CallUnresolvableArg(t *testing.T) {
	c := New()

	_, err := c.Call(func(dep *svc) *repo { return nil })
	assert.Error(t, err)
}
