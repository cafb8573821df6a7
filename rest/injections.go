package rest

import (
	"context"
	"net/http"
	"sync"
)

// Injections is the per-request cache of already-resolved values. Middleware
// writes into it (auth claims, request ids); named-source resolution and
// container contextual bindings read from it. One instance exists per
// request, so the lock only guards against middleware running on spawned
// goroutines.
type Injections struct {
	mu     sync.RWMutex
	values map[string]any
}

func NewInjections() *Injections {
	return &Injections{values: make(map[string]any)}
}

func (i *Injections) Set(key string, value any) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.values[key] = value
}

func (i *Injections) Get(key string) (any, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	v, ok := i.values[key]
	return v, ok
}

// Snapshot returns a copy of the cache, used as contextual bindings for
// container resolution. Mutating the copy does not touch the cache.
func (i *Injections) Snapshot() map[string]any {
	i.mu.RLock()
	defer i.mu.RUnlock()

	out := make(map[string]any, len(i.values))
	for k, v := range i.values {
		out[k] = v
	}
	return out
}

type injectionsKey struct{}

// WithInjections installs a fresh cache on the context. The server does this
// before any user middleware runs.
func WithInjections(ctx context.Context) context.Context {
	return context.WithValue(ctx, injectionsKey{}, NewInjections())
}

// InjectionsFrom returns the cache installed on ctx, or nil.
func InjectionsFrom(ctx context.Context) *Injections {
	inj, _ := ctx.Value(injectionsKey{}).(*Injections)
	return inj
}

// Inject stores a value in the request's injection cache, for use from
// plain http middleware. A request without a cache (handler mounted outside
// a go-ctrl-boot server) is left untouched.
func Inject(r *http.Request, key string, value any) {
	if inj := InjectionsFrom(r.Context()); inj != nil {
		inj.Set(key, value)
	}
}
