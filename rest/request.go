package rest

import (
	"context"
	"net/http"

	"github.com/ctrlware/go-ctrl-boot/di"
)

// Request wraps the incoming http.Request together with the route's path
// parameters, the per-request injection cache, and the owning application's
// container. Controller methods receive it in place of the raw request.
type Request struct {
	raw        *http.Request
	params     map[string]string
	injections *Injections
	container  *di.Container
}

func NewRequest(r *http.Request, params map[string]string, inj *Injections, ctn *di.Container) *Request {
	if params == nil {
		params = map[string]string{}
	}
	if inj == nil {
		inj = NewInjections()
	}
	return &Request{raw: r, params: params, injections: inj, container: ctn}
}

// Raw returns the underlying http.Request.
func (r *Request) Raw() *http.Request { return r.raw }

func (r *Request) Context() context.Context { return r.raw.Context() }

// Param returns the named path parameter. A parameter present with an empty
// value still reports found; only a missing key does not.
func (r *Request) Param(name string) (string, bool) {
	v, ok := r.params[name]
	return v, ok
}

// Params returns a copy of all path parameters.
func (r *Request) Params() map[string]string {
	out := make(map[string]string, len(r.params))
	for k, v := range r.params {
		out[k] = v
	}
	return out
}

// Injections returns the per-request cache.
func (r *Request) Injections() *Injections { return r.injections }

// Container returns the owning application's dependency container.
func (r *Request) Container() *di.Container { return r.container }
