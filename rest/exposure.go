package rest

import "net/http"

// HTTP methods accepted by Expose. ANY registers the route without a method
// restriction.
const (
	GET     = http.MethodGet
	POST    = http.MethodPost
	PUT     = http.MethodPut
	PATCH   = http.MethodPatch
	DELETE  = http.MethodDelete
	HEAD    = http.MethodHead
	OPTIONS = http.MethodOptions
	ANY     = "ANY"
)

// Exposure declares how a controller, or one of its methods, is mounted:
// HTTP method, path pattern, middleware and an optional route alias. The
// zero value means "not exposed"; build one through Expose. Path patterns
// are router patterns, with path parameters in {name} form.
type Exposure struct {
	method     string
	path       string
	middleware []Middleware
	alias      string
	declared   bool
}

type ExposeOption func(*Exposure)

func Expose(method, path string, opts ...ExposeOption) Exposure {
	e := Exposure{method: method, path: path, declared: true}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// WithMiddleware appends middleware to the exposure. Controller-level
// middleware always runs before method-level middleware.
func WithMiddleware(mw ...Middleware) ExposeOption {
	return func(e *Exposure) {
		e.middleware = append(e.middleware, mw...)
	}
}

// WithAlias names the route so it can be looked up after registration.
func WithAlias(name string) ExposeOption {
	return func(e *Exposure) {
		e.alias = name
	}
}

func (e Exposure) Method() string { return e.method }
func (e Exposure) Path() string   { return e.path }
func (e Exposure) Alias() string  { return e.alias }

// Declared reports whether the exposure was built through Expose; the zero
// Exposure is treated as absent by registration.
func (e Exposure) Declared() bool { return e.declared }

// Middleware returns a copy; exposures stay immutable after construction.
func (e Exposure) Middleware() []Middleware {
	if len(e.middleware) == 0 {
		return nil
	}
	out := make([]Middleware, len(e.middleware))
	copy(out, e.middleware)
	return out
}
