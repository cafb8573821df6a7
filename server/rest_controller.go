package server

import (
	"fmt"
	"net/http"
	"reflect"

	"github.com/ctrlware/go-ctrl-boot/di"
	"github.com/ctrlware/go-ctrl-boot/inject"
	"github.com/ctrlware/go-ctrl-boot/logger"
	"github.com/ctrlware/go-ctrl-boot/rest"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// ConfigurationError reports a controller that cannot be mounted: a missing
// class-level exposure, a route naming a method the controller does not have,
// or a parameter list the planner cannot compile. It is returned from Build
// before any listener accepts traffic, so a misconfigured controller stops
// the application from starting instead of failing on its first request.
type ConfigurationError struct {
	Controller string
	Reason     string
	Err        error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("controller %s: %s: %v", e.Controller, e.Reason, e.Err)
	}
	return fmt.Sprintf("controller %s: %s", e.Controller, e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// protocolMembers are method names every object carries for printing,
// comparison or dynamic dispatch. They never become routes, no matter what a
// Routes() declaration says.
var protocolMembers = map[string]struct{}{
	"String":       {},
	"GoString":     {},
	"Error":        {},
	"Equal":        {},
	"ToString":     {},
	"NoSuchMethod": {},
	"Call":         {},
}

// controllerRecord is the frozen registration record for one controller: the
// mounted sub-router, the controller-level exposure and the compiled plans
// per handler method. A handler may serve several routes (say GET and POST
// of one path), so each name maps to every plan mounted for it. Records are
// built once during Build and only read afterwards, so request handling
// needs no locks.
type controllerRecord struct {
	name     string
	exposure rest.Exposure
	sub      *mux.Router
	plans    map[string][]*inject.Plan
}

// routeCount is the number of mounted routes, across all handlers.
func (r *controllerRecord) routeCount() int {
	n := 0
	for _, ps := range r.plans {
		n += len(ps)
	}
	return n
}

// routable is the single router operation registration performs. Production
// code mounts onto a gorilla sub-router; tests substitute a recorder.
type routable interface {
	addRoute(httpMethod, path string, h http.Handler, mw []rest.Middleware, alias string)
}

type muxRoutable struct {
	sub *mux.Router
}

func (m *muxRoutable) addRoute(httpMethod, path string, h http.Handler, mw []rest.Middleware, alias string) {
	r := m.sub.Handle(path, rest.Chain(h, mw...))
	if httpMethod != "" && httpMethod != rest.ANY {
		r.Methods(httpMethod)
	}
	if alias != "" {
		r.Name(alias)
	}
}

// compiledRoute pairs a declared route with its plan and handler. Routes are
// compiled into this form first and mounted only after the whole controller
// validated, so a configuration error never leaves a half-registered tree.
type compiledRoute struct {
	route   rest.Route
	plan    *inject.Plan
	handler http.Handler
}

// attachController validates and mounts one controller under root. All routes
// are compiled before anything touches the router.
func attachController(root *mux.Router, ctn *di.Container, c rest.Controller) (*controllerRecord, error) {
	name := controllerName(c)

	exposure := c.Exposure()
	if !exposure.Declared() {
		return nil, &ConfigurationError{Controller: name, Reason: "controller-level exposure is not declared"}
	}

	compiled, err := compileRoutes(name, c, ctn)
	if err != nil {
		return nil, err
	}

	sub := root.PathPrefix(exposure.Path()).Subrouter()
	for _, mw := range exposure.Middleware() {
		sub.Use(mux.MiddlewareFunc(mw))
	}

	rec := &controllerRecord{
		name:     name,
		exposure: exposure,
		sub:      sub,
		plans:    make(map[string][]*inject.Plan, len(compiled)),
	}
	mountRoutes(&muxRoutable{sub: sub}, rec, compiled)
	return rec, nil
}

// compileRoutes resolves every declared route against the controller value:
// protocol members are skipped, undeclared exposures are skipped, everything
// else must name an exported method whose signature accepts the compiled plan.
func compileRoutes(name string, c rest.Controller, ctn *di.Container) ([]compiledRoute, error) {
	cv := reflect.ValueOf(c)
	var out []compiledRoute

	for _, route := range c.Routes() {
		if !route.Exposure.Declared() {
			continue
		}
		if _, blocked := protocolMembers[route.Handler]; blocked {
			logger.Debug("skipping object-protocol member",
				zap.String("controller", name), zap.String("method", route.Handler))
			continue
		}

		m := cv.MethodByName(route.Handler)
		if !m.IsValid() {
			return nil, &ConfigurationError{
				Controller: name,
				Reason:     fmt.Sprintf("route %q names no exported method", route.Handler),
			}
		}

		plan, err := inject.Compile(route.Params)
		if err != nil {
			return nil, &ConfigurationError{
				Controller: name,
				Reason:     fmt.Sprintf("route %q", route.Handler),
				Err:        err,
			}
		}
		if err := inject.CheckSignature(m.Type(), plan); err != nil {
			return nil, &ConfigurationError{
				Controller: name,
				Reason:     fmt.Sprintf("route %q signature", route.Handler),
				Err:        err,
			}
		}

		out = append(out, compiledRoute{route: route, plan: plan, handler: routeHandler(m, plan, ctn)})
	}
	return out, nil
}

func mountRoutes(rt routable, rec *controllerRecord, compiled []compiledRoute) {
	for _, cr := range compiled {
		exp := cr.route.Exposure
		rt.addRoute(exp.Method(), exp.Path(), cr.handler, exp.Middleware(), exp.Alias())
		rec.plans[cr.route.Handler] = append(rec.plans[cr.route.Handler], cr.plan)
	}
}

func controllerName(c rest.Controller) string {
	t := reflect.TypeOf(c)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Name() == "" {
		return t.String()
	}
	return t.Name()
}
