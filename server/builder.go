package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"reflect"
	"time"

	"github.com/ctrlware/go-ctrl-boot/di"
	"github.com/ctrlware/go-ctrl-boot/logger"
	"github.com/ctrlware/go-ctrl-boot/rest"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"go.uber.org/zap"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// ─── public fluent builder ───────────────────────────────────
type Builder struct {
	httpPort    string
	staticDir   string
	sslProvider SSLProvider
	h2cEnabled  bool

	cors   *cors.Cors
	rootMW []rest.Middleware
	extra  map[string]http.HandlerFunc

	ctn         *di.Container
	controllers []any

	// temporal worker for DI
	taskQueue          string
	activityRegs       []reflect.Value
	workflowRegs       []interface{}
	temporalClientOpts *client.Options
}

func New() *Builder {
	return &Builder{
		cors:  cors.AllowAll(),
		extra: map[string]http.HandlerFunc{},
		ctn:   di.New(),
	}
}

// HTTPPort sets the listen address, e.g. ":8080".
func (b *Builder) HTTPPort(p string) *Builder { b.httpPort = p; return b }

// StaticDir serves files from dir under /static/.
func (b *Builder) StaticDir(d string) *Builder { b.staticDir = d; return b }

// EnableSSL installs a certificate provider; the server then serves TLS.
func (b *Builder) EnableSSL(p SSLProvider) *Builder { b.sslProvider = p; return b }

// CORS replaces the permissive default policy.
func (b *Builder) CORS(c *cors.Cors) *Builder { b.cors = c; return b }

// EnableH2C accepts HTTP/2 without TLS, for gateways that terminate it.
func (b *Builder) EnableH2C() *Builder { b.h2cEnabled = true; return b }

// Use installs middleware on the root router, ahead of every controller.
func (b *Builder) Use(mw ...rest.Middleware) *Builder {
	b.rootMW = append(b.rootMW, mw...)
	return b
}

// Handle mounts an extra raw handler outside the controller tree, e.g. pprof.
func (b *Builder) Handle(pattern string, h http.HandlerFunc) *Builder {
	b.extra[pattern] = h
	return b
}

// ─── dependency injection ────────────────────────────────────

// Provide registers a ready singleton under its concrete type.
func (b *Builder) Provide(value any) *Builder {
	b.ctn.Provide(value)
	return b
}

// ProvideAs registers value under the interface type pointed to by ifacePtr:
//
//	ProvideAs(repo, (*UserRepository)(nil))
func (b *Builder) ProvideAs(value any, ifacePtr any) *Builder {
	if err := b.ctn.ProvideAs(value, ifacePtr); err != nil {
		logger.Fatal("ProvideAs failed", zap.Error(err))
	}
	return b
}

// ProvideFunc registers a lazily invoked provider; its dependencies resolve
// from the container and the result is memoised.
func (b *Builder) ProvideFunc(fn any) *Builder {
	if err := b.ctn.ProvideFunc(fn); err != nil {
		logger.Fatal("ProvideFunc failed", zap.Error(err))
	}
	return b
}

// ─── controllers ─────────────────────────────────────────────

// AttachController schedules a controller for registration. ctrl is either a
// rest.Controller value or a factory func whose arguments resolve from the
// container and whose result implements rest.Controller. Registration itself
// happens in Build, after every provider is known.
func (b *Builder) AttachController(ctrl any) *Builder {
	if _, ok := ctrl.(rest.Controller); !ok {
		v := reflect.ValueOf(ctrl)
		if !v.IsValid() || v.Kind() != reflect.Func {
			logger.Fatal("AttachController expects a rest.Controller or a factory func",
				zap.Any("got", reflect.TypeOf(ctrl)))
		}
	}
	b.controllers = append(b.controllers, ctrl)
	return b
}

// ─── temporal workflows ──────────────────────────────────────

// WithTemporal turns on a Temporal worker polling taskQueue.
func (b *Builder) WithTemporal(taskQueue string, opts *client.Options) *Builder {
	b.taskQueue = taskQueue
	b.temporalClientOpts = opts
	return b
}

// RegisterTemporalActivity registers an activity factory whose dependencies
// resolve from the container, e.g. func(repo Repo) *EmailActivities.
func (b *Builder) RegisterTemporalActivity(factory any) *Builder {
	fnVal := reflect.ValueOf(factory)
	if fnVal.Kind() != reflect.Func {
		logger.Fatal("RegisterTemporalActivity expects a factory function",
			zap.Any("got", reflect.TypeOf(factory)))
	}
	b.activityRegs = append(b.activityRegs, fnVal)
	return b
}

func (b *Builder) RegisterTemporalWorkflow(w interface{}) *Builder {
	b.workflowRegs = append(b.workflowRegs, w)
	return b
}

// ─── build ───────────────────────────────────────────────────

// Build validates every controller, compiles their plans and assembles the
// server. Nothing listens until Build returns nil error; a single bad route
// aborts the whole build with a ConfigurationError.
func (b *Builder) Build() (*WebServer, error) {
	if b.httpPort == "" {
		return nil, errors.New("http port must be set before Build()")
	}

	root := mux.NewRouter()
	root.Use(injectionCacheMiddleware)
	for _, mw := range b.rootMW {
		root.Use(mux.MiddlewareFunc(mw))
	}

	registry := make(map[string]*controllerRecord, len(b.controllers))
	for _, raw := range b.controllers {
		c, err := b.materializeController(raw)
		if err != nil {
			return nil, err
		}
		rec, err := attachController(root, b.ctn, c)
		if err != nil {
			return nil, err
		}
		if _, dup := registry[rec.name]; dup {
			return nil, &ConfigurationError{Controller: rec.name, Reason: "attached twice"}
		}
		registry[rec.name] = rec
		logger.Info("Registered controller",
			zap.String("controller", rec.name),
			zap.String("prefix", rec.exposure.Path()),
			zap.Int("routes", rec.routeCount()))
	}

	root.Handle("/metrics", promhttp.Handler())
	root.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	for pattern, h := range b.extra {
		root.HandleFunc(pattern, h)
	}
	if b.staticDir != "" {
		root.PathPrefix("/static/").Handler(
			http.StripPrefix("/static/", http.FileServer(http.Dir(b.staticDir))))
	}

	var handler http.Handler = b.cors.Handler(root)
	if b.h2cEnabled {
		handler = h2c.NewHandler(handler, &http2.Server{})
	}

	httpSrv := &http.Server{
		Handler:      handler,
		ReadTimeout:  5 * time.Minute,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  10 * time.Minute,
	}
	if b.sslProvider != nil {
		if err := b.sslProvider.Configure(httpSrv); err != nil {
			return nil, fmt.Errorf("configuring ssl: %w", err)
		}
	}

	ln, err := net.Listen("tcp", b.httpPort)
	if err != nil {
		return nil, fmt.Errorf("listening on %s: %w", b.httpPort, err)
	}

	var temporalClient client.Client
	var temporalWorker worker.Worker
	if b.taskQueue != "" {
		temporalClient, temporalWorker, err = b.buildTemporal()
		if err != nil {
			_ = ln.Close()
			return nil, err
		}
	}

	return &WebServer{
		http:           httpSrv,
		ln:             ln,
		router:         root,
		controllers:    registry,
		sslProvider:    b.sslProvider,
		temporalClient: temporalClient,
		temporalWorker: temporalWorker,
	}, nil
}

func (b *Builder) materializeController(raw any) (rest.Controller, error) {
	if c, ok := raw.(rest.Controller); ok {
		return c, nil
	}

	out, err := b.ctn.Call(raw)
	if err != nil {
		return nil, &ConfigurationError{
			Controller: fmt.Sprintf("%T", raw),
			Reason:     "controller factory",
			Err:        err,
		}
	}
	if len(out) == 0 {
		return nil, &ConfigurationError{
			Controller: fmt.Sprintf("%T", raw),
			Reason:     "controller factory returns nothing",
		}
	}
	c, ok := out[0].Interface().(rest.Controller)
	if !ok {
		return nil, &ConfigurationError{
			Controller: fmt.Sprintf("%T", raw),
			Reason:     fmt.Sprintf("controller factory returned %v, not a rest.Controller", out[0].Type()),
		}
	}
	return c, nil
}

func (b *Builder) buildTemporal() (client.Client, worker.Worker, error) {
	opts := b.temporalClientOpts
	if opts == nil {
		opts = &client.Options{}
	}

	var temporalClient client.Client
	dial := func() error {
		var err error
		temporalClient, err = client.Dial(*opts)
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := RetryWithExponentialBackoff(ctx, 5, 10*time.Second, dial); err != nil {
		return nil, nil, fmt.Errorf("connecting to temporal: %w", err)
	}

	w := worker.New(temporalClient, b.taskQueue, worker.Options{})
	for _, wf := range b.workflowRegs {
		w.RegisterWorkflow(wf)
	}
	for _, factory := range b.activityRegs {
		out, err := b.ctn.Call(factory.Interface())
		if err != nil {
			temporalClient.Close()
			return nil, nil, fmt.Errorf("building temporal activity: %w", err)
		}
		w.RegisterActivity(out[0].Interface())
	}
	return temporalClient, w, nil
}
