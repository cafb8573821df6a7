package server

import (
	"context"
	"net/http"
	"reflect"
	"testing"

	"github.com/ctrlware/go-ctrl-boot/rest"
	"github.com/rs/cors"
	"github.com/stretchr/testify/assert"
	"go.temporal.io/sdk/client"
)

/* ───────────────────────── helpers used in tests ─────────────────────────── */

// Simple dependency + controller types
type dep struct{ id int }

type pingController struct {
	d *dep
}

func newPingController(d *dep) *pingController {
	return &pingController{d: d}
}

func (c *pingController) Exposure() rest.Exposure { return rest.Expose(rest.GET, "/ping") }

func (c *pingController) Routes() []rest.Route {
	return []rest.Route{
		{Handler: "Get", Exposure: rest.Expose(rest.GET, "/"), Params: []rest.Param{rest.Req(), rest.Res()}},
	}
}

func (c *pingController) Get(req *rest.Request, res *rest.Response) error {
	return res.Text(200, "pong")
}

// second controller sharing the same dependency (memoisation test)
type pongController struct{ pingController }

func newPongController(d *dep) *pongController {
	return &pongController{pingController{d: d}}
}

func (c *pongController) Exposure() rest.Exposure { return rest.Expose(rest.GET, "/pong") }

// singleton dep provider (used in memoisation test)
type depProvider struct{ called int }

func (p *depProvider) provide() *dep { p.called++; return &dep{id: 7} }

/* ───────────────────────────────  TESTS  ─────────────────────────────────── */

func TestBuilder_BuildValidation(t *testing.T) {
	_, err := New().Build() // missing HTTPPort
	if err == nil {
		t.Fatalf("Build() succeeded with missing HTTPPort; want error")
	}
}

func TestBuilder_OptionsStored(t *testing.T) {
	corsConfig := cors.New(
		cors.Options{
			AllowedHeaders: []string{"*"},
		})

	builder := New().
		CORS(corsConfig).
		EnableH2C().
		Use(rest.RequestID).
		Handle("/debug", func(w http.ResponseWriter, r *http.Request) {})

	assert.Same(t, corsConfig, builder.cors)
	assert.True(t, builder.h2cEnabled)
	assert.Equal(t, 1, len(builder.rootMW))
	assert.Equal(t, 1, len(builder.extra))
}

func TestBuilder_Provide_InjectsControllerFactory(t *testing.T) {
	// arrange
	d := &dep{id: 42}

	builder := New().
		HTTPPort(":0").
		Provide(d).
		AttachController(newPingController)

	// act
	srv, err := builder.Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	defer srv.Stop(context.Background())

	// assert controller registered under its type name
	exp, ok := srv.ControllerExposure("pingController")
	if !ok {
		t.Fatalf("controller not registered")
	}
	if exp.Path() != "/ping" {
		t.Fatalf("controller prefix = %q, want /ping", exp.Path())
	}
}

func TestBuilder_ProvideFunc_Memoised(t *testing.T) {
	// arrange provider that records call count
	p := &depProvider{}
	var first, second *dep

	b := New().
		HTTPPort(":0").
		ProvideFunc(p.provide).
		AttachController(func(d *dep) *pingController { first = d; return newPingController(d) }).
		AttachController(func(d *dep) *pongController { second = d; return newPongController(d) })

	// act
	srv, err := b.Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	defer srv.Stop(context.Background())

	// assert
	if p.called != 1 {
		t.Fatalf("provider should be memoised; called %d times, want 1", p.called)
	}
	// both controllers must share the same *dep instance
	if first == nil || first != second {
		t.Fatalf("memoisation failed: controllers received different dep pointers (%p / %p)", first, second)
	}
}

type iface interface {
	GetID() int
}

// concrete type implementing iface
type ifaceImpl struct{ id int }

func (i *ifaceImpl) GetID() int { return i.id }

func TestBuilder_ProvideAs_BindsInterface(t *testing.T) {
	impl := &ifaceImpl{id: 99}
	var got iface

	builder := New().
		HTTPPort(":0").
		ProvideAs(impl, (*iface)(nil)). // <- use ProvideAs here
		AttachController(func(i iface) *pingController {
			got = i
			return newPingController(&dep{id: i.GetID()})
		})

	srv, err := builder.Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	defer srv.Stop(context.Background())

	if got == nil || got.GetID() != 99 {
		t.Fatalf("interface injection failed: got %v", got)
	}
}

func TestBuilder_AttachController_AcceptsValue(t *testing.T) {
	c := newPingController(&dep{id: 1})

	srv, err := New().HTTPPort(":0").AttachController(c).Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	defer srv.Stop(context.Background())

	if _, ok := srv.ControllerExposure("pingController"); !ok {
		t.Fatalf("value controller not registered")
	}
}

func TestBuilder_AttachController_RejectsNonController(t *testing.T) {
	mock := withMockLogger(func() {
		New().AttachController(42)
	})
	if !mock.isFatalCalled {
		t.Fatalf("expected Fatal for non-controller attachment")
	}
}

func TestBuild_ControllerFactoryMissingDep_Fails(t *testing.T) {
	_, err := New().
		HTTPPort(":0").
		AttachController(newPingController). // *dep never provided
		Build()

	var cfg *ConfigurationError
	if !assert.ErrorAs(t, err, &cfg) {
		t.Fatalf("want ConfigurationError, got %v", err)
	}
}

func TestBuild_DuplicateController_Fails(t *testing.T) {
	_, err := New().
		HTTPPort(":0").
		AttachController(newPingController(&dep{})).
		AttachController(newPingController(&dep{})).
		Build()

	var cfg *ConfigurationError
	if !assert.ErrorAs(t, err, &cfg) {
		t.Fatalf("want ConfigurationError for duplicate, got %v", err)
	}
	assert.Equal(t, "pingController", cfg.Controller)
}

// ------ Temporal worker tests (if applicable) ------

func TestBuilder_WithTemporal_StoresConfig(t *testing.T) {
	opts := &client.Options{HostPort: "test:7233"}
	b := New().WithTemporal("my-queue", opts)

	if b.taskQueue != "my-queue" {
		t.Errorf("expected taskQueue 'my-queue', got %q", b.taskQueue)
	}
	if b.temporalClientOpts != opts {
		t.Error("expected temporalClientOpts to be stored")
	}
}

func TestRegisterTemporalWorkflow_Appends(t *testing.T) {
	b := New()

	// 1 → slice empty
	if ln := len(b.workflowRegs); ln != 0 {
		t.Fatalf("expected 0 workflows initially, got %d", ln)
	}

	b.RegisterTemporalWorkflow(workflow)

	// 2 → slice grew
	if ln := len(b.workflowRegs); ln != 1 {
		t.Fatalf("expected 1 workflow after registration, got %d", ln)
	}
	if reflect.ValueOf(b.workflowRegs[0]).Pointer() != reflect.ValueOf(workflow).Pointer() {
		t.Errorf("workflow not stored correctly")
	}
}

func TestRegisterTemporalActivity_Appends(t *testing.T) {
	b := New()

	// 1 → empty
	if ln := len(b.activityRegs); ln != 0 {
		t.Fatalf("expected 0 activities initially, got %d", ln)
	}

	b.RegisterTemporalActivity(activityFactory)

	// 2 → grew & contains reflect.Value of factory
	if ln := len(b.activityRegs); ln != 1 {
		t.Fatalf("expected 1 activity after registration, got %d", ln)
	}
	if b.activityRegs[0] != reflect.ValueOf(activityFactory) {
		t.Errorf("activity factory not stored correctly")
	}
}

func TestBuild_WithoutTemporal_Succeeds(t *testing.T) {
	// ":0" lets the OS choose a free port so tests can run in parallel.
	b := New().HTTPPort(":0")

	srv, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer srv.Stop(context.Background())

	if srv.temporalWorker != nil {
		t.Errorf("expected no temporal worker when opts unset")
	}
}

func activityFactory() *struct{} { return &struct{}{} }

func workflow() error { return nil }
