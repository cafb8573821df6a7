package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/ctrlware/go-ctrl-boot/logger"
	"github.com/ctrlware/go-ctrl-boot/rest"
	"github.com/gorilla/mux"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// WebServer is the assembled application: a bound listener, the routed
// controller tree and, when configured, a certificate provider and a Temporal
// worker. Registration state is frozen in Build; WebServer only runs it.
type WebServer struct {
	http        *http.Server
	ln          net.Listener
	router      *mux.Router
	controllers map[string]*controllerRecord

	sslProvider    SSLProvider
	temporalClient client.Client
	temporalWorker worker.Worker
}

// Start serves until ctx is cancelled or a component fails. The HTTP loop,
// the certificate provider and the Temporal worker run under one errgroup;
// the first error cancels the rest.
func (s *WebServer) Start(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting web server", zap.String("addr", s.ln.Addr().String()))
		var err error
		if s.http.TLSConfig != nil {
			err = s.http.ServeTLS(s.ln, "", "")
		} else {
			err = s.http.Serve(s.ln)
		}
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	if s.sslProvider != nil {
		g.Go(func() error { return s.sslProvider.Run(ctx) })
	}

	if s.temporalWorker != nil {
		g.Go(func() error {
			if err := s.temporalWorker.Start(); err != nil {
				return err
			}
			<-ctx.Done()
			s.temporalWorker.Stop()
			return nil
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	})

	err := g.Wait()
	if s.temporalClient != nil {
		s.temporalClient.Close()
	}
	return err
}

// Stop shuts the server down without waiting for Start's context. In-flight
// requests get until ctx to finish.
func (s *WebServer) Stop(ctx context.Context) error {
	if s.temporalWorker != nil {
		s.temporalWorker.Stop()
	}
	if s.temporalClient != nil {
		s.temporalClient.Close()
	}
	err := s.http.Shutdown(ctx)
	// Shutdown only closes listeners Serve registered; Build's listener may
	// never have been served.
	_ = s.ln.Close()
	return err
}

// Handler exposes the fully assembled handler chain, useful for tests and
// for embedding the routed tree into another server.
func (s *WebServer) Handler() http.Handler { return s.http.Handler }

// Addr is the bound listen address, with the real port when ":0" was asked.
func (s *WebServer) Addr() string { return s.ln.Addr().String() }

// ControllerExposure reports the class-level exposure a controller was
// mounted with, and whether the controller is registered at all.
func (s *WebServer) ControllerExposure(name string) (rest.Exposure, bool) {
	rec, ok := s.controllers[name]
	if !ok {
		return rest.Exposure{}, false
	}
	return rec.exposure, true
}

// RouteAlias resolves a named route registered through rest.WithAlias back to
// its URL, substituting pairs of path variable names and values.
func (s *WebServer) RouteAlias(alias string, pairs ...string) (string, error) {
	route := s.router.Get(alias)
	if route == nil {
		return "", errors.New("no route named " + alias)
	}
	u, err := route.URL(pairs...)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}
