package server

import (
	"context"
	"errors"
	"net/http"
	"reflect"

	"github.com/ctrlware/go-ctrl-boot/di"
	"github.com/ctrlware/go-ctrl-boot/inject"
	"github.com/ctrlware/go-ctrl-boot/logger"
	"github.com/ctrlware/go-ctrl-boot/rest"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// routeHandler adapts one controller method and its compiled plan into an
// http.Handler. The plan was built at registration time; per request the
// handler only wraps the raw request, resolves arguments and interprets the
// result.
func routeHandler(method reflect.Value, plan *inject.Plan, ctn *di.Container) http.Handler {
	// The request/response shape skips reflection entirely when the method
	// already has the direct Go type.
	if plan.Noop() {
		if direct, ok := method.Interface().(func(*rest.Request, *rest.Response) error); ok {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				req, res := wrapRequest(w, r, ctn)
				if err := direct(req, res); err != nil {
					writeError(res, err)
				}
			})
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, res := wrapRequest(w, r, ctn)

		result, err := inject.Invoke(method, plan, req, res)
		if err != nil {
			writeError(res, err)
			return
		}

		if inject.IsDeferred(result) {
			result, err = inject.AwaitResult(r.Context(), result)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					logger.Debug("request ended while awaiting handler",
						zap.String("path", r.URL.Path), zap.Error(err))
					return
				}
				writeError(res, err)
				return
			}
		}

		if result != nil && !res.Written() {
			if err := res.JSON(http.StatusOK, result); err != nil {
				logger.Error("writing handler result", zap.Error(err))
			}
		}
	})
}

func wrapRequest(w http.ResponseWriter, r *http.Request, ctn *di.Container) (*rest.Request, *rest.Response) {
	req := rest.NewRequest(r, mux.Vars(r), rest.InjectionsFrom(r.Context()), ctn)
	return req, rest.NewResponse(w)
}

// writeError maps failures onto status codes. A named value the request never
// carried is the caller's fault; everything else, container resolution
// included, is the server's.
func writeError(res *rest.Response, err error) {
	var unresolved *inject.UnresolvedParameterError
	if errors.As(err, &unresolved) {
		logger.Warn("request is missing a handler parameter", zap.Error(err))
		_ = res.Text(http.StatusBadRequest, err.Error())
		return
	}
	logger.Error("handler failed", zap.Error(err))
	_ = res.Text(http.StatusInternalServerError, "internal server error")
}

// injectionCacheMiddleware seeds every request context with a fresh injection
// cache before any controller middleware runs, so middlewares can publish
// values handlers later consume by name.
func injectionCacheMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(rest.WithInjections(r.Context())))
	})
}
