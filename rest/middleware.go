package rest

import (
	"net/http"

	"github.com/ctrlware/go-ctrl-boot/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Middleware wraps a route handler. Controller-level middleware runs before
// method-level middleware; both run after the framework's request setup.
type Middleware func(http.Handler) http.Handler

// Chain applies mw to h in declaration order, mw[0] outermost.
func Chain(h http.Handler, mw ...Middleware) http.Handler {
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	return h
}

// RequestID tags each request with a uuid, echoes it on the response and
// seeds the injection cache under "requestId" so handlers can declare it as
// a dynamic parameter.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)
		Inject(r, "requestId", id)
		next.ServeHTTP(w, r)
	})
}

// Recover turns a handler panic into a 500 response instead of killing the
// serving goroutine.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("panic serving request",
					zap.Any("panic", rec),
					zap.String("path", r.URL.Path))
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
