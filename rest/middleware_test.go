package rest

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func tag(s string, log *[]string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			*log = append(*log, s)
			next.ServeHTTP(w, r)
		})
	}
}

func TestChain_AppliesInDeclarationOrder(t *testing.T) {
	var log []string

	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log = append(log, "handler")
	}), tag("first", &log), tag("second", &log))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, []string{"first", "second", "handler"}, log)
}

func TestRequestID_SeedsCacheAndEchoesHeader(t *testing.T) {
	var got any

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = InjectionsFrom(r.Context()).Get("requestId")
		io.WriteString(w, "ok")
	})

	req := httptest.NewRequest("GET", "/", nil)
	req = req.WithContext(WithInjections(req.Context()))
	rec := httptest.NewRecorder()

	RequestID(inner).ServeHTTP(rec, req)

	id := rec.Header().Get("X-Request-Id")
	if id == "" {
		t.Fatalf("response missing X-Request-Id")
	}
	assert.Equal(t, id, got)
}

func TestRequestID_KeepsIncomingID(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Request-Id", "upstream-7")
	rec := httptest.NewRecorder()

	RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})).ServeHTTP(rec, req)

	assert.Equal(t, "upstream-7", rec.Header().Get("X-Request-Id"))
}

func TestRecover_Returns500(t *testing.T) {
	h := Recover(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
