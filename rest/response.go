package rest

import (
	"encoding/json"
	"net/http"
)

// Response wraps the ResponseWriter handed to controller methods. The
// binding engine passes it through untouched; the helpers below exist for
// handlers that write their own output.
type Response struct {
	w       http.ResponseWriter
	status  int
	written bool
}

func NewResponse(w http.ResponseWriter) *Response {
	return &Response{w: w}
}

func (r *Response) Header() http.Header { return r.w.Header() }

func (r *Response) WriteHeader(status int) {
	if r.written {
		return
	}
	r.status = status
	r.written = true
	r.w.WriteHeader(status)
}

func (r *Response) Write(b []byte) (int, error) {
	if !r.written {
		r.WriteHeader(http.StatusOK)
	}
	return r.w.Write(b)
}

// Written reports whether the handler has produced output yet; the
// dispatcher uses it to decide whether a returned value still needs
// serializing.
func (r *Response) Written() bool { return r.written }

// Status returns the status code sent, or 0 before any write.
func (r *Response) Status() int { return r.status }

// JSON writes v as a JSON body with the given status.
func (r *Response) JSON(status int, v any) error {
	r.Header().Set("Content-Type", "application/json")
	r.WriteHeader(status)
	return json.NewEncoder(r).Encode(v)
}

// Text writes a plain-text body with the given status.
func (r *Response) Text(status int, body string) error {
	r.Header().Set("Content-Type", "text/plain; charset=utf-8")
	r.WriteHeader(status)
	_, err := r.Write([]byte(body))
	return err
}
