package rest

// Controller is implemented by any value whose methods serve HTTP routes.
// Exposure declares where the controller mounts; Routes lists its handler
// methods. Registration compiles each route's Params into an injection plan
// once, at attach time.
type Controller interface {
	Exposure() Exposure
	Routes() []Route
}

// Route declares one handler method: the Go method name that serves it, the
// method-level exposure, and the parameter list in signature order. A Route
// whose Exposure is the zero value is skipped by registration.
type Route struct {
	Handler  string
	Exposure Exposure
	Params   []Param
}
