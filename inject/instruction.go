package inject

import "reflect"

// Resolution instructions, one per declared parameter. Compile produces
// them; the binder consumes them through a closed switch. Keeping the set
// sealed inside the package means a new resolution strategy is a compile
// change here, never a runtime type probe.
type instruction interface {
	instr()
}

// bind the request object itself
type fromRequest struct{}

// bind the response object itself
type fromResponse struct{}

// bind by name: path parameters first, then the injection cache
type fromNamed struct {
	key string
}

// bind by asking the container, passing the injection cache as contextual
// bindings
type fromContainer struct {
	typ reflect.Type
}

// try children in order, first success wins
type fallback struct {
	children []instruction
}

func (fromRequest) instr()   {}
func (fromResponse) instr()  {}
func (fromNamed) instr()     {}
func (fromContainer) instr() {}
func (fallback) instr()      {}
