package inject

import (
	"fmt"
	"reflect"

	"github.com/ctrlware/go-ctrl-boot/rest"
)

// Plan is the compiled injection plan for one route handler: an ordered
// instruction list, one per declared parameter. A plan is built once at
// registration time, never mutated afterwards, and shared read-only by
// every request to its route.
type Plan struct {
	steps []instruction
}

// Passthrough is the designated no-op plan for handlers with the plain
// (request, response) signature. It allocates no instructions; the
// dispatcher calls such handlers directly.
var Passthrough = &Plan{}

// Noop reports whether p is the passthrough sentinel.
func (p *Plan) Noop() bool { return p == Passthrough }

func (p *Plan) Len() int { return len(p.steps) }

// nameAt returns the declared parameter name behind instruction i, when the
// instruction carries one.
func (p *Plan) nameAt(i int) string {
	if i < 0 || i >= len(p.steps) {
		return ""
	}
	switch ins := p.steps[i].(type) {
	case fromNamed:
		return ins.key
	case fallback:
		return fallbackName(ins)
	}
	return ""
}

var (
	requestType  = reflect.TypeOf(&rest.Request{})
	responseType = reflect.TypeOf(&rest.Response{})
)

// Compile turns a route's declared parameter list into a Plan. It runs once
// per handler at controller-attach time, off the request path. A descriptor
// that fits no resolution strategy fails compilation immediately so the
// misconfiguration surfaces at boot, not on first request.
func Compile(params []rest.Param) (*Plan, error) {
	if isPassthroughSignature(params) {
		return Passthrough, nil
	}

	steps := make([]instruction, 0, len(params))
	for i, p := range params {
		ins, err := classify(p)
		if err != nil {
			return nil, fmt.Errorf("parameter %d (%q): %w", i, p.Name, err)
		}
		steps = append(steps, ins)
	}
	return &Plan{steps: steps}, nil
}

// The common case: exactly (request, response), nothing else. Checked first
// so the usual handler shape skips planning entirely.
func isPassthroughSignature(params []rest.Param) bool {
	return len(params) == 2 &&
		params[0].Type == requestType &&
		params[1].Type == responseType
}

func classify(p rest.Param) (instruction, error) {
	switch {
	case p.Type == requestType:
		return fromRequest{}, nil
	case p.Type == responseType:
		return fromResponse{}, nil
	case p.Name == "req":
		// name fallback beats type when the type is absent or ambiguous
		return fromRequest{}, nil
	case p.Name == "res":
		return fromResponse{}, nil
	case p.Type == nil && p.Name != "":
		return fromNamed{key: p.Name}, nil
	case p.Type != nil && p.Name != "":
		// a path or injected value under the same name wins over a
		// container-built instance
		return fallback{children: []instruction{
			fromNamed{key: p.Name},
			fromContainer{typ: p.Type},
		}}, nil
	case p.Type != nil:
		return fromContainer{typ: p.Type}, nil
	default:
		return nil, ErrUnclassifiable
	}
}
