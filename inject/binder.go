package inject

import (
	"errors"
	"fmt"

	"github.com/ctrlware/go-ctrl-boot/rest"
)

// Bind resolves the plan into positional argument values for one request,
// in instruction order. It holds no state of its own: a pure function of
// (plan, request, response), safe to call concurrently for independent
// requests sharing the same plan. Within one request, resolution is
// strictly sequential so a later instruction can observe injection-cache
// values written for an earlier one.
func Bind(p *Plan, req *rest.Request, res *rest.Response) ([]any, error) {
	if p.Noop() {
		return []any{req, res}, nil
	}

	args := make([]any, len(p.steps))
	for i, ins := range p.steps {
		v, err := resolveOne(ins, req, res)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return args, nil
}

func resolveOne(ins instruction, req *rest.Request, res *rest.Response) (any, error) {
	switch ins := ins.(type) {
	case fromRequest:
		return req, nil

	case fromResponse:
		return res, nil

	case fromNamed:
		// present-but-empty path parameters count as found; only a missing
		// key falls through to the injection cache
		if v, ok := req.Param(ins.key); ok {
			return v, nil
		}
		if v, ok := req.Injections().Get(ins.key); ok {
			return v, nil
		}
		return nil, &UnresolvedParameterError{Name: ins.key}

	case fromContainer:
		ctn := req.Container()
		if ctn == nil {
			return nil, errors.New("request has no container attached")
		}
		// container errors propagate verbatim
		return ctn.Make(ins.typ, req.Injections().Snapshot())

	case fallback:
		var lastErr error
		for _, child := range ins.children {
			v, err := resolveOne(child, req, res)
			if err == nil {
				return v, nil
			}
			lastErr = err
		}
		return nil, &UnresolvedParameterError{Name: fallbackName(ins), cause: lastErr}

	default:
		return nil, fmt.Errorf("unknown instruction %T", ins)
	}
}

func fallbackName(f fallback) string {
	for _, child := range f.children {
		if n, ok := child.(fromNamed); ok {
			return n.key
		}
	}
	return ""
}
