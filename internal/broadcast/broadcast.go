package broadcast

import (
	"errors"

	"github.com/born-ml/ragged/internal/content"
)

// BroadcastAndApply aligns inputs (Content nodes, *content.RecordScalar rows
// or pass-through scalars) and runs action at every step of the recursion.
// It returns one value per output of the action: a Content when any input
// was an array, otherwise a single row.
//
// A nil behavior means no custom list broadcasting. depthContext is cloned
// into each child step; lateralContext is shared by all of them.
func BroadcastAndApply(inputs []any, action Action, behavior *Behavior, depthContext DepthContext, lateralContext LateralContext, opts Options) ([]any, error) {
	backend, err := backendOf(inputs, opts.FunctionName)
	if err != nil {
		return nil, err
	}
	if _, err := parametersFactory(opts.ParameterRule, nil, opts.FunctionName); err != nil {
		return nil, err
	}

	s := &stepper{
		backend:  backend,
		action:   action,
		behavior: behavior,
		opts:     &opts,
		log:      opts.logger(),
	}
	packed, isScalar := pack(inputs, backend)
	outs, err := s.step(packed, 0, depthContext, lateralContext)
	if err != nil {
		return nil, withFunction(err, opts.FunctionName)
	}

	results := make([]any, len(outs))
	for i, o := range outs {
		if results[i], err = unpack(o, isScalar, backend); err != nil {
			return nil, withFunction(err, opts.FunctionName)
		}
	}
	return results, nil
}

// withFunction names the originating operation on broadcasting errors that
// do not carry one yet.
func withFunction(err error, function string) error {
	var e *content.Error
	if function == "" || !errors.As(err, &e) || e.Function != "" {
		return err
	}
	named := *e
	named.Function = function
	return &named
}
