package broadcast

import (
	"maps"

	"github.com/born-ml/ragged/internal/content"
)

// DepthContext is state copied into each child step; changes made at one
// depth are seen by its descendants only.
type DepthContext map[string]any

// Clone returns a shallow copy.
func (d DepthContext) Clone() DepthContext {
	if d == nil {
		return nil
	}
	return maps.Clone(d)
}

// LateralContext is state shared by every step of one call.
type LateralContext map[string]any

// Call describes one step of the recursion as seen by an Action.
type Call struct {
	Inputs         []any // Content nodes or pass-through scalars
	Depth          int
	DepthContext   DepthContext
	LateralContext LateralContext
	Behavior       *Behavior
	Backend        content.Backend
	Options        *Options

	// Continuation runs the default structural recursion for this step.
	Continuation func() ([]content.Content, error)
}

// Outcome is what an Action decided for a step.
type Outcome struct {
	outputs []content.Content
	handled bool
}

// Handled ends the step with the given outputs.
func Handled(outputs ...content.Content) Outcome {
	return Outcome{outputs: outputs, handled: true}
}

// Unhandled defers to the default structural recursion.
var Unhandled = Outcome{}

// Action is invoked at every step before structural dispatch.
type Action func(call *Call) (Outcome, error)
