// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package broadcast

import (
	"github.com/born-ml/ragged/internal/broadcast"
	"github.com/born-ml/ragged/internal/content"
)

// Type aliases for public API

// Options configures a BroadcastAndApply call.
type Options = broadcast.Options

// ParameterRule selects how node parameters are carried onto outputs.
type ParameterRule = broadcast.ParameterRule

// Parameter rules.
const (
	Intersect    ParameterRule = broadcast.Intersect
	AllOrNothing ParameterRule = broadcast.AllOrNothing
	OneToOne     ParameterRule = broadcast.OneToOne
	NoParameters ParameterRule = broadcast.NoParameters
)

// Branch names the structural rule a step dispatched to.
type Branch = broadcast.Branch

// Structural branches.
const (
	BranchUnknown     Branch = broadcast.BranchUnknown
	BranchNumpyND     Branch = broadcast.BranchNumpyND
	BranchIndexed     Branch = broadcast.BranchIndexed
	BranchUnion       Branch = broadcast.BranchUnion
	BranchOption      Branch = broadcast.BranchOption
	BranchRegularList Branch = broadcast.BranchRegularList
	BranchVarList     Branch = broadcast.BranchVarList
	BranchRecord      Branch = broadcast.BranchRecord
)

// Action is invoked at every step before structural dispatch.
type Action = broadcast.Action

// Call describes one step of the recursion as seen by an Action.
type Call = broadcast.Call

// Outcome is what an Action decided for a step.
type Outcome = broadcast.Outcome

// DepthContext is state copied into each child step.
type DepthContext = broadcast.DepthContext

// LateralContext is state shared by every step of one call.
type LateralContext = broadcast.LateralContext

// Behavior registers custom list broadcasting by list name.
type Behavior = broadcast.Behavior

// CustomBroadcast computes the offsets a named list broadcasts to.
type CustomBroadcast = broadcast.CustomBroadcast

// Unhandled defers to the default structural recursion.
var Unhandled = broadcast.Unhandled

// DefaultOptions returns the default broadcasting configuration.
func DefaultOptions() Options { return broadcast.DefaultOptions() }

// ParseParameterRule maps a rule name to its ParameterRule.
func ParseParameterRule(name string) (ParameterRule, error) { return broadcast.ParseParameterRule(name) }

// NewBehavior returns an empty behavior registry.
func NewBehavior() *Behavior { return broadcast.NewBehavior() }

// Handled ends a step with the given outputs.
func Handled(outputs ...content.Content) Outcome { return broadcast.Handled(outputs...) }

// BroadcastAndApply aligns inputs and runs action at every step of the
// recursion. Inputs are layouts, record rows or pass-through scalars.
func BroadcastAndApply(inputs []any, action Action, behavior *Behavior, depthContext DepthContext, lateralContext LateralContext, opts Options) ([]any, error) {
	return broadcast.BroadcastAndApply(inputs, action, behavior, depthContext, lateralContext, opts)
}
