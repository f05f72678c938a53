// Package broadcast aligns several nested arrays into a common structure so
// that an element-wise action can run on matching leaves, then rebuilds the
// outputs around the results.
package broadcast

import (
	"io"
	"log/slog"

	"github.com/born-ml/ragged/internal/content"
)

// ParameterRule selects how node parameters are carried onto outputs.
type ParameterRule int

// Parameter rules.
const (
	// Intersect keeps the key/value pairs shared by every input.
	Intersect ParameterRule = iota
	// AllOrNothing keeps the parameters only if every input agrees.
	AllOrNothing
	// OneToOne gives output i the parameters of input i.
	OneToOne
	// NoParameters drops parameters.
	NoParameters
)

// String returns the rule name.
func (r ParameterRule) String() string {
	switch r {
	case Intersect:
		return "intersect"
	case AllOrNothing:
		return "all_or_nothing"
	case OneToOne:
		return "one_to_one"
	case NoParameters:
		return "none"
	default:
		return "unknown"
	}
}

// ParseParameterRule maps a rule name to its ParameterRule.
func ParseParameterRule(name string) (ParameterRule, error) {
	for _, r := range []ParameterRule{Intersect, AllOrNothing, OneToOne, NoParameters} {
		if r.String() == name {
			return r, nil
		}
	}
	return 0, content.Errorf(content.ErrInvalidConfiguration, "",
		"parameter rule should be one of [intersect one_to_one all_or_nothing none], got %q", name)
}

// Options configures a BroadcastAndApply call.
type Options struct {
	AllowRecords    bool // Descend into records; otherwise records are an error
	LeftBroadcast   bool // Promote non-list inputs against lists
	RightBroadcast  bool // NumPy-style promotion of shallower regular inputs
	NumpyToRegular  bool // Rewrite multi-dimensional leaves before the action runs
	RegularToJagged bool // Rewrite regular lists as variable-length before the action runs

	FunctionName  string // Appended to error messages as "in <name>"
	ParameterRule ParameterRule

	// Logger receives a Debug record per dispatch. Nil discards.
	Logger *slog.Logger
	// OnDispatch, if set, observes every structural branch taken.
	OnDispatch func(depth int, branch Branch)
}

// DefaultOptions returns the default broadcasting configuration.
func DefaultOptions() Options {
	return Options{
		AllowRecords:   true,
		LeftBroadcast:  true,
		RightBroadcast: true,
		ParameterRule:  Intersect,
	}
}

func (o *Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o.Logger
}

// Branch names the structural rule a step dispatched to.
type Branch int

// Structural branches, in precedence order.
const (
	BranchUnknown Branch = iota
	BranchNumpyND
	BranchIndexed
	BranchUnion
	BranchOption
	BranchRegularList
	BranchVarList
	BranchRecord
)

// String returns the branch name.
func (b Branch) String() string {
	switch b {
	case BranchUnknown:
		return "unknown"
	case BranchNumpyND:
		return "numpy-nd"
	case BranchIndexed:
		return "indexed"
	case BranchUnion:
		return "union"
	case BranchOption:
		return "option"
	case BranchRegularList:
		return "regular-list"
	case BranchVarList:
		return "var-list"
	case BranchRecord:
		return "record"
	default:
		return "none"
	}
}
