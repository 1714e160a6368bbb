package watch

import (
	"context"

	"github.com/pcullen/watchpanel/internal/dap"
	"github.com/pcullen/watchpanel/internal/session"
)

// Session is the slice of debug-session behavior the store consumes.
// *session.Session satisfies it; tests supply fakes.
type Session interface {
	Stopped() bool
	Frame() session.FrameRef
	Capabilities() dap.Capabilities
	Evaluate(ctx context.Context, args dap.EvaluateArguments) (dap.EvaluateResponseBody, error)
	Variables(ctx context.Context, args dap.VariablesArguments) (dap.VariablesResponseBody, error)
	SetExpression(ctx context.Context, args dap.SetExpressionArguments) (dap.SetExpressionResponseBody, error)
	SetVariable(ctx context.Context, args dap.SetVariableArguments) (dap.SetVariableResponseBody, error)
}

// Notifier receives user-facing reports (removed rows that do not exist,
// mutation failures) that are transient rather than part of the tree.
type Notifier interface {
	// Info reports a non-error notification.
	Info(msg string)

	// Error reports an error notification.
	Error(msg string)
}

type nopNotifier struct{}

func (nopNotifier) Info(string)  {}
func (nopNotifier) Error(string) {}

// Position selects where a newly added expression sorts relative to
// existing ones.
type Position int

const (
	// Append sorts the new expression after all existing entries.
	Append Position = iota
	// Prepend sorts the new expression before all existing entries.
	Prepend
)

// Expression is one watched expression and its reconciled value tree.
// Fields are mutated only by the store; readers (renderers) must treat
// them as read-only.
type Expression struct {
	// Text is the user-entered expression and the store's unique key.
	Text string

	// Value, Type and Ref describe the last successful evaluation.
	// Ref is the variables reference for expansion; 0 means leaf.
	Value string
	Type  string
	Ref   int

	// Evaluated is true once a successful result exists. A failed
	// evaluate clears it: the error replaces the result.
	Evaluated bool

	// Err is the last evaluate or expansion failure, nil when healthy.
	Err error

	// Changed is true when the last evaluation produced a different
	// result string than the cycle before. Recomputed every cycle.
	Changed bool

	// Expanded is user-controlled expansion state.
	Expanded bool

	// Children is present only when Expanded, the last fetch succeeded
	// and the value is compound. Order mirrors the adapter's response.
	Children []*Node

	// order is the display sort key, assigned once at creation and
	// never reused. Prepended entries get descending negative orders,
	// appended ones ascending non-negative orders.
	order int64
}

// HasChildren returns true if the last result is a compound value.
func (e *Expression) HasChildren() bool {
	return e.Ref > 0
}

// Node is one variable view inside an expression's tree.
type Node struct {
	// Name is the display name within the parent scope.
	Name string

	// Value is the inline representation; may be empty for compound
	// values that render as an expand hint instead.
	Value string

	// Type is the variable type reported by the adapter.
	Type string

	// Ref is the variables reference for expansion; 0 means leaf.
	Ref int

	// EvaluateName re-addresses this variable for copy and set-value.
	// Empty when the adapter provides no stable path.
	EvaluateName string

	// Changed, Expanded, Children and Err follow Expression semantics,
	// scoped one level deeper.
	Changed  bool
	Expanded bool
	Children []*Node
	Err      error
}

// HasChildren returns true if this is a compound value.
func (n *Node) HasChildren() bool {
	return n.Ref > 0
}

// ExpandHint reports whether the node has no inline text but can be
// expanded. Distinct from an empty leaf, which has no children either way.
func (n *Node) ExpandHint() bool {
	return n.Value == "" && n.Ref > 0
}
