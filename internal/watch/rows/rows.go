// Package rows flattens a watch store into an ordered list of display rows.
// Renderers consume rows without knowing anything about the adapter
// protocol or merge history; hosts use the row handles to address "the row
// under the cursor" for expand, collapse, set-value and copy operations.
package rows

import (
	"github.com/pcullen/watchpanel/internal/format"
	"github.com/pcullen/watchpanel/internal/watch"
)

// Kind distinguishes expression rows from variable rows.
type Kind int

const (
	// KindExpression is a top-level watched expression row.
	KindExpression Kind = iota
	// KindVariable is a nested variable row.
	KindVariable
)

// Row is one display line of the watch tree.
type Row struct {
	// Kind is the row kind.
	Kind Kind

	// Depth is the nesting depth; expression rows are depth 0.
	Depth int

	// Label is the expression text or variable name.
	Label string

	// Value is the display value, already formatted. Empty for rows
	// whose result was replaced by an error.
	Value string

	// Type is the value type reported by the adapter.
	Type string

	// Changed is true when the value differs from the previous cycle.
	Changed bool

	// Expanded and HasChildren describe the expansion state.
	Expanded    bool
	HasChildren bool

	// ExpandHint is true for compound values with no inline text; the
	// renderer shows a placeholder instead of a blank cell.
	ExpandHint bool

	// Err is the row's evaluate or expansion failure, nil when healthy.
	Err error

	// Expr is set for expression rows.
	Expr *watch.Expression

	// Node and ParentRef are set for variable rows. ParentRef is the
	// containing variables reference, needed to set this variable's value.
	Node      *watch.Node
	ParentRef int
}

// CopyText returns the clipboard text addressing this row: the expression
// text for expression rows, the evaluate name for variable rows. Fails for
// variables without a stable path.
func (r Row) CopyText() (string, error) {
	if r.Kind == KindExpression {
		return r.Expr.Text, nil
	}
	if r.Node.EvaluateName == "" {
		return "", watch.ErrNotAddressable
	}
	return r.Node.EvaluateName, nil
}

// Build flattens the store into display rows. A nil formatter renders raw
// values.
func Build(store *watch.Store, f format.Formatter) []Row {
	if f == nil {
		f = format.Raw()
	}

	var out []Row
	for _, e := range store.Expressions() {
		row := Row{
			Kind:        KindExpression,
			Label:       e.Text,
			Type:        e.Type,
			Changed:     e.Changed,
			Expanded:    e.Expanded,
			HasChildren: e.HasChildren(),
			ExpandHint:  e.Evaluated && e.Value == "" && e.Ref > 0,
			Err:         e.Err,
			Expr:        e,
		}
		if e.Evaluated {
			row.Value = f.FormatValue(e.Text, e.Type, e.Value)
		}
		out = append(out, row)
		out = appendChildren(out, e.Children, e.Ref, 1, f)
	}
	return out
}

func appendChildren(out []Row, children []*watch.Node, parentRef, depth int, f format.Formatter) []Row {
	for _, n := range children {
		out = append(out, Row{
			Kind:        KindVariable,
			Depth:       depth,
			Label:       n.Name,
			Value:       f.FormatValue(n.Name, n.Type, n.Value),
			Type:        n.Type,
			Changed:     n.Changed,
			Expanded:    n.Expanded,
			HasChildren: n.HasChildren(),
			ExpandHint:  n.ExpandHint(),
			Err:         n.Err,
			Node:        n,
			ParentRef:   parentRef,
		})
		out = appendChildren(out, n.Children, n.Ref, depth+1, f)
	}
	return out
}
