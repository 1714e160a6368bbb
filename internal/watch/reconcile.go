package watch

import (
	"context"

	"github.com/pcullen/watchpanel/internal/dap"
)

// evaluateExpression runs one evaluation cycle for e: evaluate against the
// selected frame, diff against the previous result, and re-fetch children
// for the expanded subtree. Backend requests are issued without holding the
// store lock; merges happen under it.
func (s *Store) evaluateExpression(ctx context.Context, e *Expression) {
	args := dap.EvaluateArguments{
		Expression: e.Text,
		Context:    "watch",
	}
	if frame := s.session.Frame(); frame.Valid {
		args.FrameID = frame.ID
	}

	resp, err := s.session.Evaluate(ctx, args)

	s.mu.Lock()
	if err != nil {
		// The error replaces the visible result. A failed node cannot
		// be trusted to still be the same compound value: clear the
		// result and its variables reference, drop the children and
		// collapse, so nothing can expand or re-expand a stale subtree.
		e.Err = err
		e.Evaluated = false
		e.Changed = false
		e.Value = ""
		e.Type = ""
		e.Ref = 0
		e.Children = nil
		e.Expanded = false
		s.mu.Unlock()
		return
	}

	e.Changed = e.Evaluated && e.Value != resp.Result
	e.Value = resp.Result
	e.Type = resp.Type
	e.Ref = resp.VariablesReference
	e.Evaluated = true
	e.Err = nil

	expand := e.Expanded && e.Ref > 0
	prev := e.Children
	if !expand {
		e.Children = nil
	}
	s.mu.Unlock()

	if !expand {
		return
	}

	children, err := s.fetchChildren(ctx, e.Ref, prev)
	s.mu.Lock()
	if err != nil {
		e.Err = err
		e.Children = nil
		e.Expanded = false
	} else {
		e.Children = children
	}
	s.mu.Unlock()
}

// fetchChildren retrieves the children of a variables reference and merges
// them against the previous child list. Matched nodes are updated in place
// so external holders keep valid references; unmatched ones are new and
// start collapsed. Expanded compound children are re-fetched recursively.
// A zero-element response yields nil: children stay absent, not empty.
func (s *Store) fetchChildren(ctx context.Context, ref int, prev []*Node) ([]*Node, error) {
	args := dap.VariablesArguments{VariablesReference: ref}
	resp, err := s.session.Variables(ctx, args)
	if err != nil {
		return nil, err
	}
	if len(resp.Variables) == 0 {
		return nil, nil
	}

	next := make([]*Node, 0, len(resp.Variables))
	var recurse []*Node
	claimed := make(map[*Node]bool, len(prev))

	s.mu.Lock()
	for _, v := range resp.Variables {
		old := matchPrevious(prev, v, claimed)
		var n *Node
		if old != nil {
			claimed[old] = true
			n = old
			n.Changed = n.Value != v.Value
		} else {
			n = &Node{}
		}
		n.Name = v.Name
		n.Value = v.Value
		n.Type = v.Type
		n.Ref = v.VariablesReference
		n.EvaluateName = v.EvaluateName
		n.Err = nil

		if n.Expanded && n.Ref > 0 {
			recurse = append(recurse, n)
		} else {
			n.Children = nil
		}
		next = append(next, n)
	}
	s.mu.Unlock()

	// Sibling fetches are sequential: each expansion awaits its request
	// before the next one is issued.
	for _, n := range recurse {
		children, err := s.fetchChildren(ctx, n.Ref, n.Children)
		s.mu.Lock()
		if err != nil {
			// Only this subtree is marked errored; siblings stay valid.
			n.Err = err
			n.Children = nil
			n.Expanded = false
		} else {
			n.Children = children
		}
		s.mu.Unlock()
	}

	return next, nil
}

// matchPrevious locates the previous node a fetched variable "is": by
// evaluate name when the adapter provides one, else by variables reference,
// else nothing. A node already claimed this cycle cannot be matched twice.
func matchPrevious(prev []*Node, v dap.Variable, claimed map[*Node]bool) *Node {
	if v.EvaluateName != "" {
		for _, p := range prev {
			if !claimed[p] && p.EvaluateName == v.EvaluateName {
				return p
			}
		}
		return nil
	}
	if v.VariablesReference > 0 {
		for _, p := range prev {
			if !claimed[p] && p.EvaluateName == "" && p.Ref == v.VariablesReference {
				return p
			}
		}
	}
	return nil
}
