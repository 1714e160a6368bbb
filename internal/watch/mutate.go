package watch

import (
	"context"

	"github.com/pcullen/watchpanel/internal/dap"
)

// SetExpressionValue assigns a new value to a top-level watched expression
// in the live process. Requires the adapter's setExpression capability;
// without it the operation fails before any request is issued. A mutation
// can have arbitrary side effects on other watches aliasing the same state,
// so success triggers a full refresh rather than updating the one row.
// The local view is never updated optimistically.
func (s *Store) SetExpressionValue(ctx context.Context, key, value string) error {
	e, err := s.Expression(key)
	if err != nil {
		return err
	}
	if !s.session.Capabilities().SupportsSetExpression {
		s.notifier.Error(ErrSetExpressionUnsupported.Error())
		return ErrSetExpressionUnsupported
	}
	if !s.session.Stopped() {
		return ErrNotStopped
	}

	args := dap.SetExpressionArguments{
		Expression: e.Text,
		Value:      value,
	}
	if frame := s.session.Frame(); frame.Valid {
		args.FrameID = frame.ID
	}

	if _, err := s.session.SetExpression(ctx, args); err != nil {
		s.notifier.Error(err.Error())
		return err
	}

	s.RefreshAll(ctx)
	return nil
}

// SetVariableValue assigns a new value to a variable identified by its
// parent's variables reference and its name. Same full-refresh-on-success
// policy as SetExpressionValue.
func (s *Store) SetVariableValue(ctx context.Context, parentRef int, name, value string) error {
	if !s.session.Stopped() {
		return ErrNotStopped
	}

	args := dap.SetVariableArguments{
		VariablesReference: parentRef,
		Name:               name,
		Value:              value,
	}

	if _, err := s.session.SetVariable(ctx, args); err != nil {
		s.notifier.Error(err.Error())
		return err
	}

	s.RefreshAll(ctx)
	return nil
}
