package rows

import (
	"context"
	"errors"
	"testing"

	"github.com/pcullen/watchpanel/internal/dap"
	"github.com/pcullen/watchpanel/internal/format"
	"github.com/pcullen/watchpanel/internal/session"
	"github.com/pcullen/watchpanel/internal/watch"
)

type fakeSession struct {
	evalResults map[string]dap.EvaluateResponseBody
	evalErrs    map[string]error
	varResults  map[int]dap.VariablesResponseBody
}

func (f *fakeSession) Stopped() bool                  { return true }
func (f *fakeSession) Frame() session.FrameRef        { return session.Frame(1) }
func (f *fakeSession) Capabilities() dap.Capabilities { return dap.Capabilities{} }

func (f *fakeSession) Evaluate(_ context.Context, args dap.EvaluateArguments) (dap.EvaluateResponseBody, error) {
	if err := f.evalErrs[args.Expression]; err != nil {
		return dap.EvaluateResponseBody{}, err
	}
	return f.evalResults[args.Expression], nil
}

func (f *fakeSession) Variables(_ context.Context, args dap.VariablesArguments) (dap.VariablesResponseBody, error) {
	return f.varResults[args.VariablesReference], nil
}

func (f *fakeSession) SetExpression(context.Context, dap.SetExpressionArguments) (dap.SetExpressionResponseBody, error) {
	return dap.SetExpressionResponseBody{}, nil
}

func (f *fakeSession) SetVariable(context.Context, dap.SetVariableArguments) (dap.SetVariableResponseBody, error) {
	return dap.SetVariableResponseBody{}, nil
}

func buildStore(t *testing.T) *watch.Store {
	t.Helper()
	fake := &fakeSession{
		evalResults: map[string]dap.EvaluateResponseBody{
			"counter": {Result: "5", Type: "int"},
			"obj":     {Result: "T{...}", Type: "T", VariablesReference: 1},
		},
		evalErrs: map[string]error{},
		varResults: map[int]dap.VariablesResponseBody{
			1: {Variables: []dap.Variable{
				{Name: "f", Value: "1", Type: "int", EvaluateName: "obj.f"},
				{Name: "inner", Value: "", Type: "S", VariablesReference: 2},
			}},
		},
	}
	s := watch.NewStore(fake)
	ctx := context.Background()
	if err := s.Add(ctx, "counter", false, watch.Append); err != nil {
		t.Fatalf("Add(counter) failed: %v", err)
	}
	if err := s.Add(ctx, "obj", true, watch.Append); err != nil {
		t.Fatalf("Add(obj) failed: %v", err)
	}
	return s
}

func TestBuild_FlattensTree(t *testing.T) {
	s := buildStore(t)

	rs := Build(s, nil)
	if len(rs) != 4 {
		t.Fatalf("rows = %d, expected 4", len(rs))
	}

	if rs[0].Kind != KindExpression || rs[0].Label != "counter" || rs[0].Value != "5" || rs[0].Depth != 0 {
		t.Errorf("row 0 = %+v", rs[0])
	}
	if rs[1].Kind != KindExpression || rs[1].Label != "obj" || !rs[1].Expanded || !rs[1].HasChildren {
		t.Errorf("row 1 = %+v", rs[1])
	}
	if rs[2].Kind != KindVariable || rs[2].Label != "f" || rs[2].Depth != 1 || rs[2].ParentRef != 1 {
		t.Errorf("row 2 = %+v", rs[2])
	}
	if rs[3].Label != "inner" || !rs[3].ExpandHint {
		t.Errorf("row 3 = %+v, expected expand hint for empty compound value", rs[3])
	}
}

func TestBuild_ErrorRowHasNoValue(t *testing.T) {
	fake := &fakeSession{
		evalResults: map[string]dap.EvaluateResponseBody{},
		evalErrs:    map[string]error{"broken": errors.New("no such variable")},
		varResults:  map[int]dap.VariablesResponseBody{},
	}
	s := watch.NewStore(fake)
	s.Add(context.Background(), "broken", false, watch.Append)

	rs := Build(s, nil)
	if len(rs) != 1 {
		t.Fatalf("rows = %d, expected 1", len(rs))
	}
	if rs[0].Err == nil {
		t.Error("expected the error on the row")
	}
	if rs[0].Value != "" {
		t.Errorf("Value = %q, expected empty: the error replaces the result", rs[0].Value)
	}
}

func TestBuild_AppliesFormatter(t *testing.T) {
	s := buildStore(t)

	wrap := format.Func(func(_, _, value string) string {
		return "<" + value + ">"
	})
	rs := Build(s, wrap)

	if rs[0].Value != "<5>" {
		t.Errorf("row 0 value = %q, expected <5>", rs[0].Value)
	}
	found := false
	for _, r := range rs {
		if r.Label == "f" && r.Value == "<1>" {
			found = true
		}
	}
	if !found {
		t.Error("formatted child row not found")
	}
}

func TestRow_CopyText(t *testing.T) {
	s := buildStore(t)
	rs := Build(s, nil)

	text, err := rs[1].CopyText()
	if err != nil || text != "obj" {
		t.Errorf("CopyText() = %q, %v, expected obj, nil", text, err)
	}

	text, err = rs[2].CopyText()
	if err != nil || text != "obj.f" {
		t.Errorf("CopyText() = %q, %v, expected obj.f, nil", text, err)
	}

	// "inner" has no evaluate name: not addressable.
	if _, err := rs[3].CopyText(); !errors.Is(err, watch.ErrNotAddressable) {
		t.Errorf("CopyText() = %v, expected ErrNotAddressable", err)
	}
}
