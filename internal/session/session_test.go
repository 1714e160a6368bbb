package session

import (
	"context"
	"testing"

	"github.com/pcullen/watchpanel/internal/dap"
)

type stubBackend struct{}

func (stubBackend) Evaluate(context.Context, dap.EvaluateArguments) (dap.EvaluateResponseBody, error) {
	return dap.EvaluateResponseBody{}, nil
}
func (stubBackend) Variables(context.Context, dap.VariablesArguments) (dap.VariablesResponseBody, error) {
	return dap.VariablesResponseBody{}, nil
}
func (stubBackend) SetExpression(context.Context, dap.SetExpressionArguments) (dap.SetExpressionResponseBody, error) {
	return dap.SetExpressionResponseBody{}, nil
}
func (stubBackend) SetVariable(context.Context, dap.SetVariableArguments) (dap.SetVariableResponseBody, error) {
	return dap.SetVariableResponseBody{}, nil
}

func TestFrameRef_Equal(t *testing.T) {
	tests := []struct {
		name     string
		a, b     FrameRef
		expected bool
	}{
		{"same frame", Frame(1), Frame(1), true},
		{"different frames", Frame(1), Frame(2), false},
		{"no frame vs no frame", NoFrame(), NoFrame(), true},
		{"no frame vs frame", NoFrame(), Frame(1), false},
		{"no frame vs frame zero", NoFrame(), Frame(0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.a.Equal(tt.b) != tt.expected {
				t.Errorf("Equal() = %v, expected %v", tt.a.Equal(tt.b), tt.expected)
			}
			if tt.b.Equal(tt.a) != tt.expected {
				t.Errorf("Equal() not symmetric for %v, %v", tt.a, tt.b)
			}
		})
	}
}

func TestSession_StateTransitions(t *testing.T) {
	s := New(stubBackend{}, dap.Capabilities{})

	if s.State() != StateRunning {
		t.Errorf("initial state = %v, expected running", s.State())
	}
	if s.Stopped() {
		t.Error("Stopped() = true for a running session")
	}

	s.HandleStopped(dap.StoppedEventBody{Reason: "breakpoint"})
	if !s.Stopped() {
		t.Error("Stopped() = false after stopped event")
	}

	s.HandleContinued()
	if s.State() != StateRunning {
		t.Errorf("state = %v after continue, expected running", s.State())
	}

	s.HandleTerminated(dap.TerminatedEventBody{})
	if s.State() != StateTerminated {
		t.Errorf("state = %v after terminate, expected terminated", s.State())
	}
}

func TestSession_SelectFrameFiresOnlyOnChange(t *testing.T) {
	s := New(stubBackend{}, dap.Capabilities{})

	var changes []FrameRef
	s.SetHandlers(Handlers{
		OnFrameChanged: func(frame FrameRef) {
			changes = append(changes, frame)
		},
	})

	s.SelectFrame(Frame(1))
	s.SelectFrame(Frame(1)) // unchanged identity
	s.SelectFrame(Frame(2))
	s.SelectFrame(NoFrame())
	s.SelectFrame(NoFrame()) // unchanged identity

	if len(changes) != 3 {
		t.Fatalf("frame change callbacks = %d, expected 3", len(changes))
	}
	if !changes[0].Equal(Frame(1)) || !changes[1].Equal(Frame(2)) || !changes[2].Equal(NoFrame()) {
		t.Errorf("frame changes = %v", changes)
	}
}

func TestSession_ContinueClearsFrame(t *testing.T) {
	s := New(stubBackend{}, dap.Capabilities{})
	s.SelectFrame(Frame(7))

	s.HandleContinued()

	if s.Frame().Valid {
		t.Error("frame should be cleared when the debuggee resumes")
	}
}

func TestSession_HandlerCallbacks(t *testing.T) {
	s := New(stubBackend{}, dap.Capabilities{})

	var stoppedReason string
	terminated := false
	s.SetHandlers(Handlers{
		OnStopped:    func(reason string) { stoppedReason = reason },
		OnTerminated: func() { terminated = true },
	})

	s.HandleStopped(dap.StoppedEventBody{Reason: "step"})
	if stoppedReason != "step" {
		t.Errorf("stopped reason = %s, expected step", stoppedReason)
	}

	s.HandleTerminated(dap.TerminatedEventBody{})
	if !terminated {
		t.Error("terminated handler not called")
	}
}

func TestSession_IDUnique(t *testing.T) {
	a := New(stubBackend{}, dap.Capabilities{})
	b := New(stubBackend{}, dap.Capabilities{})

	if a.ID() == "" {
		t.Error("session ID should not be empty")
	}
	if a.ID() == b.ID() {
		t.Error("session IDs should be unique")
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state    State
		expected string
	}{
		{StateRunning, "running"},
		{StateStopped, "stopped"},
		{StateTerminated, "terminated"},
		{State(99), "unknown"},
	}

	for _, tt := range tests {
		if tt.state.String() != tt.expected {
			t.Errorf("String() = %s, expected %s", tt.state.String(), tt.expected)
		}
	}
}
