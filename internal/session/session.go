// Package session tracks the consumer-side state of a debug session: run
// state, the currently selected stack frame, and adapter capabilities. It
// delegates all protocol requests to a host-supplied Backend; the wire
// protocol itself lives in the host's DAP client.
package session

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/pcullen/watchpanel/internal/dap"
)

// State represents the run state of the debuggee.
type State int

const (
	// StateRunning is when the debuggee is executing.
	StateRunning State = iota
	// StateStopped is when the debuggee is paused (breakpoint, step, exception).
	StateStopped
	// StateTerminated is when the debuggee has exited or the adapter disconnected.
	StateTerminated
)

// String returns a string representation of the state.
func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Backend issues DAP requests on behalf of the session. Implementations
// wrap the host editor's debug adapter client.
type Backend interface {
	Evaluate(ctx context.Context, args dap.EvaluateArguments) (dap.EvaluateResponseBody, error)
	Variables(ctx context.Context, args dap.VariablesArguments) (dap.VariablesResponseBody, error)
	SetExpression(ctx context.Context, args dap.SetExpressionArguments) (dap.SetExpressionResponseBody, error)
	SetVariable(ctx context.Context, args dap.SetVariableArguments) (dap.SetVariableResponseBody, error)
}

// FrameRef identifies the selected stack frame. An invalid FrameRef means
// no frame is selected (for example while the debuggee is running); it is
// its own identity, distinct from every valid frame.
type FrameRef struct {
	ID    int
	Valid bool
}

// Frame returns a valid FrameRef for a stack frame ID.
func Frame(id int) FrameRef {
	return FrameRef{ID: id, Valid: true}
}

// NoFrame returns the invalid FrameRef.
func NoFrame() FrameRef {
	return FrameRef{}
}

// Equal reports whether two frame identities are the same.
func (f FrameRef) Equal(o FrameRef) bool {
	if f.Valid != o.Valid {
		return false
	}
	return !f.Valid || f.ID == o.ID
}

// Handlers contains callbacks for session lifecycle signals.
type Handlers struct {
	// OnStopped is called when the debuggee stops.
	OnStopped func(reason string)

	// OnFrameChanged is called when the selected frame identity changes.
	OnFrameChanged func(frame FrameRef)

	// OnTerminated is called when the debuggee terminates.
	OnTerminated func()
}

// Session is the watch panel's view of one debug session.
type Session struct {
	id      string
	backend Backend
	caps    dap.Capabilities

	mu    sync.RWMutex
	state State
	frame FrameRef

	handlers   Handlers
	handlersMu sync.RWMutex
}

// New creates a session over the given backend with the adapter
// capabilities reported at initialize time.
func New(backend Backend, caps dap.Capabilities) *Session {
	return &Session{
		id:      uuid.New().String(),
		backend: backend,
		caps:    caps,
		state:   StateRunning,
	}
}

// ID returns the session's unique identifier.
func (s *Session) ID() string {
	return s.id
}

// SetHandlers sets the lifecycle signal handlers.
func (s *Session) SetHandlers(handlers Handlers) {
	s.handlersMu.Lock()
	s.handlers = handlers
	s.handlersMu.Unlock()
}

// State returns the current run state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Stopped reports whether the debuggee is paused and can be evaluated against.
func (s *Session) Stopped() bool {
	return s.State() == StateStopped
}

// Frame returns the currently selected frame identity.
func (s *Session) Frame() FrameRef {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frame
}

// Capabilities returns the adapter capabilities.
func (s *Session) Capabilities() dap.Capabilities {
	return s.caps
}

// HandleStopped records a stopped event from the adapter. The host selects
// a frame separately via SelectFrame once it has a stack trace.
func (s *Session) HandleStopped(body dap.StoppedEventBody) {
	s.mu.Lock()
	s.state = StateStopped
	s.mu.Unlock()

	s.handlersMu.RLock()
	handler := s.handlers.OnStopped
	s.handlersMu.RUnlock()

	if handler != nil {
		handler(body.Reason)
	}
}

// HandleContinued records that the debuggee resumed. The selected frame is
// cleared; frame-change handlers fire only if a frame was selected.
func (s *Session) HandleContinued() {
	s.mu.Lock()
	s.state = StateRunning
	s.mu.Unlock()

	s.SelectFrame(NoFrame())
}

// HandleTerminated records a terminated event from the adapter.
func (s *Session) HandleTerminated(body dap.TerminatedEventBody) {
	s.mu.Lock()
	s.state = StateTerminated
	s.frame = NoFrame()
	s.mu.Unlock()

	s.handlersMu.RLock()
	handler := s.handlers.OnTerminated
	s.handlersMu.RUnlock()

	if handler != nil {
		handler()
	}
}

// SelectFrame sets the selected frame. Handlers fire only when the frame
// identity actually changes, so repeated selection of the same frame does
// not trigger redundant refreshes downstream.
func (s *Session) SelectFrame(frame FrameRef) {
	s.mu.Lock()
	old := s.frame
	s.frame = frame
	s.mu.Unlock()

	if old.Equal(frame) {
		return
	}

	s.handlersMu.RLock()
	handler := s.handlers.OnFrameChanged
	s.handlersMu.RUnlock()

	if handler != nil {
		handler(frame)
	}
}

// Evaluate evaluates an expression in the given frame.
func (s *Session) Evaluate(ctx context.Context, args dap.EvaluateArguments) (dap.EvaluateResponseBody, error) {
	return s.backend.Evaluate(ctx, args)
}

// Variables retrieves child variables for a variables reference.
func (s *Session) Variables(ctx context.Context, args dap.VariablesArguments) (dap.VariablesResponseBody, error) {
	return s.backend.Variables(ctx, args)
}

// SetExpression assigns a new value to an expression.
func (s *Session) SetExpression(ctx context.Context, args dap.SetExpressionArguments) (dap.SetExpressionResponseBody, error) {
	return s.backend.SetExpression(ctx, args)
}

// SetVariable assigns a new value to a variable within a container.
func (s *Session) SetVariable(ctx context.Context, args dap.SetVariableArguments) (dap.SetVariableResponseBody, error) {
	return s.backend.SetVariable(ctx, args)
}
