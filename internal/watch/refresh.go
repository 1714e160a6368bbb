package watch

import (
	"context"

	"github.com/pcullen/watchpanel/internal/session"
)

// RefreshAll re-evaluates every watched expression against the current
// frame, preserving each one's expanded tree. An empty store is a cheap
// no-op. At most one pass runs at a time: a call arriving while a pass is
// in flight queues exactly one follow-up pass and returns, so interleaved
// partial updates to the same expression cannot occur.
func (s *Store) RefreshAll(ctx context.Context) {
	s.refreshMu.Lock()
	if s.refreshing {
		s.queued = true
		s.refreshMu.Unlock()
		return
	}
	s.refreshing = true
	s.refreshMu.Unlock()

	for {
		for _, e := range s.Expressions() {
			s.evaluateExpression(ctx, e)
		}

		s.refreshMu.Lock()
		if !s.queued {
			s.refreshing = false
			s.refreshMu.Unlock()
			return
		}
		s.queued = false
		s.refreshMu.Unlock()
	}
}

// HandleStopped refreshes all expressions in response to a stopped event.
func (s *Store) HandleStopped(ctx context.Context) {
	s.RefreshAll(ctx)
}

// HandleFrameChanged refreshes all expressions when the selected frame
// identity changes. An unchanged frame is ignored so unrelated session
// events do not cause redundant adapter traffic; "no frame" is a distinct
// identity, not equivalent to no change.
func (s *Store) HandleFrameChanged(ctx context.Context, frame session.FrameRef) {
	s.mu.Lock()
	if s.lastFrame.Equal(frame) {
		s.mu.Unlock()
		return
	}
	s.lastFrame = frame
	s.mu.Unlock()

	s.RefreshAll(ctx)
}

// Bind wires the store's refresh triggers to a session's lifecycle signals.
func (s *Store) Bind(ctx context.Context, sess *session.Session) {
	sess.SetHandlers(session.Handlers{
		OnStopped: func(string) {
			s.HandleStopped(ctx)
		},
		OnFrameChanged: func(frame session.FrameRef) {
			s.HandleFrameChanged(ctx, frame)
		},
	})
}
