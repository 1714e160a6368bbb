package watch

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/pcullen/watchpanel/internal/session"
)

// Store owns the set of watched expressions and their variable trees.
type Store struct {
	session  Session
	notifier Notifier

	mu         sync.RWMutex
	exprs      map[string]*Expression
	appendSeq  int64 // next append order, ascending from 0
	prependSeq int64 // next prepend order, descending from -1

	// Refresh coalescing: at most one pass runs at a time; a trigger
	// arriving mid-pass queues exactly one follow-up pass.
	refreshMu  sync.Mutex
	refreshing bool
	queued     bool

	// Last frame identity seen by the orchestrator. "No frame" is an
	// identity of its own, not a missing value.
	lastFrame session.FrameRef
}

// Option configures a Store.
type Option func(*Store)

// WithNotifier sets the notifier for transient user-facing reports.
func WithNotifier(n Notifier) Option {
	return func(s *Store) {
		if n != nil {
			s.notifier = n
		}
	}
}

// NewStore creates a watch store bound to a debug session.
func NewStore(sess Session, opts ...Option) *Store {
	s := &Store{
		session:    sess,
		notifier:   nopNotifier{},
		exprs:      make(map[string]*Expression),
		prependSeq: -1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Len returns the number of watched expressions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.exprs)
}

// Expression returns the watched expression for a key.
func (s *Store) Expression(key string) (*Expression, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.exprs[key]
	if !ok {
		return nil, ErrNotFound
	}
	return e, nil
}

// Expressions returns all watched expressions in display order.
func (s *Store) Expressions() []*Expression {
	s.mu.RLock()
	result := make([]*Expression, 0, len(s.exprs))
	for _, e := range s.exprs {
		result = append(result, e)
	}
	s.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		return result[i].order < result[j].order
	})
	return result
}

// Add registers an expression and evaluates it once before returning.
// Re-adding an existing expression moves it to the requested position
// instead of duplicating it; its tree and expand state survive.
func (s *Store) Add(ctx context.Context, text string, expanded bool, pos Position) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyExpression
	}
	if !s.session.Stopped() {
		return ErrNotStopped
	}

	s.mu.Lock()
	e, ok := s.exprs[text]
	if ok {
		e.order = s.nextOrder(pos)
	} else {
		e = &Expression{
			Text:     text,
			Expanded: expanded,
			order:    s.nextOrder(pos),
		}
		s.exprs[text] = e
	}
	s.mu.Unlock()

	s.evaluateExpression(ctx, e)
	return nil
}

// nextOrder assigns a fresh, never-reused sort key. Caller holds s.mu.
func (s *Store) nextOrder(pos Position) int64 {
	if pos == Prepend {
		order := s.prependSeq
		s.prependSeq--
		return order
	}
	order := s.appendSeq
	s.appendSeq++
	return order
}

// Remove deletes a watched expression by its text.
func (s *Store) Remove(key string) error {
	s.mu.Lock()
	_, ok := s.exprs[key]
	if ok {
		delete(s.exprs, key)
	}
	s.mu.Unlock()

	if !ok {
		s.notifier.Info("no watch expression on this row")
		return ErrNotFound
	}
	return nil
}

// Edit replaces an expression's text in place, keeping its position and
// expand state. Editing onto a text that is already watched merges into
// that entry: the existing expression keeps its object and tree and moves
// to the edited row's position. If the new text fails to evaluate the row
// shows the error; the old text is not restored.
func (s *Store) Edit(ctx context.Context, key, newText string) error {
	newText = strings.TrimSpace(newText)
	if newText == "" {
		return ErrEmptyExpression
	}
	if !s.session.Stopped() {
		return ErrNotStopped
	}

	s.mu.Lock()
	e, ok := s.exprs[key]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	if newText != key {
		delete(s.exprs, key)
		if existing, dup := s.exprs[newText]; dup {
			existing.order = e.order
			e = existing
		} else {
			e = &Expression{
				Text:     newText,
				Expanded: e.Expanded,
				order:    e.order,
			}
			s.exprs[newText] = e
		}
	}
	s.mu.Unlock()

	s.evaluateExpression(ctx, e)
	return nil
}

// ExpressionText returns the text of a watched expression for clipboard use.
func (s *Store) ExpressionText(key string) (string, error) {
	e, err := s.Expression(key)
	if err != nil {
		return "", err
	}
	return e.Text, nil
}

// VariablePath returns the evaluate name re-addressing a variable for
// clipboard use. Fails for variables without a stable path.
func (s *Store) VariablePath(n *Node) (string, error) {
	if n.EvaluateName == "" {
		return "", ErrNotAddressable
	}
	return n.EvaluateName, nil
}

// ExpandExpression marks an expression expanded and fetches its children.
// Requires a paused debuggee, like every operation that talks to the backend.
func (s *Store) ExpandExpression(ctx context.Context, key string) error {
	if !s.session.Stopped() {
		return ErrNotStopped
	}

	s.mu.Lock()
	e, ok := s.exprs[key]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	e.Expanded = true
	ref := e.Ref
	prev := e.Children
	s.mu.Unlock()

	if ref == 0 {
		return nil
	}

	children, err := s.fetchChildren(ctx, ref, prev)
	s.mu.Lock()
	if err != nil {
		e.Err = err
		e.Children = nil
		e.Expanded = false
	} else {
		e.Children = children
	}
	s.mu.Unlock()
	return err
}

// CollapseExpression collapses an expression and drops its children, so
// the next expansion fetches fresh data.
func (s *Store) CollapseExpression(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.exprs[key]
	if !ok {
		return ErrNotFound
	}
	e.Expanded = false
	e.Children = nil
	return nil
}

// ExpandNode marks a variable node expanded and fetches its children.
// Requires a paused debuggee, like every operation that talks to the backend.
func (s *Store) ExpandNode(ctx context.Context, n *Node) error {
	if !s.session.Stopped() {
		return ErrNotStopped
	}

	s.mu.Lock()
	n.Expanded = true
	ref := n.Ref
	prev := n.Children
	s.mu.Unlock()

	if ref == 0 {
		return nil
	}

	children, err := s.fetchChildren(ctx, ref, prev)
	s.mu.Lock()
	if err != nil {
		n.Err = err
		n.Children = nil
		n.Expanded = false
	} else {
		n.Children = children
	}
	s.mu.Unlock()
	return err
}

// CollapseNode collapses a variable node and drops its children.
func (s *Store) CollapseNode(n *Node) {
	s.mu.Lock()
	n.Expanded = false
	n.Children = nil
	s.mu.Unlock()
}
