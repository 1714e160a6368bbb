// Package watch implements the watch-expressions store for a debugger
// front-end: a set of user-registered expressions, each carrying a
// recursively expandable tree of variable views that is kept in sync with
// the debug session as execution moves.
//
// # Architecture
//
//	┌─────────────────────────────────────────────────────────────┐
//	│                        Watch Store                          │
//	│  - Expression lifecycle (add / remove / edit / copy)        │
//	│  - Refresh orchestration (frame change, stop, mutation)     │
//	│  - Reconciliation: merge fresh fetches into existing trees  │
//	└─────────────────────────────────────────────────────────────┘
//	                             │
//	                             ▼
//	┌─────────────────────────────────────────────────────────────┐
//	│                     Session (interface)                     │
//	│  - evaluate / variables / setExpression / setVariable       │
//	│  - stopped state, selected frame, adapter capabilities      │
//	└─────────────────────────────────────────────────────────────┘
//
// # Reconciliation
//
// Every refresh re-evaluates each expression against the selected frame and
// merges the response into the existing tree in place: Expression and Node
// objects are mutated, never replaced, so holders of a node keep a valid
// reference across refreshes. Child identity across fetches is matched by
// evaluate name when the adapter provides one, else by variables reference;
// an unmatched child is new and starts collapsed with no change flag.
// Value diffs against the previous cycle set the Changed flag, which is
// recomputed fresh every cycle and never carried over.
//
// Expanded compound nodes are re-fetched recursively with the same merge
// discipline. Collapsing a node drops its children so the next expansion
// fetches fresh data rather than serving a stale subtree.
//
// # Failure behavior
//
// A failed evaluate replaces the visible result with the error, drops the
// children and collapses the node. A failed child fetch marks only that
// subtree; siblings keep their values. Nothing is retried automatically;
// the user re-triggers by expanding or refreshing again.
package watch
