// Package dap defines the Debug Adapter Protocol shapes the watch panel
// consumes. Only the requests the panel issues (evaluate, variables,
// setExpression, setVariable) and the session events it reacts to are
// modeled here; transport and the remaining protocol surface belong to the
// host's DAP client.
package dap

// Capabilities describes the adapter features the watch panel cares about.
type Capabilities struct {
	SupportsSetExpression    bool `json:"supportsSetExpression,omitempty"`
	SupportsSetVariable      bool `json:"supportsSetVariable,omitempty"`
	SupportsClipboardContext bool `json:"supportsClipboardContext,omitempty"`
}

// EvaluateArguments are the arguments for the evaluate request.
type EvaluateArguments struct {
	Expression string `json:"expression"`
	FrameID    int    `json:"frameId,omitempty"`
	Context    string `json:"context,omitempty"` // "watch", "repl", "hover", "clipboard"
}

// EvaluateResponseBody is the response body for evaluate.
type EvaluateResponseBody struct {
	Result             string `json:"result"`
	Type               string `json:"type,omitempty"`
	VariablesReference int    `json:"variablesReference"`
	NamedVariables     int    `json:"namedVariables,omitempty"`
	IndexedVariables   int    `json:"indexedVariables,omitempty"`
}

// VariablesArguments are the arguments for the variables request.
type VariablesArguments struct {
	VariablesReference int    `json:"variablesReference"`
	Filter             string `json:"filter,omitempty"` // "indexed", "named"
	Start              int    `json:"start,omitempty"`
	Count              int    `json:"count,omitempty"`
}

// VariablesResponseBody is the response body for variables.
type VariablesResponseBody struct {
	Variables []Variable `json:"variables"`
}

// Variable represents a variable or field returned by the adapter.
type Variable struct {
	Name               string `json:"name"`
	Value              string `json:"value"`
	Type               string `json:"type,omitempty"`
	EvaluateName       string `json:"evaluateName,omitempty"`
	VariablesReference int    `json:"variablesReference"`
	NamedVariables     int    `json:"namedVariables,omitempty"`
	IndexedVariables   int    `json:"indexedVariables,omitempty"`
}

// HasChildren returns true if the variable is a compound value.
func (v Variable) HasChildren() bool {
	return v.VariablesReference > 0
}

// SetExpressionArguments are the arguments for setExpression.
type SetExpressionArguments struct {
	Expression string `json:"expression"`
	Value      string `json:"value"`
	FrameID    int    `json:"frameId,omitempty"`
}

// SetExpressionResponseBody is the response body for setExpression.
type SetExpressionResponseBody struct {
	Value              string `json:"value"`
	Type               string `json:"type,omitempty"`
	VariablesReference int    `json:"variablesReference,omitempty"`
}

// SetVariableArguments are the arguments for setVariable.
type SetVariableArguments struct {
	VariablesReference int    `json:"variablesReference"`
	Name               string `json:"name"`
	Value              string `json:"value"`
}

// SetVariableResponseBody is the response body for setVariable.
type SetVariableResponseBody struct {
	Value              string `json:"value"`
	Type               string `json:"type,omitempty"`
	VariablesReference int    `json:"variablesReference,omitempty"`
}

// StackFrame identifies a frame in the paused execution context.
type StackFrame struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

// StoppedEventBody is the body of the stopped event.
type StoppedEventBody struct {
	Reason            string `json:"reason"` // "step", "breakpoint", "exception", "pause", "entry"
	Description       string `json:"description,omitempty"`
	ThreadID          int    `json:"threadId,omitempty"`
	AllThreadsStopped bool   `json:"allThreadsStopped,omitempty"`
}

// TerminatedEventBody is the body of the terminated event.
type TerminatedEventBody struct {
	Restart any `json:"restart,omitempty"`
}

// ErrorMessage contains structured error details from a failed response.
type ErrorMessage struct {
	ID        int               `json:"id"`
	Format    string            `json:"format"`
	Variables map[string]string `json:"variables,omitempty"`
}
