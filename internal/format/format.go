// Package format customizes how watch values are displayed. The default
// formatter passes adapter values through unchanged; hosts can install a
// Lua-scripted formatter to shorten, colorize-by-rewriting or otherwise
// transform values before they reach the renderer.
package format

// Formatter transforms a value's display text. Implementations must not
// mutate watch state; they see copies of display strings only.
type Formatter interface {
	// FormatValue returns the display text for a value. name is the
	// expression text or variable name, typ the adapter-reported type.
	FormatValue(name, typ, value string) string
}

type rawFormatter struct{}

func (rawFormatter) FormatValue(_, _, value string) string {
	return value
}

// Raw returns the passthrough formatter.
func Raw() Formatter {
	return rawFormatter{}
}

// Func adapts a plain function to a Formatter.
type Func func(name, typ, value string) string

// FormatValue calls f.
func (f Func) FormatValue(name, typ, value string) string {
	return f(name, typ, value)
}
