package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/pcullen/watchpanel/internal/dap"
)

// Variables references handed out by the scripted program. The program is
// small enough that fixed references work; real adapters allocate per stop.
const (
	refItems = 1001
	refPoint = 1002
)

// demoProgram is a scripted in-memory debuggee. Each Step mutates a few
// variables so the watch panel has something to diff against.
type demoProgram struct {
	mu      sync.Mutex
	step    int
	counter int
	items   [3]int
	px, py  int
}

func newDemoProgram() *demoProgram {
	return &demoProgram{px: 10, py: 20}
}

// Step advances the scripted program one "instruction".
func (p *demoProgram) Step() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.step++
	p.counter++
	p.items[p.step%3]++
	if p.step%2 == 0 {
		p.px += 2
	}
}

// Evaluate implements session.Backend.
func (p *demoProgram) Evaluate(_ context.Context, args dap.EvaluateArguments) (dap.EvaluateResponseBody, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch args.Expression {
	case "step":
		return intResult(p.step), nil
	case "counter":
		return intResult(p.counter), nil
	case "items":
		return dap.EvaluateResponseBody{
			Result:             fmt.Sprintf("[3]int [%d %d %d]", p.items[0], p.items[1], p.items[2]),
			Type:               "[3]int",
			VariablesReference: refItems,
		}, nil
	case "point":
		// No inline rendering; the panel shows an expand hint.
		return dap.EvaluateResponseBody{Type: "Point", VariablesReference: refPoint}, nil
	case "point.x":
		return intResult(p.px), nil
	case "point.y":
		return intResult(p.py), nil
	}
	if i, ok := itemIndex(args.Expression); ok {
		return intResult(p.items[i]), nil
	}
	return dap.EvaluateResponseBody{}, fmt.Errorf("unable to evaluate %q", args.Expression)
}

// Variables implements session.Backend.
func (p *demoProgram) Variables(_ context.Context, args dap.VariablesArguments) (dap.VariablesResponseBody, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch args.VariablesReference {
	case refItems:
		var vars []dap.Variable
		for i, v := range p.items {
			vars = append(vars, dap.Variable{
				Name:         fmt.Sprintf("[%d]", i),
				Value:        strconv.Itoa(v),
				Type:         "int",
				EvaluateName: fmt.Sprintf("items[%d]", i),
			})
		}
		return dap.VariablesResponseBody{Variables: vars}, nil
	case refPoint:
		return dap.VariablesResponseBody{Variables: []dap.Variable{
			{Name: "x", Value: strconv.Itoa(p.px), Type: "int", EvaluateName: "point.x"},
			{Name: "y", Value: strconv.Itoa(p.py), Type: "int", EvaluateName: "point.y"},
		}}, nil
	}
	return dap.VariablesResponseBody{}, fmt.Errorf("unknown variablesReference %d", args.VariablesReference)
}

// SetExpression implements session.Backend.
func (p *demoProgram) SetExpression(_ context.Context, args dap.SetExpressionArguments) (dap.SetExpressionResponseBody, error) {
	v, err := strconv.Atoi(strings.TrimSpace(args.Value))
	if err != nil {
		return dap.SetExpressionResponseBody{}, fmt.Errorf("cannot assign %q: not an integer", args.Value)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	switch args.Expression {
	case "counter":
		p.counter = v
	case "point.x":
		p.px = v
	case "point.y":
		p.py = v
	default:
		if i, ok := itemIndex(args.Expression); ok {
			p.items[i] = v
			break
		}
		return dap.SetExpressionResponseBody{}, fmt.Errorf("%q is not assignable", args.Expression)
	}
	return dap.SetExpressionResponseBody{Value: strconv.Itoa(v), Type: "int"}, nil
}

// SetVariable implements session.Backend.
func (p *demoProgram) SetVariable(_ context.Context, args dap.SetVariableArguments) (dap.SetVariableResponseBody, error) {
	v, err := strconv.Atoi(strings.TrimSpace(args.Value))
	if err != nil {
		return dap.SetVariableResponseBody{}, fmt.Errorf("cannot assign %q: not an integer", args.Value)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	switch args.VariablesReference {
	case refPoint:
		switch args.Name {
		case "x":
			p.px = v
		case "y":
			p.py = v
		default:
			return dap.SetVariableResponseBody{}, fmt.Errorf("point has no field %q", args.Name)
		}
	case refItems:
		i, ok := itemIndex("items" + args.Name)
		if !ok {
			return dap.SetVariableResponseBody{}, fmt.Errorf("items has no element %q", args.Name)
		}
		p.items[i] = v
	default:
		return dap.SetVariableResponseBody{}, fmt.Errorf("unknown variablesReference %d", args.VariablesReference)
	}
	return dap.SetVariableResponseBody{Value: strconv.Itoa(v), Type: "int"}, nil
}

func intResult(v int) dap.EvaluateResponseBody {
	return dap.EvaluateResponseBody{Result: strconv.Itoa(v), Type: "int"}
}

// itemIndex parses "items[N]" into a valid array index.
func itemIndex(expr string) (int, bool) {
	if !strings.HasPrefix(expr, "items[") || !strings.HasSuffix(expr, "]") {
		return 0, false
	}
	i, err := strconv.Atoi(expr[len("items[") : len(expr)-1])
	if err != nil || i < 0 || i > 2 {
		return 0, false
	}
	return i, true
}
