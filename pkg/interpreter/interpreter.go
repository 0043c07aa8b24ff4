package interpreter

import (
	"github.com/ConorOBrien-Foxx/Maverick/pkg/lexer"
	"github.com/ConorOBrien-Foxx/Maverick/pkg/parser"
	"github.com/ConorOBrien-Foxx/Maverick/pkg/registry"
	"github.com/ConorOBrien-Foxx/Maverick/pkg/runtime"
)

// Options configures an Interpreter.
type Options struct {
	// Host supplies program arguments and receives output. Defaults to a
	// host with no arguments that discards output.
	Host runtime.Host
}

// Interpreter runs programs against a registry. It keeps no state between
// runs, so one Interpreter may serve concurrent callers.
type Interpreter struct {
	reg    *registry.Registry
	lexer  *lexer.Lexer
	parser *parser.Parser
	host   runtime.Host
}

// New returns an interpreter using reg, or the built-in registry when reg is
// nil.
func New(reg *registry.Registry, opts Options) *Interpreter {
	if reg == nil {
		reg = registry.Default()
	}
	host := opts.Host
	if host == nil {
		host = NewHost(nil, nil)
	}
	return &Interpreter{
		reg:    reg,
		lexer:  lexer.New(reg),
		parser: parser.New(reg),
		host:   host,
	}
}

// Registry returns the registry the interpreter resolves names against.
func (i *Interpreter) Registry() *registry.Registry { return i.reg }

// Result is what a run leaves behind.
type Result struct {
	// Stack holds every value left on the evaluation stack, bottom first.
	Stack []runtime.Value
	// Output is true when the program wrote through `out` or `outc`.
	Output bool
}

// Value collapses the stack: a single value is returned as-is, anything
// else as a sequence of the stack contents.
func (r *Result) Value() runtime.Value {
	if len(r.Stack) == 1 {
		return r.Stack[0]
	}
	return runtime.NewArray(r.Stack...)
}

// Display renders the final stack.
func (r *Result) Display() string {
	return runtime.DisplayStack(r.Stack)
}

// Tokenize splits src into tokens.
func (i *Interpreter) Tokenize(src string) ([]lexer.Token, error) {
	return i.lexer.Tokenize(src)
}

// Parse tokenizes and parses src.
func (i *Interpreter) Parse(src string) (*parser.Program, error) {
	tokens, err := i.lexer.Tokenize(src)
	if err != nil {
		return nil, err
	}
	return i.parser.Parse(tokens)
}

// Run evaluates an already parsed program.
func (i *Interpreter) Run(program *parser.Program) (*Result, error) {
	vm := newStackVM(i.reg, i.host)
	if err := vm.run(program); err != nil {
		return nil, err
	}
	return &Result{Stack: vm.stack, Output: vm.ctx.Wrote}, nil
}

// Exec tokenizes, parses and evaluates src.
func (i *Interpreter) Exec(src string) (*Result, error) {
	program, err := i.Parse(src)
	if err != nil {
		return nil, err
	}
	return i.Run(program)
}
