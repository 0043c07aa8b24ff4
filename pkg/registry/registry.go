package registry

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ConorOBrien-Foxx/Maverick/pkg/runtime"
)

// QuoteSigil prefixes a quoted operator reference.
const QuoteSigil = '$'

// Registry maps names to operator and function descriptors. It is immutable
// once built and may be shared between concurrent interpreters.
type Registry struct {
	operators map[string]*Operator
	functions map[string]*Function
	names     []string
	precision int32
}

// Operator looks up an operator descriptor.
func (r *Registry) Operator(name string) (*Operator, bool) {
	op, ok := r.operators[name]
	return op, ok
}

// Function looks up a function descriptor.
func (r *Registry) Function(name string) (*Function, bool) {
	fn, ok := r.functions[name]
	return fn, ok
}

// IsFunctionName reports whether name is a registered function.
func (r *Registry) IsFunctionName(name string) bool {
	_, ok := r.functions[name]
	return ok
}

// IsOperatorName reports whether name is a registered operator.
func (r *Registry) IsOperatorName(name string) bool {
	_, ok := r.operators[name]
	return ok
}

// IsLiteral reports whether a token pushes a value rather than invoking
// anything: numeric literals and quoted references.
func (r *Registry) IsLiteral(token string) bool {
	if token == "" {
		return false
	}
	if token[0] == QuoteSigil {
		return true
	}
	return IsNumeric(token)
}

// Lookup resolves a name to whatever it invokes.
func (r *Registry) Lookup(name string) (runtime.Invoker, error) {
	if op, ok := r.operators[name]; ok {
		return op, nil
	}
	if fn, ok := r.functions[name]; ok {
		return fn, nil
	}
	return nil, &UnknownNameError{Name: name}
}

// Quote builds the handle pushed for `$name`.
func (r *Registry) Quote(name string) (runtime.OperatorRefValue, error) {
	target, err := r.Lookup(name)
	if err != nil {
		return runtime.OperatorRefValue{}, err
	}
	return runtime.OperatorRefValue{Name: name, Target: target}, nil
}

// Names returns every operator and function name, longest first.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// MatchName returns the longest registered name that src starts with.
func (r *Registry) MatchName(src string) (string, bool) {
	for _, name := range r.names {
		if strings.HasPrefix(src, name) {
			return name, true
		}
	}
	return "", false
}

// Precision is the number of decimal places kept by division.
func (r *Registry) Precision() int32 {
	return r.precision
}

// IsNumeric reports whether s is made only of digits and decimal points.
func IsNumeric(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !IsNumericByte(s[i]) {
			return false
		}
	}
	return true
}

// IsNumericByte reports whether c may appear in a numeric literal.
func IsNumericByte(c byte) bool {
	return (c >= '0' && c <= '9') || c == '.'
}

// IsStructural reports whether r is a parenthesis or comma.
func IsStructural(r rune) bool {
	return r == '(' || r == ')' || r == ','
}

//-----------------------------------------------------------------------------
// Builder
//-----------------------------------------------------------------------------

// Builder accumulates descriptors before the registry is frozen.
type Builder struct {
	operators []*Operator
	functions []*Function
	precision int32
}

// DefaultPrecision is the division precision used when none is configured.
const DefaultPrecision int32 = 20

// NewBuilder starts an empty registry.
func NewBuilder() *Builder {
	return &Builder{precision: DefaultPrecision}
}

// AddOperator appends an operator descriptor.
func (b *Builder) AddOperator(op *Operator) *Builder {
	b.operators = append(b.operators, op)
	return b
}

// AddFunction appends a function descriptor.
func (b *Builder) AddFunction(fn *Function) *Builder {
	b.functions = append(b.functions, fn)
	return b
}

// SetPrecision overrides the division precision.
func (b *Builder) SetPrecision(places int32) *Builder {
	b.precision = places
	return b
}

// Build validates the descriptors and freezes them.
func (b *Builder) Build() (*Registry, error) {
	if b.precision < 0 {
		return nil, fmt.Errorf("registry: negative precision %d", b.precision)
	}
	reg := &Registry{
		operators: make(map[string]*Operator, len(b.operators)),
		functions: make(map[string]*Function, len(b.functions)),
		precision: b.precision,
	}
	var errs []error
	seen := make(map[string]struct{}, len(b.operators)+len(b.functions))
	claim := func(name string) bool {
		if err := validateName(name); err != nil {
			errs = append(errs, err)
			return false
		}
		if _, dup := seen[name]; dup {
			errs = append(errs, fmt.Errorf("registry: duplicate name %q", name))
			return false
		}
		seen[name] = struct{}{}
		reg.names = append(reg.names, name)
		return true
	}
	for _, op := range b.operators {
		if op == nil {
			continue
		}
		if !claim(op.Name) {
			continue
		}
		if len(op.Effects) == 0 {
			errs = append(errs, fmt.Errorf("registry: operator %q has no variants", op.Name))
			continue
		}
		arities := map[int]bool{}
		for _, e := range op.Effects {
			if e == nil {
				errs = append(errs, fmt.Errorf("registry: operator %q has a nil effect", op.Name))
				continue
			}
			if arities[e.Arity()] {
				errs = append(errs, fmt.Errorf("registry: operator %q declares arity %d twice", op.Name, e.Arity()))
			}
			arities[e.Arity()] = true
		}
		reg.operators[op.Name] = op
	}
	for _, fn := range b.functions {
		if fn == nil {
			continue
		}
		if !claim(fn.Name) {
			continue
		}
		if fn.Effect == nil {
			errs = append(errs, fmt.Errorf("registry: function %q has no effect", fn.Name))
			continue
		}
		reg.functions[fn.Name] = fn
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	sort.SliceStable(reg.names, func(i, j int) bool {
		if len(reg.names[i]) != len(reg.names[j]) {
			return len(reg.names[i]) > len(reg.names[j])
		}
		return reg.names[i] < reg.names[j]
	})
	return reg, nil
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("registry: empty name")
	}
	first, _ := utf8.DecodeRuneInString(name)
	switch {
	case first < utf8.RuneSelf && IsNumericByte(byte(first)):
		return fmt.Errorf("registry: name %q starts like a numeric literal", name)
	case first == QuoteSigil:
		return fmt.Errorf("registry: name %q starts with the quote sigil", name)
	case unicode.IsSpace(first), IsStructural(first):
		return fmt.Errorf("registry: name %q starts with a reserved character", name)
	}
	return nil
}
