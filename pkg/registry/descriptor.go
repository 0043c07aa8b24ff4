package registry

import (
	"fmt"
	"strings"

	"github.com/ConorOBrien-Foxx/Maverick/pkg/runtime"
)

// Associativity breaks ties between adjacent operators of equal precedence.
type Associativity int

const (
	AssocLeft Associativity = iota
	AssocRight
)

func (a Associativity) String() string {
	if a == AssocRight {
		return "right"
	}
	return "left"
}

// ParseAssociativity accepts "left" or "right".
func ParseAssociativity(s string) (Associativity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "left":
		return AssocLeft, nil
	case "right":
		return AssocRight, nil
	default:
		return AssocLeft, fmt.Errorf("unknown associativity %q (expected left or right)", s)
	}
}

// Effect is one arity variant of an operator: either a UnaryEffect or a
// BinaryEffect.
type Effect interface {
	Arity() int
	call(ctx *runtime.CallContext, args []runtime.Value) (runtime.Value, error)
}

type UnaryEffect func(ctx *runtime.CallContext, operand runtime.Value) (runtime.Value, error)

func (UnaryEffect) Arity() int { return 1 }

func (f UnaryEffect) call(ctx *runtime.CallContext, args []runtime.Value) (runtime.Value, error) {
	return f(ctx, args[0])
}

type BinaryEffect func(ctx *runtime.CallContext, left, right runtime.Value) (runtime.Value, error)

func (BinaryEffect) Arity() int { return 2 }

func (f BinaryEffect) call(ctx *runtime.CallContext, args []runtime.Value) (runtime.Value, error) {
	return f(ctx, args[0], args[1])
}

// Operator describes a named operator with fixed-arity variants.
type Operator struct {
	Name          string
	Precedence    int
	Associativity Associativity
	Effects       []Effect
}

// Variant returns the effect taking arity operands.
func (o *Operator) Variant(arity int) (Effect, bool) {
	for _, e := range o.Effects {
		if e.Arity() == arity {
			return e, true
		}
	}
	return nil, false
}

// HasVariant reports whether the operator accepts arity operands.
func (o *Operator) HasVariant(arity int) bool {
	_, ok := o.Variant(arity)
	return ok
}

// Invoke runs the variant matching len(args).
func (o *Operator) Invoke(ctx *runtime.CallContext, args []runtime.Value) (runtime.Value, error) {
	effect, ok := o.Variant(len(args))
	if !ok {
		return nil, &OperandError{
			Operator: o.Name,
			Message:  fmt.Sprintf("no variant taking %d operand(s)", len(args)),
		}
	}
	return effect.call(ctx, args)
}

// FunctionEffect receives however many operands the call site supplied.
type FunctionEffect func(ctx *runtime.CallContext, args []runtime.Value) (runtime.Value, error)

// Function describes a named function whose arity is decided per call.
type Function struct {
	Name   string
	Effect FunctionEffect
}

func (f *Function) Invoke(ctx *runtime.CallContext, args []runtime.Value) (runtime.Value, error) {
	return f.Effect(ctx, args)
}
