package runtime

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindNumber Kind = iota
	KindArray
	KindOperatorRef
	KindUndefined
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindArray:
		return "array"
	case KindOperatorRef:
		return "operator_ref"
	case KindUndefined:
		return "undefined"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

// NumberValue is an arbitrary-precision decimal scalar.
type NumberValue struct {
	Val decimal.Decimal
}

func (v NumberValue) Kind() Kind { return KindNumber }

func (v NumberValue) String() string { return v.Val.String() }

// Number wraps a decimal.
func Number(d decimal.Decimal) NumberValue {
	return NumberValue{Val: d}
}

// Int builds a NumberValue from an integer.
func Int(n int64) NumberValue {
	return NumberValue{Val: decimal.NewFromInt(n)}
}

// Bool encodes a truth value as 1 or 0.
func Bool(b bool) NumberValue {
	if b {
		return Int(1)
	}
	return Int(0)
}

// UndefinedValue is what output functions leave behind.
type UndefinedValue struct{}

func (UndefinedValue) Kind() Kind { return KindUndefined }

// Undefined is the shared undefined sentinel.
var Undefined = UndefinedValue{}

//-----------------------------------------------------------------------------
// Collections
//-----------------------------------------------------------------------------

// ArrayValue is an ordered sequence of values; elements may themselves be
// sequences.
type ArrayValue struct {
	Elements []Value
}

func (v *ArrayValue) Kind() Kind { return KindArray }

// NewArray builds an array that owns elems.
func NewArray(elems ...Value) *ArrayValue {
	if elems == nil {
		elems = []Value{}
	}
	return &ArrayValue{Elements: elems}
}

//-----------------------------------------------------------------------------
// Call context
//-----------------------------------------------------------------------------

// Host supplies program arguments and the output sink to the I/O functions.
type Host interface {
	Args() []string
	Output() io.Writer
}

// CallContext is threaded through every effect invocation of one run.
type CallContext struct {
	Host Host
	// Wrote is set once any output function has written to the host.
	Wrote bool
}

//-----------------------------------------------------------------------------
// Quoted operators
//-----------------------------------------------------------------------------

// Invoker is anything a quoted operator handle can call.
type Invoker interface {
	Invoke(ctx *CallContext, args []Value) (Value, error)
}

// OperatorRefValue is a first-class handle on a registry operator or
// function, produced by `$name`.
type OperatorRefValue struct {
	Name   string
	Target Invoker
}

func (v OperatorRefValue) Kind() Kind { return KindOperatorRef }

func (v OperatorRefValue) String() string { return "$" + v.Name }

// Equal reports structural equality; numbers compare by value.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case NumberValue:
		bv, ok := b.(NumberValue)
		return ok && av.Val.Equal(bv.Val)
	case *ArrayValue:
		bv, ok := b.(*ArrayValue)
		if !ok || len(av.Elements) != len(bv.Elements) {
			return false
		}
		for i := range av.Elements {
			if !Equal(av.Elements[i], bv.Elements[i]) {
				return false
			}
		}
		return true
	case OperatorRefValue:
		bv, ok := b.(OperatorRefValue)
		return ok && av.Name == bv.Name
	case UndefinedValue:
		_, ok := b.(UndefinedValue)
		return ok
	default:
		return false
	}
}
