package registry

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/ConorOBrien-Foxx/Maverick/pkg/runtime"
)

type decimalOp func(a, b decimal.Decimal) (decimal.Decimal, error)

// numeric2 adapts a decimal operation to runtime values, rejecting
// anything that is not a number.
func numeric2(name string, op decimalOp) ScalarFunc2 {
	return func(a, b runtime.Value) (runtime.Value, error) {
		x, ok := a.(runtime.NumberValue)
		if !ok {
			return nil, operandKindError(name, a)
		}
		y, ok := b.(runtime.NumberValue)
		if !ok {
			return nil, operandKindError(name, b)
		}
		r, err := op(x.Val, y.Val)
		if err != nil {
			return nil, err
		}
		return runtime.Number(r), nil
	}
}

func numeric1(name string, op func(decimal.Decimal) decimal.Decimal) ScalarFunc1 {
	return func(v runtime.Value) (runtime.Value, error) {
		x, ok := v.(runtime.NumberValue)
		if !ok {
			return nil, operandKindError(name, v)
		}
		return runtime.Number(op(x.Val)), nil
	}
}

func operandKindError(name string, v runtime.Value) error {
	kind := "nil"
	if v != nil {
		kind = v.Kind().String()
	}
	return &OperandError{Operator: name, Message: fmt.Sprintf("expected a number, got %s", kind)}
}

func unary(f ScalarFunc1) UnaryEffect {
	return func(_ *runtime.CallContext, v runtime.Value) (runtime.Value, error) {
		return f(v)
	}
}

func binary(f ScalarFunc2) BinaryEffect {
	return func(_ *runtime.CallContext, a, b runtime.Value) (runtime.Value, error) {
		return f(a, b)
	}
}

// effectTable binds effect keys used in the descriptor file to Go code.
type effectTable struct {
	unary     map[string]UnaryEffect
	binary    map[string]BinaryEffect
	functions map[string]FunctionEffect
}

func newEffectTable(precision int32) *effectTable {
	t := &effectTable{
		unary:     map[string]UnaryEffect{},
		binary:    map[string]BinaryEffect{},
		functions: map[string]FunctionEffect{},
	}

	t.binary["then"] = func(_ *runtime.CallContext, _, right runtime.Value) (runtime.Value, error) {
		return right, nil
	}

	t.binary["less"] = compare("<", func(c int) bool { return c < 0 })
	t.binary["less_equal"] = compare("<=", func(c int) bool { return c <= 0 })
	t.binary["greater"] = compare(">", func(c int) bool { return c > 0 })
	t.binary["greater_equal"] = compare(">=", func(c int) bool { return c >= 0 })
	t.binary["equal"] = compare("=", func(c int) bool { return c == 0 })

	t.binary["fold"] = fold

	t.binary["add"] = binary(Vectorize2(numeric2("+", func(a, b decimal.Decimal) (decimal.Decimal, error) {
		return a.Add(b), nil
	})))
	t.unary["negate"] = unary(Vectorize1(numeric1("-", decimal.Decimal.Neg)))
	t.binary["subtract"] = binary(Vectorize2(numeric2("-", func(a, b decimal.Decimal) (decimal.Decimal, error) {
		return a.Sub(b), nil
	})))
	t.binary["multiply"] = binary(Vectorize2(numeric2("*", func(a, b decimal.Decimal) (decimal.Decimal, error) {
		return a.Mul(b), nil
	})))
	t.binary["divide"] = binary(Vectorize2(numeric2("/", func(a, b decimal.Decimal) (decimal.Decimal, error) {
		if b.IsZero() {
			return decimal.Decimal{}, &ArithmeticError{Operator: "/", Message: "division by zero"}
		}
		return a.DivRound(b, precision), nil
	})))
	t.binary["modulo"] = binary(Vectorize2(numeric2("%", func(a, b decimal.Decimal) (decimal.Decimal, error) {
		if b.IsZero() {
			return decimal.Decimal{}, &ArithmeticError{Operator: "%", Message: "modulo by zero"}
		}
		return a.Mod(b), nil
	})))
	t.binary["power"] = binary(Vectorize2(numeric2("^", func(a, b decimal.Decimal) (decimal.Decimal, error) {
		r, err := a.PowWithPrecision(b, precision)
		if err != nil {
			return decimal.Decimal{}, &ArithmeticError{Operator: "^", Message: err.Error()}
		}
		return r.Round(precision), nil
	})))

	t.unary["range_to"] = unary(Vectorize1(func(v runtime.Value) (runtime.Value, error) {
		hi, ok := v.(runtime.NumberValue)
		if !ok {
			return nil, operandKindError(":", v)
		}
		elems, err := Range(decimal.Zero, hi.Val)
		if err != nil {
			return nil, err
		}
		return runtime.NewArray(elems...), nil
	}))
	t.binary["range"] = binary(Vectorize2(func(a, b runtime.Value) (runtime.Value, error) {
		lo, ok := a.(runtime.NumberValue)
		if !ok {
			return nil, operandKindError(":", a)
		}
		hi, ok := b.(runtime.NumberValue)
		if !ok {
			return nil, operandKindError(":", b)
		}
		elems, err := Range(lo.Val, hi.Val)
		if err != nil {
			return nil, err
		}
		return runtime.NewArray(elems...), nil
	}))

	t.binary["cons"] = cons

	t.functions["argument"] = argument
	t.functions["arguments"] = arguments
	t.functions["out"] = out
	t.functions["out_chars"] = outChars
	return t
}

func compare(name string, test func(int) bool) BinaryEffect {
	return func(_ *runtime.CallContext, a, b runtime.Value) (runtime.Value, error) {
		x, ok := a.(runtime.NumberValue)
		if !ok {
			return nil, operandKindError(name, a)
		}
		y, ok := b.(runtime.NumberValue)
		if !ok {
			return nil, operandKindError(name, b)
		}
		return runtime.Bool(test(x.Val.Cmp(y.Val))), nil
	}
}

// fold reduces a sequence of three or more elements pairwise with the
// quoted operator on the right. Anything shorter, or not a sequence at all,
// passes through unchanged.
func fold(ctx *runtime.CallContext, left, right runtime.Value) (runtime.Value, error) {
	arr, ok := left.(*runtime.ArrayValue)
	if !ok || len(arr.Elements) < 3 {
		return left, nil
	}
	ref, ok := right.(runtime.OperatorRefValue)
	if !ok || ref.Target == nil {
		return nil, &OperandError{Operator: "//", Message: "right operand must be a quoted operator"}
	}
	acc := arr.Elements[0]
	for _, el := range arr.Elements[1:] {
		next, err := ref.Target.Invoke(ctx, []runtime.Value{acc, el})
		if err != nil {
			return nil, err
		}
		acc = next
	}
	return acc, nil
}

// cons spreads the left operand into a new sequence and appends the right.
func cons(_ *runtime.CallContext, left, right runtime.Value) (runtime.Value, error) {
	var elems []runtime.Value
	if arr, ok := left.(*runtime.ArrayValue); ok {
		elems = make([]runtime.Value, 0, len(arr.Elements)+1)
		elems = append(elems, arr.Elements...)
	} else {
		elems = []runtime.Value{left}
	}
	return runtime.NewArray(append(elems, right)...), nil
}

//-----------------------------------------------------------------------------
// Host-backed functions
//-----------------------------------------------------------------------------

func hostArgs(ctx *runtime.CallContext) []string {
	if ctx == nil || ctx.Host == nil {
		return nil
	}
	return ctx.Host.Args()
}

// startIndex reads the optional leading index argument shared by `<>` and
// `arg`. The index stays a decimal so callers can bound it before converting.
func startIndex(name string, args []runtime.Value) (decimal.Decimal, error) {
	switch len(args) {
	case 0:
		return decimal.Zero, nil
	case 1:
		n, ok := args[0].(runtime.NumberValue)
		if !ok || !n.Val.IsInteger() || n.Val.IsNegative() {
			return decimal.Zero, &ArgumentError{Function: name, Message: "index must be a non-negative integer"}
		}
		return n.Val, nil
	default:
		return decimal.Zero, &ArgumentError{Function: name, Message: fmt.Sprintf("expected at most 1 argument, got %d", len(args))}
	}
}

func parseHostArg(name string, raw string) (runtime.Value, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return nil, &ArgumentError{Function: name, Message: fmt.Sprintf("argument %q is not a number", raw)}
	}
	return runtime.Number(d), nil
}

func argument(ctx *runtime.CallContext, args []runtime.Value) (runtime.Value, error) {
	idx, err := startIndex("<>", args)
	if err != nil {
		return nil, err
	}
	all := hostArgs(ctx)
	if !idx.LessThan(decimal.NewFromInt(int64(len(all)))) {
		return nil, &ArgumentError{Function: "<>", Message: fmt.Sprintf("no argument at index %s", idx)}
	}
	return parseHostArg("<>", all[idx.IntPart()])
}

func arguments(ctx *runtime.CallContext, args []runtime.Value) (runtime.Value, error) {
	idx, err := startIndex("arg", args)
	if err != nil {
		return nil, err
	}
	all := hostArgs(ctx)
	start := len(all)
	if idx.LessThan(decimal.NewFromInt(int64(start))) {
		start = int(idx.IntPart())
	}
	out := make([]runtime.Value, 0, len(all)-start)
	for _, raw := range all[start:] {
		v, err := parseHostArg("arg", raw)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return runtime.NewArray(out...), nil
}

func write(ctx *runtime.CallContext, name, text string) error {
	if ctx == nil {
		return nil
	}
	ctx.Wrote = true
	if ctx.Host == nil || ctx.Host.Output() == nil {
		return nil
	}
	if _, err := ctx.Host.Output().Write([]byte(text)); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func out(ctx *runtime.CallContext, args []runtime.Value) (runtime.Value, error) {
	var b strings.Builder
	for _, a := range args {
		b.WriteString(runtime.Text(a))
	}
	if err := write(ctx, "out", b.String()); err != nil {
		return nil, err
	}
	return runtime.Undefined, nil
}

var maxCharCode = decimal.NewFromInt(utf8.MaxRune)

func outChars(ctx *runtime.CallContext, args []runtime.Value) (runtime.Value, error) {
	var b strings.Builder
	for _, leaf := range runtime.Flatten(runtime.NewArray(args...)) {
		n, ok := leaf.(runtime.NumberValue)
		if !ok {
			return nil, &ArgumentError{Function: "outc", Message: "character codes must be numbers"}
		}
		if !n.Val.IsInteger() || n.Val.IsNegative() || n.Val.GreaterThan(maxCharCode) || !utf8.ValidRune(rune(n.Val.IntPart())) {
			return nil, &ArgumentError{Function: "outc", Message: fmt.Sprintf("invalid character code %s", n.Val)}
		}
		b.WriteRune(rune(n.Val.IntPart()))
	}
	if err := write(ctx, "outc", b.String()); err != nil {
		return nil, err
	}
	return runtime.Undefined, nil
}
