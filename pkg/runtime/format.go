package runtime

import (
	"strings"
)

// ConsToken joins sibling elements in rendered sequences.
const ConsToken = "`"

// UndefinedToken is the rendered form of an undefined value.
const UndefinedToken = "undef"

// Display renders a value for the final result: sequences are wrapped in
// parentheses with elements joined by the cons operator.
func Display(v Value) string {
	var b strings.Builder
	writeDisplay(&b, v)
	return b.String()
}

func writeDisplay(b *strings.Builder, v Value) {
	switch val := v.(type) {
	case nil, UndefinedValue:
		b.WriteString(UndefinedToken)
	case NumberValue:
		b.WriteString(val.Val.String())
	case *ArrayValue:
		b.WriteByte('(')
		for i, el := range val.Elements {
			if i > 0 {
				b.WriteString(ConsToken)
			}
			writeDisplay(b, el)
		}
		b.WriteByte(')')
	case OperatorRefValue:
		b.WriteString(val.String())
	default:
		b.WriteString(UndefinedToken)
	}
}

// DisplayStack renders a finished stack: a single value renders as itself,
// anything else renders as a sequence of the stack contents.
func DisplayStack(stack []Value) string {
	if len(stack) == 1 {
		return Display(stack[0])
	}
	return Display(NewArray(stack...))
}

// Text is the textual form written by `out`. Sequences join with commas and
// undefined renders empty.
func Text(v Value) string {
	var b strings.Builder
	writeText(&b, v)
	return b.String()
}

func writeText(b *strings.Builder, v Value) {
	switch val := v.(type) {
	case NumberValue:
		b.WriteString(val.Val.String())
	case *ArrayValue:
		for i, el := range val.Elements {
			if i > 0 {
				b.WriteByte(',')
			}
			writeText(b, el)
		}
	case OperatorRefValue:
		b.WriteString(val.String())
	}
}

// Flatten returns the scalar leaves of v in order.
func Flatten(v Value) []Value {
	arr, ok := v.(*ArrayValue)
	if !ok {
		return []Value{v}
	}
	out := make([]Value, 0, len(arr.Elements))
	for _, el := range arr.Elements {
		out = append(out, Flatten(el)...)
	}
	return out
}
