package registry

import (
	"github.com/ConorOBrien-Foxx/Maverick/pkg/runtime"
)

// ScalarFunc1 and ScalarFunc2 are the shapes lifted by Vectorize1 and
// Vectorize2.
type ScalarFunc1 func(v runtime.Value) (runtime.Value, error)

type ScalarFunc2 func(a, b runtime.Value) (runtime.Value, error)

// Vectorize1 lifts f so it maps over nested sequences.
func Vectorize1(f ScalarFunc1) ScalarFunc1 {
	return func(v runtime.Value) (runtime.Value, error) {
		return apply1(f, v)
	}
}

func apply1(f ScalarFunc1, v runtime.Value) (runtime.Value, error) {
	arr, ok := v.(*runtime.ArrayValue)
	if !ok {
		return f(v)
	}
	out := make([]runtime.Value, len(arr.Elements))
	for i, el := range arr.Elements {
		r, err := apply1(f, el)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return runtime.NewArray(out...), nil
}

// Vectorize2 lifts f so it pairs sequences element-wise and broadcasts
// scalars against sequences. Sequences of unequal length fail with a
// ShapeError.
func Vectorize2(f ScalarFunc2) ScalarFunc2 {
	return func(a, b runtime.Value) (runtime.Value, error) {
		return apply2(f, a, b)
	}
}

func apply2(f ScalarFunc2, a, b runtime.Value) (runtime.Value, error) {
	left, leftIsArray := a.(*runtime.ArrayValue)
	right, rightIsArray := b.(*runtime.ArrayValue)
	switch {
	case leftIsArray && rightIsArray:
		if len(left.Elements) != len(right.Elements) {
			return nil, &ShapeError{Left: len(left.Elements), Right: len(right.Elements)}
		}
		out := make([]runtime.Value, len(left.Elements))
		for i := range left.Elements {
			r, err := apply2(f, left.Elements[i], right.Elements[i])
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return runtime.NewArray(out...), nil
	case leftIsArray:
		out := make([]runtime.Value, len(left.Elements))
		for i, el := range left.Elements {
			r, err := apply2(f, el, b)
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return runtime.NewArray(out...), nil
	case rightIsArray:
		out := make([]runtime.Value, len(right.Elements))
		for i, el := range right.Elements {
			r, err := apply2(f, a, el)
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return runtime.NewArray(out...), nil
	default:
		return f(a, b)
	}
}
