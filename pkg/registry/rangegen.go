package registry

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ConorOBrien-Foxx/Maverick/pkg/runtime"
)

// MaxRangeLength bounds the number of elements a single range may produce.
const MaxRangeLength = 1 << 20

var (
	decimalOne     = decimal.NewFromInt(1)
	maxRangeLength = decimal.NewFromInt(MaxRangeLength)
)

// Range returns lo, lo+1, ... up to and including hi. It is empty when
// lo > hi, and fails with an ArithmeticError when it would hold more than
// MaxRangeLength elements.
func Range(lo, hi decimal.Decimal) ([]runtime.Value, error) {
	if lo.GreaterThan(hi) {
		return []runtime.Value{}, nil
	}
	count := hi.Sub(lo).Floor().Add(decimalOne)
	if count.GreaterThan(maxRangeLength) {
		return nil, &ArithmeticError{
			Operator: ":",
			Message:  fmt.Sprintf("range of %s elements exceeds the limit of %d", count, MaxRangeLength),
		}
	}
	out := make([]runtime.Value, 0, int(count.IntPart()))
	for cur := lo; cur.LessThanOrEqual(hi); cur = cur.Add(decimalOne) {
		out = append(out, runtime.Number(cur))
	}
	return out, nil
}
