package registry

import "fmt"

// ShapeError reports element-wise operands of unequal length.
type ShapeError struct {
	Left  int
	Right int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("length mismatch: %d vs %d", e.Left, e.Right)
}

// UnknownNameError reports a name absent from the registry.
type UnknownNameError struct {
	Name string
}

func (e *UnknownNameError) Error() string {
	return fmt.Sprintf("unknown operator or function %q", e.Name)
}

// OperandError reports an operand of the wrong kind for an operator.
type OperandError struct {
	Operator string
	Message  string
}

func (e *OperandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Operator, e.Message)
}

// ArithmeticError reports an undefined numeric result.
type ArithmeticError struct {
	Operator string
	Message  string
}

func (e *ArithmeticError) Error() string {
	return fmt.Sprintf("%s: %s", e.Operator, e.Message)
}

// ArgumentError reports a bad call to a host-backed function.
type ArgumentError struct {
	Function string
	Message  string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("%s: %s", e.Function, e.Message)
}
