package interpreter

import (
	"fmt"

	"github.com/ConorOBrien-Foxx/Maverick/pkg/parser"
	"github.com/ConorOBrien-Foxx/Maverick/pkg/registry"
	"github.com/ConorOBrien-Foxx/Maverick/pkg/runtime"
)

// ArityError reports an instruction that found too few values on the stack.
type ArityError struct {
	Instruction string
	Need        int
	Have        int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("interpreter: %s needs %d value(s), stack has %d", e.Instruction, e.Need, e.Have)
}

// stackVM executes one postfix program. Arity markers live on their own
// stack so they can never be mistaken for operands.
type stackVM struct {
	reg     *registry.Registry
	ctx     *runtime.CallContext
	stack   []runtime.Value
	arities []int
}

func newStackVM(reg *registry.Registry, host runtime.Host) *stackVM {
	return &stackVM{reg: reg, ctx: &runtime.CallContext{Host: host}}
}

func (vm *stackVM) run(program *parser.Program) error {
	if program == nil {
		return fmt.Errorf("interpreter: program is nil")
	}
	for _, instr := range program.Instructions {
		switch instr.Op {
		case parser.OpPush, parser.OpQuote:
			vm.stack = append(vm.stack, instr.Value)
		case parser.OpOperator:
			if instr.Operator == nil {
				return fmt.Errorf("interpreter: operator %q is unresolved", instr.Name)
			}
			args, err := vm.popN(instr, instr.Arity)
			if err != nil {
				return err
			}
			result, err := instr.Operator.Invoke(vm.ctx, args)
			if err != nil {
				return err
			}
			vm.push(result)
		case parser.OpArity:
			vm.arities = append(vm.arities, instr.Arity)
		case parser.OpCall:
			if err := vm.call(instr); err != nil {
				return err
			}
		default:
			return fmt.Errorf("interpreter: unknown instruction %s", instr.Op)
		}
	}
	return nil
}

func (vm *stackVM) call(instr parser.Instruction) error {
	if len(vm.arities) == 0 {
		return &ArityError{Instruction: instr.String(), Need: 1, Have: 0}
	}
	n := vm.arities[len(vm.arities)-1]
	vm.arities = vm.arities[:len(vm.arities)-1]
	args, err := vm.popN(instr, n)
	if err != nil {
		return err
	}
	var target runtime.Invoker
	if instr.Quoted {
		target, err = vm.reg.Lookup(instr.Name)
		if err != nil {
			return err
		}
	} else {
		fn, ok := vm.reg.Function(instr.Name)
		if !ok {
			return &registry.UnknownNameError{Name: instr.Name}
		}
		target = fn
	}
	result, err := target.Invoke(vm.ctx, args)
	if err != nil {
		return err
	}
	vm.push(result)
	return nil
}

func (vm *stackVM) push(v runtime.Value) {
	if v == nil {
		v = runtime.Undefined
	}
	vm.stack = append(vm.stack, v)
}

// popN removes the top n values and returns them in push order.
func (vm *stackVM) popN(instr parser.Instruction, n int) ([]runtime.Value, error) {
	if n > len(vm.stack) {
		return nil, &ArityError{Instruction: instr.String(), Need: n, Have: len(vm.stack)}
	}
	start := len(vm.stack) - n
	args := make([]runtime.Value, n)
	copy(args, vm.stack[start:])
	vm.stack = vm.stack[:start]
	return args, nil
}
