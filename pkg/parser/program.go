package parser

import (
	"fmt"
	"strings"

	"github.com/ConorOBrien-Foxx/Maverick/pkg/registry"
	"github.com/ConorOBrien-Foxx/Maverick/pkg/runtime"
)

// OpCode identifies a postfix instruction kind.
type OpCode int

const (
	// OpPush pushes a numeric literal.
	OpPush OpCode = iota
	// OpQuote pushes a quoted-operator handle.
	OpQuote
	// OpOperator applies an operator whose arity was fixed while parsing.
	OpOperator
	// OpArity records how many arguments the following OpCall consumes.
	OpArity
	// OpCall invokes a function or a quoted reference with the recorded arity.
	OpCall
)

func (o OpCode) String() string {
	switch o {
	case OpPush:
		return "push"
	case OpQuote:
		return "quote"
	case OpOperator:
		return "operator"
	case OpArity:
		return "arity"
	case OpCall:
		return "call"
	default:
		return fmt.Sprintf("OpCode(%d)", int(o))
	}
}

// Instruction is one step of a postfix program.
type Instruction struct {
	Op       OpCode
	Name     string
	Value    runtime.Value
	Operator *registry.Operator
	Arity    int
	Quoted   bool
	Pos      int
}

func (in Instruction) String() string {
	switch in.Op {
	case OpPush, OpQuote:
		return runtime.Display(in.Value)
	case OpOperator:
		return fmt.Sprintf("%s[%d]", in.Name, in.Arity)
	case OpArity:
		return fmt.Sprintf("#%d", in.Arity)
	case OpCall:
		if in.Quoted {
			return string(registry.QuoteSigil) + in.Name
		}
		return in.Name
	default:
		return in.Op.String()
	}
}

// Program is a parsed instruction sequence in evaluation order.
type Program struct {
	Instructions []Instruction
}

func (p *Program) String() string {
	parts := make([]string, len(p.Instructions))
	for i, in := range p.Instructions {
		parts[i] = in.String()
	}
	return strings.Join(parts, " ")
}
