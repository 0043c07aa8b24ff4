package parser

import (
	"github.com/shopspring/decimal"

	"github.com/ConorOBrien-Foxx/Maverick/pkg/lexer"
	"github.com/ConorOBrien-Foxx/Maverick/pkg/registry"
	"github.com/ConorOBrien-Foxx/Maverick/pkg/runtime"
)

// Parser converts tokens into postfix order using the precedence and
// associativity declared in a registry.
type Parser struct {
	reg *registry.Registry
}

func New(reg *registry.Registry) *Parser {
	return &Parser{reg: reg}
}

type entryKind int

const (
	entryOperator entryKind = iota
	entryGroup
	entryCall
)

// entry is a pending item on the operator stack.
type entry struct {
	kind   entryKind
	op     *registry.Operator
	arity  int
	name   string
	quoted bool
	args   int
	pos    int
}

type parseState struct {
	reg    *registry.Registry
	tokens []lexer.Token
	out    []Instruction
	stack  []entry

	// expectOperand is true where a value must come next; an operator seen
	// there takes its unary form.
	expectOperand bool
	// call holds a function head waiting for its opening parenthesis.
	call *entry
	prev *lexer.Token
}

// Parse orders tokens for stack evaluation.
func (p *Parser) Parse(tokens []lexer.Token) (*Program, error) {
	st := &parseState{reg: p.reg, tokens: tokens, expectOperand: true}
	for i := range tokens {
		tok := tokens[i]
		if err := st.step(i, tok); err != nil {
			return nil, err
		}
		st.prev = &tokens[i]
	}
	if err := st.finish(); err != nil {
		return nil, err
	}
	return &Program{Instructions: st.out}, nil
}

func (st *parseState) step(i int, tok lexer.Token) error {
	if st.call != nil && tok.Kind() != lexer.KindOpenParen {
		return errorf(tok.Pos, "%q must be followed by (", st.call.name)
	}
	switch tok.Kind() {
	case lexer.KindNumber:
		if err := st.operandAllowed(tok); err != nil {
			return err
		}
		d, err := decimal.NewFromString(tok.Text)
		if err != nil {
			return errorf(tok.Pos, "invalid numeric literal %q", tok.Text)
		}
		st.out = append(st.out, Instruction{Op: OpPush, Value: runtime.Number(d), Pos: tok.Pos})
		st.expectOperand = false
	case lexer.KindQuoted:
		if err := st.operandAllowed(tok); err != nil {
			return err
		}
		name := tok.Name()
		if st.followedByParen(i) {
			if _, err := st.reg.Lookup(name); err != nil {
				return errorf(tok.Pos, "%v", err)
			}
			st.call = &entry{kind: entryCall, name: name, quoted: true, pos: tok.Pos}
			return nil
		}
		ref, err := st.reg.Quote(name)
		if err != nil {
			return errorf(tok.Pos, "%v", err)
		}
		st.out = append(st.out, Instruction{Op: OpQuote, Name: name, Value: ref, Pos: tok.Pos})
		st.expectOperand = false
	case lexer.KindName:
		return st.name(i, tok)
	case lexer.KindOpenParen:
		return st.open(tok)
	case lexer.KindComma:
		return st.comma(tok)
	case lexer.KindCloseParen:
		return st.close(tok)
	}
	return nil
}

func (st *parseState) operandAllowed(tok lexer.Token) error {
	if !st.expectOperand {
		return errorf(tok.Pos, "unexpected operand %q where an operator is required", tok.Text)
	}
	return nil
}

func (st *parseState) followedByParen(i int) bool {
	return i+1 < len(st.tokens) && st.tokens[i+1].Kind() == lexer.KindOpenParen
}

func (st *parseState) name(i int, tok lexer.Token) error {
	if st.reg.IsFunctionName(tok.Text) {
		if err := st.operandAllowed(tok); err != nil {
			return err
		}
		if !st.followedByParen(i) {
			return errorf(tok.Pos, "function %q must be followed by (", tok.Text)
		}
		st.call = &entry{kind: entryCall, name: tok.Text, pos: tok.Pos}
		return nil
	}
	op, ok := st.reg.Operator(tok.Text)
	if !ok {
		return errorf(tok.Pos, "unknown name %q", tok.Text)
	}
	if st.expectOperand {
		if !op.HasVariant(1) {
			return errorf(tok.Pos, "operator %q has no unary form", op.Name)
		}
		st.stack = append(st.stack, entry{kind: entryOperator, op: op, arity: 1, name: op.Name, pos: tok.Pos})
		return nil
	}
	if !op.HasVariant(2) {
		return errorf(tok.Pos, "operator %q has no binary form", op.Name)
	}
	for len(st.stack) > 0 {
		top := st.stack[len(st.stack)-1]
		if top.kind != entryOperator {
			break
		}
		if top.op.Precedence < op.Precedence {
			break
		}
		if top.op.Precedence == op.Precedence && op.Associativity == registry.AssocRight {
			break
		}
		st.emit(top)
		st.stack = st.stack[:len(st.stack)-1]
	}
	st.stack = append(st.stack, entry{kind: entryOperator, op: op, arity: 2, name: op.Name, pos: tok.Pos})
	st.expectOperand = true
	return nil
}

func (st *parseState) open(tok lexer.Token) error {
	if st.call != nil {
		st.stack = append(st.stack, *st.call)
		st.call = nil
		st.expectOperand = true
		return nil
	}
	if !st.expectOperand {
		return errorf(tok.Pos, "unexpected ( where an operator is required")
	}
	st.stack = append(st.stack, entry{kind: entryGroup, pos: tok.Pos})
	return nil
}

func (st *parseState) comma(tok lexer.Token) error {
	if st.expectOperand {
		return st.missingOperand(tok)
	}
	st.drainOperators()
	if len(st.stack) == 0 {
		// Top level: start an independent expression.
		st.expectOperand = true
		return nil
	}
	top := &st.stack[len(st.stack)-1]
	if top.kind == entryGroup {
		return errorf(tok.Pos, "comma inside a parenthesized group")
	}
	top.args++
	st.expectOperand = true
	return nil
}

func (st *parseState) close(tok lexer.Token) error {
	emptyParens := st.prev != nil && st.prev.Kind() == lexer.KindOpenParen
	if st.expectOperand && !emptyParens {
		return st.missingOperand(tok)
	}
	st.drainOperators()
	if len(st.stack) == 0 {
		return errorf(tok.Pos, "unbalanced )")
	}
	top := st.stack[len(st.stack)-1]
	st.stack = st.stack[:len(st.stack)-1]
	if top.kind == entryGroup {
		if emptyParens {
			return errorf(top.pos, "empty group ()")
		}
		st.expectOperand = false
		return nil
	}
	n := top.args
	if !emptyParens {
		n++
	}
	st.out = append(st.out,
		Instruction{Op: OpArity, Arity: n, Pos: top.pos},
		Instruction{Op: OpCall, Name: top.name, Arity: n, Quoted: top.quoted, Pos: top.pos},
	)
	st.expectOperand = false
	return nil
}

// missingOperand explains why a value was required at tok.
func (st *parseState) missingOperand(tok lexer.Token) error {
	if st.prev == nil {
		return errorf(tok.Pos, "expression is empty")
	}
	switch st.prev.Kind() {
	case lexer.KindOpenParen:
		return errorf(tok.Pos, "empty argument")
	case lexer.KindComma:
		if st.insideCall() {
			return errorf(tok.Pos, "empty argument")
		}
		return errorf(tok.Pos, "expression is empty")
	default:
		return errorf(st.prev.Pos, "operator %q is missing an operand", st.prev.Text)
	}
}

func (st *parseState) insideCall() bool {
	for i := len(st.stack) - 1; i >= 0; i-- {
		switch st.stack[i].kind {
		case entryCall:
			return true
		case entryGroup:
			return false
		}
	}
	return false
}

// drainOperators emits pending operators down to the nearest parenthesis.
func (st *parseState) drainOperators() {
	for len(st.stack) > 0 {
		top := st.stack[len(st.stack)-1]
		if top.kind != entryOperator {
			return
		}
		st.emit(top)
		st.stack = st.stack[:len(st.stack)-1]
	}
}

func (st *parseState) emit(e entry) {
	st.out = append(st.out, Instruction{Op: OpOperator, Name: e.name, Operator: e.op, Arity: e.arity, Pos: e.pos})
}

func (st *parseState) finish() error {
	if st.call != nil {
		return errorf(st.call.pos, "%q must be followed by (", st.call.name)
	}
	if st.prev != nil && st.expectOperand {
		if st.prev.Kind() == lexer.KindComma {
			return errorf(st.prev.Pos, "trailing comma")
		}
		return errorf(st.prev.Pos, "operator %q is missing an operand", st.prev.Text)
	}
	st.drainOperators()
	if len(st.stack) > 0 {
		return errorf(st.stack[len(st.stack)-1].pos, "unbalanced (")
	}
	return nil
}
