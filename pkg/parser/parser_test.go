package parser

import (
	"errors"
	"testing"

	"github.com/ConorOBrien-Foxx/Maverick/pkg/lexer"
	"github.com/ConorOBrien-Foxx/Maverick/pkg/registry"
)

func parseSource(t *testing.T, src string) (*Program, error) {
	t.Helper()
	reg := registry.Default()
	tokens, err := lexer.New(reg).Tokenize(src)
	if err != nil {
		t.Fatalf("tokenize %q: %v", src, err)
	}
	return New(reg).Parse(tokens)
}

func TestParsePostfixOrder(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"1 + 2", "1 2 +[2]"},
		{"3 - 1 - 1", "3 1 -[2] 1 -[2]"},
		{"2 ^ 3 ^ 2", "2 3 2 ^[2] ^[2]"},
		{"1 + 2 * 3", "1 2 3 *[2] +[2]"},
		{"(1 + 2) * 3", "1 2 +[2] 3 *[2]"},
		{"-1 + 2", "1 -[1] 2 +[2]"},
		{"- - 1", "1 -[1] -[1]"},
		{"2 ^ -1", "2 1 -[1] ^[2]"},
		{":5", "5 :[1]"},
		{"1 : 3 ` 4", "1 3 4 `[2] :[2]"},
		{"(1`2`3) // $+", "1 2 `[2] 3 `[2] $+ //[2]"},
		{"1 then 2 + 3", "1 2 3 +[2] then[2]"},
		{"1 < 2 = 1", "1 2 <[2] 1 =[2]"},
	}
	for _, tc := range cases {
		prog, err := parseSource(t, tc.src)
		if err != nil {
			t.Fatalf("parse %q: %v", tc.src, err)
		}
		if got := prog.String(); got != tc.want {
			t.Fatalf("parse %q got=%q want=%q", tc.src, got, tc.want)
		}
	}
}

func TestParseCalls(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"out(1, 2)", "1 2 #2 out"},
		{"arg@", "#0 arg"},
		{"out(1 + 2)", "1 2 +[2] #1 out"},
		{"out(<>(0), 1)", "0 #1 <> 1 #2 out"},
		{"$+(1, 2)", "1 2 #2 $+"},
		{"$-(4)", "4 #1 $-"},
		{"out((1, 2) ` 3)", ""},
	}
	for _, tc := range cases {
		prog, err := parseSource(t, tc.src)
		if tc.want == "" {
			if err == nil {
				t.Fatalf("parse %q: expected error, got %q", tc.src, prog.String())
			}
			continue
		}
		if err != nil {
			t.Fatalf("parse %q: %v", tc.src, err)
		}
		if got := prog.String(); got != tc.want {
			t.Fatalf("parse %q got=%q want=%q", tc.src, got, tc.want)
		}
	}
}

func TestParseArityPrecedesCall(t *testing.T) {
	prog, err := parseSource(t, "outc(72, 105)")
	if err != nil {
		t.Fatal(err)
	}
	n := len(prog.Instructions)
	arity, call := prog.Instructions[n-2], prog.Instructions[n-1]
	if arity.Op != OpArity || arity.Arity != 2 {
		t.Fatalf("arity instruction = %#v", arity)
	}
	if call.Op != OpCall || call.Name != "outc" || call.Quoted {
		t.Fatalf("call instruction = %#v", call)
	}
}

func TestParseTopLevelCommaSeparatesExpressions(t *testing.T) {
	prog, err := parseSource(t, "1 + 2, 3 * 4")
	if err != nil {
		t.Fatal(err)
	}
	if got := prog.String(); got != "1 2 +[2] 3 4 *[2]" {
		t.Fatalf("got=%q", got)
	}
}

func TestParseEmptyProgram(t *testing.T) {
	prog, err := parseSource(t, "   ")
	if err != nil {
		t.Fatal(err)
	}
	if len(prog.Instructions) != 0 {
		t.Fatalf("instructions = %v", prog.Instructions)
	}
}

func TestParseResolvesOperators(t *testing.T) {
	prog, err := parseSource(t, "-2 - 1")
	if err != nil {
		t.Fatal(err)
	}
	var arities []int
	for _, in := range prog.Instructions {
		if in.Op == OpOperator {
			if in.Operator == nil || in.Operator.Name != "-" {
				t.Fatalf("unresolved operator %#v", in)
			}
			arities = append(arities, in.Arity)
		}
	}
	if len(arities) != 2 || arities[0] != 1 || arities[1] != 2 {
		t.Fatalf("arities = %v", arities)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		src string
		pos int
	}{
		{"(1", 0},
		{"1)", 1},
		{"1 2", 2},
		{"+ 1", 0},
		{"1 * * 2", 4},
		{"()", 0},
		{"out(1,)", 6},
		{"out(,1)", 4},
		{"out 1", 0},
		{"(1, 2)", 2},
		{"1 +", 2},
		{"1,", 1},
		{",1", 0},
		{"1,,2", 2},
		{"1 (2)", 2},
		{"$+ 1", 3},
	}
	for _, tc := range cases {
		prog, err := parseSource(t, tc.src)
		var parseErr *ParseError
		if !errors.As(err, &parseErr) {
			if prog != nil {
				t.Fatalf("parse %q: expected ParseError, got program %q", tc.src, prog.String())
			}
			t.Fatalf("parse %q: expected ParseError, got %v", tc.src, err)
		}
		if parseErr.Pos != tc.pos {
			t.Fatalf("parse %q: error %q at pos %d, want %d", tc.src, parseErr.Message, parseErr.Pos, tc.pos)
		}
	}
}
