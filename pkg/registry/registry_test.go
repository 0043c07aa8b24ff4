package registry

import (
	"errors"
	"strings"
	"testing"

	"github.com/ConorOBrien-Foxx/Maverick/pkg/runtime"
)

func TestDefaultRegistryNamesLongestFirst(t *testing.T) {
	reg := Default()
	names := reg.Names()
	if len(names) == 0 {
		t.Fatal("registry has no names")
	}
	for i := 1; i < len(names); i++ {
		if len(names[i]) > len(names[i-1]) {
			t.Fatalf("names not sorted by length: %q before %q", names[i-1], names[i])
		}
	}
	index := func(name string) int {
		for i, n := range names {
			if n == name {
				return i
			}
		}
		t.Fatalf("name %q missing from %v", name, names)
		return -1
	}
	if index("<=") > index("<") {
		t.Fatal("<= must be tried before <")
	}
	if index("//") > index("/") {
		t.Fatal("// must be tried before /")
	}
}

func TestMatchNamePrefersLongest(t *testing.T) {
	reg := Default()
	cases := map[string]string{
		"<=3":    "<=",
		"<3":     "<",
		"//$+":   "//",
		"/2":     "/",
		"outc@":  "outc",
		"out(1)": "out",
		"then 1": "then",
	}
	for src, want := range cases {
		got, ok := reg.MatchName(src)
		if !ok || got != want {
			t.Fatalf("MatchName(%q) = %q, %v; want %q", src, got, ok, want)
		}
	}
	if _, ok := reg.MatchName("#"); ok {
		t.Fatal("MatchName matched an unknown character")
	}
}

func TestClassification(t *testing.T) {
	reg := Default()
	if !reg.IsLiteral("12.5") || !reg.IsLiteral("$+") {
		t.Fatal("numbers and quoted references are literals")
	}
	if reg.IsLiteral("+") || reg.IsLiteral("out") || reg.IsLiteral("") {
		t.Fatal("names are not literals")
	}
	if !reg.IsFunctionName("out") || reg.IsFunctionName("+") {
		t.Fatal("function classification wrong")
	}
	if !reg.IsOperatorName("then") || reg.IsOperatorName("arg") {
		t.Fatal("operator classification wrong")
	}
}

func TestOperatorMetadata(t *testing.T) {
	reg := Default()
	minus, ok := reg.Operator("-")
	if !ok {
		t.Fatal("missing -")
	}
	if !minus.HasVariant(1) || !minus.HasVariant(2) {
		t.Fatal("- should have unary and binary variants")
	}
	pow, _ := reg.Operator("^")
	if pow.Associativity != AssocRight || pow.Precedence != 5 {
		t.Fatalf("^ metadata = %+v", pow)
	}
	plus, _ := reg.Operator("+")
	if plus.HasVariant(1) {
		t.Fatal("+ has no unary variant")
	}
	cons, _ := reg.Operator("`")
	then, _ := reg.Operator("then")
	if cons.Precedence <= plus.Precedence || then.Precedence >= plus.Precedence {
		t.Fatal("precedence ordering broken")
	}
}

func TestLookupUnknownName(t *testing.T) {
	_, err := Default().Lookup("nope")
	var unknown *UnknownNameError
	if !errors.As(err, &unknown) || unknown.Name != "nope" {
		t.Fatalf("expected UnknownNameError, got %v", err)
	}
}

func TestQuoteCarriesName(t *testing.T) {
	ref, err := Default().Quote("-")
	if err != nil {
		t.Fatal(err)
	}
	if ref.String() != "$-" {
		t.Fatalf("quoted display = %q", ref.String())
	}
	got, err := ref.Target.Invoke(&runtime.CallContext{}, []runtime.Value{runtime.Int(4)})
	if err != nil {
		t.Fatal(err)
	}
	if !runtime.Equal(got, runtime.Int(-4)) {
		t.Fatalf("unary dispatch through handle = %#v", got)
	}
	got, err = ref.Target.Invoke(&runtime.CallContext{}, []runtime.Value{runtime.Int(4), runtime.Int(1)})
	if err != nil {
		t.Fatal(err)
	}
	if !runtime.Equal(got, runtime.Int(3)) {
		t.Fatalf("binary dispatch through handle = %#v", got)
	}
	_, err = ref.Target.Invoke(&runtime.CallContext{}, []runtime.Value{runtime.Int(1), runtime.Int(2), runtime.Int(3)})
	var operandErr *OperandError
	if !errors.As(err, &operandErr) {
		t.Fatalf("expected OperandError for 3 operands, got %v", err)
	}
}

func TestBuilderRejectsBadDescriptors(t *testing.T) {
	noop := BinaryEffect(func(_ *runtime.CallContext, a, _ runtime.Value) (runtime.Value, error) { return a, nil })
	_, err := NewBuilder().
		AddOperator(&Operator{Name: "x", Effects: []Effect{noop}}).
		AddFunction(&Function{Name: "x", Effect: func(*runtime.CallContext, []runtime.Value) (runtime.Value, error) { return nil, nil }}).
		Build()
	if err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("expected duplicate error, got %v", err)
	}

	for _, name := range []string{"", "1x", ".x", "$x", "(x", " x"} {
		_, err := NewBuilder().AddOperator(&Operator{Name: name, Effects: []Effect{noop}}).Build()
		if err == nil {
			t.Fatalf("name %q accepted", name)
		}
	}

	_, err = NewBuilder().AddOperator(&Operator{Name: "y"}).Build()
	if err == nil || !strings.Contains(err.Error(), "no variants") {
		t.Fatalf("expected missing variant error, got %v", err)
	}

	_, err = NewBuilder().AddOperator(&Operator{Name: "z", Effects: []Effect{noop, noop}}).Build()
	if err == nil || !strings.Contains(err.Error(), "twice") {
		t.Fatalf("expected duplicate arity error, got %v", err)
	}
}

func TestDescriptorsRejectUnknownEffect(t *testing.T) {
	doc := `
operators:
  - name: "~"
    precedence: 2
    variants: {binary: nonexistent}
`
	err := loadDescriptors(NewBuilder(), strings.NewReader(doc), newEffectTable(DefaultPrecision))
	if err == nil || !strings.Contains(err.Error(), "nonexistent") {
		t.Fatalf("expected unknown effect error, got %v", err)
	}
}

func TestDescriptorsRejectUnknownFields(t *testing.T) {
	doc := `
operators:
  - name: "~"
    precedance: 2
`
	err := loadDescriptors(NewBuilder(), strings.NewReader(doc), newEffectTable(DefaultPrecision))
	if err == nil {
		t.Fatal("misspelled field accepted")
	}
}

func TestPrecisionConfigured(t *testing.T) {
	reg, err := New(Config{Precision: 3})
	if err != nil {
		t.Fatal(err)
	}
	if reg.Precision() != 3 {
		t.Fatalf("Precision = %d", reg.Precision())
	}
	div, _ := reg.Operator("/")
	got, err := div.Invoke(&runtime.CallContext{}, []runtime.Value{runtime.Int(1), runtime.Int(3)})
	if err != nil {
		t.Fatal(err)
	}
	if runtime.Display(got) != "0.333" {
		t.Fatalf("1/3 at precision 3 = %s", runtime.Display(got))
	}
}
