package lexer

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/ConorOBrien-Foxx/Maverick/pkg/registry"
)

// CallShorthand expands to an empty argument list before scanning.
const CallShorthand = "@"

// Kind classifies a token by its text.
type Kind int

const (
	KindNumber Kind = iota
	KindQuoted
	KindName
	KindOpenParen
	KindCloseParen
	KindComma
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindQuoted:
		return "quoted"
	case KindName:
		return "name"
	case KindOpenParen:
		return "("
	case KindCloseParen:
		return ")"
	case KindComma:
		return ","
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Token is a fragment of preprocessed source text. Pos is its byte offset.
type Token struct {
	Text string
	Pos  int
}

// Kind derives the token's classification from its text.
func (t Token) Kind() Kind {
	switch {
	case t.Text == "(":
		return KindOpenParen
	case t.Text == ")":
		return KindCloseParen
	case t.Text == ",":
		return KindComma
	case t.Text != "" && registry.IsNumericByte(t.Text[0]):
		return KindNumber
	case t.Text != "" && t.Text[0] == registry.QuoteSigil:
		return KindQuoted
	default:
		return KindName
	}
}

// Name strips the quote sigil from a quoted token.
func (t Token) Name() string {
	return strings.TrimPrefix(t.Text, string(registry.QuoteSigil))
}

func (t Token) String() string { return t.Text }

// LexicalError reports text that cannot start any token.
type LexicalError struct {
	Char       rune
	Pos        int
	TokenIndex int
	Message    string
}

func (e *LexicalError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = fmt.Sprintf("unexpected token `%c`", e.Char)
	}
	return fmt.Sprintf("%s at pos %d, tok %d", msg, e.Pos, e.TokenIndex)
}

// Preprocess applies the source rewrites performed before scanning.
func Preprocess(src string) string {
	return strings.ReplaceAll(src, CallShorthand, "()")
}

// Lexer splits program text using the names of a registry.
type Lexer struct {
	reg *registry.Registry
}

func New(reg *registry.Registry) *Lexer {
	return &Lexer{reg: reg}
}

// Tokenize preprocesses src and returns its tokens in source order.
func (l *Lexer) Tokenize(src string) ([]Token, error) {
	src = Preprocess(src)
	var tokens []Token
	fail := func(pos int, msg string) error {
		r, _ := utf8.DecodeRuneInString(src[pos:])
		return &LexicalError{Char: r, Pos: pos, TokenIndex: len(tokens), Message: msg}
	}
	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case registry.IsNumericByte(c):
			start := i
			for i < len(src) && registry.IsNumericByte(src[i]) {
				i++
			}
			text := src[start:i]
			if _, err := decimal.NewFromString(text); err != nil {
				return nil, fail(start, fmt.Sprintf("invalid numeric literal %q", text))
			}
			tokens = append(tokens, Token{Text: text, Pos: start})
		case registry.IsStructural(rune(c)):
			tokens = append(tokens, Token{Text: string(c), Pos: i})
			i++
		case c == registry.QuoteSigil:
			name, ok := l.reg.MatchName(src[i+1:])
			if !ok {
				if i+1 < len(src) {
					return nil, fail(i+1, "")
				}
				return nil, fail(i, "quote sigil without a name")
			}
			tokens = append(tokens, Token{Text: src[i : i+1+len(name)], Pos: i})
			i += 1 + len(name)
		default:
			r, size := utf8.DecodeRuneInString(src[i:])
			if unicode.IsSpace(r) {
				i += size
				continue
			}
			name, ok := l.reg.MatchName(src[i:])
			if !ok {
				return nil, fail(i, "")
			}
			tokens = append(tokens, Token{Text: name, Pos: i})
			i += len(name)
		}
	}
	return tokens, nil
}

// Join renders tokens separated by single spaces.
func Join(tokens []Token) string {
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = t.Text
	}
	return strings.Join(parts, " ")
}
