package parser

import "fmt"

// ParseError includes a message plus the byte offset of the offending token.
type ParseError struct {
	Message string
	Pos     int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parser: %s at pos %d", e.Message, e.Pos)
}

func errorf(pos int, format string, args ...any) *ParseError {
	return &ParseError{Message: fmt.Sprintf(format, args...), Pos: pos}
}
