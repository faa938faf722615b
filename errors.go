package sfcparse

import "fmt"

// ScriptParseError is the only class of error Parse/ParseForESLint ever
// return: a <script> or <script setup> body failed to parse, or <script
// setup> reconstruction itself failed (spec §4.9, §7). Every other
// malformation surfaces as a recoverable ParseError on the document
// fragment instead.
type ScriptParseError struct {
	FilePath string
	Offset   int
	Pos      Position
	Cause    error
}

func (e *ScriptParseError) Error() string {
	where := e.FilePath
	if where == "" {
		where = "<input>"
	}
	return fmt.Sprintf("%s:%d:%d: %v", where, e.Pos.Line, e.Pos.Column, e.Cause)
}

func (e *ScriptParseError) Unwrap() error { return e.Cause }
