package grammar

import "fmt"

type SemanticError struct {
	message string
}

func newSemanticError(message string) *SemanticError {
	return &SemanticError{
		message: message,
	}
}

func (e *SemanticError) Error() string {
	return e.message
}

var (
	ErrUndefinedStart    = newSemanticError("the start symbol is not a declared non-terminal")
	ErrUndefinedSymbol   = newSemanticError("undefined symbol")
	ErrOverlappingSymbol = newSemanticError("duplicate names are not allowed between terminals and non-terminals")
	ErrDuplicateSymbol   = newSemanticError("duplicate symbol")
	ErrReservedSymbol    = newSemanticError("reserved symbols cannot be declared")
)

// ValidationError reports a malformed grammar. Cause is one of the Err* semantic errors above.
type ValidationError struct {
	Cause  *SemanticError
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("invalid grammar: %v", e.Cause)
	}
	return fmt.Sprintf("invalid grammar: %v: %v", e.Cause, e.Detail)
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}
