package grammar

import "fmt"

type SyntaxError struct {
	message string
}

func newSyntaxError(message string) *SyntaxError {
	return &SyntaxError{
		message: message,
	}
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error: %s", e.message)
}

var (
	// lexical errors
	synErrUnclosedTerminal = newSyntaxError("unclosed terminal")
	synErrEmptyTerminal    = newSyntaxError("a quoted terminal must not be empty")
	synErrInvalidToken     = newSyntaxError("invalid token")

	// syntax errors
	synErrNoProduction     = newSyntaxError("a grammar must have at least one production")
	synErrNoProductionName = newSyntaxError("a production name is missing")
	synErrNoColon          = newSyntaxError("the colon must precede alternatives")
	synErrNoSemicolon      = newSyntaxError("the semicolon is missing at the last of an alternative")
	synErrNoGrammarName    = newSyntaxError("%name needs a grammar name")
	synErrQuotedNonTerm    = newSyntaxError("a quoted terminal has the same name as a non-terminal")
)
