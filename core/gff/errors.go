package gff

import (
	"fmt"

	"github.com/FocuswithJustin/gffkit/core/errors"
)

// FormatError reports malformed GFF input: a bad column count, an
// unparseable number, an invalid strand or phase token, a malformed
// sequence-region directive or an attribute column that does not follow
// the dialect's grammar.
type FormatError struct {
	Line    int    // 1-based line number, 0 when not read from a stream
	Text    string // offending line or attribute segment
	Message string // what was wrong
	Err     error  // underlying parse error, if any
}

func (e *FormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("gff: line %d: %s: %q", e.Line, e.Message, e.Text)
	}
	return fmt.Sprintf("gff: %s: %q", e.Message, e.Text)
}

// Unwrap exposes both errors.ErrInvalidInput and the underlying cause.
func (e *FormatError) Unwrap() []error {
	if e.Err != nil {
		return []error{errors.ErrInvalidInput, e.Err}
	}
	return []error{errors.ErrInvalidInput}
}

func newFormatError(text, message string, err error) *FormatError {
	return &FormatError{
		Text:    text,
		Message: message,
		Err:     err,
	}
}

// atLine stamps a line number on err when it is a FormatError without one.
func atLine(err error, line int, text string) error {
	var fe *FormatError
	if errors.As(err, &fe) && fe.Line == 0 {
		fe.Line = line
		if fe.Text == "" {
			fe.Text = text
		}
	}
	return err
}

func isFormatError(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}
