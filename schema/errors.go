package schema

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Error types for document parsing
type (
	// MismatchError indicates the document shape does not match a schema version:
	// wrong container kind, unknown or missing field, or an unparsable scalar
	MismatchError struct {
		Version Version
		Line    int    // 0 if the line is unknown
		Field   string // dotted path, empty if unknown
		Reason  string
		Err     error
	}

	// ParseError indicates the document matched neither the current nor the
	// legacy schema. Current is the primary cause; Legacy is only kept for
	// diagnostics.
	ParseError struct {
		Current *MismatchError
		Legacy  error
	}
)

func (e *MismatchError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s schema mismatch", e.Version)
	if e.Line > 0 {
		fmt.Fprintf(&b, " at line %d", e.Line)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, " in '%s'", e.Field)
	}
	b.WriteString(": ")
	b.WriteString(e.Reason)
	return b.String()
}

func (e *MismatchError) Unwrap() error {
	return e.Err
}

func (e *ParseError) Error() string {
	return "invalid instance document: " + e.Current.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Current
}

// newMismatchError converts a yaml decoding error into a MismatchError
func newMismatchError(version Version, err error) *MismatchError {
	var mismatch *MismatchError
	if errors.As(err, &mismatch) {
		return mismatch
	}

	var typeErr *yaml.TypeError
	if errors.As(err, &typeErr) && len(typeErr.Errors) > 0 {
		line, reason := splitLine(typeErr.Errors[0])
		if extra := len(typeErr.Errors) - 1; extra > 0 {
			reason = fmt.Sprintf("%s (and %d more)", reason, extra)
		}
		return &MismatchError{
			Version: version,
			Line:    line,
			Reason:  reason,
			Err:     err,
		}
	}

	line, reason := splitLine(strings.TrimPrefix(err.Error(), "yaml: "))
	return &MismatchError{
		Version: version,
		Line:    line,
		Reason:  reason,
		Err:     err,
	}
}

// splitLine separates the "line N: " prefix yaml.v3 puts on its messages
func splitLine(msg string) (int, string) {
	rest, ok := strings.CutPrefix(msg, "line ")
	if !ok {
		return 0, msg
	}
	num, reason, ok := strings.Cut(rest, ": ")
	if !ok {
		return 0, msg
	}
	line, err := strconv.Atoi(num)
	if err != nil {
		return 0, msg
	}
	return line, reason
}
