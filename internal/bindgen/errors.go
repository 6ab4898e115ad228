package bindgen

import "fmt"

// UsageError reports a problem in the input design: a missing record, an
// unconstrained vector, an untagged subtype. The user can fix these by
// editing the VHDL.
type UsageError struct {
	Msg string
}

func (e *UsageError) Error() string { return e.Msg }

func usagef(format string, args ...any) error {
	return &UsageError{Msg: fmt.Sprintf(format, args...)}
}

// InternalError reports a contract violation between vw and the simulator,
// such as malformed oracle output. These indicate a bug, not a user mistake.
type InternalError struct {
	Msg string
}

func (e *InternalError) Error() string { return "internal: " + e.Msg }

func internalf(format string, args ...any) error {
	return &InternalError{Msg: fmt.Sprintf(format, args...)}
}

// CodegenError reports that the rendered Go source failed to parse. Like
// InternalError it indicates a bug in the generator itself.
type CodegenError struct {
	Err error
}

func (e *CodegenError) Error() string {
	return fmt.Sprintf("generated code does not parse: %v", e.Err)
}

func (e *CodegenError) Unwrap() error { return e.Err }
