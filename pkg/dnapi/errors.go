package dnapi

import "fmt"

// InvalidOptionError reports a request option whose kind is not in the
// validation table. Raised before any network I/O.
type InvalidOptionError struct {
	Option string
}

func (e *InvalidOptionError) Error() string {
	return fmt.Sprintf("invalid request option %q", e.Option)
}

// InvalidMethodOptionError reports a recognized option supplied for an
// HTTP method that does not support it. Raised before any network I/O.
type InvalidMethodOptionError struct {
	Option string
	Method string
}

func (e *InvalidMethodOptionError) Error() string {
	return fmt.Sprintf("request option %q is not valid for %s requests", e.Option, e.Method)
}
