package pkg

import (
	"errors"
	"fmt"
)

// InvocationError is returned for unusable invocations: bad flag values or a
// missing target directory. It is the only error that aborts a run.
type InvocationError struct {
	Msg string
	Err error
}

func (e *InvocationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *InvocationError) Unwrap() error { return e.Err }

// IsInvocationError reports whether err is, or wraps, an *InvocationError.
func IsInvocationError(err error) bool {
	var e *InvocationError
	return errors.As(err, &e)
}

// MetadataReadError reports embedded metadata that could not be read or parsed.
// The resolver recovers from it by falling back to filesystem times.
type MetadataReadError struct {
	Path string
	Err  error
}

func (e *MetadataReadError) Error() string {
	return fmt.Sprintf("failed to read capture metadata from %s: %v", e.Path, e.Err)
}

func (e *MetadataReadError) Unwrap() error { return e.Err }

// IOError reports a failed filesystem operation on a single file.
// Op is one of "read", "hash", "stat", "mkdir", "move" or "delete".
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// IsIOError reports whether err is, or wraps, an *IOError.
func IsIOError(err error) bool {
	var e *IOError
	return errors.As(err, &e)
}
