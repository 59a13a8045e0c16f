package error

import (
	"fmt"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// Exit status of failures that abort the whole invocation
const (
	// ExitUsage is returned for bad flags and illegal parameter combinations
	ExitUsage = 1
	// ExitExec is returned when the process image could not be replaced
	ExitExec = 2
)

// AppError is struct of application error
// The Code is the exit status of the process
type AppError struct {
	Code    int
	Message string
	Err     error
}

// Error gives error string
func (e AppError) Error() string {
	if e.Message != "" && e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// Cause returns the wrapped error
func (e AppError) Cause() error { return e.Err }

// Unwrap returns the wrapped error
func (e AppError) Unwrap() error { return e.Err }

// AppErrorf create AppError from formate
func AppErrorf(code int, format string, a ...interface{}) *AppError {
	msg := fmt.Sprintf(format, a...)
	ae := AppError{code, msg, nil}
	return &ae
}

// NewAppError create new AppError
func NewAppError(value ...interface{}) *AppError {
	ae := AppError{}
	for i, val := range value {
		if i >= 3 {
			break
		}
		switch v := val.(type) {
		case int:
			ae.Code = v
		case string:
			ae.Message = v
		case error:
			ae.Err = v
		default:
			ae.Message = "Unknown AppError type!"
		}
	}
	if ae.Code == 0 {
		ae.Code = ExitUsage
	}
	return &ae
}

// Describe returns the best human readable cause of err: the errno text
// when an errno is at the root of err, the empty string otherwise.
// EINVAL gets a message of its own as the scheduler calls use it for both
// bad values and unimplemented policies.
func Describe(err error) string {
	var errno unix.Errno
	if !errors.As(err, &errno) {
		if e, ok := errors.Cause(err).(unix.Errno); ok {
			errno = e
		} else {
			return ""
		}
	}
	if errno == unix.EINVAL {
		return "value out of range / policy not implemented"
	}
	return errno.Error()
}
