package validation

import (
	"errors"
	"fmt"
)

// Error marks a client-side precondition failure. Handlers map it to a 400
// response; it never reaches the database or the storage backend.
type Error struct {
	Msg string
}

func (e *Error) Error() string {
	return e.Msg
}

func Errorf(format string, args ...any) *Error {
	return &Error{Msg: fmt.Sprintf(format, args...)}
}

func IsValidation(err error) bool {
	var v *Error
	return errors.As(err, &v)
}
