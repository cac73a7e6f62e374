package godtc

import (
	"errors"
	"fmt"
)

// Unit and frame level failures. These are absorbed by Decode and only
// show up in debug logging.
var (
	ErrInvalidQuad  = errors.New("invalid hex quad")
	ErrInvalidCode  = errors.New("invalid DTC format")
	ErrSentinelCode = errors.New("no fault sentinel")
	ErrNoPayload    = errors.New("no frame pattern match")
)

// CategoryParse tags a batch that could not be decoded at all.
const CategoryParse = "parse_error"

// Error is the only failure Decode returns to the caller.
type Error struct {
	Category string
	Message  string
	Err      error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Category
	}
	return e.Category + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newParseError(v interface{}) *Error {
	if err, ok := v.(error); ok {
		return &Error{Category: CategoryParse, Message: err.Error(), Err: err}
	}
	return &Error{Category: CategoryParse, Message: fmt.Sprint(v)}
}

// IsCategory checks if err is an *Error tagged with category
func IsCategory(err error, category string) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Category == category
	}
	return false
}
