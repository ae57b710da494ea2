package classfile

import (
	"errors"
	"fmt"
)

// FormatError reports class-file bytes that do not follow the class-file
// layout. Offset is the byte offset in the input where decoding stopped.
type FormatError struct {
	Offset int
	Msg    string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("classfile: offset %d: %s", e.Offset, e.Msg)
}

func formatErrorf(off int, format string, args ...any) error {
	return &FormatError{Offset: off, Msg: fmt.Sprintf(format, args...)}
}

// IsFormatError reports whether err is, or wraps, a *FormatError.
func IsFormatError(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}
