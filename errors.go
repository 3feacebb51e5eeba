package copstr

import (
	"errors"
	"fmt"
)

// Errors. Every strict operation that can fail returns one of these two
// conditions; errors.Is matches both the sentinels and the detailed
// *EncodingError. Truncating operations never fail.
var (
	// ErrOverflow means the content's encoded byte length exceeds the
	// remaining or total capacity.
	ErrOverflow = errors.New("content exceeds capacity")

	// ErrInvalidEncoding means bytes handed to a byte-level constructor
	// are not well-formed UTF-8. String-typed entry points never return
	// it: a Go string argument is copied as-is and validated UTF-8 input
	// is the caller's contract there.
	ErrInvalidEncoding = errors.New("invalid UTF-8 encoding")
)

// EncodingError carries the position of the first byte that breaks UTF-8
// well-formedness. It unwraps to ErrInvalidEncoding, so callers can
// branch with errors.Is and recover the offset with errors.As.
type EncodingError struct {
	Offset int
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("%v at byte %d", ErrInvalidEncoding, e.Offset)
}

func (e *EncodingError) Unwrap() error {
	return ErrInvalidEncoding
}
