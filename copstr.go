// Package copstr provides a fixed-capacity, copy-by-value UTF-8 string.
//
// Str wraps a byte array and a length cursor and keeps a string-like
// interface on top. Capacity is a compile-time property carried by the
// storage type parameter: Str[[16]byte] holds up to 16 bytes, and two Str
// types with different capacities are distinct types. Values are plain
// data with no pointers, so copying one always yields a fully independent
// instance, and same-capacity values can be compared with == and used as
// map keys directly.
//
// Every operation guarantees that the in-use bytes are well-formed UTF-8
// and that the length cursor never lands inside a multi-byte encoding.
// Strict operations (New, FromBytes, Set, Push) fail with ErrOverflow
// rather than store a partial result; truncating operations (Truncate,
// SetTruncated, Collect) never fail and instead drop whole code points
// that do not fit.
package copstr

import (
	"fmt"
	"iter"
	"reflect"
	"unicode/utf8"
	"unsafe"
)

// Str is a fixed-capacity string stored inline in a byte array of type A.
//
// A must be a byte array type such as [8]byte or [64]byte; any other
// storage type panics on first use. The zero value is an empty string and
// is ready to use. Unused bytes past the length cursor are kept zeroed,
// so == on same-capacity values is exactly equality of their contents,
// and hashing as a map key follows the contents as well.
type Str[A any] struct {
	buf A
	n   int
}

// Convenience instantiations for common capacities.
type (
	Str8   = Str[[8]byte]
	Str16  = Str[[16]byte]
	Str32  = Str[[32]byte]
	Str64  = Str[[64]byte]
	Str128 = Str[[128]byte]
	Str256 = Str[[256]byte]
)

// New returns a Str holding str, or ErrOverflow if str does not fit.
func New[A any](str string) (Str[A], error) {
	var s Str[A]
	if err := s.Set(str); err != nil {
		return Str[A]{}, err
	}
	return s, nil
}

// Must is New for inputs known to fit, typically package-level literals.
// It panics on overflow, surfacing oversized literals at init time.
func Must[A any](str string) Str[A] {
	s, err := New[A](str)
	if err != nil {
		panic(fmt.Sprintf("copstr: %q (%d bytes) exceeds capacity %d", str, len(str), s.Capacity()))
	}
	return s
}

// FromBytes validates that b is well-formed UTF-8 and returns a Str
// holding a copy of it. Malformed input fails with an *EncodingError
// identifying the first invalid byte; input that is valid but too long
// fails with ErrOverflow. Both errors leave no value behind.
func FromBytes[A any](b []byte) (Str[A], error) {
	if off, ok := firstInvalid(b); !ok {
		return Str[A]{}, &EncodingError{Offset: off}
	}
	var s Str[A]
	if len(b) > s.Capacity() {
		return Str[A]{}, ErrOverflow
	}
	s.copyIn(b)
	return s, nil
}

// Truncate returns a Str holding the longest prefix of str, counted in
// whole code points, whose UTF-8 encoding fits the capacity. It never
// fails and never splits a multi-byte encoding; a code point that does
// not fit in the remaining space is dropped entirely. Callers that need
// to detect that clipping occurred can compare Len against len(str).
func Truncate[A any](str string) Str[A] {
	var s Str[A]
	s.SetTruncated(str)
	return s
}

// TrustedBytes returns a Str holding b without validating that it is
// well-formed UTF-8, clipping oversized input at what looks like a code
// point boundary. It exists for trusted literal input only: handing it
// arbitrary bytes breaks the UTF-8 guarantee of every accessor. Untrusted
// input belongs in FromBytes.
func TrustedBytes[A any](b []byte) Str[A] {
	var s Str[A]
	s.copyIn(clip(b, s.Capacity()))
	return s
}

// Collect builds a Str from a sequence of runes, pushing them in order
// and stopping silently at the first one that would overflow. The result
// equals Truncate applied to the concatenation of the sequence.
func Collect[A any](runes iter.Seq[rune]) Str[A] {
	var s Str[A]
	for r := range runes {
		if s.Push(r) != nil {
			break
		}
	}
	return s
}

// Capacity returns the fixed capacity in bytes, the size of A.
func (s Str[A]) Capacity() int {
	return int(unsafe.Sizeof(s.buf))
}

// Len returns the length of the wrapped string in bytes (not in runes).
func (s Str[A]) Len() int {
	return s.n
}

// String returns the contents as a string. The result is always
// well-formed UTF-8.
func (s Str[A]) String() string {
	return string(storage(&s.buf)[:s.n])
}

// Bytes returns a view of the in-use bytes, excluding the unused tail of
// the storage array. The view aliases the receiver: it stays valid until
// the next mutation and must not be written through.
func (s *Str[A]) Bytes() []byte {
	return storage(&s.buf)[:s.n]
}

// Push appends one rune, or returns ErrOverflow if its encoding does not
// fit in the remaining space. On overflow the contents are left
// byte-for-byte unchanged. Runes outside the Unicode scalar value range
// are encoded as U+FFFD, following utf8.AppendRune.
func (s *Str[A]) Push(r rune) error {
	var scratch [utf8.UTFMax]byte
	enc := utf8.AppendRune(scratch[:0], r)
	buf := storage(&s.buf)
	if len(enc) > len(buf)-s.n {
		return ErrOverflow
	}
	copy(buf[s.n:], enc)
	s.n += len(enc)
	return nil
}

// Set replaces the contents with str, or returns ErrOverflow if str does
// not fit, leaving the prior contents fully intact. Together with String
// it satisfies flag.Value, so a *Str registers directly with flag.Var and
// similar parse-from-text machinery.
func (s *Str[A]) Set(str string) error {
	if len(str) > s.Capacity() {
		return ErrOverflow
	}
	s.copyIn(stringBytes(str))
	return nil
}

// SetTruncated replaces the contents with the longest whole-code-point
// prefix of str that fits, exactly as Truncate. It never fails; clipping
// is silent, detectable only by comparing Len against len(str).
func (s *Str[A]) SetTruncated(str string) {
	s.copyIn(clip(stringBytes(str), s.Capacity()))
}

// copyIn installs b as the whole contents and zeroes the unused tail. It
// is the single routine that writes into the storage; every constructor
// and mutator funnels through it or through Push, and both require the
// caller to have already established that the bytes fit.
func (s *Str[A]) copyIn(b []byte) {
	buf := storage(&s.buf)
	s.n = copy(buf, b)
	clear(buf[s.n:])
}

// storage reinterprets the backing array as a byte slice covering the
// full capacity. The kind check keeps the unsafe cast away from any
// storage type whose memory the garbage collector cares about.
func storage[A any](buf *A) []byte {
	if t := reflect.TypeOf(buf).Elem(); t.Kind() != reflect.Array || t.Elem().Kind() != reflect.Uint8 {
		panic("copstr: storage type must be a byte array such as [16]byte, not " + t.String())
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(buf)), int(unsafe.Sizeof(*buf)))
}

// stringBytes views str as a byte slice without copying. Read-only; must
// not outlive str.
func stringBytes(str string) []byte {
	return unsafe.Slice(unsafe.StringData(str), len(str))
}

// clip returns the longest prefix of b that is at most max bytes long and
// ends on a UTF-8 code point boundary. b must be valid UTF-8 for the
// boundary scan to be meaningful.
func clip(b []byte, max int) []byte {
	if len(b) <= max {
		return b
	}
	for max > 0 && !utf8.RuneStart(b[max]) {
		max--
	}
	return b[:max]
}

// firstInvalid reports whether b is well-formed UTF-8, and if not, the
// offset of the first byte that breaks the encoding.
func firstInvalid(b []byte) (int, bool) {
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size <= 1 {
			return i, false
		}
		i += size
	}
	return 0, true
}
