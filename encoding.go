package copstr

import (
	"gopkg.in/yaml.v3"
)

// MarshalText implements encoding.TextMarshaler, emitting exactly the
// contents. This is what encoding/json and friends pick up, so a Str
// field serializes as a plain string with no capacity metadata.
func (s Str[A]) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler with FromBytes
// semantics: the input is validated and must fit. On failure the prior
// contents are left fully intact.
func (s *Str[A]) UnmarshalText(text []byte) error {
	v, err := FromBytes[A](text)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// MarshalYAML implements yaml.Marshaler as a plain scalar string.
func (s Str[A]) MarshalYAML() (any, error) {
	return s.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler with strict semantics: a
// scalar that exceeds the capacity fails with ErrOverflow and leaves the
// prior contents intact.
func (s *Str[A]) UnmarshalYAML(node *yaml.Node) error {
	var str string
	if err := node.Decode(&str); err != nil {
		return err
	}
	v, err := New[A](str)
	if err != nil {
		return err
	}
	*s = v
	return nil
}
