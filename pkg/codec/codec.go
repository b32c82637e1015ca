// Package codec converts typed payloads to and from their external
// representations: JSON text, a generic structured value tree, raw bytes,
// and (input only) a file path.
//
// Structured values use map[string]any, []any, json.Number, string, bool and
// nil. Deflate emits json.Number for every number so integer precision
// survives a Value round trip. Optional fields that are nil or tagged
// omitempty are left out of every representation rather than emitted as null.
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Kind identifies an output representation.
type Kind int

const (
	Text Kind = iota
	Value
	Bytes
)

func (k Kind) String() string {
	switch k {
	case Text:
		return "text"
	case Value:
		return "value"
	case Bytes:
		return "bytes"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind maps a CLI/config name onto a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "text", "":
		return Text, nil
	case "value":
		return Value, nil
	case "bytes":
		return Bytes, nil
	}
	return 0, fmt.Errorf("unknown representation %q", s)
}

// SourceKind identifies an input representation.
type SourceKind int

const (
	SourceText SourceKind = iota
	SourceValue
	SourceBytes
	SourcePath
)

func (k SourceKind) String() string {
	switch k {
	case SourceText:
		return "text"
	case SourceValue:
		return "value"
	case SourceBytes:
		return "bytes"
	case SourcePath:
		return "path"
	default:
		return fmt.Sprintf("source(%d)", int(k))
	}
}

// Source is one input to Leaven. Build it with FromText, FromValue,
// FromBytes or FromPath.
type Source struct {
	kind  SourceKind
	text  string
	value any
	data  []byte
	path  string
}

func FromText(s string) Source  { return Source{kind: SourceText, text: s} }
func FromValue(v any) Source    { return Source{kind: SourceValue, value: v} }
func FromBytes(b []byte) Source { return Source{kind: SourceBytes, data: b} }
func FromPath(p string) Source  { return Source{kind: SourcePath, path: p} }

// Kind reports which variant the source holds.
func (s Source) Kind() SourceKind { return s.kind }

// Leaven decodes src into a T. A failed decode returns the zero T, never a
// partially populated one.
func Leaven[T any](src Source) (T, error) {
	var out T
	var err error
	switch src.kind {
	case SourceText:
		err = unmarshal([]byte(src.text), &out)
	case SourceBytes:
		err = unmarshal(src.data, &out)
	case SourceValue:
		err = fromValue(src.value, &out)
	case SourcePath:
		var data []byte
		data, err = os.ReadFile(src.path)
		if err != nil {
			var zero T
			return zero, &DecodeError{Source: SourcePath, Reason: ErrUnreadable, Err: err}
		}
		err = unmarshal(data, &out)
	default:
		err = fmt.Errorf("unsupported source %s", src.kind)
	}
	if err != nil {
		var zero T
		return zero, &DecodeError{Source: src.kind, Reason: ErrMalformed, Err: err}
	}
	return out, nil
}

// LeavenReader reads r to the end and decodes the bytes into a T.
func LeavenReader[T any](r io.Reader) (T, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		var zero T
		return zero, &DecodeError{Source: SourceBytes, Reason: ErrUnreadable, Err: err}
	}
	return Leaven[T](FromBytes(data))
}

// Deflated is the output of Deflate. Exactly one representation is set.
type Deflated struct {
	kind  Kind
	text  string
	value any
	data  []byte
}

// Kind reports which representation d holds.
func (d Deflated) Kind() Kind { return d.kind }

// AsText returns the text if d holds Text.
func (d Deflated) AsText() (string, bool) {
	if d.kind != Text {
		return "", false
	}
	return d.text, true
}

// AsValue returns the structured value if d holds Value.
func (d Deflated) AsValue() (any, bool) {
	if d.kind != Value {
		return nil, false
	}
	return d.value, true
}

// AsBytes returns the raw bytes if d holds Bytes.
func (d Deflated) AsBytes() ([]byte, bool) {
	if d.kind != Bytes {
		return nil, false
	}
	return d.data, true
}

// Deflate encodes v into the requested representation.
func Deflate(v any, kind Kind) (Deflated, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return Deflated{}, &EncodeError{Kind: kind, Err: err}
	}
	switch kind {
	case Text:
		return Deflated{kind: Text, text: string(data)}, nil
	case Bytes:
		return Deflated{kind: Bytes, data: data}, nil
	case Value:
		var tree any
		if err := unmarshal(data, &tree); err != nil {
			return Deflated{}, &EncodeError{Kind: kind, Err: err}
		}
		return Deflated{kind: Value, value: tree}, nil
	}
	return Deflated{}, &EncodeError{Kind: kind, Err: fmt.Errorf("unsupported representation %s", kind)}
}

// unmarshal is json.Unmarshal with numbers kept as json.Number when the
// target is untyped.
func unmarshal(data []byte, out any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("unexpected data after top-level value")
	}
	return nil
}

func fromValue(v any, out any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return unmarshal(data, out)
}
