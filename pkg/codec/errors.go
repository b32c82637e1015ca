package codec

import (
	"errors"
	"fmt"
)

var (
	// ErrUnreadable means the input could not be read at all.
	ErrUnreadable = errors.New("unreadable input")
	// ErrMalformed means the input was read but did not parse into the payload.
	ErrMalformed = errors.New("malformed input")
)

// DecodeError reports a failed Leaven. Reason is ErrUnreadable or ErrMalformed.
type DecodeError struct {
	Source SourceKind
	Reason error
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v: %v", e.Source, e.Reason, e.Err)
}

func (e *DecodeError) Unwrap() []error { return []error{e.Reason, e.Err} }

// EncodeError reports a failed Deflate.
type EncodeError struct {
	Kind Kind
	Err  error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encode %s: %v", e.Kind, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }
