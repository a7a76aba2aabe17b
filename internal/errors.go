package internal

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrorKind classifies a failure by the stage that produced it
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindConfig
	KindPrecondition
	KindRemote
	KindModel
	KindWrite
)

// String returns a human-readable representation of the error kind
func (k ErrorKind) String() string {
	switch k {
	case KindConfig:
		return "configuration"
	case KindPrecondition:
		return "precondition"
	case KindRemote:
		return "remote resource"
	case KindModel:
		return "model"
	case KindWrite:
		return "write"
	default:
		return "unknown"
	}
}

// ErrNoTranscript is returned when the model answers without any text
var ErrNoTranscript = errors.New("model returned no transcript")

// Error is a fatal, user-facing failure with an optional hint on how to fix it
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
	Hint string
}

func (e *Error) Error() string {
	var sb strings.Builder
	if e.Op != "" {
		sb.WriteString(e.Op)
		sb.WriteString(": ")
	}
	if e.Err != nil {
		sb.WriteString(e.Err.Error())
	} else {
		sb.WriteString(e.Kind.String() + " error")
	}
	if e.Hint != "" {
		fmt.Fprintf(&sb, "\nhint: %s", e.Hint)
	}
	return sb.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Cause lets errors.Cause walk through to the underlying error
func (e *Error) Cause() error {
	return e.Err
}

func newError(kind ErrorKind, op string, err error, hint string) *Error {
	return &Error{Kind: kind, Op: op, Err: err, Hint: hint}
}

// ConfigError reports a value that could not be resolved before any network call
func ConfigError(op string, err error, hint string) *Error {
	return newError(KindConfig, op, err, hint)
}

// PreconditionError reports an unusable local input
func PreconditionError(op string, err error) *Error {
	return newError(KindPrecondition, op, err, "")
}

// RemoteError reports a bucket or object failure
func RemoteError(op string, err error, hint string) *Error {
	return newError(KindRemote, op, err, hint)
}

// ModelError reports a failed or empty generation
func ModelError(op string, err error) *Error {
	return newError(KindModel, op, err, "")
}

// WriteError reports a failed transcript write
func WriteError(op string, err error, hint string) *Error {
	return newError(KindWrite, op, err, hint)
}

// KindOf returns the kind of the first *Error in err's chain
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
