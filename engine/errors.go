package engine

import (
	"errors"
	"strconv"
)

// Kind classifies the failures an engine operation returns to its caller.
type Kind int

const (
	KindInvalidInput Kind = iota + 1
	KindNotFound
)

// Sentinels for errors.Is. Every *Error unwraps to the one matching its Kind.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid input"
	case KindNotFound:
		return "not found"
	}
	return "unknown error"
}

// Error names the operation, the offending input and why it was rejected so
// the request layer can build an actionable message.
type Error struct {
	Kind   Kind
	Op     string
	Input  string
	Reason string
}

func (e *Error) Error() string {
	msg := e.Op + ": " + e.Kind.String()
	if e.Input != "" {
		msg += " " + strconv.Quote(e.Input)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *Error) Unwrap() error {
	switch e.Kind {
	case KindInvalidInput:
		return ErrInvalidInput
	case KindNotFound:
		return ErrNotFound
	}
	return nil
}

func invalidInput(op, input, reason string) *Error {
	return &Error{Kind: KindInvalidInput, Op: op, Input: input, Reason: reason}
}

func notFound(op, input string) *Error {
	return &Error{Kind: KindNotFound, Op: op, Input: input, Reason: "no drug record"}
}
