package expr

import "fmt"

type ErrorKind int

const (
	BadSyntax ErrorKind = iota + 1
	NoTokens
	CommandExpected
	AddressExpected
	TokenExpected
	InvalidRegex
	PipeError
	InvalidAddress
	NotImplemented
)

func (k ErrorKind) String() string {
	switch k {
	case BadSyntax:
		return "bad syntax"
	case NoTokens:
		return "no tokens"
	case CommandExpected:
		return "command expected"
	case AddressExpected:
		return "address expected"
	case TokenExpected:
		return "token expected"
	case InvalidRegex:
		return "invalid regex"
	case PipeError:
		return "pipe error"
	case InvalidAddress:
		return "invalid address"
	case NotImplemented:
		return "not implemented"
	}
	return "unknown error"
}

// Error is the error returned for everything that goes wrong while parsing or
// running a command, except failures of the file system which are passed through.
type Error struct {
	Kind   ErrorKind
	Detail string
	// Pos is the rune index in the command string the error refers to, or -1.
	Pos int
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Detail)
	}
	if e.Pos >= 0 {
		msg = fmt.Sprintf("At character %d: %s", e.Pos+1, msg)
	}
	return msg
}

// Is reports whether target is an *Error of the same kind, so that
// errors.Is(err, ErrInvalidRegex) and friends work.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrBadSyntax       = &Error{Kind: BadSyntax, Pos: -1}
	ErrNoTokens        = &Error{Kind: NoTokens, Pos: -1}
	ErrCommandExpected = &Error{Kind: CommandExpected, Pos: -1}
	ErrAddressExpected = &Error{Kind: AddressExpected, Pos: -1}
	ErrTokenExpected   = &Error{Kind: TokenExpected, Pos: -1}
	ErrInvalidRegex    = &Error{Kind: InvalidRegex, Pos: -1}
	ErrPipe            = &Error{Kind: PipeError, Pos: -1}
	ErrInvalidAddress  = &Error{Kind: InvalidAddress, Pos: -1}
	ErrNotImplemented  = &Error{Kind: NotImplemented, Pos: -1}
)

func newError(kind ErrorKind, pos int, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...), Pos: pos}
}

// runtimeError is an error raised while executing, where there is no position.
func runtimeError(kind ErrorKind, format string, args ...interface{}) *Error {
	return newError(kind, -1, format, args...)
}
