package vm

import (
	"github.com/pkg/errors"
)

const (
	Undefined = ErrorKind(iota)
	DecodeError
	StackUnderflow
	StackOverflow
	InvalidActorID
	ArithmeticError
)

// ErrorKind classifies every error the machine reports so callers can react
// without matching on message text.
type ErrorKind uint

var errorKindNames = [...]string{
	Undefined:       "undefined",
	DecodeError:     "decode error",
	StackUnderflow:  "stack underflow",
	StackOverflow:   "stack overflow",
	InvalidActorID:  "invalid actor id",
	ArithmeticError: "arithmetic error",
}

func (e ErrorKind) String() string {
	if int(e) >= len(errorKindNames) {
		return errorKindNames[Undefined]
	}
	return errorKindNames[e]
}

type machineError struct {
	errorType     ErrorKind
	originalError error
	pc            int
	hasPC         bool
}

func (e machineError) Error() string {
	return e.originalError.Error()
}

func (e machineError) Unwrap() error {
	return e.originalError
}

func (e ErrorKind) New(msg string) error {
	return machineError{errorType: e, originalError: errors.New(msg)}
}

func (e ErrorKind) Errorf(msg string, args ...interface{}) error {
	return machineError{errorType: e, originalError: errors.Errorf(msg, args...)}
}

func (e ErrorKind) Wrap(err error, msg string) error {
	return machineError{errorType: e, originalError: errors.Wrap(err, msg)}
}

func (e ErrorKind) Wrapf(err error, msg string, args ...interface{}) error {
	return machineError{errorType: e, originalError: errors.Wrapf(err, msg, args...)}
}

// KindOf returns the kind of the first machine error found in err's chain, or
// Undefined.
func KindOf(err error) ErrorKind {
	var me machineError
	if errors.As(err, &me) {
		return me.errorType
	}
	return Undefined
}

// ErrorProgramCounter reports the program counter at which the engine halted
// with err.
func ErrorProgramCounter(err error) (int, bool) {
	var me machineError
	if errors.As(err, &me) && me.hasPC {
		return me.pc, true
	}
	return 0, false
}

func withProgramCounter(err error, pc int) error {
	var me machineError
	if errors.As(err, &me) {
		me.pc, me.hasPC = pc, true
		me.originalError = errors.Wrapf(me.originalError, "pc %d", pc)
		return me
	}
	return errors.Wrapf(err, "pc %d", pc)
}
