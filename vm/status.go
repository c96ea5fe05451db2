package vm

import (
	"fmt"

	"github.com/qmuntal/stateless"
)

type Status int

const (
	StatusReady Status = iota
	StatusRunning
	StatusHaltedOK
	StatusHaltedError
)

func (s Status) String() string {
	switch s {
	case StatusReady:
		return "READY"
	case StatusRunning:
		return "RUNNING"
	case StatusHaltedOK:
		return "HALTED-OK"
	case StatusHaltedError:
		return "HALTED-ERROR"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

const (
	triggerStart  = "start"
	triggerFinish = "finish"
	triggerFail   = "fail"
)

// Start is only permitted outside of a run, which rejects reentrant Execute
// calls made from an Effects callback.
func newStatusMachine() *stateless.StateMachine {
	sm := stateless.NewStateMachine(StatusReady)

	sm.Configure(StatusReady).
		Permit(triggerStart, StatusRunning)

	sm.Configure(StatusRunning).
		Permit(triggerFinish, StatusHaltedOK).
		Permit(triggerFail, StatusHaltedError)

	sm.Configure(StatusHaltedOK).
		Permit(triggerStart, StatusRunning)

	sm.Configure(StatusHaltedError).
		Permit(triggerStart, StatusRunning)

	return sm
}
