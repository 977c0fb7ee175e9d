package enrollment

import "fmt"

// DropState is the drop confirmation machine's position. The machine is
// transient, scoped to a single profile's drop interaction.
type DropState string

const (
	DropInitial        DropState = "INITIAL"
	DropConfirmPending DropState = "CONFIRM_PENDING"
	DropDone           DropState = "DROPPED"
)

// DropEvent drives the machine.
type DropEvent string

const (
	DropRequested DropEvent = "REQUEST"
	DropCancelled DropEvent = "CANCEL"
	DropConfirmed DropEvent = "CONFIRM"
)

// ErrDropTransition marks an event that is not legal in the current state.
type ErrDropTransition struct {
	State DropState
	Event DropEvent
}

func (e *ErrDropTransition) Error() string {
	return fmt.Sprintf("drop workflow: event %s not allowed in state %s", e.Event, e.State)
}

// DropTransition is the pure transition function of the drop machine:
//
//	INITIAL --REQUEST--> CONFIRM_PENDING
//	CONFIRM_PENDING --CANCEL--> INITIAL
//	CONFIRM_PENDING --CONFIRM--> DROPPED
//
// Every drop passes through CONFIRM_PENDING; confirming from INITIAL is
// rejected, and DROPPED is terminal. Callers fire the remote drop call only
// on the CONFIRM_PENDING -> DROPPED edge, after the call succeeds.
func DropTransition(state DropState, event DropEvent) (DropState, error) {
	switch state {
	case DropInitial:
		if event == DropRequested {
			return DropConfirmPending, nil
		}
	case DropConfirmPending:
		switch event {
		case DropCancelled:
			return DropInitial, nil
		case DropConfirmed:
			return DropDone, nil
		}
	case DropDone:
		// terminal
	}
	return state, &ErrDropTransition{State: state, Event: event}
}
