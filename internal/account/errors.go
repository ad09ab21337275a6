package account

import (
	"errors"

	"github.com/nfrund/starbeam/internal/biometry"
)

// Action is a user-triggered account mutation.
type Action string

const (
	ActionCreate Action = "create"
	ActionDelete Action = "delete"
)

// BusyMessage is shown when the user triggers an action while another is
// still running.
const BusyMessage = "Another account operation is in progress"

// UserMessage reduces err to the single string shown for action. The gate
// refusals keep their own wording; everything else is generic.
func UserMessage(action Action, err error) string {
	if msg := biometry.Message(err); msg != "" {
		return msg
	}
	if errors.Is(err, ErrBusy) {
		return BusyMessage
	}
	if errors.Is(err, ErrAlreadyExists) {
		return "An account already exists on this device"
	}
	if action == ActionDelete {
		return "Failed to delete account"
	}
	return "Failed to create account"
}
