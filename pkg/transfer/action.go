package transfer

import (
	"fmt"
	"strings"
)

// Action is the direction of a transfer.
type Action string

const (
	// Pull copies from the server to the local machine.
	Pull Action = "pull"

	// Put copies from the local machine to the server.
	Put Action = "put"
)

// Actions lists the valid actions, for help text and completion.
var Actions = []Action{Pull, Put}

// ParseAction converts a command line argument into an Action.
func ParseAction(s string) (Action, error) {
	switch Action(strings.ToLower(s)) {
	case Pull:
		return Pull, nil
	case Put:
		return Put, nil
	}
	return "", fmt.Errorf("unknown action %q: must be %q or %q", s, Pull, Put)
}
