package commands

import (
	"errors"

	"dispatch/internal/pkg/guard"
)

var ErrAssignOrderCommandIsNotConstructed = errors.New(
	"AssignOrderCommand must be created via NewAssignOrderCommand constructor",
)

// AssignOrderCommand triggers one assignment attempt for the oldest pending
// order. It carries no payload; the retry job issues it periodically to pick
// up orders left unassigned at creation time.
type AssignOrderCommand struct {
	guard guard.ConstructorGuard
}

// NewAssignOrderCommand creates a command to run one assignment attempt.
func NewAssignOrderCommand() AssignOrderCommand {
	return AssignOrderCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
func (c AssignOrderCommand) Validate() error {
	return c.guard.Validate(ErrAssignOrderCommandIsNotConstructed)
}
