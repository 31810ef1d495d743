package service

import (
	"fmt"
	"strings"

	"github.com/phrazzld/dialogcards/internal/session"
)

// Action names a single learner interaction with a session.
type Action string

// Supported actions.
const (
	ActionTurn          Action = "turn"
	ActionNext          Action = "next"
	ActionPrevious      Action = "previous"
	ActionCorrect       Action = "correct"
	ActionIncorrect     Action = "incorrect"
	ActionCompleteRound Action = "complete_round"
	ActionNextRound     Action = "next_round"
	ActionRestart       Action = "restart"
	ActionRetry         Action = "retry"
)

// ParseAction converts an action name (case-insensitive) into an Action.
func ParseAction(name string) (Action, error) {
	action := Action(strings.ToLower(strings.TrimSpace(name)))
	switch action {
	case ActionTurn, ActionNext, ActionPrevious, ActionCorrect, ActionIncorrect,
		ActionCompleteRound, ActionNextRound, ActionRestart, ActionRetry:
		return action, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidAction, name)
	}
}

// apply performs the action on c and reports whether it changed anything.
func (a Action) apply(c *session.Controller) (bool, error) {
	switch a {
	case ActionTurn:
		return c.TurnCard(), nil
	case ActionNext:
		return c.Advance(1), nil
	case ActionPrevious:
		return c.Advance(-1), nil
	case ActionCorrect:
		return c.Judge(true), nil
	case ActionIncorrect:
		return c.Judge(false), nil
	case ActionCompleteRound:
		_, ok := c.CompleteRound()
		return ok, nil
	case ActionNextRound:
		return c.StartNextRound(), nil
	case ActionRestart:
		c.Restart()
		return true, nil
	case ActionRetry:
		return c.Retry(), nil
	default:
		return false, fmt.Errorf("%w: %q", ErrInvalidAction, string(a))
	}
}
