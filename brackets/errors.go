package brackets

import (
	"errors"
	"fmt"
)

// Ошибки турнирной машины состояний. Все они детерминированы и означают
// неверный ввод, повторять вызов без исправления бессмысленно.
var (
	ErrInvalidConfiguration = errors.New("invalid tournament configuration")
	ErrUnknownPair          = errors.New("pair is not scheduled in this group")
	ErrDuplicateResult      = errors.New("result already recorded")
	ErrGroupStageIncomplete = errors.New("group stage is not complete")
	ErrMatchNotReady        = errors.New("match is missing a side")
	ErrTiedOutcome          = errors.New("sets are tied, match has no winner")

	ErrUnknownMatch           = fmt.Errorf("%w: knockout match does not exist", ErrInvalidConfiguration)
	ErrKnockoutAlreadyStarted = errors.New("knockout bracket already built")
	ErrKnockoutNotStarted     = errors.New("knockout bracket not built yet")
	ErrGroupNotFound          = errors.New("group not found")
)
