package combat

import (
	"fmt"

	"github.com/tfaulds/emberdeck/internal/game/event"
)

// Reason classifies why an action was rejected.
type Reason string

const (
	ReasonNoEnergy      Reason = "REASON_NO_ENERGY"
	ReasonNeedsTarget   Reason = "REASON_NEEDS_TARGET"
	ReasonInvalidTarget Reason = "REASON_INVALID_TARGET"
	ReasonEmptySlot     Reason = "REASON_EMPTY_SLOT"
	ReasonUnplayable    Reason = "REASON_UNPLAYABLE"
	ReasonNotPlayerTurn Reason = "REASON_NOT_PLAYER_TURN"
	ReasonCombatOver    Reason = "REASON_COMBAT_OVER"
)

// RejectionError reports an illegal action. Rejections happen before any
// mutation: the combat state is exactly as it was before the call.
type RejectionError struct {
	Reason Reason
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("action rejected: %s", string(e.Reason))
}

// reject is shorthand for the nil-events rejection return.
func reject(reason Reason) ([]event.Event, error) {
	return nil, &RejectionError{Reason: reason}
}
