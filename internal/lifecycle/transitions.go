package lifecycle

import "github.com/arcadehq/freegames-backend/pkg/enums"

// allowedTransitions enumerates every legal status move. Anything absent is
// rejected: expired is terminal and nothing transitions back into active.
var allowedTransitions = map[enums.GameStatus][]enums.GameStatus{
	enums.GameStatusActive:  {enums.GameStatusClaimed, enums.GameStatusExpired, enums.GameStatusOwned},
	enums.GameStatusClaimed: {enums.GameStatusOwned},
}

// CanTransition reports whether moving a game from one status to another is
// part of the lifecycle.
func CanTransition(from, to enums.GameStatus) bool {
	for _, candidate := range allowedTransitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}
