// Package notify carries battle snapshots from the service to watchers.
//
// The service depends only on the Publisher port; delivery is best effort.
// A failed publish is logged by the caller and never rolls back the mutation
// it follows.
package notify

import (
	"context"

	"github.com/HensleyFerrari/rpg-app/internal/battle/domain"
)

// Publisher is the outbound fan-out port. Implementations must not block
// indefinitely: the caller bounds the attempt with its context.
type Publisher interface {
	Publish(ctx context.Context, topic string, snapshot domain.BattleSnapshot) error
}

// BattleTopic names the per-battle channel deterministically.
func BattleTopic(battleID string) string {
	return "battle." + battleID
}
