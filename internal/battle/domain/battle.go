// Package domain defines the battle engagement types and their invariants:
// the battle state machine, the append-only action ledger entries, and the
// read-only character context the engine consumes.
package domain

import (
	"strings"
	"time"
)

// Battle is one live combat encounter: a round counter, a participant
// roster, and an active flag that gates new ledger writes.
type Battle struct {
	ID             string
	Name           string
	OwnerID        string
	CampaignID     string
	ParticipantIDs []string
	Round          int
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// HasParticipant reports whether characterID is in the roster.
func (b Battle) HasParticipant(characterID string) bool {
	characterID = strings.TrimSpace(characterID)
	if characterID == "" {
		return false
	}
	for _, participant := range b.ParticipantIDs {
		if participant == characterID {
			return true
		}
	}
	return false
}

// RoundDirection selects which way AdvanceRound moves the counter.
type RoundDirection string

const (
	// RoundForward increments the round counter.
	RoundForward RoundDirection = "forward"
	// RoundBackward decrements the round counter, clamped at 1.
	RoundBackward RoundDirection = "backward"
)

// ParseRoundDirection validates a caller-supplied direction value.
func ParseRoundDirection(value string) (RoundDirection, error) {
	switch RoundDirection(strings.TrimSpace(strings.ToLower(value))) {
	case RoundForward:
		return RoundForward, nil
	case RoundBackward:
		return RoundBackward, nil
	default:
		return "", NewValidation("round direction must be forward or backward")
	}
}

// NextRound applies a direction to a round counter. The counter never drops
// below 1 no matter how many backward moves are applied.
func NextRound(round int, direction RoundDirection) int {
	if round < 1 {
		round = 1
	}
	switch direction {
	case RoundBackward:
		if round <= 1 {
			return 1
		}
		return round - 1
	default:
		return round + 1
	}
}

// CharacterSide classifies a combatant for team-level aggregation.
type CharacterSide string

const (
	// SideAlly is the default side for characters with no explicit side.
	SideAlly CharacterSide = "ally"
	// SideEnemy marks opposing combatants.
	SideEnemy CharacterSide = "enemy"
)

// Character is read-only context owned by the character subsystem. The battle
// engine only consults ownership, display name, and side.
type Character struct {
	ID         string
	OwnerID    string
	CampaignID string
	Name       string
	Side       CharacterSide
	Alive      bool
}

// Campaign is read-only context used for campaign-owner authorization.
type Campaign struct {
	ID      string
	OwnerID string
	Name    string
}

// BattleSnapshot is the full battle state sent to watchers after every
// committed mutation. Consumers replace local state wholesale with it; a
// snapshot is never a delta.
type BattleSnapshot struct {
	Battle       Battle      `json:"battle"`
	Participants []Character `json:"participants"`
	Deleted      bool        `json:"deleted,omitempty"`
}
