// Package storage defines the persistence boundary of the battle engine.
// Implementations provide per-record atomic writes; the service composes
// them without cross-record locks.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/HensleyFerrari/rpg-app/internal/battle/domain"
)

var (
	// ErrNotFound indicates a requested record is missing.
	ErrNotFound = errors.New("record not found")
	// ErrConflict indicates a write violates a uniqueness constraint.
	ErrConflict = errors.New("record conflict")
)

// BattleStore persists battle state and roster membership.
type BattleStore interface {
	PutBattle(ctx context.Context, battle domain.Battle) error
	GetBattle(ctx context.Context, battleID string) (domain.Battle, error)
	ListBattlesByCampaign(ctx context.Context, campaignID string) ([]domain.Battle, error)
	// SetBattleRound updates only the round counter; last write wins.
	SetBattleRound(ctx context.Context, battleID string, round int, at time.Time) error
	SetBattleActive(ctx context.Context, battleID string, active bool, at time.Time) error
	// AddBattleParticipant fails with ErrConflict when the character is
	// already in the roster.
	AddBattleParticipant(ctx context.Context, battleID, characterID string, at time.Time) error
	// RemoveBattleParticipant succeeds even when the character is absent.
	RemoveBattleParticipant(ctx context.Context, battleID, characterID string, at time.Time) error
	// DeleteBattle removes the battle, its roster, and its actions in one
	// transaction.
	DeleteBattle(ctx context.Context, battleID string) error
}

// ActionStore persists the append-only action ledger.
type ActionStore interface {
	PutAction(ctx context.Context, action domain.Action) error
	GetAction(ctx context.Context, actionID string) (domain.Action, error)
	UpdateAction(ctx context.Context, action domain.Action) error
	DeleteAction(ctx context.Context, actionID string) error
	// ListActionsByBattle returns the ledger in recording order.
	ListActionsByBattle(ctx context.Context, battleID string) ([]domain.Action, error)
	ListActionsByCampaign(ctx context.Context, campaignID string) ([]domain.Action, error)
}

// CharacterStore reads character context. The battle engine never mutates
// characters; PutCharacter exists so deployments and tests can seed context.
type CharacterStore interface {
	PutCharacter(ctx context.Context, character domain.Character) error
	GetCharacter(ctx context.Context, characterID string) (domain.Character, error)
	GetCharactersByIDs(ctx context.Context, characterIDs []string) ([]domain.Character, error)
}

// CampaignStore reads campaign ownership for authorization.
type CampaignStore interface {
	PutCampaign(ctx context.Context, campaign domain.Campaign) error
	GetCampaign(ctx context.Context, campaignID string) (domain.Campaign, error)
}
