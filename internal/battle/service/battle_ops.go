package service

import (
	"context"
	"errors"
	"strings"

	"github.com/HensleyFerrari/rpg-app/internal/battle/authz"
	"github.com/HensleyFerrari/rpg-app/internal/battle/domain"
	"github.com/HensleyFerrari/rpg-app/internal/battle/storage"
)

// AdvanceRoundInput moves a battle's round counter one step.
type AdvanceRoundInput struct {
	BattleID  string
	Direction domain.RoundDirection
	CallerID  string
}

// AdvanceRound moves the round counter. Forward is monotonic; backward is
// clamped at 1. Round control works on closed battles too, so game masters
// can correct records post-session, and is always owner-only.
func (s *Service) AdvanceRound(ctx context.Context, input AdvanceRoundInput) (domain.Battle, error) {
	ctx, span := s.tracer.Start(ctx, "battle.AdvanceRound")
	defer span.End()

	direction, err := domain.ParseRoundDirection(string(input.Direction))
	if err != nil {
		return domain.Battle{}, err
	}
	battle, err := s.loadBattle(ctx, input.BattleID)
	if err != nil {
		return domain.Battle{}, err
	}
	if !authz.IsBattleMaster(battle, input.CallerID) {
		return domain.Battle{}, domain.NewForbidden("only the game master may control the round")
	}

	next := domain.NextRound(battle.Round, direction)
	now := s.nowUTC()
	if err := s.stores.Battles.SetBattleRound(ctx, battle.ID, next, now); err != nil {
		return domain.Battle{}, s.mapStoreError(err, "battle not found")
	}
	battle.Round = next
	battle.UpdatedAt = now

	s.publishBattle(ctx, battle.ID)
	return battle, nil
}

// ParticipantInput identifies one roster mutation.
type ParticipantInput struct {
	BattleID    string
	CharacterID string
	CallerID    string
}

// AddParticipant appends a character to the battle roster. Re-adding a
// present character is a conflict, not a silent no-op.
func (s *Service) AddParticipant(ctx context.Context, input ParticipantInput) (domain.Battle, error) {
	ctx, span := s.tracer.Start(ctx, "battle.AddParticipant")
	defer span.End()

	characterID := strings.TrimSpace(input.CharacterID)
	if characterID == "" {
		return domain.Battle{}, domain.NewValidation("character is required")
	}
	battle, err := s.loadBattle(ctx, input.BattleID)
	if err != nil {
		return domain.Battle{}, err
	}
	if !authz.IsBattleMaster(battle, input.CallerID) {
		return domain.Battle{}, domain.NewForbidden("only the game master may manage participants")
	}
	if battle.HasParticipant(characterID) {
		return domain.Battle{}, domain.NewConflict("this character is already in the battle")
	}
	if _, err := s.stores.Characters.GetCharacter(ctx, characterID); err != nil {
		return domain.Battle{}, s.mapStoreError(err, "character not found")
	}

	now := s.nowUTC()
	if err := s.stores.Battles.AddBattleParticipant(ctx, battle.ID, characterID, now); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return domain.Battle{}, domain.NewConflict("this character is already in the battle")
		}
		return domain.Battle{}, s.mapStoreError(err, "battle not found")
	}
	battle.ParticipantIDs = append(battle.ParticipantIDs, characterID)
	battle.UpdatedAt = now

	s.publishBattle(ctx, battle.ID)
	return battle, nil
}

// RemoveParticipant removes a character from the roster. Removing an absent
// character succeeds; deletions are permissive.
func (s *Service) RemoveParticipant(ctx context.Context, input ParticipantInput) (domain.Battle, error) {
	ctx, span := s.tracer.Start(ctx, "battle.RemoveParticipant")
	defer span.End()

	characterID := strings.TrimSpace(input.CharacterID)
	if characterID == "" {
		return domain.Battle{}, domain.NewValidation("character is required")
	}
	battle, err := s.loadBattle(ctx, input.BattleID)
	if err != nil {
		return domain.Battle{}, err
	}
	if !authz.IsBattleMaster(battle, input.CallerID) {
		return domain.Battle{}, domain.NewForbidden("only the game master may manage participants")
	}

	now := s.nowUTC()
	if err := s.stores.Battles.RemoveBattleParticipant(ctx, battle.ID, characterID, now); err != nil {
		return domain.Battle{}, s.mapStoreError(err, "battle not found")
	}
	remaining := battle.ParticipantIDs[:0]
	for _, participant := range battle.ParticipantIDs {
		if participant != characterID {
			remaining = append(remaining, participant)
		}
	}
	battle.ParticipantIDs = remaining
	battle.UpdatedAt = now

	s.publishBattle(ctx, battle.ID)
	return battle, nil
}

// CloseBattle marks the battle finished. Closed battles accept no new
// actions; closing is reversible.
func (s *Service) CloseBattle(ctx context.Context, battleID, callerID string) (domain.Battle, error) {
	ctx, span := s.tracer.Start(ctx, "battle.CloseBattle")
	defer span.End()
	return s.setActive(ctx, battleID, callerID, false)
}

// ReopenBattle reactivates a closed battle.
func (s *Service) ReopenBattle(ctx context.Context, battleID, callerID string) (domain.Battle, error) {
	ctx, span := s.tracer.Start(ctx, "battle.ReopenBattle")
	defer span.End()
	return s.setActive(ctx, battleID, callerID, true)
}

func (s *Service) setActive(ctx context.Context, battleID, callerID string, active bool) (domain.Battle, error) {
	battle, err := s.loadBattle(ctx, battleID)
	if err != nil {
		return domain.Battle{}, err
	}
	if !authz.IsBattleMaster(battle, callerID) {
		return domain.Battle{}, domain.NewForbidden("only the game master may open or close the battle")
	}

	now := s.nowUTC()
	if err := s.stores.Battles.SetBattleActive(ctx, battle.ID, active, now); err != nil {
		return domain.Battle{}, s.mapStoreError(err, "battle not found")
	}
	battle.Active = active
	battle.UpdatedAt = now

	s.publishBattle(ctx, battle.ID)
	return battle, nil
}

// DeleteBattle removes a battle and its whole ledger. Watchers receive one
// final snapshot marked deleted.
func (s *Service) DeleteBattle(ctx context.Context, battleID, callerID string) error {
	ctx, span := s.tracer.Start(ctx, "battle.DeleteBattle")
	defer span.End()

	snapshot, err := s.GetBattle(ctx, battleID)
	if err != nil {
		return err
	}
	if !authz.IsBattleMaster(snapshot.Battle, callerID) {
		return domain.NewForbidden("only the game master may delete the battle")
	}
	if err := s.stores.Battles.DeleteBattle(ctx, snapshot.Battle.ID); err != nil {
		return s.mapStoreError(err, "battle not found")
	}

	snapshot.Deleted = true
	s.publishSnapshot(ctx, snapshot)
	return nil
}
