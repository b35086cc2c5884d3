package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/HensleyFerrari/rpg-app/internal/battle/authz"
	"github.com/HensleyFerrari/rpg-app/internal/battle/domain"
	"github.com/HensleyFerrari/rpg-app/internal/battle/storage"
)

// RecordActionInput appends one ledger entry to a battle.
type RecordActionInput struct {
	BattleID string
	Action   domain.ActionInput
	CallerID string
}

// RecordAction is the core write path: roster membership, authorization, and
// persistence are evaluated sequentially for the one entry, so an entry that
// fails any check is never persisted. The battle's current round is captured
// server-side at write time; a concurrent round advance may land before or
// after, which mirrors a live table and is accepted.
func (s *Service) RecordAction(ctx context.Context, input RecordActionInput) (domain.Action, error) {
	ctx, span := s.tracer.Start(ctx, "battle.RecordAction")
	defer span.End()

	callerID := strings.TrimSpace(input.CallerID)
	if callerID == "" {
		return domain.Action{}, domain.NewValidation("caller is required")
	}
	payload, err := input.Action.Validate()
	if err != nil {
		return domain.Action{}, err
	}

	battle, err := s.loadBattle(ctx, input.BattleID)
	if err != nil {
		return domain.Action{}, err
	}
	if !battle.Active {
		return domain.Action{}, domain.NewConflict("battle already finished")
	}
	if payload.CharacterID != "" && !battle.HasParticipant(payload.CharacterID) {
		return domain.Action{}, domain.NewValidation("character not in battle")
	}

	if err := s.authorizeRecord(ctx, battle, payload.CharacterID, callerID); err != nil {
		return domain.Action{}, err
	}

	actionID, err := s.newID()
	if err != nil {
		return domain.Action{}, fmt.Errorf("generate action id: %w", err)
	}
	action := domain.Action{
		ID:          actionID,
		BattleID:    battle.ID,
		CampaignID:  battle.CampaignID,
		OwnerID:     callerID,
		Kind:        payload.Kind,
		Magnitude:   payload.Magnitude,
		Critical:    payload.Critical,
		CharacterID: payload.CharacterID,
		TargetID:    payload.TargetID,
		Description: payload.Description,
		Round:       battle.Round,
		CreatedAt:   s.nowUTC(),
	}
	if err := s.stores.Actions.PutAction(ctx, action); err != nil {
		return domain.Action{}, s.mapStoreError(err, "battle not found")
	}

	s.publishBattle(ctx, battle.ID)
	return action, nil
}

// authorizeRecord resolves the source character and its campaign owner, then
// applies the recording predicate. The game master shortcut avoids the loads.
func (s *Service) authorizeRecord(ctx context.Context, battle domain.Battle, characterID, callerID string) error {
	if authz.IsBattleMaster(battle, callerID) {
		return nil
	}

	var source *domain.Character
	var campaignOwnerID string
	if characterID != "" {
		character, err := s.stores.Characters.GetCharacter(ctx, characterID)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return s.mapStoreError(err, "character not found")
		}
		if err == nil {
			source = &character
			campaign, err := s.stores.Campaigns.GetCampaign(ctx, character.CampaignID)
			if err != nil && !errors.Is(err, storage.ErrNotFound) {
				return s.mapStoreError(err, "campaign not found")
			}
			if err == nil {
				campaignOwnerID = campaign.OwnerID
			}
		}
	}

	if !authz.CanRecordAction(battle, source, campaignOwnerID, callerID) {
		return domain.NewForbidden("you are not authorized to record actions")
	}
	return nil
}

// EditActionInput applies a partial edit to a ledger entry.
type EditActionInput struct {
	ActionID string
	Changes  domain.ActionChanges
	CallerID string
}

// EditAction mutates an existing entry. Allowed for the entry's recording
// principal and the battle's game master; a changed source character must be
// in the roster. Closed battles stay editable so records can be corrected
// post-session.
func (s *Service) EditAction(ctx context.Context, input EditActionInput) (domain.Action, error) {
	ctx, span := s.tracer.Start(ctx, "battle.EditAction")
	defer span.End()

	if input.Changes.Empty() {
		return domain.Action{}, domain.NewValidation("edit contains no changes")
	}
	action, err := s.loadAction(ctx, input.ActionID)
	if err != nil {
		return domain.Action{}, err
	}
	battle, err := s.loadBattle(ctx, action.BattleID)
	if err != nil {
		return domain.Action{}, err
	}
	if !authz.CanModifyAction(action, battle, input.CallerID) {
		return domain.Action{}, domain.NewForbidden("you are not authorized to modify this action")
	}

	updated, err := input.Changes.Apply(action)
	if err != nil {
		return domain.Action{}, err
	}
	if updated.CharacterID != action.CharacterID && updated.CharacterID != "" && !battle.HasParticipant(updated.CharacterID) {
		return domain.Action{}, domain.NewValidation("character not in battle")
	}
	if err := s.stores.Actions.UpdateAction(ctx, updated); err != nil {
		return domain.Action{}, s.mapStoreError(err, "action not found")
	}

	s.publishBattle(ctx, battle.ID)
	return updated, nil
}

// DeleteActionInput removes one ledger entry.
type DeleteActionInput struct {
	ActionID string
	BattleID string
	CallerID string
}

// DeleteAction removes an entry. Same authority as EditAction.
func (s *Service) DeleteAction(ctx context.Context, input DeleteActionInput) error {
	ctx, span := s.tracer.Start(ctx, "battle.DeleteAction")
	defer span.End()

	action, err := s.loadAction(ctx, input.ActionID)
	if err != nil {
		return err
	}
	if battleID := strings.TrimSpace(input.BattleID); battleID != "" && battleID != action.BattleID {
		return domain.NewValidation("action does not belong to this battle")
	}
	battle, err := s.loadBattle(ctx, action.BattleID)
	if err != nil {
		return err
	}
	if !authz.CanModifyAction(action, battle, input.CallerID) {
		return domain.NewForbidden("you are not authorized to modify this action")
	}
	if err := s.stores.Actions.DeleteAction(ctx, action.ID); err != nil {
		return s.mapStoreError(err, "action not found")
	}

	s.publishBattle(ctx, battle.ID)
	return nil
}

// ListActionsByBattle returns a battle's ledger in recording order.
func (s *Service) ListActionsByBattle(ctx context.Context, battleID string) ([]domain.Action, error) {
	ctx, span := s.tracer.Start(ctx, "battle.ListActionsByBattle")
	defer span.End()

	if strings.TrimSpace(battleID) == "" {
		return nil, domain.NewValidation("battle id is required")
	}
	actions, err := s.stores.Actions.ListActionsByBattle(ctx, battleID)
	if err != nil {
		return nil, s.mapStoreError(err, "battle not found")
	}
	return actions, nil
}

// ListActionsByCampaign returns every ledger entry recorded across a
// campaign's battles, in recording order.
func (s *Service) ListActionsByCampaign(ctx context.Context, campaignID string) ([]domain.Action, error) {
	ctx, span := s.tracer.Start(ctx, "battle.ListActionsByCampaign")
	defer span.End()

	if strings.TrimSpace(campaignID) == "" {
		return nil, domain.NewValidation("campaign is required")
	}
	actions, err := s.stores.Actions.ListActionsByCampaign(ctx, campaignID)
	if err != nil {
		return nil, s.mapStoreError(err, "campaign not found")
	}
	return actions, nil
}

func (s *Service) loadAction(ctx context.Context, actionID string) (domain.Action, error) {
	if strings.TrimSpace(actionID) == "" {
		return domain.Action{}, domain.NewValidation("action id is required")
	}
	action, err := s.stores.Actions.GetAction(ctx, actionID)
	if err != nil {
		return domain.Action{}, s.mapStoreError(err, "action not found")
	}
	return action, nil
}
