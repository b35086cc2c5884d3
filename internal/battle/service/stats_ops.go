package service

import (
	"context"
	"strings"

	"github.com/HensleyFerrari/rpg-app/internal/battle/domain"
	"github.com/HensleyFerrari/rpg-app/internal/battle/stats"
)

// ComputeBattleStats aggregates a battle's full ledger into the derived
// statistics report. The read side resolves character names and sides first,
// so the aggregator itself stays pure.
func (s *Service) ComputeBattleStats(ctx context.Context, battleID string) (stats.Report, error) {
	ctx, span := s.tracer.Start(ctx, "battle.ComputeBattleStats")
	defer span.End()

	if strings.TrimSpace(battleID) == "" {
		return stats.Report{}, domain.NewValidation("battle id is required")
	}
	actions, err := s.stores.Actions.ListActionsByBattle(ctx, battleID)
	if err != nil {
		return stats.Report{}, s.mapStoreError(err, "battle not found")
	}
	views, err := s.resolveActionViews(ctx, actions)
	if err != nil {
		return stats.Report{}, err
	}
	return stats.Compute(views), nil
}

// resolveActionViews flattens ledger entries into aggregation rows, joining
// in character display names and sides. Entries whose character no longer
// resolves keep an empty name and fall under the aggregator's sentinel.
func (s *Service) resolveActionViews(ctx context.Context, actions []domain.Action) ([]stats.ActionView, error) {
	ids := make([]string, 0, len(actions))
	seen := make(map[string]struct{}, len(actions))
	for _, action := range actions {
		if action.CharacterID == "" {
			continue
		}
		if _, dup := seen[action.CharacterID]; dup {
			continue
		}
		seen[action.CharacterID] = struct{}{}
		ids = append(ids, action.CharacterID)
	}

	characters, err := s.stores.Characters.GetCharactersByIDs(ctx, ids)
	if err != nil {
		return nil, s.mapStoreError(err, "character not found")
	}
	byID := make(map[string]domain.Character, len(characters))
	for _, character := range characters {
		byID[character.ID] = character
	}

	views := make([]stats.ActionView, 0, len(actions))
	for _, action := range actions {
		view := stats.ActionView{
			Kind:      action.Kind,
			Magnitude: action.Magnitude,
			Round:     action.Round,
		}
		if character, ok := byID[action.CharacterID]; ok {
			view.CharacterName = character.Name
			view.Side = character.Side
		}
		views = append(views, view)
	}
	return views, nil
}
