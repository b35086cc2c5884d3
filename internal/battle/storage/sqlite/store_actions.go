package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/HensleyFerrari/rpg-app/internal/battle/domain"
	"github.com/HensleyFerrari/rpg-app/internal/battle/storage"
)

const actionColumns = `id, battle_id, campaign_id, owner_id, kind, magnitude, critical, character_id, target_id, description, round, created_at`

// PutAction appends one ledger entry.
func (s *Store) PutAction(ctx context.Context, action domain.Action) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	actionID := strings.TrimSpace(action.ID)
	if actionID == "" {
		return fmt.Errorf("action id is required")
	}
	if _, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO actions (`+actionColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		actionID,
		action.BattleID,
		action.CampaignID,
		action.OwnerID,
		string(action.Kind),
		action.Magnitude,
		boolToInt(action.Critical),
		action.CharacterID,
		action.TargetID,
		action.Description,
		action.Round,
		toMillis(action.CreatedAt),
	); err != nil {
		if isUniqueViolation(err) {
			return storage.ErrConflict
		}
		return fmt.Errorf("insert action: %w", err)
	}
	return nil
}

// GetAction loads one ledger entry.
func (s *Store) GetAction(ctx context.Context, actionID string) (domain.Action, error) {
	if err := s.ready(ctx); err != nil {
		return domain.Action{}, err
	}
	actionID = strings.TrimSpace(actionID)
	if actionID == "" {
		return domain.Action{}, fmt.Errorf("action id is required")
	}
	row := s.sqlDB.QueryRowContext(ctx, `SELECT `+actionColumns+` FROM actions WHERE id = ?`, actionID)
	action, err := scanAction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Action{}, storage.ErrNotFound
		}
		return domain.Action{}, fmt.Errorf("select action: %w", err)
	}
	return action, nil
}

// UpdateAction overwrites the mutable fields of one ledger entry.
func (s *Store) UpdateAction(ctx context.Context, action domain.Action) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	result, err := s.sqlDB.ExecContext(ctx, `
UPDATE actions
SET magnitude = ?, critical = ?, character_id = ?, target_id = ?, description = ?
WHERE id = ?`,
		action.Magnitude,
		boolToInt(action.Critical),
		action.CharacterID,
		action.TargetID,
		action.Description,
		strings.TrimSpace(action.ID),
	)
	if err != nil {
		return fmt.Errorf("update action: %w", err)
	}
	return requireRow(result, "update action")
}

// DeleteAction removes one ledger entry.
func (s *Store) DeleteAction(ctx context.Context, actionID string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM actions WHERE id = ?`, strings.TrimSpace(actionID))
	if err != nil {
		return fmt.Errorf("delete action: %w", err)
	}
	return requireRow(result, "delete action")
}

// ListActionsByBattle returns a battle's ledger in recording order.
func (s *Store) ListActionsByBattle(ctx context.Context, battleID string) ([]domain.Action, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	battleID = strings.TrimSpace(battleID)
	if battleID == "" {
		return nil, fmt.Errorf("battle id is required")
	}
	return s.listActions(ctx, `battle_id = ?`, battleID)
}

// ListActionsByCampaign returns every ledger entry across a campaign's
// battles in recording order.
func (s *Store) ListActionsByCampaign(ctx context.Context, campaignID string) ([]domain.Action, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	campaignID = strings.TrimSpace(campaignID)
	if campaignID == "" {
		return nil, fmt.Errorf("campaign id is required")
	}
	return s.listActions(ctx, `campaign_id = ?`, campaignID)
}

func (s *Store) listActions(ctx context.Context, where string, arg any) ([]domain.Action, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT `+actionColumns+` FROM actions WHERE `+where+` ORDER BY created_at, id`, arg)
	if err != nil {
		return nil, fmt.Errorf("select actions: %w", err)
	}
	defer rows.Close()

	var actions []domain.Action
	for rows.Next() {
		action, err := scanAction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan action: %w", err)
		}
		actions = append(actions, action)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate actions: %w", err)
	}
	return actions, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAction(row rowScanner) (domain.Action, error) {
	var action domain.Action
	var kind string
	var critical int
	var createdAt int64
	if err := row.Scan(
		&action.ID, &action.BattleID, &action.CampaignID, &action.OwnerID,
		&kind, &action.Magnitude, &critical,
		&action.CharacterID, &action.TargetID, &action.Description,
		&action.Round, &createdAt,
	); err != nil {
		return domain.Action{}, err
	}
	action.Kind = domain.ActionKind(kind)
	action.Critical = critical != 0
	action.CreatedAt = fromMillis(createdAt)
	return action, nil
}
