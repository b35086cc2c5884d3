// Package sqlite provides SQLite-backed persistence for the battle engine.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/HensleyFerrari/rpg-app/internal/battle/domain"
	"github.com/HensleyFerrari/rpg-app/internal/battle/storage"
	"github.com/HensleyFerrari/rpg-app/internal/battle/storage/sqlite/migrations"
	"github.com/HensleyFerrari/rpg-app/internal/platform/storage/sqlitemigrate"
	_ "modernc.org/sqlite"
)

// Store implements every battle engine store interface over one SQLite file.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a battle store at the provided path and applies migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL&_pragma=foreign_keys(ON)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &Store{sqlDB: sqlDB}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "unique constraint")
}

// PutBattle inserts a battle together with its initial roster.
func (s *Store) PutBattle(ctx context.Context, battle domain.Battle) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	battleID := strings.TrimSpace(battle.ID)
	if battleID == "" {
		return fmt.Errorf("battle id is required")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin battle write: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
INSERT INTO battles (id, name, owner_id, campaign_id, round, active, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		battleID,
		battle.Name,
		battle.OwnerID,
		battle.CampaignID,
		battle.Round,
		boolToInt(battle.Active),
		toMillis(battle.CreatedAt),
		toMillis(battle.UpdatedAt),
	); err != nil {
		_ = tx.Rollback()
		if isUniqueViolation(err) {
			return storage.ErrConflict
		}
		return fmt.Errorf("insert battle: %w", err)
	}
	for position, characterID := range battle.ParticipantIDs {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO battle_participants (battle_id, character_id, position) VALUES (?, ?, ?)`,
			battleID, characterID, position+1,
		); err != nil {
			_ = tx.Rollback()
			if isUniqueViolation(err) {
				return storage.ErrConflict
			}
			return fmt.Errorf("insert battle participant: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit battle write: %w", err)
	}
	return nil
}

// GetBattle loads one battle with its roster in insertion order.
func (s *Store) GetBattle(ctx context.Context, battleID string) (domain.Battle, error) {
	if err := s.ready(ctx); err != nil {
		return domain.Battle{}, err
	}
	battleID = strings.TrimSpace(battleID)
	if battleID == "" {
		return domain.Battle{}, fmt.Errorf("battle id is required")
	}

	var battle domain.Battle
	var active int
	var createdAt, updatedAt int64
	err := s.sqlDB.QueryRowContext(ctx, `
SELECT id, name, owner_id, campaign_id, round, active, created_at, updated_at
FROM battles WHERE id = ?`, battleID).Scan(
		&battle.ID, &battle.Name, &battle.OwnerID, &battle.CampaignID,
		&battle.Round, &active, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Battle{}, storage.ErrNotFound
		}
		return domain.Battle{}, fmt.Errorf("select battle: %w", err)
	}
	battle.Active = active != 0
	battle.CreatedAt = fromMillis(createdAt)
	battle.UpdatedAt = fromMillis(updatedAt)

	participants, err := s.listParticipants(ctx, battleID)
	if err != nil {
		return domain.Battle{}, err
	}
	battle.ParticipantIDs = participants
	return battle, nil
}

func (s *Store) listParticipants(ctx context.Context, battleID string) ([]string, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT character_id FROM battle_participants WHERE battle_id = ? ORDER BY position`, battleID)
	if err != nil {
		return nil, fmt.Errorf("select battle participants: %w", err)
	}
	defer rows.Close()

	var participants []string
	for rows.Next() {
		var characterID string
		if err := rows.Scan(&characterID); err != nil {
			return nil, fmt.Errorf("scan battle participant: %w", err)
		}
		participants = append(participants, characterID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate battle participants: %w", err)
	}
	return participants, nil
}

// ListBattlesByCampaign returns a campaign's battles, newest first.
func (s *Store) ListBattlesByCampaign(ctx context.Context, campaignID string) ([]domain.Battle, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	campaignID = strings.TrimSpace(campaignID)
	if campaignID == "" {
		return nil, fmt.Errorf("campaign id is required")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, name, owner_id, campaign_id, round, active, created_at, updated_at
FROM battles WHERE campaign_id = ? ORDER BY created_at DESC, id DESC`, campaignID)
	if err != nil {
		return nil, fmt.Errorf("select campaign battles: %w", err)
	}
	defer rows.Close()

	var battles []domain.Battle
	for rows.Next() {
		var battle domain.Battle
		var active int
		var createdAt, updatedAt int64
		if err := rows.Scan(
			&battle.ID, &battle.Name, &battle.OwnerID, &battle.CampaignID,
			&battle.Round, &active, &createdAt, &updatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan campaign battle: %w", err)
		}
		battle.Active = active != 0
		battle.CreatedAt = fromMillis(createdAt)
		battle.UpdatedAt = fromMillis(updatedAt)
		battles = append(battles, battle)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate campaign battles: %w", err)
	}

	for i := range battles {
		participants, err := s.listParticipants(ctx, battles[i].ID)
		if err != nil {
			return nil, err
		}
		battles[i].ParticipantIDs = participants
	}
	return battles, nil
}

// SetBattleRound writes the round counter; the last writer wins.
func (s *Store) SetBattleRound(ctx context.Context, battleID string, round int, at time.Time) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	result, err := s.sqlDB.ExecContext(ctx, `
UPDATE battles SET round = ?, updated_at = ? WHERE id = ?`,
		round, toMillis(at), strings.TrimSpace(battleID))
	if err != nil {
		return fmt.Errorf("update battle round: %w", err)
	}
	return requireRow(result, "update battle round")
}

// SetBattleActive toggles the battle's open flag.
func (s *Store) SetBattleActive(ctx context.Context, battleID string, active bool, at time.Time) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	result, err := s.sqlDB.ExecContext(ctx, `
UPDATE battles SET active = ?, updated_at = ? WHERE id = ?`,
		boolToInt(active), toMillis(at), strings.TrimSpace(battleID))
	if err != nil {
		return fmt.Errorf("update battle active flag: %w", err)
	}
	return requireRow(result, "update battle active flag")
}

// AddBattleParticipant appends a character to a battle roster.
func (s *Store) AddBattleParticipant(ctx context.Context, battleID, characterID string, at time.Time) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	battleID = strings.TrimSpace(battleID)
	characterID = strings.TrimSpace(characterID)
	if battleID == "" || characterID == "" {
		return fmt.Errorf("battle id and character id are required")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin roster write: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
INSERT INTO battle_participants (battle_id, character_id, position)
VALUES (?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM battle_participants WHERE battle_id = ?))`,
		battleID, characterID, battleID,
	); err != nil {
		_ = tx.Rollback()
		if isUniqueViolation(err) {
			return storage.ErrConflict
		}
		return fmt.Errorf("insert battle participant: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
UPDATE battles SET updated_at = ? WHERE id = ?`, toMillis(at), battleID); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("touch battle: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit roster write: %w", err)
	}
	return nil
}

// RemoveBattleParticipant removes a character from a roster. Removing an
// absent character succeeds.
func (s *Store) RemoveBattleParticipant(ctx context.Context, battleID, characterID string, at time.Time) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	battleID = strings.TrimSpace(battleID)
	if _, err := s.sqlDB.ExecContext(ctx, `
DELETE FROM battle_participants WHERE battle_id = ? AND character_id = ?`,
		battleID, strings.TrimSpace(characterID)); err != nil {
		return fmt.Errorf("delete battle participant: %w", err)
	}
	if _, err := s.sqlDB.ExecContext(ctx, `
UPDATE battles SET updated_at = ? WHERE id = ?`, toMillis(at), battleID); err != nil {
		return fmt.Errorf("touch battle: %w", err)
	}
	return nil
}

// DeleteBattle removes a battle, its roster, and its whole ledger in one
// transaction.
func (s *Store) DeleteBattle(ctx context.Context, battleID string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	battleID = strings.TrimSpace(battleID)
	if battleID == "" {
		return fmt.Errorf("battle id is required")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin battle delete: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM actions WHERE battle_id = ?`, battleID); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("delete battle actions: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM battle_participants WHERE battle_id = ?`, battleID); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("delete battle roster: %w", err)
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM battles WHERE id = ?`, battleID)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("delete battle: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("delete battle rows affected: %w", err)
	}
	if affected == 0 {
		_ = tx.Rollback()
		return storage.ErrNotFound
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit battle delete: %w", err)
	}
	return nil
}

func requireRow(result sql.Result, operation string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", operation, err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
