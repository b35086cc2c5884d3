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

// Character and campaign rows are read-only context for the battle engine.
// The put methods upsert so the owning subsystems can sync state in.

// PutCharacter upserts one character context row.
func (s *Store) PutCharacter(ctx context.Context, character domain.Character) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	characterID := strings.TrimSpace(character.ID)
	if characterID == "" {
		return fmt.Errorf("character id is required")
	}
	side := character.Side
	if side == "" {
		side = domain.SideAlly
	}
	if _, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO characters (id, owner_id, campaign_id, name, side, alive)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
    owner_id = excluded.owner_id,
    campaign_id = excluded.campaign_id,
    name = excluded.name,
    side = excluded.side,
    alive = excluded.alive`,
		characterID,
		character.OwnerID,
		character.CampaignID,
		character.Name,
		string(side),
		boolToInt(character.Alive),
	); err != nil {
		return fmt.Errorf("upsert character: %w", err)
	}
	return nil
}

// GetCharacter loads one character context row.
func (s *Store) GetCharacter(ctx context.Context, characterID string) (domain.Character, error) {
	if err := s.ready(ctx); err != nil {
		return domain.Character{}, err
	}
	characterID = strings.TrimSpace(characterID)
	if characterID == "" {
		return domain.Character{}, fmt.Errorf("character id is required")
	}

	var character domain.Character
	var side string
	var alive int
	err := s.sqlDB.QueryRowContext(ctx, `
SELECT id, owner_id, campaign_id, name, side, alive FROM characters WHERE id = ?`, characterID).Scan(
		&character.ID, &character.OwnerID, &character.CampaignID,
		&character.Name, &side, &alive,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Character{}, storage.ErrNotFound
		}
		return domain.Character{}, fmt.Errorf("select character: %w", err)
	}
	character.Side = domain.CharacterSide(side)
	character.Alive = alive != 0
	return character, nil
}

// GetCharactersByIDs loads character context rows preserving the requested
// order. Missing characters are skipped, not errors: a roster may reference
// characters deleted by their subsystem.
func (s *Store) GetCharactersByIDs(ctx context.Context, characterIDs []string) ([]domain.Character, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	characters := make([]domain.Character, 0, len(characterIDs))
	for _, characterID := range characterIDs {
		character, err := s.GetCharacter(ctx, characterID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				continue
			}
			return nil, err
		}
		characters = append(characters, character)
	}
	return characters, nil
}

// PutCampaign upserts one campaign context row.
func (s *Store) PutCampaign(ctx context.Context, campaign domain.Campaign) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	campaignID := strings.TrimSpace(campaign.ID)
	if campaignID == "" {
		return fmt.Errorf("campaign id is required")
	}
	if _, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO campaigns (id, owner_id, name) VALUES (?, ?, ?)
ON CONFLICT (id) DO UPDATE SET owner_id = excluded.owner_id, name = excluded.name`,
		campaignID, campaign.OwnerID, campaign.Name,
	); err != nil {
		return fmt.Errorf("upsert campaign: %w", err)
	}
	return nil
}

// GetCampaign loads one campaign context row.
func (s *Store) GetCampaign(ctx context.Context, campaignID string) (domain.Campaign, error) {
	if err := s.ready(ctx); err != nil {
		return domain.Campaign{}, err
	}
	campaignID = strings.TrimSpace(campaignID)
	if campaignID == "" {
		return domain.Campaign{}, fmt.Errorf("campaign id is required")
	}

	var campaign domain.Campaign
	err := s.sqlDB.QueryRowContext(ctx, `
SELECT id, owner_id, name FROM campaigns WHERE id = ?`, campaignID).Scan(
		&campaign.ID, &campaign.OwnerID, &campaign.Name,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Campaign{}, storage.ErrNotFound
		}
		return domain.Campaign{}, fmt.Errorf("select campaign: %w", err)
	}
	return campaign, nil
}
