// Package service orchestrates the battle engagement engine: battle state
// transitions, ledger mutations, authorization, and notification fan-out.
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/HensleyFerrari/rpg-app/internal/battle/domain"
	"github.com/HensleyFerrari/rpg-app/internal/battle/storage"
	"github.com/HensleyFerrari/rpg-app/internal/notify"
	"github.com/HensleyFerrari/rpg-app/internal/platform/id"
	"github.com/HensleyFerrari/rpg-app/internal/platform/timeouts"
)

// Stores bundles the persistence interfaces the service depends on.
type Stores struct {
	Battles    storage.BattleStore
	Actions    storage.ActionStore
	Characters storage.CharacterStore
	Campaigns  storage.CampaignStore
}

// Service is the battle engagement service. Every operation takes the caller
// principal explicitly; the service never reads ambient session state.
type Service struct {
	stores    Stores
	publisher notify.Publisher
	logger    *log.Logger
	clock     func() time.Time
	newID     func() (string, error)
	tracer    trace.Tracer
}

// New constructs the service. Nil clock, id generator, and logger fall back
// to defaults; a nil publisher disables fan-out.
func New(stores Stores, publisher notify.Publisher, logger *log.Logger, clock func() time.Time, newID func() (string, error)) *Service {
	if clock == nil {
		clock = time.Now
	}
	if newID == nil {
		newID = id.NewID
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Service{
		stores:    stores,
		publisher: publisher,
		logger:    logger,
		clock:     clock,
		newID:     newID,
		tracer:    otel.Tracer("battle/service"),
	}
}

func (s *Service) nowUTC() time.Time {
	if s.clock == nil {
		return time.Now().UTC()
	}
	return s.clock().UTC()
}

// mapStoreError normalizes storage failures. Sentinels become caller-facing
// kinds; anything else is logged in full and surfaced with a safe message.
func (s *Service) mapStoreError(err error, notFoundMessage string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, storage.ErrNotFound):
		return domain.NewNotFound(notFoundMessage)
	case errors.Is(err, storage.ErrConflict):
		return domain.NewConflict("record conflict")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		s.logger.Printf("battle service: storage failure: %v", err)
		return domain.NewInternal("an unexpected error occurred")
	}
}

func (s *Service) loadBattle(ctx context.Context, battleID string) (domain.Battle, error) {
	battle, err := s.stores.Battles.GetBattle(ctx, battleID)
	if err != nil {
		return domain.Battle{}, s.mapStoreError(err, "battle not found")
	}
	return battle, nil
}

// loadSnapshot composes the full battle state with resolved participants.
func (s *Service) loadSnapshot(ctx context.Context, battleID string) (domain.BattleSnapshot, error) {
	battle, err := s.loadBattle(ctx, battleID)
	if err != nil {
		return domain.BattleSnapshot{}, err
	}
	participants, err := s.stores.Characters.GetCharactersByIDs(ctx, battle.ParticipantIDs)
	if err != nil {
		return domain.BattleSnapshot{}, s.mapStoreError(err, "battle not found")
	}
	return domain.BattleSnapshot{Battle: battle, Participants: participants}, nil
}

// publishBattle sends the freshly committed state to the battle's channel.
// The mutation has already committed, so failures here are logged and
// swallowed; the attempt is bounded and detached from the caller's deadline.
func (s *Service) publishBattle(ctx context.Context, battleID string) {
	if s.publisher == nil {
		return
	}
	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeouts.Publish)
	defer cancel()

	snapshot, err := s.loadSnapshot(publishCtx, battleID)
	if err != nil {
		s.logger.Printf("battle service: snapshot for publish %s: %v", battleID, err)
		return
	}
	if err := s.publisher.Publish(publishCtx, notify.BattleTopic(battleID), snapshot); err != nil {
		s.logger.Printf("battle service: publish %s: %v", battleID, err)
	}
}

func (s *Service) publishSnapshot(ctx context.Context, snapshot domain.BattleSnapshot) {
	if s.publisher == nil {
		return
	}
	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeouts.Publish)
	defer cancel()

	topic := notify.BattleTopic(snapshot.Battle.ID)
	if err := s.publisher.Publish(publishCtx, topic, snapshot); err != nil {
		s.logger.Printf("battle service: publish %s: %v", snapshot.Battle.ID, err)
	}
}

// OpenBattleInput describes a new battle.
type OpenBattleInput struct {
	Name           string
	CampaignID     string
	OwnerID        string
	ParticipantIDs []string
}

// OpenBattle creates a battle at round 1, active, with a deduplicated
// initial roster.
func (s *Service) OpenBattle(ctx context.Context, input OpenBattleInput) (domain.Battle, error) {
	ctx, span := s.tracer.Start(ctx, "battle.OpenBattle")
	defer span.End()

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return domain.Battle{}, domain.NewValidation("battle name is required")
	}
	campaignID := strings.TrimSpace(input.CampaignID)
	if campaignID == "" {
		return domain.Battle{}, domain.NewValidation("campaign is required")
	}
	ownerID := strings.TrimSpace(input.OwnerID)
	if ownerID == "" {
		return domain.Battle{}, domain.NewValidation("battle owner is required")
	}

	seen := make(map[string]struct{}, len(input.ParticipantIDs))
	var participants []string
	for _, participant := range input.ParticipantIDs {
		participant = strings.TrimSpace(participant)
		if participant == "" {
			continue
		}
		if _, dup := seen[participant]; dup {
			continue
		}
		seen[participant] = struct{}{}
		participants = append(participants, participant)
	}

	battleID, err := s.newID()
	if err != nil {
		return domain.Battle{}, fmt.Errorf("generate battle id: %w", err)
	}
	now := s.nowUTC()
	battle := domain.Battle{
		ID:             battleID,
		Name:           name,
		OwnerID:        ownerID,
		CampaignID:     campaignID,
		ParticipantIDs: participants,
		Round:          1,
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.stores.Battles.PutBattle(ctx, battle); err != nil {
		return domain.Battle{}, s.mapStoreError(err, "battle not found")
	}
	return battle, nil
}

// GetBattle returns the full battle snapshot with resolved participants.
func (s *Service) GetBattle(ctx context.Context, battleID string) (domain.BattleSnapshot, error) {
	ctx, span := s.tracer.Start(ctx, "battle.GetBattle")
	defer span.End()

	if strings.TrimSpace(battleID) == "" {
		return domain.BattleSnapshot{}, domain.NewValidation("battle id is required")
	}
	return s.loadSnapshot(ctx, battleID)
}

// ListBattlesByCampaign returns a campaign's battles, newest first.
func (s *Service) ListBattlesByCampaign(ctx context.Context, campaignID string) ([]domain.Battle, error) {
	ctx, span := s.tracer.Start(ctx, "battle.ListBattlesByCampaign")
	defer span.End()

	if strings.TrimSpace(campaignID) == "" {
		return nil, domain.NewValidation("campaign is required")
	}
	battles, err := s.stores.Battles.ListBattlesByCampaign(ctx, campaignID)
	if err != nil {
		return nil, s.mapStoreError(err, "campaign not found")
	}
	return battles, nil
}
