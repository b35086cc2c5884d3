package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/HensleyFerrari/rpg-app/internal/battle/domain"
	"github.com/HensleyFerrari/rpg-app/internal/battle/storage"
)

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func prefixedIDGenerator(prefix string) func() (string, error) {
	n := 0
	return func() (string, error) {
		n++
		return fmt.Sprintf("%s-%d", prefix, n), nil
	}
}

type fakeStore struct {
	mu          sync.Mutex
	battles     map[string]domain.Battle
	actions     map[string]domain.Action
	actionOrder map[string]int
	characters  map[string]domain.Character
	campaigns   map[string]domain.Campaign
	actionSeq   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		battles:     make(map[string]domain.Battle),
		actions:     make(map[string]domain.Action),
		actionOrder: make(map[string]int),
		characters:  make(map[string]domain.Character),
		campaigns:   make(map[string]domain.Campaign),
	}
}

func (f *fakeStore) stores() Stores {
	return Stores{Battles: f, Actions: f, Characters: f, Campaigns: f}
}

func (f *fakeStore) PutBattle(_ context.Context, battle domain.Battle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.battles[battle.ID]; exists {
		return storage.ErrConflict
	}
	f.battles[battle.ID] = battle
	return nil
}

func (f *fakeStore) GetBattle(_ context.Context, battleID string) (domain.Battle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	battle, ok := f.battles[battleID]
	if !ok {
		return domain.Battle{}, storage.ErrNotFound
	}
	battle.ParticipantIDs = append([]string(nil), battle.ParticipantIDs...)
	return battle, nil
}

func (f *fakeStore) ListBattlesByCampaign(_ context.Context, campaignID string) ([]domain.Battle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var battles []domain.Battle
	for _, battle := range f.battles {
		if battle.CampaignID == campaignID {
			battles = append(battles, battle)
		}
	}
	return battles, nil
}

func (f *fakeStore) SetBattleRound(_ context.Context, battleID string, round int, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	battle, ok := f.battles[battleID]
	if !ok {
		return storage.ErrNotFound
	}
	battle.Round = round
	battle.UpdatedAt = at
	f.battles[battleID] = battle
	return nil
}

func (f *fakeStore) SetBattleActive(_ context.Context, battleID string, active bool, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	battle, ok := f.battles[battleID]
	if !ok {
		return storage.ErrNotFound
	}
	battle.Active = active
	battle.UpdatedAt = at
	f.battles[battleID] = battle
	return nil
}

func (f *fakeStore) AddBattleParticipant(_ context.Context, battleID, characterID string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	battle, ok := f.battles[battleID]
	if !ok {
		return storage.ErrNotFound
	}
	for _, participant := range battle.ParticipantIDs {
		if participant == characterID {
			return storage.ErrConflict
		}
	}
	battle.ParticipantIDs = append(battle.ParticipantIDs, characterID)
	battle.UpdatedAt = at
	f.battles[battleID] = battle
	return nil
}

func (f *fakeStore) RemoveBattleParticipant(_ context.Context, battleID, characterID string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	battle, ok := f.battles[battleID]
	if !ok {
		return storage.ErrNotFound
	}
	var remaining []string
	for _, participant := range battle.ParticipantIDs {
		if participant != characterID {
			remaining = append(remaining, participant)
		}
	}
	battle.ParticipantIDs = remaining
	battle.UpdatedAt = at
	f.battles[battleID] = battle
	return nil
}

func (f *fakeStore) DeleteBattle(_ context.Context, battleID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.battles[battleID]; !ok {
		return storage.ErrNotFound
	}
	delete(f.battles, battleID)
	for id, action := range f.actions {
		if action.BattleID == battleID {
			delete(f.actions, id)
			delete(f.actionOrder, id)
		}
	}
	return nil
}

func (f *fakeStore) PutAction(_ context.Context, action domain.Action) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.actions[action.ID]; exists {
		return storage.ErrConflict
	}
	f.actionSeq++
	f.actionOrder[action.ID] = f.actionSeq
	f.actions[action.ID] = action
	return nil
}

func (f *fakeStore) GetAction(_ context.Context, actionID string) (domain.Action, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	action, ok := f.actions[actionID]
	if !ok {
		return domain.Action{}, storage.ErrNotFound
	}
	return action, nil
}

func (f *fakeStore) UpdateAction(_ context.Context, action domain.Action) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.actions[action.ID]
	if !ok {
		return storage.ErrNotFound
	}
	action.CreatedAt = existing.CreatedAt
	f.actions[action.ID] = action
	return nil
}

func (f *fakeStore) DeleteAction(_ context.Context, actionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.actions[actionID]; !ok {
		return storage.ErrNotFound
	}
	delete(f.actions, actionID)
	delete(f.actionOrder, actionID)
	return nil
}

func (f *fakeStore) ListActionsByBattle(_ context.Context, battleID string) ([]domain.Action, error) {
	return f.listActions(func(action domain.Action) bool { return action.BattleID == battleID })
}

func (f *fakeStore) ListActionsByCampaign(_ context.Context, campaignID string) ([]domain.Action, error) {
	return f.listActions(func(action domain.Action) bool { return action.CampaignID == campaignID })
}

func (f *fakeStore) listActions(match func(domain.Action) bool) ([]domain.Action, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var actions []domain.Action
	for _, action := range f.actions {
		if match(action) {
			actions = append(actions, action)
		}
	}
	// Recording order, as the sqlite store guarantees.
	for i := 1; i < len(actions); i++ {
		for j := i; j > 0 && f.actionOrder[actions[j].ID] < f.actionOrder[actions[j-1].ID]; j-- {
			actions[j], actions[j-1] = actions[j-1], actions[j]
		}
	}
	return actions, nil
}

func (f *fakeStore) PutCharacter(_ context.Context, character domain.Character) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.characters[character.ID] = character
	return nil
}

func (f *fakeStore) GetCharacter(_ context.Context, characterID string) (domain.Character, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	character, ok := f.characters[characterID]
	if !ok {
		return domain.Character{}, storage.ErrNotFound
	}
	return character, nil
}

func (f *fakeStore) GetCharactersByIDs(_ context.Context, characterIDs []string) ([]domain.Character, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	characters := make([]domain.Character, 0, len(characterIDs))
	for _, characterID := range characterIDs {
		if character, ok := f.characters[characterID]; ok {
			characters = append(characters, character)
		}
	}
	return characters, nil
}

func (f *fakeStore) PutCampaign(_ context.Context, campaign domain.Campaign) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.campaigns[campaign.ID] = campaign
	return nil
}

func (f *fakeStore) GetCampaign(_ context.Context, campaignID string) (domain.Campaign, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	campaign, ok := f.campaigns[campaignID]
	if !ok {
		return domain.Campaign{}, storage.ErrNotFound
	}
	return campaign, nil
}

// capturingPublisher records every publish call for assertions.
type capturingPublisher struct {
	mu        sync.Mutex
	published []publishedEvent
	fail      bool
}

type publishedEvent struct {
	topic    string
	snapshot domain.BattleSnapshot
}

func (p *capturingPublisher) Publish(_ context.Context, topic string, snapshot domain.BattleSnapshot) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, publishedEvent{topic: topic, snapshot: snapshot})
	if p.fail {
		return fmt.Errorf("publisher transport down")
	}
	return nil
}

func (p *capturingPublisher) events() []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]publishedEvent(nil), p.published...)
}
