package api

import (
	"time"

	"github.com/HensleyFerrari/rpg-app/internal/battle/domain"
)

// Wire views. Domain structs stay tag-free; the HTTP shape is pinned here.

type battleView struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	OwnerID        string    `json:"ownerId"`
	CampaignID     string    `json:"campaignId"`
	ParticipantIDs []string  `json:"participantIds"`
	Round          int       `json:"round"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type characterView struct {
	ID         string `json:"id"`
	OwnerID    string `json:"ownerId"`
	CampaignID string `json:"campaignId"`
	Name       string `json:"name"`
	Side       string `json:"side"`
	Alive      bool   `json:"alive"`
}

type snapshotView struct {
	Battle       battleView      `json:"battle"`
	Participants []characterView `json:"participants"`
	Deleted      bool            `json:"deleted,omitempty"`
}

type actionView struct {
	ID          string    `json:"id"`
	BattleID    string    `json:"battleId"`
	CampaignID  string    `json:"campaignId"`
	OwnerID     string    `json:"ownerId"`
	Kind        string    `json:"kind"`
	Magnitude   int       `json:"magnitude"`
	Critical    bool      `json:"critical"`
	CharacterID string    `json:"characterId,omitempty"`
	TargetID    string    `json:"targetId,omitempty"`
	Description string    `json:"description,omitempty"`
	Round       int       `json:"round"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toBattleView(battle domain.Battle) battleView {
	participants := battle.ParticipantIDs
	if participants == nil {
		participants = []string{}
	}
	return battleView{
		ID:             battle.ID,
		Name:           battle.Name,
		OwnerID:        battle.OwnerID,
		CampaignID:     battle.CampaignID,
		ParticipantIDs: participants,
		Round:          battle.Round,
		Active:         battle.Active,
		CreatedAt:      battle.CreatedAt,
		UpdatedAt:      battle.UpdatedAt,
	}
}

func toCharacterView(character domain.Character) characterView {
	return characterView{
		ID:         character.ID,
		OwnerID:    character.OwnerID,
		CampaignID: character.CampaignID,
		Name:       character.Name,
		Side:       string(character.Side),
		Alive:      character.Alive,
	}
}

func toSnapshotView(snapshot domain.BattleSnapshot) snapshotView {
	participants := make([]characterView, 0, len(snapshot.Participants))
	for _, character := range snapshot.Participants {
		participants = append(participants, toCharacterView(character))
	}
	return snapshotView{
		Battle:       toBattleView(snapshot.Battle),
		Participants: participants,
		Deleted:      snapshot.Deleted,
	}
}

func toActionView(action domain.Action) actionView {
	return actionView{
		ID:          action.ID,
		BattleID:    action.BattleID,
		CampaignID:  action.CampaignID,
		OwnerID:     action.OwnerID,
		Kind:        string(action.Kind),
		Magnitude:   action.Magnitude,
		Critical:    action.Critical,
		CharacterID: action.CharacterID,
		TargetID:    action.TargetID,
		Description: action.Description,
		Round:       action.Round,
		CreatedAt:   action.CreatedAt,
	}
}

func toActionViews(actions []domain.Action) []actionView {
	views := make([]actionView, 0, len(actions))
	for _, action := range actions {
		views = append(views, toActionView(action))
	}
	return views
}

func toBattleViews(battles []domain.Battle) []battleView {
	views := make([]battleView, 0, len(battles))
	for _, battle := range battles {
		views = append(views, toBattleView(battle))
	}
	return views
}
