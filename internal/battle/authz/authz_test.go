package authz

import (
	"testing"

	"github.com/HensleyFerrari/rpg-app/internal/battle/domain"
)

func TestIsOwner(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		ownerRef  string
		principal string
		want      bool
	}{
		{name: "match", ownerRef: "user-1", principal: "user-1", want: true},
		{name: "mismatch", ownerRef: "user-1", principal: "user-2", want: false},
		{name: "trimmed match", ownerRef: " user-1 ", principal: "user-1", want: true},
		{name: "blank owner", ownerRef: "", principal: "", want: false},
		{name: "blank principal", ownerRef: "user-1", principal: " ", want: false},
	}
	for _, tc := range tests {
		if got := IsOwner(tc.ownerRef, tc.principal); got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestCanRecordAction(t *testing.T) {
	t.Parallel()

	battle := domain.Battle{ID: "battle-1", OwnerID: "gm-1"}
	source := &domain.Character{ID: "char-1", OwnerID: "player-1", CampaignID: "camp-1"}

	if !CanRecordAction(battle, nil, "", "gm-1") {
		t.Fatal("game master must always be allowed")
	}
	if !CanRecordAction(battle, source, "camp-owner", "player-1") {
		t.Fatal("source character owner must be allowed")
	}
	if !CanRecordAction(battle, source, "camp-owner", "camp-owner") {
		t.Fatal("campaign owner of the source character must be allowed")
	}
	if CanRecordAction(battle, source, "camp-owner", "stranger") {
		t.Fatal("unrelated principal must be rejected")
	}
	if CanRecordAction(battle, nil, "camp-owner", "player-1") {
		t.Fatal("without a source character only the game master qualifies")
	}
}

func TestCanEditCharacterHasNoCampaignOverride(t *testing.T) {
	t.Parallel()

	character := domain.Character{ID: "char-1", OwnerID: "player-1", CampaignID: "camp-1"}

	if !CanEditCharacter(character, "player-1") {
		t.Fatal("character owner must be allowed")
	}
	// Campaign owners get a recording override, not an editing one.
	if CanEditCharacter(character, "camp-owner") {
		t.Fatal("campaign owner must not edit characters directly")
	}
}

func TestCanModifyAction(t *testing.T) {
	t.Parallel()

	battle := domain.Battle{ID: "battle-1", OwnerID: "gm-1"}
	action := domain.Action{ID: "act-1", OwnerID: "player-1", BattleID: "battle-1"}

	if !CanModifyAction(action, battle, "player-1") {
		t.Fatal("recording principal must be allowed")
	}
	if !CanModifyAction(action, battle, "gm-1") {
		t.Fatal("game master override must be allowed")
	}
	if CanModifyAction(action, battle, "player-2") {
		t.Fatal("third principal must be rejected")
	}
}
