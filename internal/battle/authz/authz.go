// Package authz holds the pure authorization predicates for the battle
// engine. The predicates take state snapshots and a principal reference and
// perform no I/O, so the service composes them after loading state.
package authz

import (
	"strings"

	"github.com/HensleyFerrari/rpg-app/internal/battle/domain"
)

// IsOwner reports whether principal matches an entity owner reference.
// References are compared as trimmed identifiers; blank references never
// grant anything.
func IsOwner(ownerRef, principal string) bool {
	ownerRef = strings.TrimSpace(ownerRef)
	principal = strings.TrimSpace(principal)
	return ownerRef != "" && ownerRef == principal
}

// IsBattleMaster reports whether principal is the battle's game master.
func IsBattleMaster(battle domain.Battle, principal string) bool {
	return IsOwner(battle.OwnerID, principal)
}

// CanEditCharacter reports whether principal may edit a character directly.
// Deliberately owner-only: the campaign-owner override that CanRecordAction
// grants does not extend to direct character edits.
func CanEditCharacter(character domain.Character, principal string) bool {
	return IsOwner(character.OwnerID, principal)
}

// CanRecordAction reports whether principal may append a ledger entry to the
// battle. The game master always may. Otherwise the entry must name a source
// character that the principal owns, or whose campaign the principal owns.
func CanRecordAction(battle domain.Battle, source *domain.Character, campaignOwnerID, principal string) bool {
	if IsBattleMaster(battle, principal) {
		return true
	}
	if source == nil {
		return false
	}
	return IsOwner(source.OwnerID, principal) || IsOwner(campaignOwnerID, principal)
}

// CanModifyAction reports whether principal may edit or delete an existing
// ledger entry: its recording principal, or the battle's game master.
func CanModifyAction(action domain.Action, battle domain.Battle, principal string) bool {
	return IsOwner(action.OwnerID, principal) || IsBattleMaster(battle, principal)
}
