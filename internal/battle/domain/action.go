package domain

import (
	"strings"
	"time"
)

// ActionKind discriminates ledger entries.
type ActionKind string

const (
	// ActionDamage records damage dealt by a participant.
	ActionDamage ActionKind = "damage"
	// ActionHeal records healing performed by a participant.
	ActionHeal ActionKind = "heal"
	// ActionOther records a narrative event with no numeric effect.
	ActionOther ActionKind = "other"
)

// ParseActionKind validates a caller-supplied action kind.
func ParseActionKind(value string) (ActionKind, error) {
	switch ActionKind(strings.TrimSpace(strings.ToLower(value))) {
	case ActionDamage:
		return ActionDamage, nil
	case ActionHeal:
		return ActionHeal, nil
	case ActionOther:
		return ActionOther, nil
	default:
		return "", NewValidation("action kind must be damage, heal, or other")
	}
}

// Action is one append-only ledger entry tied to a battle and the round the
// battle was in when the entry was recorded. CampaignID is denormalized so
// cross-battle aggregation never joins through battles.
type Action struct {
	ID          string
	BattleID    string
	CampaignID  string
	OwnerID     string
	Kind        ActionKind
	Magnitude   int
	Critical    bool
	CharacterID string
	TargetID    string
	Description string
	Round       int
	CreatedAt   time.Time
}

// ActionInput is the validated write payload for a new ledger entry. It is a
// tagged union over the action kinds: each kind admits only its own fields,
// checked by Validate before the payload enters the service.
type ActionInput struct {
	Kind        ActionKind
	CharacterID string
	TargetID    string
	Magnitude   int
	Critical    bool
	Description string
}

// Normalize trims reference and text fields.
func (in ActionInput) Normalize() ActionInput {
	in.CharacterID = strings.TrimSpace(in.CharacterID)
	in.TargetID = strings.TrimSpace(in.TargetID)
	in.Description = strings.TrimSpace(in.Description)
	return in
}

// Validate enforces the per-kind invariants. Narrative entries carry no
// magnitude; numeric entries require a source character and a non-negative
// magnitude. The critical flag is only meaningful for numeric entries and is
// cleared for narrative ones.
func (in ActionInput) Validate() (ActionInput, error) {
	in = in.Normalize()
	switch in.Kind {
	case ActionDamage, ActionHeal:
		if in.CharacterID == "" {
			return in, NewValidation("a source character is required for damage and heal actions")
		}
		if in.Magnitude < 0 {
			return in, NewValidation("action magnitude cannot be negative")
		}
	case ActionOther:
		if in.Description == "" {
			return in, NewValidation("a description is required for narrative actions")
		}
		in.Magnitude = 0
		in.Critical = false
	default:
		return in, NewValidation("action kind must be damage, heal, or other")
	}
	return in, nil
}

// ActionChanges carries a partial edit of an existing ledger entry. Nil
// fields are left untouched.
type ActionChanges struct {
	Magnitude   *int
	Critical    *bool
	CharacterID *string
	TargetID    *string
	Description *string
}

// Apply merges changes into an action and re-validates the result against
// the entry's kind invariants.
func (c ActionChanges) Apply(action Action) (Action, error) {
	if c.Magnitude != nil {
		action.Magnitude = *c.Magnitude
	}
	if c.Critical != nil {
		action.Critical = *c.Critical
	}
	if c.CharacterID != nil {
		action.CharacterID = strings.TrimSpace(*c.CharacterID)
	}
	if c.TargetID != nil {
		action.TargetID = strings.TrimSpace(*c.TargetID)
	}
	if c.Description != nil {
		action.Description = strings.TrimSpace(*c.Description)
	}

	validated, err := ActionInput{
		Kind:        action.Kind,
		CharacterID: action.CharacterID,
		TargetID:    action.TargetID,
		Magnitude:   action.Magnitude,
		Critical:    action.Critical,
		Description: action.Description,
	}.Validate()
	if err != nil {
		return Action{}, err
	}
	action.CharacterID = validated.CharacterID
	action.TargetID = validated.TargetID
	action.Magnitude = validated.Magnitude
	action.Critical = validated.Critical
	action.Description = validated.Description
	return action, nil
}

// Empty reports whether the edit changes nothing.
func (c ActionChanges) Empty() bool {
	return c.Magnitude == nil && c.Critical == nil && c.CharacterID == nil &&
		c.TargetID == nil && c.Description == nil
}
