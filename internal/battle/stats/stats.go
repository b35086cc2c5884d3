// Package stats derives battle statistics from a battle's full, ordered
// action list. Every function is pure: the report is recomputable at any time
// from the ledger alone.
package stats

import (
	"sort"
	"strings"

	"github.com/HensleyFerrari/rpg-app/internal/battle/domain"
)

// UnknownCharacter labels actions whose character name could not be resolved.
const UnknownCharacter = "unknown"

// noneLabel marks a peak that has no qualifying action.
const noneLabel = "N/A"

// ActionView is one flat, already-resolved ledger row. The service read side
// resolves character names and sides before aggregation so the aggregator
// never touches storage.
type ActionView struct {
	CharacterName string
	Side          domain.CharacterSide
	Kind          domain.ActionKind
	Magnitude     int
	Round         int
}

// Peak labels a maximal action or character-turn with the acting character's
// display name and the round it happened in.
type Peak struct {
	Character string `json:"character"`
	Round     int    `json:"round"`
	Amount    int    `json:"amount"`
}

// TurnPeak is the highest single-round total for one side.
type TurnPeak struct {
	Round  int `json:"round"`
	Amount int `json:"amount"`
}

// CharacterDamage summarizes one character's damage across the battle.
// Rounds counts distinct rounds acted in; MaxTurn is the highest single-round
// sum; Average is Total divided by Rounds.
type CharacterDamage struct {
	Character string  `json:"character"`
	Total     int     `json:"total"`
	Rounds    int     `json:"rounds"`
	MaxTurn   int     `json:"maxTurn"`
	Average   float64 `json:"average"`
}

// CharacterHeal summarizes one character's healing total.
type CharacterHeal struct {
	Character string `json:"character"`
	Total     int    `json:"total"`
}

// Report is the full derived-statistics view of one battle.
type Report struct {
	PeakHit             Peak              `json:"peakHit"`
	PeakCharacterDamage Peak              `json:"peakCharacterDamage"`
	PeakCharacterHeal   Peak              `json:"peakCharacterHeal"`
	PeakAllyTurn        TurnPeak          `json:"peakAllyTurn"`
	PeakEnemyTurn       TurnPeak          `json:"peakEnemyTurn"`
	PerCharacterDamage  []CharacterDamage `json:"perCharacterDamage"`
	PerCharacterHeal    []CharacterHeal   `json:"perCharacterHeal"`
}

type turnKey struct {
	character string
	round     int
}

// Compute aggregates a battle's ordered action list. Narrative actions are
// excluded entirely. Grouping keys use the character display name, so two
// characters sharing a name merge; rows with no resolvable name aggregate
// under "unknown". All peak comparisons are strict, so the earliest maximal
// entry wins ties.
func Compute(actions []ActionView) Report {
	report := Report{
		PeakHit:             Peak{Character: noneLabel},
		PeakCharacterDamage: Peak{Character: noneLabel},
		PeakCharacterHeal:   Peak{Character: noneLabel},
		PerCharacterDamage:  []CharacterDamage{},
		PerCharacterHeal:    []CharacterHeal{},
	}

	damageTurns := make(map[turnKey]int)
	healTurns := make(map[turnKey]int)
	var damageTurnOrder, healTurnOrder []turnKey

	allyRounds := make(map[int]int)
	enemyRounds := make(map[int]int)
	var allyRoundOrder, enemyRoundOrder []int

	type damageAgg struct {
		total  int
		rounds map[int]int
	}
	damageByCharacter := make(map[string]*damageAgg)
	healByCharacter := make(map[string]int)
	var damageCharacterOrder, healCharacterOrder []string

	for _, action := range actions {
		if action.Kind == domain.ActionOther {
			continue
		}
		name := displayName(action.CharacterName)
		magnitude := action.Magnitude
		if magnitude < 0 {
			magnitude = 0
		}
		key := turnKey{character: name, round: action.Round}

		if action.Kind == domain.ActionHeal {
			if _, seen := healTurns[key]; !seen {
				healTurnOrder = append(healTurnOrder, key)
			}
			healTurns[key] += magnitude

			if _, seen := healByCharacter[name]; !seen {
				healCharacterOrder = append(healCharacterOrder, name)
			}
			healByCharacter[name] += magnitude
			continue
		}

		if magnitude > report.PeakHit.Amount {
			report.PeakHit = Peak{Character: name, Round: action.Round, Amount: magnitude}
		}

		if _, seen := damageTurns[key]; !seen {
			damageTurnOrder = append(damageTurnOrder, key)
		}
		damageTurns[key] += magnitude

		if action.Side == domain.SideEnemy {
			if _, seen := enemyRounds[action.Round]; !seen {
				enemyRoundOrder = append(enemyRoundOrder, action.Round)
			}
			enemyRounds[action.Round] += magnitude
		} else {
			// Characters without an explicit side count as allies.
			if _, seen := allyRounds[action.Round]; !seen {
				allyRoundOrder = append(allyRoundOrder, action.Round)
			}
			allyRounds[action.Round] += magnitude
		}

		agg, seen := damageByCharacter[name]
		if !seen {
			agg = &damageAgg{rounds: make(map[int]int)}
			damageByCharacter[name] = agg
			damageCharacterOrder = append(damageCharacterOrder, name)
		}
		agg.total += magnitude
		agg.rounds[action.Round] += magnitude
	}

	for _, key := range damageTurnOrder {
		if sum := damageTurns[key]; sum > report.PeakCharacterDamage.Amount {
			report.PeakCharacterDamage = Peak{Character: key.character, Round: key.round, Amount: sum}
		}
	}
	for _, key := range healTurnOrder {
		if sum := healTurns[key]; sum > report.PeakCharacterHeal.Amount {
			report.PeakCharacterHeal = Peak{Character: key.character, Round: key.round, Amount: sum}
		}
	}
	for _, round := range allyRoundOrder {
		if sum := allyRounds[round]; sum > report.PeakAllyTurn.Amount {
			report.PeakAllyTurn = TurnPeak{Round: round, Amount: sum}
		}
	}
	for _, round := range enemyRoundOrder {
		if sum := enemyRounds[round]; sum > report.PeakEnemyTurn.Amount {
			report.PeakEnemyTurn = TurnPeak{Round: round, Amount: sum}
		}
	}

	for _, name := range damageCharacterOrder {
		agg := damageByCharacter[name]
		summary := CharacterDamage{
			Character: name,
			Total:     agg.total,
			Rounds:    len(agg.rounds),
		}
		for _, sum := range agg.rounds {
			if sum > summary.MaxTurn {
				summary.MaxTurn = sum
			}
		}
		if summary.Rounds > 0 {
			summary.Average = float64(summary.Total) / float64(summary.Rounds)
		}
		report.PerCharacterDamage = append(report.PerCharacterDamage, summary)
	}
	sort.SliceStable(report.PerCharacterDamage, func(i, j int) bool {
		return report.PerCharacterDamage[i].Total > report.PerCharacterDamage[j].Total
	})

	for _, name := range healCharacterOrder {
		report.PerCharacterHeal = append(report.PerCharacterHeal, CharacterHeal{
			Character: name,
			Total:     healByCharacter[name],
		})
	}
	sort.SliceStable(report.PerCharacterHeal, func(i, j int) bool {
		return report.PerCharacterHeal[i].Total > report.PerCharacterHeal[j].Total
	})

	return report
}

func displayName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return UnknownCharacter
	}
	return name
}
