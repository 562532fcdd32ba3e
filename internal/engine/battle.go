package engine

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/jillesblokker/level-up-dashboard-sub009/internal/game"
)

const (
	MaxBattleRounds = 10
	damageVariance  = 0.2
)

type Combatant struct {
	Name      string `json:"name"`
	HitPoints int    `json:"hp"`
	Attack    int    `json:"attack"`
	Defense   int    `json:"defense"`
}

// PlayerCombatant derives battle stats from the character level.
func PlayerCombatant(name string, level int) Combatant {
	if level < 1 {
		level = 1
	}
	return Combatant{
		Name:      name,
		HitPoints: 50 + 10*level,
		Attack:    5 + 2*level,
		Defense:   2 + level,
	}
}

func MonsterCombatant(m game.MonsterDef) Combatant {
	return Combatant{Name: m.Name, HitPoints: m.HitPoints, Attack: m.Attack, Defense: m.Defense}
}

type BattleResult struct {
	Victory   bool     `json:"victory"`
	Rounds    int      `json:"rounds"`
	PlayerHP  int      `json:"player_hp"`
	MonsterHP int      `json:"monster_hp"`
	Summary   []string `json:"summary"`
}

// SummaryText joins the round log into one block of text.
func (r BattleResult) SummaryText() string {
	bc := battleContext{summary: r.Summary}
	return bc.joinSummary()
}

// ResolveBattle plays up to MaxBattleRounds rounds. The player strikes first
// each round; surviving every round without felling the monster is a loss.
func ResolveBattle(player, monster Combatant, rng *rand.Rand) BattleResult {
	bc := newBattleContext(rng)
	php, mhp := player.HitPoints, monster.HitPoints

	for bc.round = 1; bc.round <= MaxBattleRounds; bc.round++ {
		dmg := bc.strike(player, monster)
		mhp -= dmg
		if mhp <= 0 {
			bc.add(fmt.Sprintf("%s is defeated after %d rounds", monster.Name, bc.round))
			return BattleResult{Victory: true, Rounds: bc.round, PlayerHP: php, MonsterHP: 0, Summary: bc.summary}
		}
		dmg = bc.strike(monster, player)
		php -= dmg
		if php <= 0 {
			bc.add(fmt.Sprintf("%s falls in round %d", player.Name, bc.round))
			return BattleResult{Rounds: bc.round, PlayerHP: 0, MonsterHP: mhp, Summary: bc.summary}
		}
	}
	bc.add(fmt.Sprintf("%s retreats after %d rounds", monster.Name, MaxBattleRounds))
	return BattleResult{Rounds: MaxBattleRounds, PlayerHP: php, MonsterHP: mhp, Summary: bc.summary}
}

// strike logs and returns the damage attacker deals to defender.
func (bc *battleContext) strike(attacker, defender Combatant) int {
	dmg := rollDamage(attacker.Attack, defender.Defense, bc.rng)
	bc.add(fmt.Sprintf("Round %d: %s hits %s for %d", bc.round, attacker.Name, defender.Name, dmg))
	return dmg
}

// rollDamage is max(1, atk-def) scaled by a uniform factor in [0.8, 1.2].
func rollDamage(atk, def int, rng *rand.Rand) int {
	base := atk - def
	if base < 1 {
		base = 1
	}
	factor := 1 - damageVariance + 2*damageVariance*rng.Float64()
	dmg := int(math.Round(float64(base) * factor))
	if dmg < 1 {
		dmg = 1
	}
	return dmg
}
