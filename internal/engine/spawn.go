package engine

import (
	"math/rand"

	"github.com/jillesblokker/level-up-dashboard-sub009/internal/game"
)

// Reasons reported when DecideSpawn does not produce a monster.
const (
	ReasonTooManyActive = "too many active monsters"
	ReasonRollFailed    = "no monster answered the call"
	ReasonNoMonster     = "no monster fits the character level"
	ReasonNoFreeCell    = "no free revealed cell"
)

type SpawnInput struct {
	Level                int
	QuestsSinceLastSpawn int
	Active               []game.MonsterSpawn
	Realm                *game.Realm
	Catalog              []game.MonsterDef
	Settings             game.SpawnSettings
}

type SpawnDecision struct {
	Spawn    bool             `json:"spawn"`
	Monster  *game.MonsterDef `json:"monster,omitempty"`
	Position game.Position    `json:"position"`
	Chance   float64          `json:"chance"`
	Reason   string           `json:"reason,omitempty"`
}

// SpawnChance grows with every quest completed since the last spawn and is
// capped at MaxChance.
func SpawnChance(s game.SpawnSettings, questsSinceLastSpawn int) float64 {
	c := s.BaseChance + s.PerQuestChance*float64(questsSinceLastSpawn)
	if c > s.MaxChance {
		c = s.MaxChance
	}
	if c < 0 {
		c = 0
	}
	return c
}

func DecideSpawn(in SpawnInput, rng *rand.Rand) SpawnDecision {
	active := 0
	for _, s := range in.Active {
		if !s.Defeated {
			active++
		}
	}
	if active >= in.Settings.MaxActive {
		return SpawnDecision{Reason: ReasonTooManyActive}
	}

	chance := SpawnChance(in.Settings, in.QuestsSinceLastSpawn)
	if rng.Float64() >= chance {
		return SpawnDecision{Chance: chance, Reason: ReasonRollFailed}
	}

	monster := pickMonster(in.Catalog, in.Level, rng)
	if monster == nil {
		return SpawnDecision{Chance: chance, Reason: ReasonNoMonster}
	}

	free := freeCells(in.Realm, in.Active)
	if len(free) == 0 {
		return SpawnDecision{Chance: chance, Reason: ReasonNoFreeCell}
	}
	return SpawnDecision{
		Spawn:    true,
		Monster:  monster,
		Position: free[rng.Intn(len(free))],
		Chance:   chance,
	}
}

func pickMonster(catalog []game.MonsterDef, level int, rng *rand.Rand) *game.MonsterDef {
	total := 0
	for _, m := range catalog {
		if m.MinLevel <= level && m.Weight > 0 {
			total += m.Weight
		}
	}
	if total == 0 {
		return nil
	}
	roll := rng.Intn(total)
	for i := range catalog {
		m := catalog[i]
		if m.MinLevel > level || m.Weight <= 0 {
			continue
		}
		if roll < m.Weight {
			return &m
		}
		roll -= m.Weight
	}
	return nil
}

func freeCells(r *game.Realm, active []game.MonsterSpawn) []game.Position {
	if r == nil {
		return nil
	}
	taken := make(map[game.Position]struct{}, len(active))
	for _, s := range active {
		if s.Active() {
			taken[s.Position] = struct{}{}
		}
	}
	out := make([]game.Position, 0, len(r.Cells))
	for _, c := range r.Cells {
		if !c.Revealed || c.Type == game.TileCastle {
			continue
		}
		p := game.Position{X: c.X, Y: c.Y}
		if _, ok := taken[p]; ok {
			continue
		}
		out = append(out, p)
	}
	return out
}
