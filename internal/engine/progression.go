package engine

import (
	"errors"
	"fmt"

	"github.com/jillesblokker/level-up-dashboard-sub009/internal/game"
)

const (
	xpPerLevelStep    = 50
	maxActivePerkCap  = 5
	levelsPerPerkSlot = 5
)

var ErrUnknownDifficulty = errors.New("unknown difficulty")

// XPForLevel returns the total experience needed to reach level.
func XPForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	return xpPerLevelStep * level * (level - 1)
}

// LevelForXP returns the level a character with xp total experience has.
func LevelForXP(xp int) int {
	level := 1
	for XPForLevel(level+1) <= xp {
		level++
	}
	return level
}

// XPToNextLevel returns how much experience is still missing for the next level.
func XPToNextLevel(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return XPForLevel(LevelForXP(xp)+1) - xp
}

func DefaultRewards(d game.Difficulty) (game.Rewards, error) {
	switch d {
	case game.DifficultyEasy:
		return game.Rewards{XP: 25, Gold: 10}, nil
	case game.DifficultyMedium:
		return game.Rewards{XP: 50, Gold: 25}, nil
	case game.DifficultyHard:
		return game.Rewards{XP: 100, Gold: 50}, nil
	case game.DifficultyEpic:
		return game.Rewards{XP: 200, Gold: 100}, nil
	}
	return game.Rewards{}, fmt.Errorf("%w: %q", ErrUnknownDifficulty, d)
}

// ApplyPerkBonuses adds the percent bonuses of every perk that applies to
// category. Bonuses stack additively and round down.
func ApplyPerkBonuses(r game.Rewards, category game.QuestCategory, active []game.PerkDef) game.Rewards {
	xpPct, goldPct := 0, 0
	for _, p := range active {
		if p.Category != "" && p.Category != category {
			continue
		}
		xpPct += p.XPBonusPercent
		goldPct += p.GoldBonusPercent
	}
	return game.Rewards{
		XP:   r.XP + r.XP*xpPct/100,
		Gold: r.Gold + r.Gold*goldPct/100,
	}
}

// MaxActivePerks is one slot plus one per five levels, capped.
func MaxActivePerks(level int) int {
	n := 1 + level/levelsPerPerkSlot
	if n > maxActivePerkCap {
		return maxActivePerkCap
	}
	return n
}

func UnlockedTitles(level, questsCompleted int, catalog []game.TitleDef) []game.TitleDef {
	out := make([]game.TitleDef, 0, len(catalog))
	for _, t := range catalog {
		if level >= t.RequiredLevel && questsCompleted >= t.RequiredQuests {
			out = append(out, t)
		}
	}
	return out
}

func UnlockedPerks(level int, catalog []game.PerkDef) []game.PerkDef {
	out := make([]game.PerkDef, 0, len(catalog))
	for _, p := range catalog {
		if level >= p.RequiredLevel {
			out = append(out, p)
		}
	}
	return out
}

func ClampProgress(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
