package service

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/jillesblokker/level-up-dashboard-sub009/internal/engine"
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/game"
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/storage"
)

type MonsterRepo interface {
	RealmRepo
	UnlockRepo
	ListActiveSpawns(userID uint) ([]game.MonsterSpawn, error)
	GetSpawn(id uint) (*game.MonsterSpawn, error)
	CreateSpawn(s *game.MonsterSpawn) error
	SaveSpawn(s *game.MonsterSpawn) error
	ClaimSpawnReward(u *game.User, s *game.MonsterSpawn, p game.Progress) error
}

// SpawnView joins a spawn with its catalog entry.
type SpawnView struct {
	game.MonsterSpawn
	Monster *game.MonsterDef `json:"monster,omitempty"`
}

func spawnView(rules *game.Rules, s game.MonsterSpawn) SpawnView {
	v := SpawnView{MonsterSpawn: s}
	if def, ok := rules.Monster(s.MonsterType); ok {
		v.Monster = &def
	}
	return v
}

func ListMonsters(repo MonsterRepo, rules *game.Rules, playerUUID string) ([]SpawnView, error) {
	u, err := loadUser(repo, playerUUID)
	if err != nil {
		return nil, err
	}
	spawns, err := repo.ListActiveSpawns(u.ID)
	if err != nil {
		return nil, fmt.Errorf("list spawns: %w", err)
	}
	out := make([]SpawnView, 0, len(spawns))
	for _, s := range spawns {
		out = append(out, spawnView(rules, s))
	}
	return out, nil
}

type SpawnCheck struct {
	engine.SpawnDecision
	Spawned *SpawnView `json:"spawned,omitempty"`
}

// CheckSpawn rolls for a new monster on the user's realm and stores it.
func CheckSpawn(repo MonsterRepo, rules *game.Rules, rng *rand.Rand, playerUUID string, seed int64) (*SpawnCheck, error) {
	u, err := loadUser(repo, playerUUID)
	if err != nil {
		return nil, err
	}
	realm, err := loadOrCreateRealm(repo, rules, u, seed)
	if err != nil {
		return nil, err
	}
	active, err := repo.ListActiveSpawns(u.ID)
	if err != nil {
		return nil, fmt.Errorf("list spawns: %w", err)
	}
	d := engine.DecideSpawn(engine.SpawnInput{
		Level:                u.Level,
		QuestsSinceLastSpawn: u.QuestsSinceLastSpawn,
		Active:               active,
		Realm:                realm,
		Catalog:              rules.Monsters,
		Settings:             rules.Spawn,
	}, rng)
	res := &SpawnCheck{SpawnDecision: d}
	if !d.Spawn {
		return res, nil
	}
	s := &game.MonsterSpawn{UserID: u.ID, Position: d.Position, MonsterType: d.Monster.Key}
	if err := repo.CreateSpawn(s); err != nil {
		return nil, fmt.Errorf("create spawn: %w", err)
	}
	v := spawnView(rules, *s)
	res.Spawned = &v
	return res, nil
}

func loadOwnedSpawn(repo MonsterRepo, u *game.User, spawnID uint) (*game.MonsterSpawn, error) {
	s, err := repo.GetSpawn(spawnID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrSpawnNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load spawn: %w", err)
	}
	if s.UserID != u.ID {
		return nil, ErrSpawnNotFound
	}
	return s, nil
}

type BattleOutcome struct {
	engine.BattleResult
	Spawn SpawnView `json:"spawn"`
}

// Battle fights the spawn once. A loss leaves it on the map.
func Battle(repo MonsterRepo, rules *game.Rules, rng *rand.Rand, now time.Time, playerUUID string, spawnID uint) (*BattleOutcome, error) {
	u, err := loadUser(repo, playerUUID)
	if err != nil {
		return nil, err
	}
	s, err := loadOwnedSpawn(repo, u, spawnID)
	if err != nil {
		return nil, err
	}
	if s.Defeated {
		return nil, ErrMonsterDefeated
	}
	def, ok := rules.Monster(s.MonsterType)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMonster, s.MonsterType)
	}

	res := engine.ResolveBattle(engine.PlayerCombatant(u.PlayerName, u.Level), engine.MonsterCombatant(def), rng)
	s.Battles++
	s.LastBattleSummary = res.SummaryText()
	if res.Victory {
		at := now
		s.Defeated = true
		s.DefeatedAt = &at
	}
	if err := repo.SaveSpawn(s); err != nil {
		return nil, fmt.Errorf("save spawn: %w", err)
	}
	return &BattleOutcome{BattleResult: res, Spawn: spawnView(rules, *s)}, nil
}

type ClaimResult struct {
	Spawn        SpawnView    `json:"spawn"`
	Rewards      game.Rewards `json:"rewards"`
	LevelsGained int          `json:"levels_gained"`
	Level        int          `json:"level"`
	Experience   int          `json:"experience"`
	Gold         int          `json:"gold"`

	// Titles and perks unlocked by the level gain, if any.
	UnlockedTitles []string `json:"unlocked_titles"`
	UnlockedPerks  []string `json:"unlocked_perks"`
	PlayerUUID     string   `json:"-"`
}

// ClaimReward pays out a defeated monster exactly once.
func ClaimReward(repo MonsterRepo, rules *game.Rules, now time.Time, playerUUID string, spawnID uint) (*ClaimResult, error) {
	u, err := loadUser(repo, playerUUID)
	if err != nil {
		return nil, err
	}
	s, err := loadOwnedSpawn(repo, u, spawnID)
	if err != nil {
		return nil, err
	}
	if !s.Defeated {
		return nil, ErrMonsterNotDefeated
	}
	if s.RewardClaimed {
		return nil, ErrRewardClaimed
	}
	def, ok := rules.Monster(s.MonsterType)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMonster, s.MonsterType)
	}
	before := u.Level
	if err := repo.ClaimSpawnReward(u, s, def.Reward.Progress()); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return nil, ErrRewardClaimed
		}
		return nil, fmt.Errorf("claim reward: %w", err)
	}
	st, err := syncUnlocks(repo, rules, u, now)
	if err != nil {
		return nil, err
	}
	return &ClaimResult{
		Spawn:          spawnView(rules, *s),
		Rewards:        def.Reward,
		LevelsGained:   levelsSince(before, u),
		Level:          u.Level,
		Experience:     u.Experience,
		Gold:           u.Gold,
		UnlockedTitles: nonNil(st.newTitles),
		UnlockedPerks:  nonNil(st.newPerks),
		PlayerUUID:     u.PlayerUUID,
	}, nil
}
