package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/game"
	"github.com/spf13/viper"
)

type rawConfig struct {
	Server struct {
		Address string `mapstructure:"address" validate:"required"`
	} `mapstructure:"server"`
	Quests   []game.QuestDef       `mapstructure:"quests" validate:"dive"`
	Titles   []game.TitleDef       `mapstructure:"titles" validate:"dive"`
	Perks    []game.PerkDef        `mapstructure:"perks" validate:"dive"`
	Monsters []game.MonsterDef     `mapstructure:"monsters" validate:"dive"`
	Realm    game.RealmSettings    `mapstructure:"realm"`
	Spawn    game.SpawnSettings    `mapstructure:"spawn"`
	Alliance game.AllianceSettings `mapstructure:"alliance"`
}

// LoadedConfig contains the game rules and the server address to bind to.
type LoadedConfig struct {
	ServerAddress string
	Rules         *game.Rules
}

var validate = validator.New()

// LoadConfig reads the YAML or JSON game configuration at path. A missing
// file, or a file that leaves a catalog out, falls back to built-in
// defaults. An empty path means defaults only.
func LoadConfig(path string) (*LoadedConfig, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat config file %s: %w", path, err)
		}
	}

	var rc rawConfig
	if err := v.Unmarshal(&rc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if len(rc.Quests) == 0 {
		rc.Quests = defaultQuests
	}
	if len(rc.Titles) == 0 {
		rc.Titles = defaultTitles
	}
	if len(rc.Perks) == 0 {
		rc.Perks = defaultPerks
	}
	if len(rc.Monsters) == 0 {
		rc.Monsters = defaultMonsters
	}
	if rc.Alliance.StreakScanInterval <= 0 {
		rc.Alliance.StreakScanInterval = defaultStreakScan
	}

	if err := validate.Struct(&rc); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	if err := crossCheck(&rc); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	return &LoadedConfig{
		ServerAddress: strings.TrimSpace(rc.Server.Address),
		Rules: &game.Rules{
			Quests:   rc.Quests,
			Titles:   rc.Titles,
			Perks:    rc.Perks,
			Monsters: rc.Monsters,
			Realm:    rc.Realm,
			Spawn:    rc.Spawn,
			Alliance: rc.Alliance,
		},
	}, nil
}

// crossCheck enforces what struct tags cannot: unique keys per catalog,
// known enum values and a spawnable monster.
func crossCheck(rc *rawConfig) error {
	seen := make(map[string]struct{}, len(rc.Quests))
	for _, q := range rc.Quests {
		if err := unique(seen, "quest", q.Key); err != nil {
			return err
		}
		if !q.Category.Valid() {
			return fmt.Errorf("quest '%s' has unknown category '%s'", q.Key, q.Category)
		}
		if !q.Difficulty.Valid() {
			return fmt.Errorf("quest '%s' has unknown difficulty '%s'", q.Key, q.Difficulty)
		}
	}

	seen = make(map[string]struct{}, len(rc.Titles))
	for _, t := range rc.Titles {
		if err := unique(seen, "title", t.Key); err != nil {
			return err
		}
	}

	seen = make(map[string]struct{}, len(rc.Perks))
	for _, p := range rc.Perks {
		if err := unique(seen, "perk", p.Key); err != nil {
			return err
		}
		if p.Category != "" && !p.Category.Valid() {
			return fmt.Errorf("perk '%s' has unknown category '%s'", p.Key, p.Category)
		}
	}

	seen = make(map[string]struct{}, len(rc.Monsters))
	spawnable := false
	for _, m := range rc.Monsters {
		if err := unique(seen, "monster", m.Key); err != nil {
			return err
		}
		if m.MinLevel <= 1 && m.Weight > 0 {
			spawnable = true
		}
	}
	if !spawnable {
		return fmt.Errorf("at least one monster needs min_level 1 and a positive weight")
	}

	for t := range rc.Realm.TileCosts {
		if !t.Placeable() {
			return fmt.Errorf("tile_costs lists '%s', which cannot be placed", t)
		}
	}
	if rc.Spawn.MaxChance < rc.Spawn.BaseChance {
		return fmt.Errorf("spawn max_chance %.2f is below base_chance %.2f", rc.Spawn.MaxChance, rc.Spawn.BaseChance)
	}
	return nil
}

func unique(seen map[string]struct{}, kind, key string) error {
	k := strings.ToLower(strings.TrimSpace(key))
	if _, exists := seen[k]; exists {
		return fmt.Errorf("duplicate %s key '%s'", kind, key)
	}
	seen[k] = struct{}{}
	return nil
}
