package game

import "time"

type QuestCategory string

const (
	CategoryMight     QuestCategory = "might"
	CategoryKnowledge QuestCategory = "knowledge"
	CategoryHonor     QuestCategory = "honor"
	CategoryCastle    QuestCategory = "castle"
	CategoryCraft     QuestCategory = "craft"
	CategoryVitality  QuestCategory = "vitality"
)

// Categories lists every quest category in display order.
var Categories = []QuestCategory{
	CategoryMight, CategoryKnowledge, CategoryHonor,
	CategoryCastle, CategoryCraft, CategoryVitality,
}

func (c QuestCategory) Valid() bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
	DifficultyEpic   Difficulty = "epic"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyEpic:
		return true
	}
	return false
}

type TileType string

const (
	TileEmpty      TileType = "empty"
	TileGrass      TileType = "grass"
	TileForest     TileType = "forest"
	TileWater      TileType = "water"
	TileMountain   TileType = "mountain"
	TileRoad       TileType = "road"
	TileRoadCorner TileType = "road-corner"
	TileCrossroad  TileType = "crossroad"
	TileCastle     TileType = "castle"
	TileVillage    TileType = "village"
	TileTreasure   TileType = "treasure"
)

// TileTypes lists every tile type known to the realm grid.
var TileTypes = []TileType{
	TileEmpty, TileGrass, TileForest, TileWater, TileMountain, TileRoad,
	TileRoadCorner, TileCrossroad, TileCastle, TileVillage, TileTreasure,
}

func (t TileType) Valid() bool {
	for _, v := range TileTypes {
		if v == t {
			return true
		}
	}
	return false
}

// Placeable reports whether players may build this tile themselves.
func (t TileType) Placeable() bool {
	switch t {
	case TileEmpty, TileCastle, TileTreasure:
		return false
	}
	return t.Valid()
}

// Direction is a cardinal edge of a grid cell.
type Direction string

const (
	North Direction = "N"
	East  Direction = "E"
	South Direction = "S"
	West  Direction = "W"
)

// Clockwise order; rotating by 90 degrees moves one step forward.
var Directions = []Direction{North, East, South, West}

// QuestDef is a catalog quest materialized for every user.
type QuestDef struct {
	Key         string        `json:"key" mapstructure:"key" validate:"required"`
	Title       string        `json:"title" mapstructure:"title" validate:"required,max=64"`
	Description string        `json:"description" mapstructure:"description" validate:"max=256"`
	Category    QuestCategory `json:"category" mapstructure:"category" validate:"required"`
	Difficulty  Difficulty    `json:"difficulty" mapstructure:"difficulty" validate:"required"`
	Rewards     Rewards       `json:"rewards" mapstructure:"rewards"`
}

type TitleDef struct {
	Key            string `json:"key" mapstructure:"key" validate:"required"`
	Name           string `json:"name" mapstructure:"name" validate:"required"`
	Description    string `json:"description" mapstructure:"description"`
	RequiredLevel  int    `json:"required_level" mapstructure:"required_level" validate:"gte=1"`
	RequiredQuests int    `json:"required_quests" mapstructure:"required_quests" validate:"gte=0"`
}

// PerkDef grants percent bonuses on quest rewards while active. An empty
// Category applies to every quest.
type PerkDef struct {
	Key              string        `json:"key" mapstructure:"key" validate:"required"`
	Name             string        `json:"name" mapstructure:"name" validate:"required"`
	Description      string        `json:"description" mapstructure:"description"`
	RequiredLevel    int           `json:"required_level" mapstructure:"required_level" validate:"gte=1"`
	Category         QuestCategory `json:"category,omitempty" mapstructure:"category"`
	XPBonusPercent   int           `json:"xp_bonus_percent" mapstructure:"xp_bonus_percent" validate:"gte=0,lte=500"`
	GoldBonusPercent int           `json:"gold_bonus_percent" mapstructure:"gold_bonus_percent" validate:"gte=0,lte=500"`
}

type MonsterDef struct {
	Key       string  `json:"key" mapstructure:"key" validate:"required"`
	Name      string  `json:"name" mapstructure:"name" validate:"required"`
	MinLevel  int     `json:"min_level" mapstructure:"min_level" validate:"gte=1"`
	Weight    int     `json:"weight" mapstructure:"weight" validate:"gte=0"`
	HitPoints int     `json:"hp" mapstructure:"hp" validate:"gte=1"`
	Attack    int     `json:"attack" mapstructure:"attack" validate:"gte=0"`
	Defense   int     `json:"defense" mapstructure:"defense" validate:"gte=0"`
	Reward    Rewards `json:"reward" mapstructure:"reward"`
}

type RealmSettings struct {
	Width         int              `json:"width" mapstructure:"width" validate:"gte=3,lte=64"`
	Height        int              `json:"height" mapstructure:"height" validate:"gte=3,lte=64"`
	RevealCost    int              `json:"reveal_cost" mapstructure:"reveal_cost" validate:"gte=0"`
	TreasureCount int              `json:"treasure_count" mapstructure:"treasure_count" validate:"gte=0"`
	TreasureGold  int              `json:"treasure_gold" mapstructure:"treasure_gold" validate:"gte=0"`
	TileCosts     map[TileType]int `json:"tile_costs" mapstructure:"tile_costs"`
}

// TileCost returns the gold price of placing t; unknown tiles are free.
func (s RealmSettings) TileCost(t TileType) int {
	return s.TileCosts[t]
}

type SpawnSettings struct {
	MaxActive      int     `json:"max_active" mapstructure:"max_active" validate:"gte=1"`
	BaseChance     float64 `json:"base_chance" mapstructure:"base_chance" validate:"gte=0,lte=1"`
	PerQuestChance float64 `json:"per_quest_chance" mapstructure:"per_quest_chance" validate:"gte=0,lte=1"`
	MaxChance      float64 `json:"max_chance" mapstructure:"max_chance" validate:"gte=0,lte=1"`
}

type AllianceSettings struct {
	MaxMembers         int           `json:"max_members" mapstructure:"max_members" validate:"gte=2,lte=100"`
	StreakScanInterval time.Duration `json:"streak_scan_interval" mapstructure:"streak_scan_interval"`
}

// Rules bundles the catalogs and tuning the game runs with.
type Rules struct {
	Quests   []QuestDef
	Titles   []TitleDef
	Perks    []PerkDef
	Monsters []MonsterDef
	Realm    RealmSettings
	Spawn    SpawnSettings
	Alliance AllianceSettings
}

func (r *Rules) Perk(key string) (PerkDef, bool) {
	for _, p := range r.Perks {
		if p.Key == key {
			return p, true
		}
	}
	return PerkDef{}, false
}

func (r *Rules) Title(key string) (TitleDef, bool) {
	for _, t := range r.Titles {
		if t.Key == key {
			return t, true
		}
	}
	return TitleDef{}, false
}

func (r *Rules) Monster(key string) (MonsterDef, bool) {
	for _, m := range r.Monsters {
		if m.Key == key {
			return m, true
		}
	}
	return MonsterDef{}, false
}

// CharacterStats is the read model served by /api/character-stats.
type CharacterStats struct {
	Level                 int          `json:"level"`
	Experience            int          `json:"experience"`
	ExperienceToNextLevel int          `json:"experience_to_next_level"`
	Gold                  int          `json:"gold"`
	QuestsCompleted       int          `json:"quests_completed"`
	Titles                TitleSummary `json:"titles"`
	Perks                 PerkSummary  `json:"perks"`
}

type TitleSummary struct {
	Equipped string `json:"equipped"`
	Unlocked int    `json:"unlocked"`
	Total    int    `json:"total"`
}

type PerkSummary struct {
	Active int `json:"active"`
	Total  int `json:"total"`
}
