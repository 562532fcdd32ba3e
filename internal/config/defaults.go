package config

import (
	"time"

	"github.com/jillesblokker/level-up-dashboard-sub009/internal/game"
)

const (
	defaultServerAddress = ":8080"
	defaultStreakScan    = time.Hour
)

// Built-in catalogs used when the config file omits them.
var (
	defaultQuests = []game.QuestDef{
		{Key: "daily-walk", Title: "Daily Walk", Description: "Walk for thirty minutes.", Category: game.CategoryVitality, Difficulty: game.DifficultyEasy},
		{Key: "read-chapter", Title: "Read a Chapter", Description: "Finish a chapter of any book.", Category: game.CategoryKnowledge, Difficulty: game.DifficultyEasy},
		{Key: "strength-training", Title: "Strength Training", Description: "Complete a full workout.", Category: game.CategoryMight, Difficulty: game.DifficultyMedium},
		{Key: "tidy-castle", Title: "Tidy the Castle", Description: "Clean one room of your home.", Category: game.CategoryCastle, Difficulty: game.DifficultyEasy},
		{Key: "help-a-friend", Title: "Help a Friend", Description: "Do something kind for someone.", Category: game.CategoryHonor, Difficulty: game.DifficultyMedium},
		{Key: "build-something", Title: "Build Something", Description: "Spend an hour on a craft project.", Category: game.CategoryCraft, Difficulty: game.DifficultyHard},
	}

	defaultTitles = []game.TitleDef{
		{Key: "novice", Name: "Novice", Description: "Every legend starts somewhere.", RequiredLevel: 1},
		{Key: "squire", Name: "Squire", Description: "Completed the first steps.", RequiredLevel: 2, RequiredQuests: 5},
		{Key: "knight", Name: "Knight", Description: "A proven defender of the realm.", RequiredLevel: 5, RequiredQuests: 25},
		{Key: "baron", Name: "Baron", Description: "Holds land and honor.", RequiredLevel: 10, RequiredQuests: 75},
		{Key: "duke", Name: "Duke", Description: "Rules wide lands.", RequiredLevel: 20, RequiredQuests: 200},
	}

	defaultPerks = []game.PerkDef{
		{Key: "iron-will", Name: "Iron Will", Description: "More experience from might quests.", RequiredLevel: 2, Category: game.CategoryMight, XPBonusPercent: 10},
		{Key: "quick-study", Name: "Quick Study", Description: "More experience from knowledge quests.", RequiredLevel: 3, Category: game.CategoryKnowledge, XPBonusPercent: 10},
		{Key: "merchant", Name: "Merchant", Description: "More gold from every quest.", RequiredLevel: 5, GoldBonusPercent: 10},
		{Key: "steward", Name: "Steward", Description: "Castle quests pay more.", RequiredLevel: 7, Category: game.CategoryCastle, XPBonusPercent: 15, GoldBonusPercent: 15},
		{Key: "hero", Name: "Hero", Description: "Experience bonus on everything.", RequiredLevel: 15, XPBonusPercent: 20},
	}

	defaultMonsters = []game.MonsterDef{
		{Key: "slime", Name: "Slime", MinLevel: 1, Weight: 10, HitPoints: 30, Attack: 6, Defense: 1, Reward: game.Rewards{XP: 20, Gold: 10}},
		{Key: "goblin", Name: "Goblin", MinLevel: 2, Weight: 8, HitPoints: 50, Attack: 9, Defense: 3, Reward: game.Rewards{XP: 40, Gold: 20}},
		{Key: "troll", Name: "Troll", MinLevel: 5, Weight: 4, HitPoints: 120, Attack: 16, Defense: 6, Reward: game.Rewards{XP: 100, Gold: 60}},
		{Key: "dragon", Name: "Dragon", MinLevel: 10, Weight: 1, HitPoints: 300, Attack: 30, Defense: 12, Reward: game.Rewards{XP: 400, Gold: 250}},
	}
)

// setDefaults registers the tuning defaults on v.
func setDefaults(v interface{ SetDefault(string, interface{}) }) {
	v.SetDefault("server.address", defaultServerAddress)

	v.SetDefault("realm.width", 8)
	v.SetDefault("realm.height", 8)
	v.SetDefault("realm.reveal_cost", 10)
	v.SetDefault("realm.treasure_count", 3)
	v.SetDefault("realm.treasure_gold", 50)
	v.SetDefault("realm.tile_costs", map[string]int{
		string(game.TileGrass):      0,
		string(game.TileForest):     5,
		string(game.TileWater):      5,
		string(game.TileMountain):   10,
		string(game.TileRoad):       10,
		string(game.TileRoadCorner): 10,
		string(game.TileCrossroad):  15,
		string(game.TileVillage):    25,
	})

	v.SetDefault("spawn.max_active", 3)
	v.SetDefault("spawn.base_chance", 0.05)
	v.SetDefault("spawn.per_quest_chance", 0.1)
	v.SetDefault("spawn.max_chance", 0.6)

	v.SetDefault("alliance.max_members", 8)
	v.SetDefault("alliance.streak_scan_interval", defaultStreakScan)
}
