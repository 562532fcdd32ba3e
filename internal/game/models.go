package game

import (
	"time"

	"gorm.io/gorm"
)

// User stores player identity and the aggregate progression numbers that
// CharacterStats is derived from.
type User struct {
	gorm.Model
	PlayerUUID string `json:"player_uuid" gorm:"uniqueIndex"`
	PlayerName string `json:"player_name"`
	Email      string `json:"email" gorm:"uniqueIndex"`
	Provider   string `json:"provider"`
	// AvatarURL is the provider picture; AvatarPNG caches the resized copy
	// served from /api/assets/avatars.
	AvatarURL string `json:"-"`
	AvatarPNG []byte `json:"-" gorm:"column:avatar_png;type:blob"`

	Level           int `json:"level"`
	Experience      int `json:"experience"`
	Gold            int `json:"gold"`
	QuestsCompleted int `json:"quests_completed"`
	// QuestsSinceLastSpawn feeds the monster spawn chance and resets
	// whenever a monster spawns for this user.
	QuestsSinceLastSpawn int       `json:"-"`
	EquippedTitle        string    `json:"equipped_title"`
	LastLoginAt          time.Time `json:"last_login_at"`
}

func (User) TableName() string { return "player_profiles" }

// Rewards is the payload granted for completing a quest or defeating a monster.
type Rewards struct {
	XP   int `json:"xp" mapstructure:"xp" validate:"gte=0"`
	Gold int `json:"gold" mapstructure:"gold" validate:"gte=0"`
}

// Add returns the element-wise sum of r and o.
func (r Rewards) Add(o Rewards) Rewards {
	return Rewards{XP: r.XP + o.XP, Gold: r.Gold + o.Gold}
}

// Progress is a relative change to a player's totals. Repositories apply it
// against the stored row, never against a copy loaded earlier.
type Progress struct {
	XP   int
	Gold int
	// Cost is taken from gold only if the player holds at least that much.
	Cost int
	// Quests counts toward both QuestsCompleted and QuestsSinceLastSpawn.
	Quests int
}

// Progress converts granted rewards into a delta.
func (r Rewards) Progress() Progress {
	return Progress{XP: r.XP, Gold: r.Gold}
}

type Quest struct {
	gorm.Model
	UserID      uint          `json:"-" gorm:"index"`
	CatalogKey  string        `json:"catalog_key,omitempty" gorm:"index"`
	Title       string        `json:"title" gorm:"size:64"`
	Description string        `json:"description" gorm:"size:256"`
	Category    QuestCategory `json:"category"`
	Difficulty  Difficulty    `json:"difficulty"`
	Rewards     Rewards       `json:"rewards" gorm:"embedded;embeddedPrefix:reward_"`
	Completed   bool          `json:"completed"`
	Progress    int           `json:"progress"`
	CompletedAt *time.Time    `json:"completed_at"`
	Custom      bool          `json:"custom"`
}

func (Quest) TableName() string { return "user_quests" }

// QuestCompletion is the ledger of rewards actually granted, perk bonuses
// included.
type QuestCompletion struct {
	gorm.Model
	UserID      uint      `json:"-" gorm:"index"`
	QuestID     uint      `json:"quest_id" gorm:"uniqueIndex"`
	XPAwarded   int       `json:"xp_awarded"`
	GoldAwarded int       `json:"gold_awarded"`
	CompletedAt time.Time `json:"completed_at"`
}

type UserPerk struct {
	gorm.Model
	UserID     uint      `json:"-" gorm:"uniqueIndex:idx_user_perk"`
	PerkKey    string    `json:"perk_key" gorm:"uniqueIndex:idx_user_perk"`
	Active     bool      `json:"active"`
	UnlockedAt time.Time `json:"unlocked_at"`
}

type UserTitle struct {
	gorm.Model
	UserID     uint      `json:"-" gorm:"uniqueIndex:idx_user_title"`
	TitleKey   string    `json:"title_key" gorm:"uniqueIndex:idx_user_title"`
	UnlockedAt time.Time `json:"unlocked_at"`
}

// Realm holds the per-user grid dimensions and the generation seed; cells
// live in RealmTile rows.
type Realm struct {
	gorm.Model
	UserID uint        `json:"-" gorm:"uniqueIndex"`
	Width  int         `json:"width"`
	Height int         `json:"height"`
	Seed   int64       `json:"-"`
	Cells  []RealmTile `json:"cells" gorm:"foreignKey:UserID;references:UserID"`
}

type RealmTile struct {
	gorm.Model
	UserID   uint     `json:"-" gorm:"uniqueIndex:idx_realm_cell"`
	X        int      `json:"x" gorm:"uniqueIndex:idx_realm_cell"`
	Y        int      `json:"y" gorm:"uniqueIndex:idx_realm_cell"`
	Type     TileType `json:"type"`
	Rotation int      `json:"rotation"`
	Revealed bool     `json:"revealed"`
	// Connections is derived from Type and Rotation on every load.
	Connections []Direction `json:"connections" gorm:"-"`
}

type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type MonsterSpawn struct {
	gorm.Model
	UserID            uint       `json:"-" gorm:"index"`
	Position          Position   `json:"position" gorm:"embedded;embeddedPrefix:pos_"`
	MonsterType       string     `json:"monster_type"`
	Defeated          bool       `json:"defeated"`
	RewardClaimed     bool       `json:"reward_claimed"`
	DefeatedAt        *time.Time `json:"defeated_at"`
	Battles           int        `json:"battles"`
	LastBattleSummary string     `json:"last_battle_summary"`
}

// Active reports whether the spawn still needs the player's attention.
func (m MonsterSpawn) Active() bool {
	return !m.Defeated || !m.RewardClaimed
}

type Alliance struct {
	gorm.Model
	Name          string           `json:"name" gorm:"size:32"`
	Description   string           `json:"description" gorm:"size:256"`
	JoinCode      string           `json:"join_code" gorm:"unique"`
	OwnerUUID     string           `json:"owner_uuid"`
	Members       []AllianceMember `json:"members"`
	CurrentStreak int              `json:"current_streak"`
	LongestStreak int              `json:"longest_streak"`
	LastCheckIn   *time.Time       `json:"last_check_in"`
}

// HasMember reports whether playerUUID belongs to the alliance.
func (a *Alliance) HasMember(playerUUID string) bool {
	return a.Member(playerUUID) != nil
}

// Member returns the member row for playerUUID, or nil.
func (a *Alliance) Member(playerUUID string) *AllianceMember {
	for i := range a.Members {
		if a.Members[i].PlayerUUID == playerUUID {
			return &a.Members[i]
		}
	}
	return nil
}

type AllianceMember struct {
	gorm.Model
	AllianceID  uint       `json:"-" gorm:"uniqueIndex:idx_alliance_member"`
	PlayerUUID  string     `json:"player_uuid" gorm:"uniqueIndex:idx_alliance_member;index"`
	PlayerName  string     `json:"player_name"`
	JoinedAt    time.Time  `json:"joined_at"`
	LastCheckIn *time.Time `json:"last_check_in"`
}

func (AllianceMember) TableName() string { return "alliance_members" }

// AllianceCheckIn enforces one check-in per member per UTC day through its
// unique index.
type AllianceCheckIn struct {
	gorm.Model
	AllianceID uint   `gorm:"uniqueIndex:idx_alliance_checkin"`
	PlayerUUID string `gorm:"uniqueIndex:idx_alliance_checkin"`
	Day        string `gorm:"uniqueIndex:idx_alliance_checkin;size:10"`
	Streak     int
	GoldGained int
}

// AllModels lists every persisted type for AutoMigrate.
func AllModels() []interface{} {
	return []interface{}{
		&User{}, &Quest{}, &QuestCompletion{}, &UserPerk{}, &UserTitle{},
		&Realm{}, &RealmTile{}, &MonsterSpawn{},
		&Alliance{}, &AllianceMember{}, &AllianceCheckIn{},
	}
}
