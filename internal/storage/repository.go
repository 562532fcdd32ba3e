package storage

import (
	"errors"
	"time"

	"github.com/jillesblokker/level-up-dashboard-sub009/internal/game"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrConflict reports a unique constraint hit or a conditional update
	// that matched no row, for example claiming a reward twice.
	ErrConflict = errors.New("record conflicts with current state")
	// ErrInsufficientFunds means a Progress cost exceeded the stored gold.
	ErrInsufficientFunds = errors.New("insufficient gold")
	// ErrLimitReached means a capped collection was already full.
	ErrLimitReached = errors.New("limit reached")
)

type Repository interface {
	GetUserByUUID(uuid string) (*game.User, error)
	GetUsersByUUIDs(uuids []string) ([]game.User, error)
	// UpsertLogin finds the user by email or creates it with a fresh UUID,
	// then records the provider, avatar URL and login time.
	UpsertLogin(email, name, provider, avatarURL string, now time.Time) (*game.User, error)
	// UpdateProfile writes the player name and equipped title only.
	UpdateProfile(u *game.User) error
	// AddProgress applies p to the stored totals and refreshes u, level
	// included.
	AddProgress(u *game.User, p game.Progress) error
	SaveAvatar(uuid string, png []byte) error
	// GetTopPlayers orders users by experience, highest first.
	GetTopPlayers(limit int) ([]game.User, error)

	ListQuests(userID uint) ([]game.Quest, error)
	CreateQuests(qs []game.Quest) error
	GetQuest(id uint) (*game.Quest, error)
	SaveQuest(q *game.Quest) error
	// RecordQuestCompletion marks q completed, stores c and applies p to u in
	// one transaction. ErrConflict means the quest was already completed.
	RecordQuestCompletion(u *game.User, q *game.Quest, c *game.QuestCompletion, p game.Progress) error

	ListUserPerks(userID uint) ([]game.UserPerk, error)
	ListUserTitles(userID uint) ([]game.UserTitle, error)
	// AddUnlocks inserts perks and titles, skipping ones the user already has.
	AddUnlocks(perks []game.UserPerk, titles []game.UserTitle) error
	SaveUserPerk(p *game.UserPerk) error

	GetRealm(userID uint) (*game.Realm, error)
	CreateRealm(r *game.Realm) error
	// RevealRealmCell flips a hidden cell to revealed with cell.Type and
	// applies p. ErrConflict means the cell was already revealed.
	RevealRealmCell(u *game.User, cell *game.RealmTile, p game.Progress) error
	// BuildRealmCell stores cell.Type and cell.Rotation on a revealed empty or
	// grass cell and applies p. ErrConflict means the cell is taken.
	BuildRealmCell(u *game.User, cell *game.RealmTile, p game.Progress) error

	ListActiveSpawns(userID uint) ([]game.MonsterSpawn, error)
	GetSpawn(id uint) (*game.MonsterSpawn, error)
	// CreateSpawn stores s and resets the owner's quests_since_last_spawn.
	CreateSpawn(s *game.MonsterSpawn) error
	SaveSpawn(s *game.MonsterSpawn) error
	// ClaimSpawnReward flips reward_claimed on a defeated spawn and applies p
	// to u. ErrConflict means the reward was already claimed.
	ClaimSpawnReward(u *game.User, s *game.MonsterSpawn, p game.Progress) error

	CreateAlliance(a *game.Alliance) error
	GetAlliance(id uint) (*game.Alliance, error)
	FindAllianceByJoinCode(code string) (*game.Alliance, error)
	ListAlliancesForPlayer(playerUUID string) ([]game.Alliance, error)
	// AddAllianceMember inserts m unless the alliance already has max
	// members (ErrLimitReached) or m's player already belongs (ErrConflict).
	AddAllianceMember(m *game.AllianceMember, max int) error
	RemoveAllianceMember(allianceID uint, playerUUID string) error
	// SaveAlliance writes name, description and owner. Streak columns change
	// only through RecordCheckIn and ResetExpiredStreaks.
	SaveAlliance(a *game.Alliance) error
	DeleteAlliance(id uint) error
	// RecordCheckIn stores ci, the alliance streak and the member's
	// check-in time, and applies p to u. ErrConflict means the member
	// already checked in that day.
	RecordCheckIn(a *game.Alliance, m *game.AllianceMember, ci *game.AllianceCheckIn, u *game.User, p game.Progress) error
	// ResetExpiredStreaks zeroes current_streak on alliances whose last
	// check-in is before cutoff and returns how many changed.
	ResetExpiredStreaks(cutoff time.Time) (int64, error)
}
