package storage

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestRepo(t *testing.T) Repository {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := OpenAndMigrate(dsn)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return NewSQLiteRepository(db)
}

func newTestUser(t *testing.T, repo Repository, email string) *game.User {
	t.Helper()
	u, err := repo.UpsertLogin(email, "Player "+email, "github", "", now)
	require.NoError(t, err)
	return u
}

func TestUpsertLogin_KeepsIdentityAndCustomName(t *testing.T) {
	repo := newTestRepo(t)

	u := newTestUser(t, repo, "ana@example.com")
	require.NotEmpty(t, u.PlayerUUID)
	assert.Equal(t, 1, u.Level)

	u.PlayerName = "Lady Ana"
	require.NoError(t, repo.UpdateProfile(u))
	require.NoError(t, repo.AddProgress(u, game.Progress{XP: 40, Gold: 7}))

	again, err := repo.UpsertLogin("ana@example.com", "Ana GitHub", "google", "https://img/ana.png", now.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, u.PlayerUUID, again.PlayerUUID)
	assert.Equal(t, "Lady Ana", again.PlayerName)
	assert.Equal(t, "google", again.Provider)
	assert.Equal(t, "https://img/ana.png", again.AvatarURL)
	assert.Equal(t, 40, again.Experience, "login keeps progression")
	assert.Equal(t, 7, again.Gold)

	_, err = repo.GetUserByUUID("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecordQuestCompletion_OnlyOnce(t *testing.T) {
	repo := newTestRepo(t)
	u := newTestUser(t, repo, "bo@example.com")

	require.NoError(t, repo.CreateQuests([]game.Quest{{UserID: u.ID, Title: "Run", Category: game.CategoryMight, Difficulty: game.DifficultyEasy}}))
	qs, err := repo.ListQuests(u.ID)
	require.NoError(t, err)
	require.Len(t, qs, 1)
	q := &qs[0]

	c := &game.QuestCompletion{UserID: u.ID, QuestID: q.ID, XPAwarded: 125, CompletedAt: now}
	require.NoError(t, repo.RecordQuestCompletion(u, q, c, game.Progress{XP: 125, Gold: 10, Quests: 1}))
	assert.Equal(t, 125, u.Experience)
	assert.Equal(t, 2, u.Level)
	assert.Equal(t, 1, u.QuestsCompleted)

	stored, err := repo.GetQuest(q.ID)
	require.NoError(t, err)
	assert.True(t, stored.Completed)
	assert.Equal(t, 100, stored.Progress)

	err = repo.RecordQuestCompletion(u, q, &game.QuestCompletion{UserID: u.ID, QuestID: q.ID, CompletedAt: now}, game.Progress{XP: 125, Quests: 1})
	assert.ErrorIs(t, err, ErrConflict)

	reloaded, err := repo.GetUserByUUID(u.PlayerUUID)
	require.NoError(t, err)
	assert.Equal(t, 125, reloaded.Experience)
	assert.Equal(t, 10, reloaded.Gold)
	assert.Equal(t, 1, reloaded.QuestsSinceLastSpawn)
}

func TestAddProgress_CostNeedsGold(t *testing.T) {
	repo := newTestRepo(t)
	u := newTestUser(t, repo, "bi@example.com")
	require.NoError(t, repo.AddProgress(u, game.Progress{Gold: 12}))

	stale := *u
	require.NoError(t, repo.AddProgress(u, game.Progress{XP: 5, Cost: 10}))
	assert.Equal(t, 2, u.Gold)

	assert.ErrorIs(t, repo.AddProgress(&stale, game.Progress{XP: 5, Cost: 10}), ErrInsufficientFunds)
	reloaded, err := repo.GetUserByUUID(u.PlayerUUID)
	require.NoError(t, err)
	assert.Equal(t, 2, reloaded.Gold)
	assert.Equal(t, 5, reloaded.Experience)
}

func TestAddUnlocks_SkipsDuplicates(t *testing.T) {
	repo := newTestRepo(t)
	u := newTestUser(t, repo, "cy@example.com")

	perks := []game.UserPerk{{UserID: u.ID, PerkKey: "iron-will", UnlockedAt: now}}
	titles := []game.UserTitle{{UserID: u.ID, TitleKey: "novice", UnlockedAt: now}}
	require.NoError(t, repo.AddUnlocks(perks, titles))
	require.NoError(t, repo.AddUnlocks(
		[]game.UserPerk{{UserID: u.ID, PerkKey: "iron-will", UnlockedAt: now}},
		[]game.UserTitle{{UserID: u.ID, TitleKey: "novice", UnlockedAt: now}},
	))

	gotPerks, err := repo.ListUserPerks(u.ID)
	require.NoError(t, err)
	assert.Len(t, gotPerks, 1)
	gotTitles, err := repo.ListUserTitles(u.ID)
	require.NoError(t, err)
	assert.Len(t, gotTitles, 1)
}

func TestRealm_RoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	u := newTestUser(t, repo, "di@example.com")

	realm := &game.Realm{UserID: u.ID, Width: 2, Height: 2, Seed: 9, Cells: []game.RealmTile{
		{UserID: u.ID, X: 1, Y: 1, Type: game.TileCastle, Revealed: true},
		{UserID: u.ID, X: 0, Y: 0, Type: game.TileEmpty},
		{UserID: u.ID, X: 1, Y: 0, Type: game.TileTreasure},
		{UserID: u.ID, X: 0, Y: 1, Type: game.TileEmpty, Revealed: true},
	}}
	require.NoError(t, repo.CreateRealm(realm))

	got, err := repo.GetRealm(u.ID)
	require.NoError(t, err)
	require.Len(t, got.Cells, 4)
	assert.Equal(t, 0, got.Cells[0].X)
	assert.Equal(t, 0, got.Cells[0].Y)
	assert.Equal(t, game.TileCastle, got.Cells[3].Type)

	cell := got.Cells[2]
	cell.Type = game.TileRoad
	cell.Rotation = 90
	assert.ErrorIs(t, repo.BuildRealmCell(u, &cell, game.Progress{XP: 5, Cost: 15}), ErrInsufficientFunds)
	require.NoError(t, repo.AddProgress(u, game.Progress{Gold: 20}))
	require.NoError(t, repo.BuildRealmCell(u, &cell, game.Progress{XP: 5, Cost: 15}))
	assert.Equal(t, 5, u.Gold)
	assert.Equal(t, 5, u.Experience)
	assert.ErrorIs(t, repo.BuildRealmCell(u, &cell, game.Progress{}), ErrConflict, "road already built")

	treasure := got.Cells[1]
	treasure.Type = game.TileGrass
	require.NoError(t, repo.RevealRealmCell(u, &treasure, game.Progress{Gold: 50}))
	assert.Equal(t, 55, u.Gold)
	assert.ErrorIs(t, repo.RevealRealmCell(u, &treasure, game.Progress{Gold: 50}), ErrConflict)

	got, err = repo.GetRealm(u.ID)
	require.NoError(t, err)
	assert.Equal(t, game.TileRoad, got.Cells[2].Type)
	assert.Equal(t, 90, got.Cells[2].Rotation)
	assert.True(t, got.Cells[1].Revealed)
	assert.Equal(t, game.TileGrass, got.Cells[1].Type)

	_, err = repo.GetRealm(u.ID + 100)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClaimSpawnReward_Once(t *testing.T) {
	repo := newTestRepo(t)
	u := newTestUser(t, repo, "ed@example.com")

	require.NoError(t, repo.AddProgress(u, game.Progress{Quests: 3}))
	s := &game.MonsterSpawn{UserID: u.ID, MonsterType: "slime", Position: game.Position{X: 2, Y: 3}}
	require.NoError(t, repo.CreateSpawn(s))
	reloaded, err := repo.GetUserByUUID(u.PlayerUUID)
	require.NoError(t, err)
	assert.Equal(t, 0, reloaded.QuestsSinceLastSpawn)
	assert.Equal(t, 3, reloaded.QuestsCompleted)

	active, err := repo.ListActiveSpawns(u.ID)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, 3, active[0].Position.Y)

	reward := game.Rewards{XP: 100, Gold: 30}.Progress()
	assert.ErrorIs(t, repo.ClaimSpawnReward(u, s, reward), ErrConflict, "undefeated spawn cannot be claimed")

	s.Defeated = true
	require.NoError(t, repo.SaveSpawn(s))
	require.NoError(t, repo.ClaimSpawnReward(u, s, reward))
	assert.Equal(t, 100, u.Experience)
	assert.Equal(t, 2, u.Level)
	assert.ErrorIs(t, repo.ClaimSpawnReward(u, s, reward), ErrConflict)
	assert.Equal(t, 30, u.Gold)

	active, err = repo.ListActiveSpawns(u.ID)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestAlliance_MembersCheckInsAndStreakReset(t *testing.T) {
	repo := newTestRepo(t)
	owner := newTestUser(t, repo, "fa@example.com")
	other := newTestUser(t, repo, "gu@example.com")

	a := &game.Alliance{Name: "Dawn", JoinCode: "ABCD1234", OwnerUUID: owner.PlayerUUID,
		Members: []game.AllianceMember{{PlayerUUID: owner.PlayerUUID, PlayerName: owner.PlayerName, JoinedAt: now}}}
	require.NoError(t, repo.CreateAlliance(a))

	dup := &game.Alliance{Name: "Dusk", JoinCode: "ABCD1234", OwnerUUID: other.PlayerUUID}
	assert.ErrorIs(t, repo.CreateAlliance(dup), ErrConflict)

	require.NoError(t, repo.AddAllianceMember(&game.AllianceMember{AllianceID: a.ID, PlayerUUID: other.PlayerUUID, JoinedAt: now.Add(time.Minute)}, 5))
	assert.ErrorIs(t, repo.AddAllianceMember(&game.AllianceMember{AllianceID: a.ID, PlayerUUID: other.PlayerUUID, JoinedAt: now}, 5), ErrConflict)
	assert.ErrorIs(t, repo.AddAllianceMember(&game.AllianceMember{AllianceID: a.ID, PlayerUUID: "third", JoinedAt: now}, 2), ErrLimitReached)
	found, err := repo.FindAllianceByJoinCode("ABCD1234")
	require.NoError(t, err)
	require.Len(t, found.Members, 2)
	assert.Equal(t, owner.PlayerUUID, found.Members[0].PlayerUUID)

	mine, err := repo.ListAlliancesForPlayer(other.PlayerUUID)
	require.NoError(t, err)
	require.Len(t, mine, 1)

	m := found.Member(owner.PlayerUUID)
	last := now.AddDate(0, 0, -3)
	found.CurrentStreak, found.LongestStreak, found.LastCheckIn = 1, 1, &last
	m.LastCheckIn = &last
	ci := &game.AllianceCheckIn{AllianceID: a.ID, PlayerUUID: owner.PlayerUUID, Day: "2025-04-28", Streak: 1}
	require.NoError(t, repo.RecordCheckIn(found, m, ci, owner, game.Progress{Gold: 5}))
	assert.Equal(t, 5, owner.Gold)
	again := &game.AllianceCheckIn{AllianceID: a.ID, PlayerUUID: owner.PlayerUUID, Day: "2025-04-28", Streak: 1}
	assert.ErrorIs(t, repo.RecordCheckIn(found, m, again, owner, game.Progress{Gold: 5}), ErrConflict)
	assert.Equal(t, 5, owner.Gold)

	n, err := repo.ResetExpiredStreaks(now.AddDate(0, 0, -1))
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	reloaded, err := repo.GetAlliance(a.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, reloaded.CurrentStreak)
	assert.Equal(t, 1, reloaded.LongestStreak)

	require.NoError(t, repo.RemoveAllianceMember(a.ID, other.PlayerUUID))
	assert.ErrorIs(t, repo.RemoveAllianceMember(a.ID, other.PlayerUUID), ErrNotFound)
	require.NoError(t, repo.DeleteAlliance(a.ID))
	_, err = repo.GetAlliance(a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetTopPlayers_OrdersByExperience(t *testing.T) {
	repo := newTestRepo(t)
	for i, xp := range []int{50, 300, 120} {
		u := newTestUser(t, repo, fmt.Sprintf("p%d@example.com", i))
		require.NoError(t, repo.AddProgress(u, game.Progress{XP: xp}))
	}
	top, err := repo.GetTopPlayers(2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, 300, top[0].Experience)
	assert.Equal(t, 120, top[1].Experience)
}
