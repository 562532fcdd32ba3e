package service

import (
	"testing"
	"time"

	"github.com/jillesblokker/level-up-dashboard-sub009/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func codes(cs ...string) func() string {
	i := 0
	return func() string {
		c := cs[i%len(cs)]
		i++
		return c
	}
}

func TestCreateAlliance(t *testing.T) {
	repo := newFakeRepo()
	repo.addUser("p1", 1, 0, 0)

	_, err := CreateAlliance(repo, testNow, codes("AAAA1111"), "p1", NewAlliance{Name: "  "})
	assert.ErrorIs(t, err, ErrInvalidAlliance)
	_, err = CreateAlliance(repo, testNow, codes("AAAA1111"), "p1", NewAlliance{Name: "This alliance name is way too long!"})
	assert.ErrorIs(t, err, ErrInvalidAlliance)

	repo.failCodes = 2
	a, err := CreateAlliance(repo, testNow, codes("AAAA1111", "BBBB2222", "CCCC3333"), "p1", NewAlliance{Name: "Dawn Guard"})
	require.NoError(t, err)
	assert.Equal(t, "CCCC3333", a.JoinCode)
	assert.Equal(t, "p1", a.OwnerUUID)
	require.Len(t, a.Members, 1)
	assert.Equal(t, "p1", a.Members[0].PlayerUUID)

	repo.failCodes = joinCodeAttempts
	_, err = CreateAlliance(repo, testNow, codes("DDDD4444"), "p1", NewAlliance{Name: "Dusk"})
	assert.Error(t, err)
}

func TestJoinAndLeaveAlliance(t *testing.T) {
	repo := newFakeRepo()
	rules := testRules()
	repo.addUser("p1", 1, 0, 0)
	repo.addUser("p2", 1, 0, 0)
	repo.addUser("p3", 1, 0, 0)

	a, err := CreateAlliance(repo, testNow, codes("JOIN0001"), "p1", NewAlliance{Name: "Dawn"})
	require.NoError(t, err)

	_, err = JoinAlliance(repo, rules, testNow, "p2", "nope")
	assert.ErrorIs(t, err, ErrAllianceNotFound)
	_, err = JoinAlliance(repo, rules, testNow, "p1", "JOIN0001")
	assert.ErrorIs(t, err, ErrAlreadyMember)

	_, err = JoinAlliance(repo, rules, testNow, "ghost", "JOIN0001")
	assert.ErrorIs(t, err, ErrUserNotFound)

	joined, err := JoinAlliance(repo, rules, testNow, "p2", " join0001 ")
	require.NoError(t, err)
	assert.Len(t, joined.Members, 2)

	_, err = JoinAlliance(repo, rules, testNow, "p3", "JOIN0001")
	assert.ErrorIs(t, err, ErrAllianceFull)

	_, err = GetAlliance(repo, testNow, "p3", a.ID)
	assert.ErrorIs(t, err, ErrNotMember)

	left, err := LeaveAlliance(repo, "p1", a.ID)
	require.NoError(t, err)
	require.NotNil(t, left)
	assert.Equal(t, "p2", left.OwnerUUID)
	assert.Equal(t, "p2", repo.alliances[a.ID].OwnerUUID)

	_, err = LeaveAlliance(repo, "p1", a.ID)
	assert.ErrorIs(t, err, ErrNotMember)

	left, err = LeaveAlliance(repo, "p2", a.ID)
	require.NoError(t, err)
	assert.Nil(t, left)
	_, err = GetAlliance(repo, testNow, "p2", a.ID)
	assert.ErrorIs(t, err, ErrAllianceNotFound)
}

func TestCheckInStreaks(t *testing.T) {
	repo := newFakeRepo()
	rules := testRules()
	repo.addUser("p1", 1, 0, 0)
	repo.addUser("p2", 1, 0, 0)
	a, err := CreateAlliance(repo, testNow, codes("STRK0001"), "p1", NewAlliance{Name: "Streakers"})
	require.NoError(t, err)
	_, err = JoinAlliance(repo, rules, testNow, "p2", "STRK0001")
	require.NoError(t, err)

	day1 := testNow
	res, err := CheckIn(repo, day1, "p1", a.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, res.CurrentStreak)
	assert.Equal(t, 5, res.GoldGained)

	_, err = CheckIn(repo, day1.Add(2*time.Hour), "p1", a.ID)
	assert.ErrorIs(t, err, ErrAlreadyCheckedIn)

	res, err = CheckIn(repo, day1, "p2", a.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, res.CurrentStreak, "same day keeps the streak")

	day2 := day1.AddDate(0, 0, 1)
	res, err = CheckIn(repo, day2, "p1", a.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, res.CurrentStreak)
	assert.Equal(t, 2, res.LongestStreak)
	assert.Equal(t, 10, res.GoldGained)
	assert.Equal(t, 15, repo.user("p1").Gold)

	day5 := day1.AddDate(0, 0, 4)
	view, err := GetStreak(repo, day5, "p1", a.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, view.CurrentStreak, "missed days expire the streak")
	assert.False(t, view.CheckedInToday)

	n, err := ResetExpiredStreaks(repo, day5)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	res, err = CheckIn(repo, day5, "p1", a.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, res.CurrentStreak)
	assert.Equal(t, 2, res.LongestStreak)

	view, err = GetStreak(repo, day5, "p1", a.ID)
	require.NoError(t, err)
	assert.True(t, view.CheckedInToday)

	_, err = CheckIn(repo, day5, "p3", a.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestListAlliances(t *testing.T) {
	repo := newFakeRepo()
	repo.addUser("p1", 1, 0, 0)
	repo.addUser("p2", 1, 0, 0)
	_, err := CreateAlliance(repo, testNow, codes("LIST0001"), "p1", NewAlliance{Name: "One"})
	require.NoError(t, err)
	_, err = CreateAlliance(repo, testNow, codes("LIST0002"), "p2", NewAlliance{Name: "Two"})
	require.NoError(t, err)

	mine, err := ListAlliances(repo, testNow, "p1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "One", mine[0].Name)
	assert.IsType(t, []game.Alliance{}, mine)
}
