package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCharacterStats(t *testing.T) {
	repo := newFakeRepo()
	rules := testRules()
	repo.addUser("p1", 2, 130, 40)

	stats, err := GetCharacterStats(repo, rules, testNow, "p1")
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Level)
	assert.Equal(t, 170, stats.ExperienceToNextLevel)
	assert.Equal(t, 40, stats.Gold)
	assert.Equal(t, 1, stats.Titles.Unlocked, "squire needs a completed quest")
	assert.Equal(t, 3, stats.Titles.Total)
	assert.Equal(t, 0, stats.Perks.Active)
	assert.Equal(t, 3, stats.Perks.Total)
}

func TestListCharacterPerks_EmptyWhenNothingUnlocked(t *testing.T) {
	repo := newFakeRepo()
	rules := testRules()
	rules.Perks = rules.Perks[2:]
	repo.addUser("p1", 1, 0, 0)

	perks, err := ListCharacterPerks(repo, rules, testNow, "p1")
	require.NoError(t, err)
	assert.NotNil(t, perks)
	assert.Empty(t, perks)
}

func TestSetPerkActive_Limits(t *testing.T) {
	repo := newFakeRepo()
	rules := testRules()
	repo.addUser("p1", 1, 0, 0)

	v, err := SetPerkActive(repo, rules, testNow, "p1", "scholar", true)
	require.NoError(t, err)
	assert.True(t, v.Active)

	_, err = SetPerkActive(repo, rules, testNow, "p1", "miser", true)
	assert.ErrorIs(t, err, ErrPerkLimit)
	_, err = SetPerkActive(repo, rules, testNow, "p1", "giant", true)
	assert.ErrorIs(t, err, ErrPerkLocked)
	_, err = SetPerkActive(repo, rules, testNow, "p1", "nope", true)
	assert.ErrorIs(t, err, ErrPerkNotFound)

	_, err = SetPerkActive(repo, rules, testNow, "p1", "scholar", false)
	require.NoError(t, err)
	v, err = SetPerkActive(repo, rules, testNow, "p1", "miser", true)
	require.NoError(t, err)
	assert.True(t, v.Active)

	perks, err := ListCharacterPerks(repo, rules, testNow, "p1")
	require.NoError(t, err)
	require.Len(t, perks, 2)
	assert.Equal(t, "scholar", perks[0].Key)
	assert.False(t, perks[0].Active)
	assert.True(t, perks[1].Active)
}

func TestEquipTitle(t *testing.T) {
	repo := newFakeRepo()
	rules := testRules()
	repo.addUser("p1", 1, 0, 0)

	_, err := EquipTitle(repo, rules, testNow, "p1", "knight")
	assert.ErrorIs(t, err, ErrTitleLocked)
	_, err = EquipTitle(repo, rules, testNow, "p1", "emperor")
	assert.ErrorIs(t, err, ErrTitleNotFound)

	u, err := EquipTitle(repo, rules, testNow, "p1", "novice")
	require.NoError(t, err)
	assert.Equal(t, "novice", u.EquippedTitle)

	titles, err := ListCharacterTitles(repo, rules, testNow, "p1")
	require.NoError(t, err)
	require.Len(t, titles, 3)
	assert.True(t, titles[0].Equipped)
	assert.True(t, titles[0].Unlocked)
	assert.False(t, titles[2].Unlocked)
	assert.Nil(t, titles[2].UnlockedAt)

	u, err = EquipTitle(repo, rules, testNow, "p1", "")
	require.NoError(t, err)
	assert.Empty(t, u.EquippedTitle)
}

func TestUpdatePlayerName(t *testing.T) {
	repo := newFakeRepo()
	repo.addUser("p1", 1, 0, 0)

	for _, bad := range []string{"abc", "<script>", "this name is far too long to be accepted here"} {
		_, err := UpdatePlayerName(repo, "p1", bad)
		assert.ErrorIs(t, err, ErrInvalidName, bad)
	}
	u, err := UpdatePlayerName(repo, "p1", "  Sir Lancelot-du'Lac ")
	require.NoError(t, err)
	assert.Equal(t, "Sir Lancelot-du'Lac", u.PlayerName)
	assert.Equal(t, "Sir Lancelot-du'Lac", repo.user("p1").PlayerName)

	u, err = UpdatePlayerName(repo, "p1", "Ærøskøbing")
	require.NoError(t, err)
	assert.Equal(t, "Ærøskøbing", u.PlayerName)
}
