package service

import "errors"

var (
	ErrUserNotFound = errors.New("user not found")

	ErrQuestNotFound  = errors.New("quest not found")
	ErrQuestCompleted = errors.New("quest already completed")
	ErrInvalidQuest   = errors.New("invalid quest")

	ErrPerkNotFound  = errors.New("perk not found")
	ErrPerkLocked    = errors.New("perk is not unlocked")
	ErrPerkLimit     = errors.New("active perk limit reached")
	ErrTitleNotFound = errors.New("title not found")
	ErrTitleLocked   = errors.New("title is not unlocked")
	ErrInvalidName   = errors.New("invalid player name")

	ErrInsufficientGold = errors.New("not enough gold")

	ErrSpawnNotFound      = errors.New("monster not found")
	ErrUnknownMonster     = errors.New("monster type is not in the catalog")
	ErrMonsterDefeated    = errors.New("monster already defeated")
	ErrMonsterNotDefeated = errors.New("monster has not been defeated")
	ErrRewardClaimed      = errors.New("reward already claimed")

	ErrAllianceNotFound = errors.New("alliance not found")
	ErrInvalidAlliance  = errors.New("invalid alliance")
	ErrAllianceFull     = errors.New("alliance is full")
	ErrAlreadyMember    = errors.New("already a member of this alliance")
	ErrNotMember        = errors.New("not a member of this alliance")
	ErrAlreadyCheckedIn = errors.New("already checked in today")
)
