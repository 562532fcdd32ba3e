package service

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jillesblokker/level-up-dashboard-sub009/internal/engine"
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/game"
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/storage"
)

const (
	maxQuestTitle       = 64
	maxQuestDescription = 256
)

type QuestRepo interface {
	UnlockRepo
	GetUserByUUID(uuid string) (*game.User, error)
	ListQuests(userID uint) ([]game.Quest, error)
	CreateQuests(qs []game.Quest) error
	GetQuest(id uint) (*game.Quest, error)
	SaveQuest(q *game.Quest) error
	RecordQuestCompletion(u *game.User, q *game.Quest, c *game.QuestCompletion, p game.Progress) error
}

// ListQuests returns the user's quests, creating any catalog quests the
// user does not have yet.
func ListQuests(repo QuestRepo, rules *game.Rules, playerUUID string) ([]game.Quest, error) {
	u, err := loadUser(repo, playerUUID)
	if err != nil {
		return nil, err
	}
	quests, err := repo.ListQuests(u.ID)
	if err != nil {
		return nil, fmt.Errorf("list quests: %w", err)
	}
	have := make(map[string]bool, len(quests))
	for _, q := range quests {
		if q.CatalogKey != "" {
			have[q.CatalogKey] = true
		}
	}
	var missing []game.Quest
	for _, def := range rules.Quests {
		if have[def.Key] {
			continue
		}
		rewards := def.Rewards
		if rewards == (game.Rewards{}) {
			if rewards, err = engine.DefaultRewards(def.Difficulty); err != nil {
				return nil, err
			}
		}
		missing = append(missing, game.Quest{
			UserID:      u.ID,
			CatalogKey:  def.Key,
			Title:       def.Title,
			Description: def.Description,
			Category:    def.Category,
			Difficulty:  def.Difficulty,
			Rewards:     rewards,
		})
	}
	if len(missing) == 0 {
		return quests, nil
	}
	if err := repo.CreateQuests(missing); err != nil {
		return nil, fmt.Errorf("create catalog quests: %w", err)
	}
	return repo.ListQuests(u.ID)
}

type NewQuest struct {
	Title       string             `json:"title" binding:"required"`
	Description string             `json:"description"`
	Category    game.QuestCategory `json:"category" binding:"required"`
	Difficulty  game.Difficulty    `json:"difficulty" binding:"required"`
	Rewards     game.Rewards       `json:"rewards"`
}

func (n *NewQuest) validate() error {
	n.Title = strings.TrimSpace(n.Title)
	n.Description = strings.TrimSpace(n.Description)
	if l := utf8.RuneCountInString(n.Title); l < 1 || l > maxQuestTitle {
		return fmt.Errorf("%w: title must be 1-%d characters", ErrInvalidQuest, maxQuestTitle)
	}
	if utf8.RuneCountInString(n.Description) > maxQuestDescription {
		return fmt.Errorf("%w: description must be at most %d characters", ErrInvalidQuest, maxQuestDescription)
	}
	if !n.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidQuest, n.Category)
	}
	if !n.Difficulty.Valid() {
		return fmt.Errorf("%w: unknown difficulty %q", ErrInvalidQuest, n.Difficulty)
	}
	if n.Rewards.XP < 0 || n.Rewards.Gold < 0 {
		return fmt.Errorf("%w: rewards must not be negative", ErrInvalidQuest)
	}
	return nil
}

// CreateQuest stores a custom quest. Zero rewards default from the difficulty.
func CreateQuest(repo QuestRepo, playerUUID string, in NewQuest) (*game.Quest, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	u, err := loadUser(repo, playerUUID)
	if err != nil {
		return nil, err
	}
	rewards := in.Rewards
	if rewards == (game.Rewards{}) {
		if rewards, err = engine.DefaultRewards(in.Difficulty); err != nil {
			return nil, err
		}
	}
	q := game.Quest{
		UserID:      u.ID,
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Difficulty:  in.Difficulty,
		Rewards:     rewards,
		Custom:      true,
	}
	qs := []game.Quest{q}
	if err := repo.CreateQuests(qs); err != nil {
		return nil, fmt.Errorf("create quest: %w", err)
	}
	return &qs[0], nil
}

// loadOwnedQuest hides other users' quests behind ErrQuestNotFound.
func loadOwnedQuest(repo QuestRepo, u *game.User, questID uint) (*game.Quest, error) {
	q, err := repo.GetQuest(questID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrQuestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load quest: %w", err)
	}
	if q.UserID != u.ID {
		return nil, ErrQuestNotFound
	}
	return q, nil
}

// QuestProgress is returned by UpdateQuestProgress; Completion is set when
// the update finished the quest.
type QuestProgress struct {
	Quest      *game.Quest       `json:"quest"`
	Completion *CompletionResult `json:"completion,omitempty"`
}

// UpdateQuestProgress clamps progress to 0-100; reaching 100 completes the quest.
func UpdateQuestProgress(repo QuestRepo, rules *game.Rules, now time.Time, playerUUID string, questID uint, progress int) (*QuestProgress, error) {
	u, err := loadUser(repo, playerUUID)
	if err != nil {
		return nil, err
	}
	q, err := loadOwnedQuest(repo, u, questID)
	if err != nil {
		return nil, err
	}
	if q.Completed {
		return nil, ErrQuestCompleted
	}
	progress = engine.ClampProgress(progress)
	if progress == 100 {
		res, err := completeQuest(repo, rules, now, u, q)
		if err != nil {
			return nil, err
		}
		return &QuestProgress{Quest: res.Quest, Completion: res}, nil
	}
	q.Progress = progress
	if err := repo.SaveQuest(q); err != nil {
		return nil, fmt.Errorf("save quest: %w", err)
	}
	return &QuestProgress{Quest: q}, nil
}

type CompletionResult struct {
	Quest          *game.Quest  `json:"quest"`
	Rewards        game.Rewards `json:"rewards"`
	LevelsGained   int          `json:"levels_gained"`
	Level          int          `json:"level"`
	Experience     int          `json:"experience"`
	Gold           int          `json:"gold"`
	UnlockedTitles []string     `json:"unlocked_titles"`
	UnlockedPerks  []string     `json:"unlocked_perks"`
	PlayerUUID     string       `json:"-"`
}

// CompleteQuest grants the quest rewards, boosted by active perks, and
// unlocks whatever the new level and quest count qualify for.
func CompleteQuest(repo QuestRepo, rules *game.Rules, now time.Time, playerUUID string, questID uint) (*CompletionResult, error) {
	u, err := loadUser(repo, playerUUID)
	if err != nil {
		return nil, err
	}
	q, err := loadOwnedQuest(repo, u, questID)
	if err != nil {
		return nil, err
	}
	if q.Completed {
		return nil, ErrQuestCompleted
	}
	return completeQuest(repo, rules, now, u, q)
}

func completeQuest(repo QuestRepo, rules *game.Rules, now time.Time, u *game.User, q *game.Quest) (*CompletionResult, error) {
	perks, err := repo.ListUserPerks(u.ID)
	if err != nil {
		return nil, fmt.Errorf("list perks: %w", err)
	}
	rewards := engine.ApplyPerkBonuses(q.Rewards, q.Category, activePerkDefs(rules, perks))

	before := u.Level
	progress := rewards.Progress()
	progress.Quests = 1

	completedAt := now
	q.Completed = true
	q.Progress = 100
	q.CompletedAt = &completedAt

	c := &game.QuestCompletion{
		UserID:      u.ID,
		QuestID:     q.ID,
		XPAwarded:   rewards.XP,
		GoldAwarded: rewards.Gold,
		CompletedAt: now,
	}
	if err := repo.RecordQuestCompletion(u, q, c, progress); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return nil, ErrQuestCompleted
		}
		return nil, fmt.Errorf("record completion: %w", err)
	}

	st, err := syncUnlocks(repo, rules, u, now)
	if err != nil {
		return nil, err
	}
	return &CompletionResult{
		Quest:          q,
		Rewards:        rewards,
		LevelsGained:   levelsSince(before, u),
		Level:          u.Level,
		Experience:     u.Experience,
		Gold:           u.Gold,
		UnlockedTitles: nonNil(st.newTitles),
		UnlockedPerks:  nonNil(st.newPerks),
		PlayerUUID:     u.PlayerUUID,
	}, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
