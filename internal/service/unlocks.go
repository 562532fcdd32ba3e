package service

import (
	"fmt"
	"time"

	"github.com/jillesblokker/level-up-dashboard-sub009/internal/engine"
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/game"
)

// UnlockRepo reads and grants perk and title unlocks.
type UnlockRepo interface {
	ListUserPerks(userID uint) ([]game.UserPerk, error)
	ListUserTitles(userID uint) ([]game.UserTitle, error)
	AddUnlocks(perks []game.UserPerk, titles []game.UserTitle) error
}

type unlockState struct {
	perks  []game.UserPerk
	titles []game.UserTitle
	// keys granted by this sync
	newPerks  []string
	newTitles []string
}

// syncUnlocks grants every perk and title the user now qualifies for and
// returns the complete unlock state.
func syncUnlocks(repo UnlockRepo, rules *game.Rules, u *game.User, now time.Time) (*unlockState, error) {
	perks, err := repo.ListUserPerks(u.ID)
	if err != nil {
		return nil, fmt.Errorf("list perks: %w", err)
	}
	titles, err := repo.ListUserTitles(u.ID)
	if err != nil {
		return nil, fmt.Errorf("list titles: %w", err)
	}
	st := &unlockState{perks: perks, titles: titles}

	havePerk := make(map[string]bool, len(perks))
	for _, p := range perks {
		havePerk[p.PerkKey] = true
	}
	haveTitle := make(map[string]bool, len(titles))
	for _, t := range titles {
		haveTitle[t.TitleKey] = true
	}

	var addPerks []game.UserPerk
	for _, def := range engine.UnlockedPerks(u.Level, rules.Perks) {
		if !havePerk[def.Key] {
			addPerks = append(addPerks, game.UserPerk{UserID: u.ID, PerkKey: def.Key, UnlockedAt: now})
			st.newPerks = append(st.newPerks, def.Key)
		}
	}
	var addTitles []game.UserTitle
	for _, def := range engine.UnlockedTitles(u.Level, u.QuestsCompleted, rules.Titles) {
		if !haveTitle[def.Key] {
			addTitles = append(addTitles, game.UserTitle{UserID: u.ID, TitleKey: def.Key, UnlockedAt: now})
			st.newTitles = append(st.newTitles, def.Key)
		}
	}
	if len(addPerks) == 0 && len(addTitles) == 0 {
		return st, nil
	}
	if err := repo.AddUnlocks(addPerks, addTitles); err != nil {
		return nil, fmt.Errorf("add unlocks: %w", err)
	}
	st.perks = append(st.perks, addPerks...)
	st.titles = append(st.titles, addTitles...)
	return st, nil
}

// activePerkDefs resolves the catalog entries of the user's active perks.
func activePerkDefs(rules *game.Rules, perks []game.UserPerk) []game.PerkDef {
	out := make([]game.PerkDef, 0, len(perks))
	for _, p := range perks {
		if !p.Active {
			continue
		}
		if def, ok := rules.Perk(p.PerkKey); ok {
			out = append(out, def)
		}
	}
	return out
}
