package service

import (
	"fmt"
	"time"

	"github.com/jillesblokker/level-up-dashboard-sub009/internal/engine"
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/game"
)

type CharacterRepo interface {
	UnlockRepo
	GetUserByUUID(uuid string) (*game.User, error)
	UpdateProfile(u *game.User) error
	SaveUserPerk(p *game.UserPerk) error
}

// GetCharacterStats syncs unlocks before summarizing, so a catalog change
// shows up without another quest completion.
func GetCharacterStats(repo CharacterRepo, rules *game.Rules, now time.Time, playerUUID string) (*game.CharacterStats, error) {
	u, err := loadUser(repo, playerUUID)
	if err != nil {
		return nil, err
	}
	st, err := syncUnlocks(repo, rules, u, now)
	if err != nil {
		return nil, err
	}
	active := 0
	for _, p := range st.perks {
		if p.Active {
			active++
		}
	}
	return &game.CharacterStats{
		Level:                 u.Level,
		Experience:            u.Experience,
		ExperienceToNextLevel: engine.XPToNextLevel(u.Experience),
		Gold:                  u.Gold,
		QuestsCompleted:       u.QuestsCompleted,
		Titles: game.TitleSummary{
			Equipped: u.EquippedTitle,
			Unlocked: len(st.titles),
			Total:    len(rules.Titles),
		},
		Perks: game.PerkSummary{
			Active: active,
			Total:  len(rules.Perks),
		},
	}, nil
}

type PerkView struct {
	game.PerkDef
	Active     bool      `json:"active"`
	UnlockedAt time.Time `json:"unlocked_at"`
}

// ListCharacterPerks returns the unlocked perks in catalog order.
func ListCharacterPerks(repo CharacterRepo, rules *game.Rules, now time.Time, playerUUID string) ([]PerkView, error) {
	u, err := loadUser(repo, playerUUID)
	if err != nil {
		return nil, err
	}
	st, err := syncUnlocks(repo, rules, u, now)
	if err != nil {
		return nil, err
	}
	byKey := make(map[string]game.UserPerk, len(st.perks))
	for _, p := range st.perks {
		byKey[p.PerkKey] = p
	}
	out := make([]PerkView, 0, len(st.perks))
	for _, def := range rules.Perks {
		p, ok := byKey[def.Key]
		if !ok {
			continue
		}
		out = append(out, PerkView{PerkDef: def, Active: p.Active, UnlockedAt: p.UnlockedAt})
	}
	return out, nil
}

// SetPerkActive toggles an unlocked perk, respecting the level based slot limit.
func SetPerkActive(repo CharacterRepo, rules *game.Rules, now time.Time, playerUUID, perkKey string, active bool) (*PerkView, error) {
	def, ok := rules.Perk(perkKey)
	if !ok {
		return nil, ErrPerkNotFound
	}
	u, err := loadUser(repo, playerUUID)
	if err != nil {
		return nil, err
	}
	st, err := syncUnlocks(repo, rules, u, now)
	if err != nil {
		return nil, err
	}
	var target *game.UserPerk
	inUse := 0
	for i := range st.perks {
		if st.perks[i].PerkKey == perkKey {
			target = &st.perks[i]
		} else if st.perks[i].Active {
			inUse++
		}
	}
	if target == nil {
		return nil, ErrPerkLocked
	}
	if active && !target.Active && inUse >= engine.MaxActivePerks(u.Level) {
		return nil, ErrPerkLimit
	}
	if target.Active != active {
		target.Active = active
		if err := repo.SaveUserPerk(target); err != nil {
			return nil, fmt.Errorf("save perk: %w", err)
		}
	}
	return &PerkView{PerkDef: def, Active: target.Active, UnlockedAt: target.UnlockedAt}, nil
}

type TitleView struct {
	game.TitleDef
	Unlocked   bool       `json:"unlocked"`
	Equipped   bool       `json:"equipped"`
	UnlockedAt *time.Time `json:"unlocked_at"`
}

// ListCharacterTitles returns the whole title catalog with the user's state.
func ListCharacterTitles(repo CharacterRepo, rules *game.Rules, now time.Time, playerUUID string) ([]TitleView, error) {
	u, err := loadUser(repo, playerUUID)
	if err != nil {
		return nil, err
	}
	st, err := syncUnlocks(repo, rules, u, now)
	if err != nil {
		return nil, err
	}
	byKey := make(map[string]game.UserTitle, len(st.titles))
	for _, t := range st.titles {
		byKey[t.TitleKey] = t
	}
	out := make([]TitleView, 0, len(rules.Titles))
	for _, def := range rules.Titles {
		v := TitleView{TitleDef: def, Equipped: u.EquippedTitle == def.Key}
		if t, ok := byKey[def.Key]; ok {
			at := t.UnlockedAt
			v.Unlocked = true
			v.UnlockedAt = &at
		}
		out = append(out, v)
	}
	return out, nil
}

// EquipTitle sets the displayed title. An empty key unequips.
func EquipTitle(repo CharacterRepo, rules *game.Rules, now time.Time, playerUUID, titleKey string) (*game.User, error) {
	if titleKey != "" {
		if _, ok := rules.Title(titleKey); !ok {
			return nil, ErrTitleNotFound
		}
	}
	u, err := loadUser(repo, playerUUID)
	if err != nil {
		return nil, err
	}
	if titleKey != "" {
		st, err := syncUnlocks(repo, rules, u, now)
		if err != nil {
			return nil, err
		}
		unlocked := false
		for _, t := range st.titles {
			if t.TitleKey == titleKey {
				unlocked = true
				break
			}
		}
		if !unlocked {
			return nil, ErrTitleLocked
		}
	}
	u.EquippedTitle = titleKey
	if err := repo.UpdateProfile(u); err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}
	return u, nil
}
