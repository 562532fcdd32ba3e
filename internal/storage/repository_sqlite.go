package storage

import (
	"time"

	"github.com/google/uuid"
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/engine"
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/game"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type sqliteRepository struct {
	db *gorm.DB
}

func NewSQLiteRepository(db *gorm.DB) Repository {
	return &sqliteRepository{db: db}
}

func (r *sqliteRepository) GetUserByUUID(id string) (*game.User, error) {
	var u game.User
	if err := r.db.Where("player_uuid = ?", id).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *sqliteRepository) GetUsersByUUIDs(ids []string) ([]game.User, error) {
	var users []game.User
	if len(ids) == 0 {
		return users, nil
	}
	if err := r.db.Where("player_uuid IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *sqliteRepository) UpsertLogin(email, name, provider, avatarURL string, now time.Time) (*game.User, error) {
	var u game.User
	err := r.db.Where("email = ?", email).First(&u).Error
	if err == gorm.ErrRecordNotFound {
		u = game.User{
			Email:       email,
			PlayerUUID:  uuid.NewString(),
			PlayerName:  name,
			Provider:    provider,
			AvatarURL:   avatarURL,
			Level:       1,
			LastLoginAt: now,
		}
		if err := r.db.Create(&u).Error; err != nil {
			return nil, translate(err)
		}
		return &u, nil
	}
	if err != nil {
		return nil, err
	}
	// A custom display name chosen in the profile survives later logins.
	if u.PlayerName == "" {
		u.PlayerName = name
	}
	if avatarURL != "" && avatarURL != u.AvatarURL {
		u.AvatarURL = avatarURL
		u.AvatarPNG = nil
	}
	u.Provider = provider
	u.LastLoginAt = now
	// Progression columns belong to AddProgress.
	err = r.db.Model(&u).
		Select("player_name", "provider", "avatar_url", "avatar_png", "last_login_at").
		Updates(&u).Error
	if err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *sqliteRepository) UpdateProfile(u *game.User) error {
	res := r.db.Model(&game.User{}).Where("id = ?", u.ID).Updates(map[string]interface{}{
		"player_name":    u.PlayerName,
		"equipped_title": u.EquippedTitle,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *sqliteRepository) AddProgress(u *game.User, p game.Progress) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return applyProgress(tx, u, p)
	})
}

// applyProgress adds p to the stored user row in one UPDATE, reloads u and
// stores the level its experience earns. A cost above the stored gold fails
// with ErrInsufficientFunds and changes nothing.
func applyProgress(tx *gorm.DB, u *game.User, p game.Progress) error {
	q := tx.Model(&game.User{}).Where("id = ?", u.ID)
	if p.Cost > 0 {
		q = q.Where("gold >= ?", p.Cost)
	}
	res := q.Updates(map[string]interface{}{
		"experience":              gorm.Expr("experience + ?", p.XP),
		"gold":                    gorm.Expr("gold + ?", p.Gold-p.Cost),
		"quests_completed":        gorm.Expr("quests_completed + ?", p.Quests),
		"quests_since_last_spawn": gorm.Expr("quests_since_last_spawn + ?", p.Quests),
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		if p.Cost > 0 {
			return ErrInsufficientFunds
		}
		return ErrNotFound
	}
	if err := tx.First(u, u.ID).Error; err != nil {
		return translate(err)
	}
	level := engine.LevelForXP(u.Experience)
	if level == u.Level {
		return nil
	}
	u.Level = level
	return tx.Model(&game.User{}).Where("id = ?", u.ID).Update("level", level).Error
}

func (r *sqliteRepository) SaveAvatar(id string, png []byte) error {
	res := r.db.Model(&game.User{}).Where("player_uuid = ?", id).Update("avatar_png", png)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *sqliteRepository) GetTopPlayers(limit int) ([]game.User, error) {
	if limit <= 0 {
		limit = 10
	}
	var users []game.User
	if err := r.db.Model(&game.User{}).
		Order("experience DESC").
		Order("id ASC").
		Limit(limit).
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *sqliteRepository) ListQuests(userID uint) ([]game.Quest, error) {
	var qs []game.Quest
	if err := r.db.Where("user_id = ?", userID).Order("id").Find(&qs).Error; err != nil {
		return nil, err
	}
	return qs, nil
}

func (r *sqliteRepository) CreateQuests(qs []game.Quest) error {
	if len(qs) == 0 {
		return nil
	}
	return translate(r.db.Create(&qs).Error)
}

func (r *sqliteRepository) GetQuest(id uint) (*game.Quest, error) {
	var q game.Quest
	if err := r.db.First(&q, id).Error; err != nil {
		return nil, translate(err)
	}
	return &q, nil
}

func (r *sqliteRepository) SaveQuest(q *game.Quest) error {
	return translate(r.db.Save(q).Error)
}

func (r *sqliteRepository) RecordQuestCompletion(u *game.User, q *game.Quest, c *game.QuestCompletion, p game.Progress) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&game.Quest{}).
			Where("id = ? AND completed = ?", q.ID, false).
			Updates(map[string]interface{}{
				"completed":    true,
				"progress":     100,
				"completed_at": c.CompletedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrConflict
		}
		if err := tx.Create(c).Error; err != nil {
			return translate(err)
		}
		return applyProgress(tx, u, p)
	})
}

func (r *sqliteRepository) ListUserPerks(userID uint) ([]game.UserPerk, error) {
	var perks []game.UserPerk
	if err := r.db.Where("user_id = ?", userID).Order("id").Find(&perks).Error; err != nil {
		return nil, err
	}
	return perks, nil
}

func (r *sqliteRepository) ListUserTitles(userID uint) ([]game.UserTitle, error) {
	var titles []game.UserTitle
	if err := r.db.Where("user_id = ?", userID).Order("id").Find(&titles).Error; err != nil {
		return nil, err
	}
	return titles, nil
}

func (r *sqliteRepository) AddUnlocks(perks []game.UserPerk, titles []game.UserTitle) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		skip := tx.Clauses(clause.OnConflict{DoNothing: true})
		if len(perks) > 0 {
			if err := skip.Create(&perks).Error; err != nil {
				return err
			}
		}
		if len(titles) > 0 {
			if err := skip.Create(&titles).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *sqliteRepository) SaveUserPerk(p *game.UserPerk) error {
	return translate(r.db.Save(p).Error)
}

func (r *sqliteRepository) GetRealm(userID uint) (*game.Realm, error) {
	var realm game.Realm
	err := r.db.Preload("Cells", func(db *gorm.DB) *gorm.DB {
		return db.Order("y ASC").Order("x ASC")
	}).Where("user_id = ?", userID).First(&realm).Error
	if err != nil {
		return nil, translate(err)
	}
	return &realm, nil
}

func (r *sqliteRepository) CreateRealm(realm *game.Realm) error {
	return translate(r.db.Create(realm).Error)
}

func (r *sqliteRepository) RevealRealmCell(u *game.User, cell *game.RealmTile, p game.Progress) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&game.RealmTile{}).
			Where("user_id = ? AND x = ? AND y = ? AND revealed = ?", u.ID, cell.X, cell.Y, false).
			Updates(map[string]interface{}{
				"revealed": true,
				"type":     cell.Type,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrConflict
		}
		return applyProgress(tx, u, p)
	})
}

func (r *sqliteRepository) BuildRealmCell(u *game.User, cell *game.RealmTile, p game.Progress) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&game.RealmTile{}).
			Where("user_id = ? AND x = ? AND y = ? AND revealed = ? AND type IN ?",
				u.ID, cell.X, cell.Y, true, []string{string(game.TileEmpty), string(game.TileGrass)}).
			Updates(map[string]interface{}{
				"type":     cell.Type,
				"rotation": cell.Rotation,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrConflict
		}
		return applyProgress(tx, u, p)
	})
}

func (r *sqliteRepository) ListActiveSpawns(userID uint) ([]game.MonsterSpawn, error) {
	var spawns []game.MonsterSpawn
	if err := r.db.Where("user_id = ? AND (defeated = ? OR reward_claimed = ?)", userID, false, false).
		Order("id").Find(&spawns).Error; err != nil {
		return nil, err
	}
	return spawns, nil
}

func (r *sqliteRepository) GetSpawn(id uint) (*game.MonsterSpawn, error) {
	var s game.MonsterSpawn
	if err := r.db.First(&s, id).Error; err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (r *sqliteRepository) CreateSpawn(s *game.MonsterSpawn) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(s).Error; err != nil {
			return err
		}
		return tx.Model(&game.User{}).Where("id = ?", s.UserID).Update("quests_since_last_spawn", 0).Error
	})
}

func (r *sqliteRepository) SaveSpawn(s *game.MonsterSpawn) error {
	return translate(r.db.Save(s).Error)
}

func (r *sqliteRepository) ClaimSpawnReward(u *game.User, s *game.MonsterSpawn, p game.Progress) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&game.MonsterSpawn{}).
			Where("id = ? AND defeated = ? AND reward_claimed = ?", s.ID, true, false).
			Update("reward_claimed", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrConflict
		}
		s.RewardClaimed = true
		return applyProgress(tx, u, p)
	})
}

func (r *sqliteRepository) CreateAlliance(a *game.Alliance) error {
	return translate(r.db.Create(a).Error)
}

func (r *sqliteRepository) GetAlliance(id uint) (*game.Alliance, error) {
	var a game.Alliance
	err := r.db.Preload("Members", func(db *gorm.DB) *gorm.DB {
		return db.Order("joined_at ASC").Order("id ASC")
	}).First(&a, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (r *sqliteRepository) FindAllianceByJoinCode(code string) (*game.Alliance, error) {
	var a game.Alliance
	if err := r.db.Where("join_code = ?", code).First(&a).Error; err != nil {
		return nil, translate(err)
	}
	return r.GetAlliance(a.ID)
}

func (r *sqliteRepository) ListAlliancesForPlayer(playerUUID string) ([]game.Alliance, error) {
	var alliances []game.Alliance
	sub := r.db.Model(&game.AllianceMember{}).Select("alliance_id").Where("player_uuid = ?", playerUUID)
	err := r.db.Preload("Members", func(db *gorm.DB) *gorm.DB {
		return db.Order("joined_at ASC").Order("id ASC")
	}).Where("id IN (?)", sub).Order("id").Find(&alliances).Error
	if err != nil {
		return nil, err
	}
	return alliances, nil
}

func (r *sqliteRepository) AddAllianceMember(m *game.AllianceMember, max int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		// Writing the alliance row first serializes joins to the same alliance.
		res := tx.Model(&game.Alliance{}).Where("id = ?", m.AllianceID).Update("updated_at", m.JoinedAt)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		var dup int64
		if err := tx.Model(&game.AllianceMember{}).
			Where("alliance_id = ? AND player_uuid = ?", m.AllianceID, m.PlayerUUID).
			Count(&dup).Error; err != nil {
			return err
		}
		if dup > 0 {
			return ErrConflict
		}
		var n int64
		if err := tx.Model(&game.AllianceMember{}).Where("alliance_id = ?", m.AllianceID).Count(&n).Error; err != nil {
			return err
		}
		if max > 0 && n >= int64(max) {
			return ErrLimitReached
		}
		return translate(tx.Create(m).Error)
	})
}

func (r *sqliteRepository) RemoveAllianceMember(allianceID uint, playerUUID string) error {
	res := r.db.Unscoped().Where("alliance_id = ? AND player_uuid = ?", allianceID, playerUUID).Delete(&game.AllianceMember{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *sqliteRepository) SaveAlliance(a *game.Alliance) error {
	err := r.db.Model(&game.Alliance{}).Where("id = ?", a.ID).Updates(map[string]interface{}{
		"name":        a.Name,
		"description": a.Description,
		"owner_uuid":  a.OwnerUUID,
	}).Error
	return translate(err)
}

func (r *sqliteRepository) DeleteAlliance(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("alliance_id = ?", id).Delete(&game.AllianceMember{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("alliance_id = ?", id).Delete(&game.AllianceCheckIn{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&game.Alliance{}, id).Error
	})
}

func (r *sqliteRepository) RecordCheckIn(a *game.Alliance, m *game.AllianceMember, ci *game.AllianceCheckIn, u *game.User, p game.Progress) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(ci).Error; err != nil {
			return translate(err)
		}
		err := tx.Model(&game.Alliance{}).Where("id = ?", a.ID).Updates(map[string]interface{}{
			"current_streak": a.CurrentStreak,
			"longest_streak": a.LongestStreak,
			"last_check_in":  a.LastCheckIn,
		}).Error
		if err != nil {
			return err
		}
		err = tx.Model(&game.AllianceMember{}).Where("id = ?", m.ID).Update("last_check_in", m.LastCheckIn).Error
		if err != nil {
			return err
		}
		return applyProgress(tx, u, p)
	})
}

func (r *sqliteRepository) ResetExpiredStreaks(cutoff time.Time) (int64, error) {
	res := r.db.Model(&game.Alliance{}).
		Where("current_streak > ? AND last_check_in < ?", 0, cutoff).
		Update("current_streak", 0)
	return res.RowsAffected, res.Error
}
