package service

import (
	"sort"
	"strings"
	"time"

	"github.com/jillesblokker/level-up-dashboard-sub009/internal/engine"
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/game"
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/storage"
)

// fakeRepo keeps everything in maps. It copies on read and write so tests
// observe only what was saved.
type fakeRepo struct {
	nextID uint

	users       map[string]*game.User
	quests      map[uint]*game.Quest
	completions map[uint]*game.QuestCompletion
	perks       []game.UserPerk
	titles      []game.UserTitle
	realms      map[uint]*game.Realm
	spawns      map[uint]*game.MonsterSpawn
	alliances   map[uint]*game.Alliance
	checkIns    map[string]bool

	realmCreates int
	// failCodes makes CreateAlliance report a join code collision this many times.
	failCodes int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users:       map[string]*game.User{},
		quests:      map[uint]*game.Quest{},
		completions: map[uint]*game.QuestCompletion{},
		realms:      map[uint]*game.Realm{},
		spawns:      map[uint]*game.MonsterSpawn{},
		alliances:   map[uint]*game.Alliance{},
		checkIns:    map[string]bool{},
	}
}

func (f *fakeRepo) id() uint {
	f.nextID++
	return f.nextID
}

func (f *fakeRepo) addUser(playerUUID string, level, xp, gold int) *game.User {
	u := &game.User{PlayerUUID: playerUUID, PlayerName: "Player " + playerUUID, Level: level, Experience: xp, Gold: gold}
	u.ID = f.id()
	f.users[playerUUID] = u
	cp := *u
	return &cp
}

func (f *fakeRepo) user(playerUUID string) game.User {
	return *f.users[playerUUID]
}

func (f *fakeRepo) GetUserByUUID(id string) (*game.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeRepo) UpdateProfile(u *game.User) error {
	stored, ok := f.users[u.PlayerUUID]
	if !ok {
		return storage.ErrNotFound
	}
	stored.PlayerName = u.PlayerName
	stored.EquippedTitle = u.EquippedTitle
	return nil
}

// addProgress mirrors the sqlite repository: the delta lands on the stored
// row and u is refreshed from it.
func (f *fakeRepo) addProgress(u *game.User, p game.Progress) error {
	stored, ok := f.users[u.PlayerUUID]
	if !ok {
		return storage.ErrNotFound
	}
	if p.Cost > 0 && stored.Gold < p.Cost {
		return storage.ErrInsufficientFunds
	}
	stored.Experience += p.XP
	stored.Gold += p.Gold - p.Cost
	stored.Level = engine.LevelForXP(stored.Experience)
	stored.QuestsCompleted += p.Quests
	stored.QuestsSinceLastSpawn += p.Quests
	*u = *stored
	return nil
}

func (f *fakeRepo) ListQuests(userID uint) ([]game.Quest, error) {
	var out []game.Quest
	for _, q := range f.quests {
		if q.UserID == userID {
			out = append(out, *q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeRepo) CreateQuests(qs []game.Quest) error {
	for i := range qs {
		qs[i].ID = f.id()
		cp := qs[i]
		f.quests[cp.ID] = &cp
	}
	return nil
}

func (f *fakeRepo) GetQuest(id uint) (*game.Quest, error) {
	q, ok := f.quests[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *q
	return &cp, nil
}

func (f *fakeRepo) SaveQuest(q *game.Quest) error {
	cp := *q
	f.quests[q.ID] = &cp
	return nil
}

func (f *fakeRepo) RecordQuestCompletion(u *game.User, q *game.Quest, c *game.QuestCompletion, p game.Progress) error {
	if f.quests[q.ID].Completed {
		return storage.ErrConflict
	}
	if err := f.addProgress(u, p); err != nil {
		return err
	}
	if err := f.SaveQuest(q); err != nil {
		return err
	}
	cp := *c
	f.completions[q.ID] = &cp
	return nil
}

func (f *fakeRepo) ListUserPerks(userID uint) ([]game.UserPerk, error) {
	var out []game.UserPerk
	for _, p := range f.perks {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListUserTitles(userID uint) ([]game.UserTitle, error) {
	var out []game.UserTitle
	for _, t := range f.titles {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeRepo) AddUnlocks(perks []game.UserPerk, titles []game.UserTitle) error {
	for _, p := range perks {
		p.ID = f.id()
		f.perks = append(f.perks, p)
	}
	for _, t := range titles {
		t.ID = f.id()
		f.titles = append(f.titles, t)
	}
	return nil
}

func (f *fakeRepo) SaveUserPerk(p *game.UserPerk) error {
	for i := range f.perks {
		if f.perks[i].UserID == p.UserID && f.perks[i].PerkKey == p.PerkKey {
			f.perks[i] = *p
			return nil
		}
	}
	return storage.ErrNotFound
}

func (f *fakeRepo) GetRealm(userID uint) (*game.Realm, error) {
	r, ok := f.realms[userID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *r
	cp.Cells = append([]game.RealmTile(nil), r.Cells...)
	return &cp, nil
}

func (f *fakeRepo) CreateRealm(r *game.Realm) error {
	if _, ok := f.realms[r.UserID]; ok {
		return storage.ErrConflict
	}
	f.realmCreates++
	cp := *r
	cp.Cells = append([]game.RealmTile(nil), r.Cells...)
	f.realms[r.UserID] = &cp
	return nil
}

func (f *fakeRepo) storedCell(userID uint, x, y int) *game.RealmTile {
	r := f.realms[userID]
	for i := range r.Cells {
		if r.Cells[i].X == x && r.Cells[i].Y == y {
			return &r.Cells[i]
		}
	}
	return nil
}

func (f *fakeRepo) RevealRealmCell(u *game.User, cell *game.RealmTile, p game.Progress) error {
	stored := f.storedCell(u.ID, cell.X, cell.Y)
	if stored == nil || stored.Revealed {
		return storage.ErrConflict
	}
	if err := f.addProgress(u, p); err != nil {
		return err
	}
	stored.Revealed = true
	stored.Type = cell.Type
	return nil
}

func (f *fakeRepo) BuildRealmCell(u *game.User, cell *game.RealmTile, p game.Progress) error {
	stored := f.storedCell(u.ID, cell.X, cell.Y)
	if stored == nil || !stored.Revealed || (stored.Type != game.TileEmpty && stored.Type != game.TileGrass) {
		return storage.ErrConflict
	}
	if err := f.addProgress(u, p); err != nil {
		return err
	}
	stored.Type = cell.Type
	stored.Rotation = cell.Rotation
	return nil
}

func (f *fakeRepo) ListActiveSpawns(userID uint) ([]game.MonsterSpawn, error) {
	var out []game.MonsterSpawn
	for _, s := range f.spawns {
		if s.UserID == userID && s.Active() {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeRepo) GetSpawn(id uint) (*game.MonsterSpawn, error) {
	s, ok := f.spawns[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeRepo) CreateSpawn(s *game.MonsterSpawn) error {
	s.ID = f.id()
	cp := *s
	f.spawns[s.ID] = &cp
	for _, u := range f.users {
		if u.ID == s.UserID {
			u.QuestsSinceLastSpawn = 0
		}
	}
	return nil
}

func (f *fakeRepo) SaveSpawn(s *game.MonsterSpawn) error {
	cp := *s
	f.spawns[s.ID] = &cp
	return nil
}

func (f *fakeRepo) ClaimSpawnReward(u *game.User, s *game.MonsterSpawn, p game.Progress) error {
	stored := f.spawns[s.ID]
	if !stored.Defeated || stored.RewardClaimed {
		return storage.ErrConflict
	}
	if err := f.addProgress(u, p); err != nil {
		return err
	}
	stored.RewardClaimed = true
	s.RewardClaimed = true
	return nil
}

func (f *fakeRepo) cloneAlliance(a *game.Alliance) *game.Alliance {
	cp := *a
	cp.Members = append([]game.AllianceMember(nil), a.Members...)
	return &cp
}

func (f *fakeRepo) CreateAlliance(a *game.Alliance) error {
	if f.failCodes > 0 {
		f.failCodes--
		return storage.ErrConflict
	}
	for _, other := range f.alliances {
		if other.JoinCode == a.JoinCode {
			return storage.ErrConflict
		}
	}
	a.ID = f.id()
	for i := range a.Members {
		a.Members[i].ID = f.id()
		a.Members[i].AllianceID = a.ID
	}
	f.alliances[a.ID] = f.cloneAlliance(a)
	return nil
}

func (f *fakeRepo) GetAlliance(id uint) (*game.Alliance, error) {
	a, ok := f.alliances[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return f.cloneAlliance(a), nil
}

func (f *fakeRepo) FindAllianceByJoinCode(code string) (*game.Alliance, error) {
	for _, a := range f.alliances {
		if a.JoinCode == code {
			return f.cloneAlliance(a), nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeRepo) ListAlliancesForPlayer(playerUUID string) ([]game.Alliance, error) {
	var out []game.Alliance
	for _, a := range f.alliances {
		if a.HasMember(playerUUID) {
			out = append(out, *f.cloneAlliance(a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeRepo) AddAllianceMember(m *game.AllianceMember, max int) error {
	a, ok := f.alliances[m.AllianceID]
	if !ok {
		return storage.ErrNotFound
	}
	if a.HasMember(m.PlayerUUID) {
		return storage.ErrConflict
	}
	if max > 0 && len(a.Members) >= max {
		return storage.ErrLimitReached
	}
	m.ID = f.id()
	a.Members = append(a.Members, *m)
	return nil
}

func (f *fakeRepo) RemoveAllianceMember(allianceID uint, playerUUID string) error {
	a, ok := f.alliances[allianceID]
	if !ok {
		return storage.ErrNotFound
	}
	for i, m := range a.Members {
		if m.PlayerUUID == playerUUID {
			a.Members = append(a.Members[:i], a.Members[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

func (f *fakeRepo) SaveAlliance(a *game.Alliance) error {
	stored, ok := f.alliances[a.ID]
	if !ok {
		return storage.ErrNotFound
	}
	stored.Name = a.Name
	stored.Description = a.Description
	stored.OwnerUUID = a.OwnerUUID
	return nil
}

func (f *fakeRepo) DeleteAlliance(id uint) error {
	delete(f.alliances, id)
	return nil
}

func (f *fakeRepo) RecordCheckIn(a *game.Alliance, m *game.AllianceMember, ci *game.AllianceCheckIn, u *game.User, p game.Progress) error {
	key := strings.Join([]string{ci.PlayerUUID, ci.Day}, "|")
	if f.checkIns[key] {
		return storage.ErrConflict
	}
	stored, ok := f.alliances[a.ID]
	if !ok {
		return storage.ErrNotFound
	}
	if err := f.addProgress(u, p); err != nil {
		return err
	}
	f.checkIns[key] = true
	stored.CurrentStreak = a.CurrentStreak
	stored.LongestStreak = a.LongestStreak
	stored.LastCheckIn = a.LastCheckIn
	for i := range stored.Members {
		if stored.Members[i].PlayerUUID == m.PlayerUUID {
			stored.Members[i].LastCheckIn = m.LastCheckIn
		}
	}
	return nil
}

func (f *fakeRepo) ResetExpiredStreaks(cutoff time.Time) (int64, error) {
	var n int64
	for _, a := range f.alliances {
		if a.CurrentStreak > 0 && a.LastCheckIn != nil && a.LastCheckIn.Before(cutoff) {
			a.CurrentStreak = 0
			n++
		}
	}
	return n, nil
}

func testRules() *game.Rules {
	return &game.Rules{
		Quests: []game.QuestDef{
			{Key: "walk", Title: "Walk", Category: game.CategoryVitality, Difficulty: game.DifficultyEasy},
			{Key: "read", Title: "Read", Category: game.CategoryKnowledge, Difficulty: game.DifficultyMedium, Rewards: game.Rewards{XP: 60, Gold: 5}},
		},
		Titles: []game.TitleDef{
			{Key: "novice", Name: "Novice", RequiredLevel: 1},
			{Key: "squire", Name: "Squire", RequiredLevel: 2, RequiredQuests: 1},
			{Key: "knight", Name: "Knight", RequiredLevel: 5, RequiredQuests: 10},
		},
		Perks: []game.PerkDef{
			{Key: "scholar", Name: "Scholar", RequiredLevel: 1, Category: game.CategoryKnowledge, XPBonusPercent: 50},
			{Key: "miser", Name: "Miser", RequiredLevel: 1, GoldBonusPercent: 10},
			{Key: "giant", Name: "Giant", RequiredLevel: 2, Category: game.CategoryMight, XPBonusPercent: 20},
		},
		Monsters: []game.MonsterDef{
			{Key: "slime", Name: "Slime", MinLevel: 1, Weight: 1, HitPoints: 5, Attack: 1, Defense: 0, Reward: game.Rewards{XP: 100, Gold: 30}},
			{Key: "dragon", Name: "Dragon", MinLevel: 1, Weight: 0, HitPoints: 5000, Attack: 500, Defense: 500, Reward: game.Rewards{XP: 1000, Gold: 1000}},
		},
		Realm: game.RealmSettings{
			Width: 5, Height: 5, RevealCost: 10, TreasureCount: 0, TreasureGold: 50,
			TileCosts: map[game.TileType]int{game.TileRoad: 15, game.TileForest: 5},
		},
		Spawn:    game.SpawnSettings{MaxActive: 1, BaseChance: 1, PerQuestChance: 0, MaxChance: 1},
		Alliance: game.AllianceSettings{MaxMembers: 2},
	}
}
