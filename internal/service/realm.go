package service

import (
	"errors"
	"fmt"

	"github.com/jillesblokker/level-up-dashboard-sub009/internal/dedupe"
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/engine"
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/game"
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/keys"
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/storage"
)

// Experience granted for every building placed on the realm grid.
const PlaceTileXP = 5

type RealmRepo interface {
	GetUserByUUID(uuid string) (*game.User, error)
	GetRealm(userID uint) (*game.Realm, error)
	CreateRealm(r *game.Realm) error
	RevealRealmCell(u *game.User, cell *game.RealmTile, p game.Progress) error
	BuildRealmCell(u *game.User, cell *game.RealmTile, p game.Progress) error
}

// GetRealm loads the user's realm, generating it with seed on first access.
func GetRealm(repo RealmRepo, rules *game.Rules, playerUUID string, seed int64) (*game.Realm, error) {
	u, err := loadUser(repo, playerUUID)
	if err != nil {
		return nil, err
	}
	return loadOrCreateRealm(repo, rules, u, seed)
}

func loadOrCreateRealm(repo RealmRepo, rules *game.Rules, u *game.User, seed int64) (*game.Realm, error) {
	r, err := repo.GetRealm(u.ID)
	if err == nil {
		engine.FillConnections(r.Cells)
		return r, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("load realm: %w", err)
	}

	v, err, _ := dedupe.RealmGroup.Do(keys.Realm(u.ID), func() (interface{}, error) {
		realm := engine.GenerateRealm(u.ID, rules.Realm, seed)
		if err := repo.CreateRealm(realm); err != nil {
			// Another process generated it first.
			if errors.Is(err, storage.ErrConflict) {
				return repo.GetRealm(u.ID)
			}
			return nil, err
		}
		return realm, nil
	})
	if err != nil {
		return nil, fmt.Errorf("create realm: %w", err)
	}
	realm := v.(*game.Realm)
	// Callers sharing the flight must not share the slice.
	out := *realm
	out.Cells = append([]game.RealmTile(nil), realm.Cells...)
	engine.FillConnections(out.Cells)
	return &out, nil
}

// CellChange is the outcome of a reveal or placement.
type CellChange struct {
	Cell       game.RealmTile `json:"cell"`
	GoldSpent  int            `json:"gold_spent"`
	GoldFound  int            `json:"gold_found"`
	XPGained   int            `json:"xp_gained"`
	Gold       int            `json:"gold"`
	Experience int            `json:"experience"`
	Level      int            `json:"level"`
}

// RevealCell uncovers a hidden cell next to the revealed area. Treasure pays
// out and becomes grass.
func RevealCell(repo RealmRepo, rules *game.Rules, playerUUID string, x, y int, seed int64) (*CellChange, error) {
	u, err := loadUser(repo, playerUUID)
	if err != nil {
		return nil, err
	}
	r, err := loadOrCreateRealm(repo, rules, u, seed)
	if err != nil {
		return nil, err
	}
	cell, err := engine.CheckReveal(r, x, y)
	if err != nil {
		return nil, err
	}
	cost := rules.Realm.RevealCost
	if u.Gold < cost {
		return nil, ErrInsufficientGold
	}

	found := 0
	next := *cell
	next.Revealed = true
	if next.Type == game.TileTreasure {
		found = rules.Realm.TreasureGold
		next.Type = game.TileGrass
	}
	err = repo.RevealRealmCell(u, &next, game.Progress{Gold: found, Cost: cost})
	switch {
	case errors.Is(err, storage.ErrInsufficientFunds):
		return nil, ErrInsufficientGold
	case errors.Is(err, storage.ErrConflict):
		return nil, engine.ErrAlreadyRevealed
	case err != nil:
		return nil, fmt.Errorf("save cell: %w", err)
	}
	*cell = next
	cell.Connections = engine.Connections(cell.Type, cell.Rotation)
	return &CellChange{
		Cell:       *cell,
		GoldSpent:  cost,
		GoldFound:  found,
		Gold:       u.Gold,
		Experience: u.Experience,
		Level:      u.Level,
	}, nil
}

type Placement struct {
	X        int           `json:"x"`
	Y        int           `json:"y"`
	Type     game.TileType `json:"type" binding:"required"`
	Rotation int           `json:"rotation"`
}

// PlaceTile builds on a revealed empty or grass cell.
func PlaceTile(repo RealmRepo, rules *game.Rules, playerUUID string, p Placement, seed int64) (*CellChange, error) {
	u, err := loadUser(repo, playerUUID)
	if err != nil {
		return nil, err
	}
	r, err := loadOrCreateRealm(repo, rules, u, seed)
	if err != nil {
		return nil, err
	}
	cell, err := engine.CheckPlacement(r, p.X, p.Y, p.Type, p.Rotation)
	if err != nil {
		return nil, err
	}
	cost := rules.Realm.TileCost(p.Type)
	if u.Gold < cost {
		return nil, ErrInsufficientGold
	}

	next := *cell
	next.Type = p.Type
	next.Rotation = p.Rotation
	err = repo.BuildRealmCell(u, &next, game.Progress{XP: PlaceTileXP, Cost: cost})
	switch {
	case errors.Is(err, storage.ErrInsufficientFunds):
		return nil, ErrInsufficientGold
	case errors.Is(err, storage.ErrConflict):
		return nil, engine.ErrCellOccupied
	case err != nil:
		return nil, fmt.Errorf("save cell: %w", err)
	}
	*cell = next
	cell.Connections = engine.Connections(cell.Type, cell.Rotation)
	return &CellChange{
		Cell:       *cell,
		GoldSpent:  cost,
		XPGained:   PlaceTileXP,
		Gold:       u.Gold,
		Experience: u.Experience,
		Level:      u.Level,
	}, nil
}
