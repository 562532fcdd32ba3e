package engine

import (
	"errors"
	"math/rand"
	"sort"

	"github.com/jillesblokker/level-up-dashboard-sub009/internal/game"
)

var (
	ErrOutOfBounds      = errors.New("cell is outside the realm")
	ErrAlreadyRevealed  = errors.New("cell is already revealed")
	ErrNotAdjacent      = errors.New("cell is not next to a revealed cell")
	ErrNotRevealed      = errors.New("cell is not revealed")
	ErrCellOccupied     = errors.New("cell already holds a building")
	ErrTileNotPlaceable = errors.New("tile type cannot be placed")
	ErrInvalidRotation  = errors.New("rotation must be 0, 90, 180 or 270")
)

var baseConnections = map[game.TileType][]game.Direction{
	game.TileRoad:       {game.North, game.South},
	game.TileRoadCorner: {game.North, game.East},
	game.TileCrossroad:  {game.North, game.East, game.South, game.West},
	game.TileCastle:     {game.North, game.East, game.South, game.West},
	game.TileVillage:    {game.South},
}

func ValidRotation(r int) bool {
	return r == 0 || r == 90 || r == 180 || r == 270
}

func rotate(d game.Direction, steps int) game.Direction {
	for i, v := range game.Directions {
		if v == d {
			return game.Directions[(i+steps)%len(game.Directions)]
		}
	}
	return d
}

// Connections returns the open edges of a tile after rotating it clockwise
// by rotation degrees, in N, E, S, W order.
func Connections(t game.TileType, rotation int) []game.Direction {
	base := baseConnections[t]
	out := make([]game.Direction, 0, len(base))
	steps := rotation / 90 % 4
	if steps < 0 {
		steps += 4
	}
	for _, d := range base {
		out = append(out, rotate(d, steps))
	}
	order := map[game.Direction]int{game.North: 0, game.East: 1, game.South: 2, game.West: 3}
	sort.Slice(out, func(i, j int) bool { return order[out[i]] < order[out[j]] })
	return out
}

// FillConnections derives Connections for every cell in place.
func FillConnections(cells []game.RealmTile) {
	for i := range cells {
		cells[i].Connections = Connections(cells[i].Type, cells[i].Rotation)
	}
}

func Castle(width, height int) game.Position {
	return game.Position{X: width / 2, Y: height / 2}
}

// GenerateRealm builds a fresh grid for userID. The result depends only on
// the arguments, so a stored seed reproduces the same layout.
func GenerateRealm(userID uint, s game.RealmSettings, seed int64) *game.Realm {
	rng := rand.New(rand.NewSource(seed))
	castle := Castle(s.Width, s.Height)

	cells := make([]game.RealmTile, 0, s.Width*s.Height)
	hidden := make([]int, 0, s.Width*s.Height)
	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			cell := game.RealmTile{UserID: userID, X: x, Y: y, Type: game.TileEmpty}
			if abs(x-castle.X) <= 1 && abs(y-castle.Y) <= 1 {
				cell.Revealed = true
			} else {
				hidden = append(hidden, len(cells))
			}
			if x == castle.X && y == castle.Y {
				cell.Type = game.TileCastle
			}
			cells = append(cells, cell)
		}
	}

	n := s.TreasureCount
	if n > len(hidden) {
		n = len(hidden)
	}
	rng.Shuffle(len(hidden), func(i, j int) { hidden[i], hidden[j] = hidden[j], hidden[i] })
	for _, idx := range hidden[:n] {
		cells[idx].Type = game.TileTreasure
	}
	FillConnections(cells)

	return &game.Realm{UserID: userID, Width: s.Width, Height: s.Height, Seed: seed, Cells: cells}
}

func InBounds(r *game.Realm, x, y int) bool {
	return x >= 0 && y >= 0 && x < r.Width && y < r.Height
}

// Cell returns the cell at x,y or nil when it is out of bounds or missing.
func Cell(r *game.Realm, x, y int) *game.RealmTile {
	if !InBounds(r, x, y) {
		return nil
	}
	if idx := y*r.Width + x; idx < len(r.Cells) && r.Cells[idx].X == x && r.Cells[idx].Y == y {
		return &r.Cells[idx]
	}
	for i := range r.Cells {
		if r.Cells[i].X == x && r.Cells[i].Y == y {
			return &r.Cells[i]
		}
	}
	return nil
}

func hasRevealedNeighbor(r *game.Realm, x, y int) bool {
	for _, d := range [][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 0}} {
		if c := Cell(r, x+d[0], y+d[1]); c != nil && c.Revealed {
			return true
		}
	}
	return false
}

// CheckReveal validates that the hidden cell at x,y may be uncovered.
func CheckReveal(r *game.Realm, x, y int) (*game.RealmTile, error) {
	c := Cell(r, x, y)
	if c == nil {
		return nil, ErrOutOfBounds
	}
	if c.Revealed {
		return nil, ErrAlreadyRevealed
	}
	if !hasRevealedNeighbor(r, x, y) {
		return nil, ErrNotAdjacent
	}
	return c, nil
}

// CheckPlacement validates building t with rotation on the cell at x,y.
func CheckPlacement(r *game.Realm, x, y int, t game.TileType, rotation int) (*game.RealmTile, error) {
	c := Cell(r, x, y)
	if c == nil {
		return nil, ErrOutOfBounds
	}
	if !t.Placeable() {
		return nil, ErrTileNotPlaceable
	}
	if !ValidRotation(rotation) {
		return nil, ErrInvalidRotation
	}
	if !c.Revealed {
		return nil, ErrNotRevealed
	}
	if c.Type != game.TileEmpty && c.Type != game.TileGrass {
		return nil, ErrCellOccupied
	}
	return c, nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
