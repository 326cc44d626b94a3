package game

import (
	"fmt"
	"math/rand"

	"github.com/hvj78/3dsnake/config"
	"github.com/hvj78/3dsnake/geometry"
)

// FruitKind names one of the four fruit types. The kind determines the
// score/growth value.
type FruitKind string

const (
	FruitBerry      FruitKind = "berry"
	FruitApple      FruitKind = "apple"
	FruitBanana     FruitKind = "banana"
	FruitWatermelon FruitKind = "watermelon"
)

// fruitTable pairs each kind with its value and base spawn weight. Rarer
// fruit is worth more.
var fruitTable = []struct {
	Kind   FruitKind
	Value  int
	Weight float64
}{
	{FruitBerry, 2, 5},
	{FruitApple, 3, 4},
	{FruitBanana, 5, 2},
	{FruitWatermelon, 10, 1},
}

// Fruit is one live fruit on the board. At most one fruit occupies a cell.
type Fruit struct {
	ID    string    `json:"id"`
	Cell  int       `json:"cell"`
	Kind  FruitKind `json:"kind"`
	Value int       `json:"value"`
}

// Snake is one player's snake. Cells is ordered head first; consecutive
// cells are topologically adjacent and pairwise distinct. A dead snake has
// no cells; RespawnAtTick < 0 means no respawn is scheduled.
type Snake struct {
	PlayerID      string
	Alive         bool
	Dir           geometry.Dir
	Cells         []int
	PendingGrowth int
	Score         int
	RespawnAtTick int64
}

// Head returns the snake's head cell. Only meaningful while alive.
func (s *Snake) Head() int {
	return s.Cells[0]
}

// Settings are the host-adjustable round parameters.
type Settings struct {
	CubeN        int `json:"cubeN"`
	RoundSeconds int `json:"roundSeconds"`
	TickRate     int `json:"tickRate"`
	FruitPerFace int `json:"fruitPerFace"`
}

// DefaultSettings returns the settings a fresh room starts with.
func DefaultSettings() Settings {
	return Settings{
		CubeN:        config.DefaultCubeN,
		RoundSeconds: config.DefaultRoundSeconds,
		TickRate:     config.DefaultTickRate,
		FruitPerFace: config.DefaultFruitPerFace,
	}
}

// Validate rejects out-of-range settings. Values are never clamped: a bad
// request leaves room state untouched.
func (s Settings) Validate() error {
	if s.CubeN < config.MinCubeN || s.CubeN > config.MaxCubeN {
		return fmt.Errorf("cubeN %d out of range [%d,%d]", s.CubeN, config.MinCubeN, config.MaxCubeN)
	}
	if s.RoundSeconds < config.MinRoundSeconds || s.RoundSeconds > config.MaxRoundSeconds {
		return fmt.Errorf("roundSeconds %d out of range [%d,%d]", s.RoundSeconds, config.MinRoundSeconds, config.MaxRoundSeconds)
	}
	if s.TickRate < config.MinTickRate || s.TickRate > config.MaxTickRate {
		return fmt.Errorf("tickRate %d out of range [%d,%d]", s.TickRate, config.MinTickRate, config.MaxTickRate)
	}
	if s.FruitPerFace < config.MinFruitPerFace || s.FruitPerFace > config.MaxFruitPerFace {
		return fmt.Errorf("fruitPerFace %d out of range [%d,%d]", s.FruitPerFace, config.MinFruitPerFace, config.MaxFruitPerFace)
	}
	return nil
}

// State is the authoritative simulation state of one running round. It is
// owned by the room's tick driver; nothing here is safe for concurrent use.
type State struct {
	Seed     int64
	Settings Settings
	Tick     int64
	EndTick  int64
	Snakes   map[string]*Snake
	Fruits   map[string]*Fruit

	rng           *rand.Rand
	startingCount int
	respawnDelay  int64
}
