package game

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/google/uuid"

	"github.com/hvj78/3dsnake/config"
	"github.com/hvj78/3dsnake/geometry"
)

const (
	initialSnakeLength = 4
	placementAttempts  = 2000
)

// NewRound builds the simulation state for a fresh round: every listed
// player gets a snake placed on an unoccupied stretch of the cube, and the
// fruit set is topped up to the per-face target. playerIDs should be passed
// in a deterministic order so a given seed always produces the same board.
func NewRound(settings Settings, seed int64, playerIDs []string) (*State, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	st := &State{
		Seed:          seed,
		Settings:      settings,
		Tick:          0,
		EndTick:       int64(settings.RoundSeconds) * int64(settings.TickRate),
		Snakes:        make(map[string]*Snake, len(playerIDs)),
		Fruits:        make(map[string]*Fruit),
		rng:           rand.New(rand.NewSource(seed)),
		startingCount: len(playerIDs),
		respawnDelay:  int64(config.RespawnDelayMs) * int64(settings.TickRate) / 1000,
	}

	occupied := make(map[int]bool)
	for _, pid := range playerIDs {
		snake := st.placeSnake(pid, occupied)
		if snake == nil {
			return nil, fmt.Errorf("could not place snake for %s; cube size %d too small for %d players",
				pid, settings.CubeN, len(playerIDs))
		}
		st.Snakes[pid] = snake
	}
	st.topUpFruit()
	return st, nil
}

// placeSnake finds a spawn for one snake: a random head cell with three
// clear cells ahead and a three-cell tail stepped backwards from the head.
// Every body cell is added to occupied. Returns nil when no spot was found
// within the attempt budget.
func (st *State) placeSnake(playerID string, occupied map[int]bool) *Snake {
	n := st.Settings.CubeN
	for attempt := 0; attempt < placementAttempts; attempt++ {
		face := st.rng.Intn(6)
		u := st.rng.Intn(n)
		v := st.rng.Intn(n)
		dir := geometry.Dir(st.rng.Intn(4))
		head := geometry.EncodeCell(face, u, v, n)

		if occupied[head] {
			continue
		}
		if !forwardClear(head, dir, n, initialSnakeLength-1, occupied) {
			continue
		}

		cells := []int{head}
		back := dir.Reverse()
		cell := head
		ok := true
		for i := 0; i < initialSnakeLength-1; i++ {
			cell, back = geometry.StepCell(cell, back, n)
			if occupied[cell] {
				ok = false
				break
			}
			cells = append(cells, cell)
		}
		if !ok {
			continue
		}

		for _, c := range cells {
			occupied[c] = true
		}
		return &Snake{
			PlayerID:      playerID,
			Alive:         true,
			Dir:           dir,
			Cells:         cells,
			RespawnAtTick: -1,
		}
	}
	return nil
}

// forwardClear probes steps cells ahead of head so freshly spawned snakes do
// not run straight into a wall of bodies.
func forwardClear(head int, dir geometry.Dir, n, steps int, occupied map[int]bool) bool {
	cell, d := head, dir
	for i := 0; i < steps; i++ {
		cell, d = geometry.StepCell(cell, d, n)
		if occupied[cell] {
			return false
		}
	}
	return true
}

// occupiedCells returns the set of cells covered by live snake bodies and,
// when includeFruit is set, live fruit.
func (st *State) occupiedCells(includeFruit bool) map[int]bool {
	occ := make(map[int]bool)
	for _, s := range st.Snakes {
		if !s.Alive {
			continue
		}
		for _, c := range s.Cells {
			occ[c] = true
		}
	}
	if includeFruit {
		for _, f := range st.Fruits {
			occ[f.Cell] = true
		}
	}
	return occ
}

// AliveCount returns the number of currently alive snakes.
func (st *State) AliveCount() int {
	n := 0
	for _, s := range st.Snakes {
		if s.Alive {
			n++
		}
	}
	return n
}

// RemainingCount counts snakes still in contention: alive, or dead with a
// respawn scheduled. The room ends the round early when at most one snake
// remains in contention.
func (st *State) RemainingCount() int {
	n := 0
	for _, s := range st.Snakes {
		if s.Alive || s.RespawnAtTick >= 0 {
			n++
		}
	}
	return n
}

// StartingCount returns how many snakes the round began with.
func (st *State) StartingCount() int {
	return st.startingCount
}

// RemoveSnake drops a snake from the round entirely (player left mid-round).
func (st *State) RemoveSnake(playerID string) {
	delete(st.Snakes, playerID)
}

// Scores returns the current per-player scores.
func (st *State) Scores() map[string]int {
	scores := make(map[string]int, len(st.Snakes))
	for pid, s := range st.Snakes {
		scores[pid] = s.Score
	}
	return scores
}

func newFruitID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:16]
}
