package game

import (
	"fmt"

	"github.com/hvj78/3dsnake/geometry"
)

// retryRespawnTicks is how long a failed respawn placement waits before the
// next attempt.
const retryRespawnTicks = 3

// proposal is a snake's prospective move for the current tick. Nothing is
// committed until every snake's proposal has been resolved jointly.
type proposal struct {
	head int
	dir  geometry.Dir
}

// Step advances the simulation by one tick. inputs maps playerID to the
// direction commanded for this tick; absent players continue straight. The
// order of evaluation never affects any snake's fate: all proposals are
// materialized against the pre-tick world before anything mutates.
//
// A returned error is an invariant violation (two snakes sharing a cell
// after resolution); the caller should end the round rather than keep
// simulating a corrupt board.
func (st *State) Step(inputs map[string]geometry.Dir) error {
	n := st.Settings.CubeN

	st.runRespawns()

	// Phase 1: proposals. The commanded direction is applied only if it is
	// a valid compass value and not a 180-degree reversal; otherwise the
	// snake keeps its previous direction. Snakes are not mutated here.
	proposals := make(map[string]proposal, len(st.Snakes))
	for pid, s := range st.Snakes {
		if !s.Alive {
			continue
		}
		dir := s.Dir
		if cmd, ok := inputs[pid]; ok && cmd.Valid() && cmd != s.Dir.Reverse() {
			dir = cmd
		}
		head, newDir := geometry.StepCell(s.Head(), dir, n)
		proposals[pid] = proposal{head: head, dir: newDir}
	}

	// Phase 2: joint resolution against the pre-tick world.
	dead := st.resolveCollisions(proposals)

	// Phase 3: commit. Survivors move (and eat); losers die together.
	fruitByCell := make(map[int]*Fruit, len(st.Fruits))
	for _, f := range st.Fruits {
		fruitByCell[f.Cell] = f
	}
	for pid, pr := range proposals {
		s := st.Snakes[pid]
		if dead[pid] {
			st.killSnake(s)
			continue
		}
		s.Dir = pr.dir
		s.Cells = append([]int{pr.head}, s.Cells...)
		if s.PendingGrowth > 0 {
			s.PendingGrowth--
		} else {
			s.Cells = s.Cells[:len(s.Cells)-1]
		}
		if f, ok := fruitByCell[pr.head]; ok {
			delete(st.Fruits, f.ID)
			delete(fruitByCell, pr.head)
			s.PendingGrowth += f.Value
			s.Score += f.Value
		}
	}

	if err := st.checkOccupancy(); err != nil {
		return err
	}

	st.topUpFruit()
	st.Tick++
	return nil
}

// resolveCollisions returns the set of snakes whose proposals are fatal.
// Rules, all evaluated against pre-tick bodies:
//   - a head landing on any cell occupied by any snake body dies, except
//     that a snake's own current tail cell does not count when that tail
//     vacates this tick;
//   - two heads landing on the same cell both die, regardless of whatever
//     else is on that cell.
func (st *State) resolveCollisions(proposals map[string]proposal) map[string]bool {
	dead := make(map[string]bool)

	// Head-to-head: every proposal sharing a target cell loses.
	targets := make(map[int][]string)
	for pid, pr := range proposals {
		targets[pr.head] = append(targets[pr.head], pid)
	}
	for _, pids := range targets {
		if len(pids) >= 2 {
			for _, pid := range pids {
				dead[pid] = true
			}
		}
	}

	// Body collisions. A tail cell is exempt for its own snake only, and
	// only when it vacates this tick (no pending growth to absorb the move).
	for pid, pr := range proposals {
		if dead[pid] {
			continue
		}
		if st.cellBlocked(pid, pr.head) {
			dead[pid] = true
		}
	}
	return dead
}

func (st *State) cellBlocked(playerID string, cell int) bool {
	for qid, q := range st.Snakes {
		if !q.Alive {
			continue
		}
		for idx, c := range q.Cells {
			if c != cell {
				continue
			}
			ownVacatingTail := qid == playerID &&
				idx == len(q.Cells)-1 &&
				q.PendingGrowth == 0
			if ownVacatingTail {
				continue
			}
			return true
		}
	}
	return false
}

// killSnake removes a snake from the board and schedules its respawn. No
// respawn is scheduled when the round would be over before the timer fires.
func (st *State) killSnake(s *Snake) {
	s.Alive = false
	s.Cells = nil
	s.PendingGrowth = 0
	if st.Tick+st.respawnDelay < st.EndTick {
		s.RespawnAtTick = st.Tick + st.respawnDelay
	} else {
		s.RespawnAtTick = -1
	}
}

// runRespawns re-places snakes whose respawn timer expired this tick. The
// score carries over; a failed placement retries a few ticks later.
func (st *State) runRespawns() {
	for pid, s := range st.Snakes {
		if s.Alive || s.RespawnAtTick < 0 || st.Tick < s.RespawnAtTick {
			continue
		}
		occupied := st.occupiedCells(true)
		placed := st.placeSnake(pid, occupied)
		if placed == nil {
			s.RespawnAtTick = st.Tick + retryRespawnTicks
			continue
		}
		placed.Score = s.Score
		st.Snakes[pid] = placed
	}
}

// checkOccupancy verifies that no cell is held twice after resolution,
// neither across snakes nor within one body. This cannot happen if the
// joint-resolution rules hold; a violation means the board is corrupt.
func (st *State) checkOccupancy() error {
	owner := make(map[int]string)
	for pid, s := range st.Snakes {
		if !s.Alive {
			continue
		}
		for _, c := range s.Cells {
			if other, taken := owner[c]; taken {
				return fmt.Errorf("cell %d held by both %s and %s after tick %d", c, other, pid, st.Tick)
			}
			owner[c] = pid
		}
	}
	return nil
}
