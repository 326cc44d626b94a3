package game

import (
	"sort"
	"testing"

	"github.com/hvj78/3dsnake/geometry"
)

func roundSettings() Settings {
	return Settings{CubeN: 12, RoundSeconds: 60, TickRate: 10, FruitPerFace: 2}
}

func TestNewRoundPlacesEveryPlayer(t *testing.T) {
	settings := roundSettings()
	pids := []string{"p1", "p2", "p3"}
	st, err := NewRound(settings, 42, pids)
	if err != nil {
		t.Fatalf("new round failed: %v", err)
	}

	if st.EndTick != 600 {
		t.Fatalf("end tick = %d, want 600", st.EndTick)
	}
	if st.StartingCount() != 3 {
		t.Fatalf("starting count = %d, want 3", st.StartingCount())
	}

	seen := make(map[int]string)
	for _, pid := range pids {
		s, ok := st.Snakes[pid]
		if !ok {
			t.Fatalf("no snake for %s", pid)
		}
		if !s.Alive {
			t.Fatalf("snake %s not alive", pid)
		}
		if len(s.Cells) != initialSnakeLength {
			t.Fatalf("snake %s length = %d, want %d", pid, len(s.Cells), initialSnakeLength)
		}
		for _, c := range s.Cells {
			if other, taken := seen[c]; taken {
				t.Fatalf("cell %d used by both %s and %s", c, other, pid)
			}
			seen[c] = pid
		}
		// Consecutive body cells must be topological neighbors.
		for i := 0; i < len(s.Cells)-1; i++ {
			if !areNeighbors(s.Cells[i], s.Cells[i+1], settings.CubeN) {
				t.Fatalf("snake %s cells %d and %d are not adjacent", pid, s.Cells[i], s.Cells[i+1])
			}
		}
	}

	if len(st.Fruits) != 6*settings.FruitPerFace {
		t.Fatalf("fruit count = %d, want %d", len(st.Fruits), 6*settings.FruitPerFace)
	}
	fruitCells := make(map[int]bool)
	for _, f := range st.Fruits {
		if seen[f.Cell] != "" {
			t.Fatalf("fruit on snake body at cell %d", f.Cell)
		}
		if fruitCells[f.Cell] {
			t.Fatalf("two fruits on cell %d", f.Cell)
		}
		fruitCells[f.Cell] = true
	}
}

func areNeighbors(a, b, n int) bool {
	for d := geometry.North; d <= geometry.West; d++ {
		if next, _ := geometry.StepCell(a, d, n); next == b {
			return true
		}
	}
	return false
}

func TestNewRoundIsSeedDeterministic(t *testing.T) {
	pids := []string{"p1", "p2"}
	a, err := NewRound(roundSettings(), 7, pids)
	if err != nil {
		t.Fatalf("new round failed: %v", err)
	}
	b, err := NewRound(roundSettings(), 7, pids)
	if err != nil {
		t.Fatalf("new round failed: %v", err)
	}

	for _, pid := range pids {
		sa, sb := a.Snakes[pid], b.Snakes[pid]
		if sa.Dir != sb.Dir {
			t.Fatalf("snake %s direction differs across identical seeds", pid)
		}
		if len(sa.Cells) != len(sb.Cells) {
			t.Fatalf("snake %s length differs across identical seeds", pid)
		}
		for i := range sa.Cells {
			if sa.Cells[i] != sb.Cells[i] {
				t.Fatalf("snake %s body differs across identical seeds", pid)
			}
		}
	}
	if !sameFruitCells(a, b) {
		t.Fatal("fruit placement differs across identical seeds")
	}
}

func sameFruitCells(a, b *State) bool {
	ca, cb := fruitCellList(a), fruitCellList(b)
	if len(ca) != len(cb) {
		return false
	}
	for i := range ca {
		if ca[i] != cb[i] {
			return false
		}
	}
	return true
}

func fruitCellList(st *State) []int {
	cells := make([]int, 0, len(st.Fruits))
	for _, f := range st.Fruits {
		cells = append(cells, f.Cell)
	}
	sort.Ints(cells)
	return cells
}

func TestNewRoundRejectsBadSettings(t *testing.T) {
	bad := roundSettings()
	bad.TickRate = 0
	if _, err := NewRound(bad, 1, []string{"p1"}); err == nil {
		t.Fatal("expected error for zero tick rate")
	}

	bad = roundSettings()
	bad.CubeN = 1000
	if _, err := NewRound(bad, 1, []string{"p1"}); err == nil {
		t.Fatal("expected error for oversized cube")
	}
}

func TestNewRoundFailsWhenCubeIsTooSmall(t *testing.T) {
	// A 2-cube has 24 cells; seven 4-cell snakes need 28.
	settings := roundSettings()
	settings.CubeN = 2
	pids := []string{"p1", "p2", "p3", "p4", "p5", "p6", "p7"}
	if _, err := NewRound(settings, 1, pids); err == nil {
		t.Fatal("expected placement failure on a cube with too few cells")
	}
}

func TestSettingsValidateBounds(t *testing.T) {
	if err := DefaultSettings().Validate(); err != nil {
		t.Fatalf("default settings invalid: %v", err)
	}
	cases := []Settings{
		{CubeN: 1, RoundSeconds: 60, TickRate: 10, FruitPerFace: 1},
		{CubeN: 12, RoundSeconds: 0, TickRate: 10, FruitPerFace: 1},
		{CubeN: 12, RoundSeconds: 60, TickRate: -1, FruitPerFace: 1},
		{CubeN: 12, RoundSeconds: 60, TickRate: 10, FruitPerFace: 10000},
	}
	for i, s := range cases {
		if err := s.Validate(); err == nil {
			t.Fatalf("case %d: expected validation error", i)
		}
	}
}
