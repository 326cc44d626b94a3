package geometry

import "testing"

var testSizes = []int{2, 3, 5, 8, 24}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for _, n := range testSizes {
		for face := 0; face < 6; face++ {
			for v := 0; v < n; v++ {
				for u := 0; u < n; u++ {
					cell := EncodeCell(face, u, v, n)
					gotFace, gotU, gotV := DecodeCell(cell, n)
					if gotFace != face || gotU != u || gotV != v {
						t.Fatalf("n=%d: decode(encode(%d,%d,%d)) = (%d,%d,%d)",
							n, face, u, v, gotFace, gotU, gotV)
					}
				}
			}
		}
	}
}

func TestCellIdentifiersAreDistinct(t *testing.T) {
	for _, n := range testSizes {
		seen := make(map[int]bool, 6*n*n)
		for face := 0; face < 6; face++ {
			for v := 0; v < n; v++ {
				for u := 0; u < n; u++ {
					cell := EncodeCell(face, u, v, n)
					if seen[cell] {
						t.Fatalf("n=%d: cell %d encoded twice", n, cell)
					}
					seen[cell] = true
				}
			}
		}
		if len(seen) != 6*n*n {
			t.Fatalf("n=%d: expected %d distinct cells, got %d", n, 6*n*n, len(seen))
		}
	}
}

func TestStepCellIsTotal(t *testing.T) {
	for _, n := range []int{2, 3, 5, 8} {
		for cell := 0; cell < 6*n*n; cell++ {
			for d := North; d <= West; d++ {
				newCell, newDir := StepCell(cell, d, n)
				face, u, v := DecodeCell(newCell, n)
				if face < 0 || face > 5 || u < 0 || u >= n || v < 0 || v >= n {
					t.Fatalf("n=%d: step(%d,%v) produced out-of-range (%d,%d,%d)",
						n, cell, d, face, u, v)
				}
				if !newDir.Valid() {
					t.Fatalf("n=%d: step(%d,%v) produced invalid direction %d", n, cell, d, newDir)
				}
			}
		}
	}
}

func TestStepCellIsReversible(t *testing.T) {
	// Walking one cell and then one cell back must return to the start, even
	// across edges and at corners.
	for _, n := range []int{2, 3, 8} {
		for cell := 0; cell < 6*n*n; cell++ {
			for d := North; d <= West; d++ {
				next, nextDir := StepCell(cell, d, n)
				back, _ := StepCell(next, nextDir.Reverse(), n)
				if back != cell {
					t.Fatalf("n=%d: step(%d,%v)=%d, but stepping back reached %d",
						n, cell, d, next, back)
				}
			}
		}
	}
}

func TestStepWithinFaceKeepsDirection(t *testing.T) {
	n := 4
	cell := EncodeCell(4, 1, 1, n)
	next, dir := StepCell(cell, East, n)
	if dir != East {
		t.Fatalf("in-face step changed direction to %v", dir)
	}
	face, u, v := DecodeCell(next, n)
	if face != 4 || u != 2 || v != 1 {
		t.Fatalf("in-face east step reached (%d,%d,%d), want (4,2,1)", face, u, v)
	}
}

func TestStepAcrossEdgeTransportsDirection(t *testing.T) {
	// From the +Z face moving east off the edge: lands on the +X face, still
	// travelling east in that face's axes.
	n := 2
	cell := EncodeCell(4, 1, 0, n)
	next, dir := StepCell(cell, East, n)
	face, u, v := DecodeCell(next, n)
	if face != 0 || u != 0 || v != 0 {
		t.Fatalf("edge crossing reached (%d,%d,%d), want (0,0,0)", face, u, v)
	}
	if dir != East {
		t.Fatalf("edge crossing transported direction to %v, want east", dir)
	}
}

func TestEveryCellHasFourDistinctNeighbors(t *testing.T) {
	for _, n := range []int{2, 4} {
		for cell := 0; cell < 6*n*n; cell++ {
			neighbors := make(map[int]bool)
			for d := North; d <= West; d++ {
				next, _ := StepCell(cell, d, n)
				if next == cell {
					t.Fatalf("n=%d: step(%d,%v) did not move", n, cell, d)
				}
				neighbors[next] = true
			}
			if len(neighbors) != 4 {
				t.Fatalf("n=%d: cell %d has %d distinct neighbors, want 4", n, cell, len(neighbors))
			}
		}
	}
}

func TestDirReverseAndTurn(t *testing.T) {
	if North.Reverse() != South || East.Reverse() != West ||
		South.Reverse() != North || West.Reverse() != East {
		t.Fatal("reverse mapping broken")
	}
	for d := North; d <= West; d++ {
		right, err := d.Turn(1)
		if err != nil {
			t.Fatalf("turn(1) errored: %v", err)
		}
		left, err := right.Turn(-1)
		if err != nil {
			t.Fatalf("turn(-1) errored: %v", err)
		}
		if left != d {
			t.Fatalf("turn right then left from %v reached %v", d, left)
		}
	}
	if _, err := North.Turn(2); err == nil {
		t.Fatal("expected error for turn(2)")
	}
}
