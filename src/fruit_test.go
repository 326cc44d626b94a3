package game

import (
	"testing"

	"github.com/hvj78/3dsnake/geometry"
)

func TestTopUpFruitFillsEveryFace(t *testing.T) {
	st := testState(4)
	st.Settings.FruitPerFace = 3

	st.topUpFruit()

	if len(st.Fruits) != 18 {
		t.Fatalf("fruit count = %d, want 18", len(st.Fruits))
	}
	perFace := make([]int, 6)
	cells := make(map[int]bool)
	for _, f := range st.Fruits {
		face, _, _ := geometry.DecodeCell(f.Cell, 4)
		perFace[face]++
		if cells[f.Cell] {
			t.Fatalf("two fruits on cell %d", f.Cell)
		}
		cells[f.Cell] = true
		if f.Value <= 0 {
			t.Fatalf("fruit %s has non-positive value %d", f.ID, f.Value)
		}
	}
	for face, count := range perFace {
		if count != 3 {
			t.Fatalf("face %d has %d fruits, want 3", face, count)
		}
	}
}

func TestTopUpFruitAvoidsSnakesAndStopsWhenFull(t *testing.T) {
	// On a 2-cube each face has four cells. With a target above that, the
	// spawner fills what it can and gives up without spinning.
	st := testState(2)
	st.Settings.FruitPerFace = 8
	snake := addSnake(st, "p1", 4, 0, 0, geometry.East, 2)

	st.topUpFruit()

	snakeCells := make(map[int]bool)
	for _, c := range snake.Cells {
		snakeCells[c] = true
	}
	cells := make(map[int]bool)
	for _, f := range st.Fruits {
		if snakeCells[f.Cell] {
			t.Fatalf("fruit spawned on snake body at cell %d", f.Cell)
		}
		if cells[f.Cell] {
			t.Fatalf("two fruits on cell %d", f.Cell)
		}
		cells[f.Cell] = true
	}
	if got := len(st.Fruits); got != 24-len(snake.Cells) {
		t.Fatalf("fruit count = %d, want every free cell (%d) filled", got, 24-len(snake.Cells))
	}

	// A second pass must not change anything: the board is full.
	before := len(st.Fruits)
	st.topUpFruit()
	if len(st.Fruits) != before {
		t.Fatalf("fruit count changed from %d to %d on a full board", before, len(st.Fruits))
	}
}

func TestEatenFruitIsReplacedOnItsFace(t *testing.T) {
	st := testState(8)
	st.Settings.FruitPerFace = 1
	addSnake(st, "p1", 4, 2, 4, geometry.East, 2)
	st.Fruits["f1"] = &Fruit{
		ID:    "f1",
		Cell:  geometry.EncodeCell(4, 3, 4, 8),
		Kind:  FruitApple,
		Value: 3,
	}

	mustStep(t, st, nil)

	count := 0
	for _, f := range st.Fruits {
		face, _, _ := geometry.DecodeCell(f.Cell, 8)
		if face == 4 {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("face 4 has %d fruits after eating, want 1 fresh spawn", count)
	}
}

func TestPickFruitKindMatchesTable(t *testing.T) {
	st := testState(4)
	values := map[FruitKind]int{
		FruitBerry:      2,
		FruitApple:      3,
		FruitBanana:     5,
		FruitWatermelon: 10,
	}
	for i := 0; i < 200; i++ {
		kind, value := st.pickFruitKind()
		want, ok := values[kind]
		if !ok {
			t.Fatalf("unknown fruit kind %q", kind)
		}
		if value != want {
			t.Fatalf("kind %q has value %d, want %d", kind, value, want)
		}
	}
}
