package game

import "github.com/hvj78/3dsnake/geometry"

// spawnAttemptsPerFruit bounds the random probing for a free cell so a
// nearly full face cannot stall the tick.
const spawnAttemptsPerFruit = 2000

// topUpFruit restores each face to the fruitPerFace target. Spawn positions
// are checked against the latest resolved occupancy: never on a snake body,
// never on another fruit.
func (st *State) topUpFruit() {
	n := st.Settings.CubeN
	occupied := st.occupiedCells(true)

	perFace := make([]int, 6)
	for _, f := range st.Fruits {
		face, _, _ := geometry.DecodeCell(f.Cell, n)
		perFace[face]++
	}

	for face := 0; face < 6; face++ {
		for perFace[face] < st.Settings.FruitPerFace {
			fruit := st.spawnFruitOnFace(face, occupied)
			if fruit == nil {
				break
			}
			st.Fruits[fruit.ID] = fruit
			occupied[fruit.Cell] = true
			perFace[face]++
		}
	}
}

func (st *State) spawnFruitOnFace(face int, occupied map[int]bool) *Fruit {
	n := st.Settings.CubeN
	for attempt := 0; attempt < spawnAttemptsPerFruit; attempt++ {
		u := st.rng.Intn(n)
		v := st.rng.Intn(n)
		cell := geometry.EncodeCell(face, u, v, n)
		if occupied[cell] {
			continue
		}
		kind, value := st.pickFruitKind()
		return &Fruit{
			ID:    newFruitID(),
			Cell:  cell,
			Kind:  kind,
			Value: value,
		}
	}
	return nil
}

// pickFruitKind draws a kind with each base weight damped by how many of
// that kind are already on the board, so valuable fruit stays rare and the
// mix does not collapse into one kind.
func (st *State) pickFruitKind() (FruitKind, int) {
	counts := make(map[FruitKind]int)
	for _, f := range st.Fruits {
		counts[f.Kind]++
	}

	total := 0.0
	weights := make([]float64, len(fruitTable))
	for i, entry := range fruitTable {
		w := entry.Weight / float64(1+counts[entry.Kind])
		weights[i] = w
		total += w
	}

	pick := st.rng.Float64() * total
	for i, entry := range fruitTable {
		pick -= weights[i]
		if pick < 0 {
			return entry.Kind, entry.Value
		}
	}
	last := fruitTable[len(fruitTable)-1]
	return last.Kind, last.Value
}
