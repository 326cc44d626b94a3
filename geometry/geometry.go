// Package geometry implements the cube-surface topology the simulation runs
// on. The playing field is the surface of a cube subdivided into an n x n
// grid per face; cells are addressed by a single integer that decomposes into
// (face, u, v). Stepping off a face edge lands on the glued edge of the
// neighboring face with the travel direction re-expressed in that face's
// local axes.
package geometry

import "fmt"

// Dir is a face-local compass direction. It is always interpreted relative
// to the local axes of the face the snake currently occupies.
type Dir int

const (
	North Dir = iota
	East
	South
	West
)

// Valid reports whether d is one of the four compass values.
func (d Dir) Valid() bool {
	return d >= North && d <= West
}

// Reverse returns the opposite direction.
func (d Dir) Reverse() Dir {
	return (d + 2) % 4
}

// Turn rotates d by t quarter turns (-1 left, 0 none, 1 right).
func (d Dir) Turn(t int) (Dir, error) {
	if t < -1 || t > 1 {
		return d, fmt.Errorf("turn must be -1, 0, or 1, got %d", t)
	}
	return (d + Dir(t) + 4) % 4, nil
}

func (d Dir) String() string {
	switch d {
	case North:
		return "north"
	case East:
		return "east"
	case South:
		return "south"
	case West:
		return "west"
	}
	return fmt.Sprintf("Dir(%d)", int(d))
}

// vec3 is an integer 3-vector on the doubled lattice used for edge
// transitions. Doubling the coordinates keeps every cell center integral.
type vec3 struct {
	X, Y, Z int
}

func (a vec3) add(b vec3) vec3   { return vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }
func (a vec3) scale(k int) vec3  { return vec3{a.X * k, a.Y * k, a.Z * k} }
func (a vec3) neg() vec3         { return vec3{-a.X, -a.Y, -a.Z} }
func (a vec3) dot(b vec3) int    { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }

var (
	unitX = vec3{1, 0, 0}
	unitY = vec3{0, 1, 0}
	unitZ = vec3{0, 0, 1}
)

// faceBasis fixes each face's outward normal n and its local right/up axes.
// u grows along r (columns), v grows against up (rows). The table is the
// whole edge-adjacency relation: gluing and orientation of every edge pair
// falls out of re-projecting a lattice point onto the dominant axis.
type faceBasis struct {
	n, r, up vec3
}

var faceBases = [6]faceBasis{
	{n: unitX, r: unitZ.neg(), up: unitY},       // face 0: +X
	{n: unitX.neg(), r: unitZ, up: unitY},       // face 1: -X
	{n: unitY, r: unitX, up: unitZ.neg()},       // face 2: +Y
	{n: unitY.neg(), r: unitX, up: unitZ},       // face 3: -Y
	{n: unitZ, r: unitX, up: unitY},             // face 4: +Z
	{n: unitZ.neg(), r: unitX.neg(), up: unitY}, // face 5: -Z
}

// EncodeCell maps (face, u, v) to the linear cell identifier for an n-cube.
// u is the column in [0,n), v is the row in [0,n).
func EncodeCell(face, u, v, n int) int {
	return face*n*n + v*n + u
}

// DecodeCell is the inverse of EncodeCell.
func DecodeCell(cell, n int) (face, u, v int) {
	face = cell / (n * n)
	rem := cell % (n * n)
	v = rem / n
	u = rem % n
	return face, u, v
}

func dirVec(b faceBasis, d Dir) vec3 {
	switch d {
	case North:
		return b.up
	case East:
		return b.r
	case South:
		return b.up.neg()
	default:
		return b.r.neg()
	}
}

func dirFromVec(b faceBasis, v vec3) Dir {
	switch v {
	case b.up:
		return North
	case b.r:
		return East
	case b.up.neg():
		return South
	case b.r.neg():
		return West
	}
	// Unreachable for vectors tangent to the face.
	panic(fmt.Sprintf("geometry: vector %v is not a face direction", v))
}

func faceFromNormal(v vec3) int {
	switch v {
	case unitX:
		return 0
	case unitX.neg():
		return 1
	case unitY:
		return 2
	case unitY.neg():
		return 3
	case unitZ:
		return 4
	default:
		return 5
	}
}

// StepCell advances one cell from cell in direction d on an n-cube and
// returns the new cell together with the direction expressed in the
// destination face's axes. In-face steps keep the direction; edge crossings
// transport it. The function is total for every valid (cell, d, n).
func StepCell(cell int, d Dir, n int) (int, Dir) {
	face, u, v := DecodeCell(cell, n)
	basis := faceBases[face]

	// Cell center on the doubled lattice: the face plane sits at distance n
	// from the cube center and cell centers land on odd coordinates.
	xNum := 2*u + 1 - n
	yNum := n - (2*v + 1)
	pos := basis.n.scale(n).add(basis.r.scale(xNum)).add(basis.up.scale(yNum))

	// One cell is two lattice units.
	pos = pos.add(dirVec(basis, d).scale(2))

	// The dominant axis of the displaced point names the destination face.
	ax, ay, az := abs(pos.X), abs(pos.Y), abs(pos.Z)
	var maxAbs int
	var normal vec3
	switch {
	case ax >= ay && ax >= az:
		maxAbs = ax
		normal = unitX
		if pos.X < 0 {
			normal = normal.neg()
		}
	case ay >= ax && ay >= az:
		maxAbs = ay
		normal = unitY
		if pos.Y < 0 {
			normal = normal.neg()
		}
	default:
		maxAbs = az
		normal = unitZ
		if pos.Z < 0 {
			normal = normal.neg()
		}
	}

	newFace := faceFromNormal(normal)
	newBasis := faceBases[newFace]
	dotR := pos.dot(newBasis.r)
	dotU := pos.dot(newBasis.up)

	newU := ((dotR + maxAbs) * n) / (2 * maxAbs)
	newV := ((maxAbs - dotU) * n) / (2 * maxAbs)
	newU = clamp(newU, 0, n-1)
	newV = clamp(newV, 0, n-1)

	newCell := EncodeCell(newFace, newU, newV, n)
	if newFace == face {
		return newCell, d
	}

	// Crossing an edge: the travel direction on the new face is the old
	// face's inward normal.
	return newCell, dirFromVec(newBasis, basis.n.neg())
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func clamp(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
