package mesh

import (
	"fmt"
	"slices"

	v2 "github.com/deadsy/sdfx/vec/v2"
)

// VertexID identifies a vertex (Cell0D).
type VertexID uint32

// EdgeID identifies an edge (Cell1D).
type EdgeID uint32

// FaceID identifies a polygonal face (Cell2D).
type FaceID uint32

// Marker tags an entity with its geometric role on the unit square.
//
//	0     interior
//	1..4  corners (0,0) (1,0) (1,1) (0,1)
//	5..8  open sides bottom, right, top, left
type Marker uint32

const (
	MarkerInterior Marker = 0

	MarkerBottomLeft  Marker = 1
	MarkerBottomRight Marker = 2
	MarkerTopRight    Marker = 3
	MarkerTopLeft     Marker = 4

	MarkerBottom Marker = 5
	MarkerRight  Marker = 6
	MarkerTop    Marker = 7
	MarkerLeft   Marker = 8
)

// IsBoundary reports whether m marks a corner or a side.
func (m Marker) IsBoundary() bool {
	return m >= MarkerBottomLeft && m <= MarkerLeft
}

// Point is a 2D coordinate pair.
type Point = v2.Vec

// Endpoints is the ordered (origin, end) vertex pair of an edge.
type Endpoints struct {
	Origin VertexID `json:"origin"`
	End    VertexID `json:"end"`
}

func (e Endpoints) String() string {
	return fmt.Sprintf("(%d,%d)", e.Origin, e.End)
}

// Vertex is a single Cell0D record.
type Vertex struct {
	ID     VertexID `json:"id"`
	Marker Marker   `json:"marker"`
	Coord  Point    `json:"coord"`
}

// Edge is a single Cell1D record.
type Edge struct {
	ID     EdgeID    `json:"id"`
	Marker Marker    `json:"marker"`
	Ends   Endpoints `json:"ends"`
}

// Face is a single Cell2D record. The vertex and edge lists are independent;
// a closed polygon has as many edges as vertices but that is not enforced.
type Face struct {
	ID       FaceID     `json:"id"`
	Marker   Marker     `json:"marker"`
	Vertices []VertexID `json:"vertices"`
	Edges    []EdgeID   `json:"edges"`
}

// clone copies f including its vertex and edge lists.
func (f Face) clone() Face {
	f.Vertices = slices.Clone(f.Vertices)
	f.Edges = slices.Clone(f.Edges)
	return f
}

// HasVertex reports whether id appears in the face's vertex list.
func (f Face) HasVertex(id VertexID) bool {
	return slices.Contains(f.Vertices, id)
}
