package mesh

import (
	"errors"
	"math"
	"testing"
)

func TestMachineEpsilon(t *testing.T) {
	eps := MachineEpsilon()
	if eps != math.Pow(2, -53) {
		t.Errorf("MachineEpsilon() = %g, want 2^-53", eps)
	}
	if 1+eps != 1 {
		t.Error("1+ε should round to 1")
	}
	if 1+2*eps <= 1 {
		t.Error("1+2ε should exceed 1")
	}
}

func TestMachineEpsilon32(t *testing.T) {
	if eps := MachineEpsilon32(); eps != math.Pow(2, -24) {
		t.Errorf("MachineEpsilon32() = %g, want 2^-24", eps)
	}
	tol := TolerancesWithEpsilon(DefaultTolerance, MachineEpsilon32())
	if tol.Length != math.Pow(2, -24) || tol.Area != math.Pow(2, -24) {
		t.Errorf("tolerances = %+v, want both 2^-24", tol)
	}
}

func TestDefaultTolerances(t *testing.T) {
	tol := DefaultTolerances()
	if tol.Length != 1e-10 {
		t.Errorf("Length = %g, want 1e-10", tol.Length)
	}
	if tol.Area != MachineEpsilon() {
		t.Errorf("Area = %g, want ε since τ² < ε", tol.Area)
	}
}

func TestValidateTriangle(t *testing.T) {
	m := triangleMesh(t)
	var seen []FaceID
	err := Validate(m, ValidateOptions{OnFace: func(id FaceID) { seen = append(seen, id) }})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(seen) != 1 || seen[0] != 0 {
		t.Errorf("OnFace calls = %v, want [0]", seen)
	}
}

// squareMesh builds the unit square split along the diagonal 0-2 into two
// triangles, plus an interior vertex 4 that no face uses.
func squareMesh(t *testing.T) *Mesh {
	t.Helper()
	m := New()
	mustAdd(t, m.AddVertex(Vertex{ID: 0, Marker: MarkerBottomLeft, Coord: Point{X: 0, Y: 0}}))
	mustAdd(t, m.AddVertex(Vertex{ID: 1, Marker: MarkerBottomRight, Coord: Point{X: 1, Y: 0}}))
	mustAdd(t, m.AddVertex(Vertex{ID: 2, Marker: MarkerTopRight, Coord: Point{X: 1, Y: 1}}))
	mustAdd(t, m.AddVertex(Vertex{ID: 3, Marker: MarkerTopLeft, Coord: Point{X: 0, Y: 1}}))
	mustAdd(t, m.AddVertex(Vertex{ID: 4, Marker: MarkerInterior, Coord: Point{X: 0.5, Y: 0.25}}))
	mustAdd(t, m.AddEdge(Edge{ID: 0, Marker: MarkerBottom, Ends: Endpoints{Origin: 0, End: 1}}))
	mustAdd(t, m.AddEdge(Edge{ID: 1, Marker: MarkerRight, Ends: Endpoints{Origin: 1, End: 2}}))
	mustAdd(t, m.AddEdge(Edge{ID: 2, Marker: MarkerTop, Ends: Endpoints{Origin: 2, End: 3}}))
	mustAdd(t, m.AddEdge(Edge{ID: 3, Marker: MarkerLeft, Ends: Endpoints{Origin: 3, End: 0}}))
	mustAdd(t, m.AddEdge(Edge{ID: 4, Marker: MarkerInterior, Ends: Endpoints{Origin: 0, End: 2}}))
	mustAdd(t, m.AddFace(Face{ID: 0, Vertices: []VertexID{0, 1, 2}, Edges: []EdgeID{0, 1, 4}}))
	mustAdd(t, m.AddFace(Face{ID: 1, Vertices: []VertexID{0, 2, 3}, Edges: []EdgeID{4, 2, 3}}))
	return m
}

func TestValidateSquare(t *testing.T) {
	if err := Validate(squareMesh(t), ValidateOptions{}); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateFailures(t *testing.T) {
	tests := []struct {
		name     string
		face     Face
		extra    func(t *testing.T, m *Mesh)
		kind     Kind
		endpoint Endpoint
		id       uint32
	}{
		{
			name:     "edge end not in polygon",
			face:     Face{ID: 7, Vertices: []VertexID{0, 1, 2}, Edges: []EdgeID{0, 1, 5}},
			extra:    func(t *testing.T, m *Mesh) { mustAdd(t, m.AddEdge(Edge{ID: 5, Ends: Endpoints{Origin: 0, End: 4}})) },
			kind:     Topology,
			endpoint: EndpointEnd,
			id:       5,
		},
		{
			name:     "edge origin not in polygon",
			face:     Face{ID: 7, Vertices: []VertexID{0, 1, 2}, Edges: []EdgeID{5, 0}},
			extra:    func(t *testing.T, m *Mesh) { mustAdd(t, m.AddEdge(Edge{ID: 5, Ends: Endpoints{Origin: 4, End: 0}})) },
			kind:     Topology,
			endpoint: EndpointOrigin,
			id:       5,
		},
		{
			name: "zero length edge",
			face: Face{ID: 7, Vertices: []VertexID{4, 5, 0}, Edges: []EdgeID{5}},
			extra: func(t *testing.T, m *Mesh) {
				mustAdd(t, m.AddVertex(Vertex{ID: 5, Coord: Point{X: 0.5, Y: 0.25}}))
				mustAdd(t, m.AddEdge(Edge{ID: 5, Ends: Endpoints{Origin: 4, End: 5}}))
			},
			kind: DegenerateEdge,
			id:   5,
		},
		{
			name: "collinear polygon",
			face: Face{ID: 7, Vertices: []VertexID{0, 5, 1}, Edges: []EdgeID{0}},
			extra: func(t *testing.T, m *Mesh) {
				mustAdd(t, m.AddVertex(Vertex{ID: 5, Marker: MarkerBottom, Coord: Point{X: 0.5, Y: 0}}))
			},
			kind: DegenerateFace,
			id:   7,
		},
		{
			name: "two vertex polygon",
			face: Face{ID: 7, Vertices: []VertexID{0, 1}, Edges: []EdgeID{0}},
			kind: DegenerateFace,
			id:   7,
		},
		{
			name: "unknown edge",
			face: Face{ID: 7, Vertices: []VertexID{0, 1, 2}, Edges: []EdgeID{0, 42}},
			kind: UnknownEdge,
			id:   42,
		},
		{
			name: "unknown polygon vertex",
			face: Face{ID: 7, Vertices: []VertexID{0, 1, 42}, Edges: []EdgeID{0}},
			kind: UnknownVertex,
			id:   42,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := squareMesh(t)
			if tt.extra != nil {
				tt.extra(t, m)
			}
			mustAdd(t, m.AddFace(tt.face))

			err := Validate(m, ValidateOptions{})
			if !errors.Is(err, tt.kind) {
				t.Fatalf("got %v, want %s", err, tt.kind)
			}
			var me *Error
			if !errors.As(err, &me) {
				t.Fatalf("error %v is not a *mesh.Error", err)
			}
			if me.ID != tt.id {
				t.Errorf("ID = %d, want %d", me.ID, tt.id)
			}
			if !me.HasFace || me.Face != 7 {
				t.Errorf("error should name polygon 7, got %v", err)
			}
			if me.Endpoint != tt.endpoint {
				t.Errorf("Endpoint = %s, want %s", me.Endpoint, tt.endpoint)
			}
		})
	}
}

func TestValidateStopsAtFirstFace(t *testing.T) {
	m := squareMesh(t)
	mustAdd(t, m.AddFace(Face{ID: 8, Vertices: []VertexID{0, 1}}))
	mustAdd(t, m.AddFace(Face{ID: 9, Vertices: []VertexID{0, 3}}))

	err := Validate(m, ValidateOptions{})
	var me *Error
	if !errors.As(err, &me) || me.Face != 8 {
		t.Fatalf("want failure on polygon 8, got %v", err)
	}

	errs := ValidateAll(m, ValidateOptions{})
	if len(errs) != 2 {
		t.Fatalf("ValidateAll returned %d errors, want 2", len(errs))
	}
	if !errors.As(errs[1], &me) || me.Face != 9 {
		t.Errorf("second error should name polygon 9, got %v", errs[1])
	}
}

func TestValidateCustomTolerance(t *testing.T) {
	m := squareMesh(t)
	// Face 0 has area 0.5; a coarse area floor rejects it.
	err := Validate(m, ValidateOptions{Tolerances: Tolerances{Length: 1e-10, Area: 0.75}})
	if !errors.Is(err, DegenerateFace) {
		t.Fatalf("got %v, want DegenerateFace", err)
	}
}

func TestSignedArea(t *testing.T) {
	tests := []struct {
		name string
		pts  []Point
		want float64
	}{
		{"unit square ccw", []Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}, 1},
		{"unit square cw", []Point{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 0}}, -1},
		{"triangle", []Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}}, 0.5},
		{"collinear", []Point{{X: 0, Y: 0}, {X: 0.5, Y: 0}, {X: 1, Y: 0}}, 0},
		{"two points", []Point{{X: 0, Y: 0}, {X: 1, Y: 1}}, 0},
		{"empty", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SignedArea(tt.pts); math.Abs(got-tt.want) > 1e-15 {
				t.Errorf("SignedArea = %g, want %g", got, tt.want)
			}
		})
	}
}

func TestSignedAreaAnchorInvariant(t *testing.T) {
	// Non-convex L shape.
	pts := []Point{
		{X: 0, Y: 0}, {X: 0.8, Y: 0}, {X: 0.8, Y: 0.3},
		{X: 0.3, Y: 0.3}, {X: 0.3, Y: 0.9}, {X: 0, Y: 0.9},
	}
	want := SignedArea(pts)
	if math.Abs(want-0.42) > 1e-12 {
		t.Fatalf("SignedArea = %g, want 0.42", want)
	}
	for anchor := range pts {
		if got := SignedAreaFrom(pts, anchor); math.Abs(got-want) > 1e-12 {
			t.Errorf("anchor %d: area %g, want %g", anchor, got, want)
		}
	}
}

func TestEdgeLengthAndFaceArea(t *testing.T) {
	m := squareMesh(t)

	l, err := EdgeLength(m, 4)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(l-math.Sqrt2) > 1e-15 {
		t.Errorf("EdgeLength(4) = %g, want √2", l)
	}

	a, err := FaceArea(m, 1)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(a-0.5) > 1e-15 {
		t.Errorf("FaceArea(1) = %g, want 0.5", a)
	}

	if _, err := FaceArea(m, 99); !errors.Is(err, UnknownFace) {
		t.Errorf("FaceArea(99): got %v, want UnknownFace", err)
	}
}

func TestValidateNonFinite(t *testing.T) {
	nan := math.NaN()

	t.Run("edge", func(t *testing.T) {
		m := New()
		mustAdd(t, m.AddVertex(Vertex{ID: 0, Coord: Point{X: nan, Y: nan}}))
		mustAdd(t, m.AddVertex(Vertex{ID: 1, Coord: Point{X: nan, Y: nan}}))
		mustAdd(t, m.AddVertex(Vertex{ID: 2, Coord: Point{X: nan, Y: nan}}))
		mustAdd(t, m.AddEdge(Edge{ID: 0, Ends: Endpoints{Origin: 0, End: 1}}))
		mustAdd(t, m.AddFace(Face{ID: 0, Vertices: []VertexID{0, 1, 2}, Edges: []EdgeID{0}}))
		if err := Validate(m, ValidateOptions{}); !errors.Is(err, DegenerateEdge) {
			t.Errorf("got %v, want DegenerateEdge", err)
		}
	})

	t.Run("area", func(t *testing.T) {
		m := New()
		mustAdd(t, m.AddVertex(Vertex{ID: 0, Coord: Point{X: 0.25, Y: 0.25}}))
		mustAdd(t, m.AddVertex(Vertex{ID: 1, Coord: Point{X: 0.75, Y: 0.25}}))
		mustAdd(t, m.AddVertex(Vertex{ID: 2, Coord: Point{X: nan, Y: 0.75}}))
		mustAdd(t, m.AddFace(Face{ID: 0, Vertices: []VertexID{0, 1, 2}}))
		if err := Validate(m, ValidateOptions{}); !errors.Is(err, DegenerateFace) {
			t.Errorf("got %v, want DegenerateFace", err)
		}
	})
}
