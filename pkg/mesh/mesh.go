package mesh

// DuplicatePolicy decides what happens when a table repeats an identifier.
type DuplicatePolicy int

const (
	DuplicateReject    DuplicatePolicy = iota // fail with DuplicateID
	DuplicateOverwrite                        // last row wins
)

func (p DuplicatePolicy) String() string {
	switch p {
	case DuplicateReject:
		return "reject"
	case DuplicateOverwrite:
		return "overwrite"
	default:
		return "unknown"
	}
}

// Mesh owns every parsed vertex, edge and face together with the marker
// indices derived from them. It is filled sequentially by the importers and
// only read afterwards, so it carries no locking.
type Mesh struct {
	vertices map[VertexID]Vertex
	edges    map[EdgeID]Edge
	faces    []Face
	faceIdx  map[FaceID]int // position in faces

	vertexMarkers *MarkerIndex[VertexID]
	edgeMarkers   *MarkerIndex[EdgeID]

	policy DuplicatePolicy
}

// New creates an empty mesh that rejects duplicate identifiers.
func New() *Mesh {
	return NewWithPolicy(DuplicateReject)
}

// NewWithPolicy creates an empty mesh with the given duplicate policy.
func NewWithPolicy(p DuplicatePolicy) *Mesh {
	return &Mesh{
		vertices:      make(map[VertexID]Vertex),
		edges:         make(map[EdgeID]Edge),
		faceIdx:       make(map[FaceID]int),
		vertexMarkers: NewMarkerIndex[VertexID](),
		edgeMarkers:   NewMarkerIndex[EdgeID](),
		policy:        p,
	}
}

// Policy returns the duplicate policy the mesh was created with.
func (m *Mesh) Policy() DuplicatePolicy {
	return m.policy
}

// AddVertex stores v and indexes its marker.
func (m *Mesh) AddVertex(v Vertex) error {
	if _, exists := m.vertices[v.ID]; exists && m.policy == DuplicateReject {
		return vertexError(DuplicateID, v.ID, "vertex already defined")
	}
	m.vertices[v.ID] = v
	m.vertexMarkers.Add(v.Marker, v.ID)
	return nil
}

// AddEdge stores e and indexes its marker. Endpoints are not resolved here;
// the edge importer does that before calling AddEdge.
func (m *Mesh) AddEdge(e Edge) error {
	if _, exists := m.edges[e.ID]; exists && m.policy == DuplicateReject {
		return edgeError(DuplicateID, e.ID, "edge already defined")
	}
	m.edges[e.ID] = e
	m.edgeMarkers.Add(e.Marker, e.ID)
	return nil
}

// AddFace appends f in row order. Under DuplicateOverwrite a repeated id
// replaces the earlier face in place.
func (m *Mesh) AddFace(f Face) error {
	f = f.clone()
	if i, exists := m.faceIdx[f.ID]; exists {
		if m.policy == DuplicateReject {
			return faceError(DuplicateID, f.ID, "polygon already defined")
		}
		m.faces[i] = f
		return nil
	}
	m.faceIdx[f.ID] = len(m.faces)
	m.faces = append(m.faces, f)
	return nil
}

// Vertex returns the vertex with the given id, or an UnknownVertex error.
func (m *Mesh) Vertex(id VertexID) (Vertex, error) {
	v, ok := m.vertices[id]
	if !ok {
		return Vertex{}, vertexError(UnknownVertex, id, "no such vertex")
	}
	return v, nil
}

// Edge returns the edge with the given id, or an UnknownEdge error.
func (m *Mesh) Edge(id EdgeID) (Edge, error) {
	e, ok := m.edges[id]
	if !ok {
		return Edge{}, edgeError(UnknownEdge, id, "no such edge")
	}
	return e, nil
}

// Face returns the face with the given id, or an UnknownFace error.
func (m *Mesh) Face(id FaceID) (Face, error) {
	i, ok := m.faceIdx[id]
	if !ok {
		return Face{}, faceError(UnknownFace, id, "no such polygon")
	}
	return m.faces[i].clone(), nil
}

// Faces returns copies of the faces in the order they were read.
func (m *Mesh) Faces() []Face {
	faces := make([]Face, len(m.faces))
	for i, f := range m.faces {
		faces[i] = f.clone()
	}
	return faces
}

// FacePoints resolves the coordinates of f's vertex list.
func (m *Mesh) FacePoints(f Face) ([]Point, error) {
	pts := make([]Point, 0, len(f.Vertices))
	for _, vid := range f.Vertices {
		v, err := m.Vertex(vid)
		if err != nil {
			return nil, err
		}
		pts = append(pts, v.Coord)
	}
	return pts, nil
}

// VertexMarkers returns the marker index over vertices.
func (m *Mesh) VertexMarkers() *MarkerIndex[VertexID] {
	return m.vertexMarkers
}

// EdgeMarkers returns the marker index over edges.
func (m *Mesh) EdgeMarkers() *MarkerIndex[EdgeID] {
	return m.edgeMarkers
}

// NumVertices returns the number of distinct vertices.
func (m *Mesh) NumVertices() int { return len(m.vertices) }

// NumEdges returns the number of distinct edges.
func (m *Mesh) NumEdges() int { return len(m.edges) }

// NumFaces returns the number of distinct faces.
func (m *Mesh) NumFaces() int { return len(m.faces) }
