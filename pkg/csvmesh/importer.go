package csvmesh

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chazu/polymesh/pkg/mesh"
)

// Default table file names inside a mesh directory.
const (
	VerticesFile = "Cell0Ds.csv"
	EdgesFile    = "Cell1Ds.csv"
	FacesFile    = "Cell2Ds.csv"
)

// Files names the three tables relative to the mesh directory.
type Files struct {
	Vertices string
	Edges    string
	Faces    string
}

// DefaultFiles returns the conventional Cell0Ds/Cell1Ds/Cell2Ds names.
func DefaultFiles() Files {
	return Files{Vertices: VerticesFile, Edges: EdgesFile, Faces: FacesFile}
}

// Importer reads mesh tables into a mesh.Mesh. The zero value is usable and
// reads the default files with the default separator.
type Importer struct {
	Files      Files
	Separator  rune
	Duplicates mesh.DuplicatePolicy
	Validate   mesh.ValidateOptions
	Log        *slog.Logger
}

func (im *Importer) sep() rune {
	if im.Separator == 0 {
		return DefaultSeparator
	}
	return im.Separator
}

func (im *Importer) files() Files {
	f := im.Files
	def := DefaultFiles()
	if f.Vertices == "" {
		f.Vertices = def.Vertices
	}
	if f.Edges == "" {
		f.Edges = def.Edges
	}
	if f.Faces == "" {
		f.Faces = def.Faces
	}
	return f
}

func (im *Importer) log() *slog.Logger {
	if im.Log == nil {
		return slog.New(slog.DiscardHandler)
	}
	return im.Log
}

// Import reads vertices, edges and faces from dir in that order and then
// validates the mesh. The first failure aborts the whole import.
func (im *Importer) Import(dir string) (*mesh.Mesh, error) {
	m, err := im.Read(dir)
	if err != nil {
		return nil, err
	}
	if err := mesh.Validate(m, im.Validate); err != nil {
		return nil, err
	}
	im.log().Info("mesh valid",
		"vertices", m.NumVertices(), "edges", m.NumEdges(), "polygons", m.NumFaces())
	return m, nil
}

// Read imports the three tables without running mesh.Validate. Marker
// checks made while parsing still apply.
func (im *Importer) Read(dir string) (*mesh.Mesh, error) {
	files := im.files()
	m := mesh.NewWithPolicy(im.Duplicates)

	if err := im.ImportVertices(filepath.Join(dir, files.Vertices), m); err != nil {
		return nil, err
	}
	for _, mk := range m.VertexMarkers().Markers() {
		im.log().Info("cell0d marker", "marker", mk, "ids", JoinIDs(m.VertexMarkers().IDs(mk)))
	}

	if err := im.ImportEdges(filepath.Join(dir, files.Edges), m); err != nil {
		return nil, err
	}
	for _, mk := range m.EdgeMarkers().Markers() {
		im.log().Info("cell1d marker", "marker", mk, "ids", JoinIDs(m.EdgeMarkers().IDs(mk)))
	}

	if err := im.ImportFaces(filepath.Join(dir, files.Faces), m); err != nil {
		return nil, err
	}
	return m, nil
}

// ImportVertices reads the vertex table and checks each marker against its
// coordinates.
func (im *Importer) ImportVertices(path string, m *mesh.Mesh) error {
	rows, err := ReadTable(path, im.sep())
	if err != nil {
		return err
	}

	for _, row := range rows {
		r := newRowReader(path, row)
		id, err := r.uint("id")
		if err != nil {
			return err
		}
		marker, err := r.marker()
		if err != nil {
			return err
		}
		x, err := r.float("x")
		if err != nil {
			return err
		}
		y, err := r.float("y")
		if err != nil {
			return err
		}
		if err := r.done(); err != nil {
			return err
		}

		v := mesh.Vertex{ID: mesh.VertexID(id), Marker: mesh.Marker(marker), Coord: mesh.Point{X: x, Y: y}}
		if !markerInRange(marker) || !mesh.VertexMarkerValid(v.Marker, v.Coord) {
			return r.at(&mesh.Error{
				Kind:   mesh.MarkerMismatch,
				Entity: mesh.EntityVertex,
				ID:     id,
				Msg:    fmt.Sprintf("marker %d does not match coordinates (%g,%g)", marker, x, y),
			})
		}
		if err := m.AddVertex(v); err != nil {
			return r.at(err)
		}
		im.log().Debug("vertex", "id", id, "marker", marker, "x", x, "y", y)
	}

	im.log().Info("imported vertices", "file", path, "rows", len(rows))
	return nil
}

// ImportEdges reads the edge table. Vertices must already be in m: each
// edge marker is checked against the markers of its two endpoints.
func (im *Importer) ImportEdges(path string, m *mesh.Mesh) error {
	rows, err := ReadTable(path, im.sep())
	if err != nil {
		return err
	}

	for _, row := range rows {
		r := newRowReader(path, row)
		id, err := r.uint("id")
		if err != nil {
			return err
		}
		marker, err := r.marker()
		if err != nil {
			return err
		}
		origin, err := r.uint("origin")
		if err != nil {
			return err
		}
		end, err := r.uint("end")
		if err != nil {
			return err
		}
		if err := r.done(); err != nil {
			return err
		}

		e := mesh.Edge{
			ID:     mesh.EdgeID(id),
			Marker: mesh.Marker(marker),
			Ends:   mesh.Endpoints{Origin: mesh.VertexID(origin), End: mesh.VertexID(end)},
		}
		v0, err := m.Vertex(e.Ends.Origin)
		if err != nil {
			return r.at(endpointOf(err, e.ID, mesh.EndpointOrigin))
		}
		v1, err := m.Vertex(e.Ends.End)
		if err != nil {
			return r.at(endpointOf(err, e.ID, mesh.EndpointEnd))
		}

		if !markerInRange(marker) || !mesh.EdgeMarkerValid(e.Marker, v0.Marker, v1.Marker) {
			return r.at(&mesh.Error{
				Kind:   mesh.MarkerMismatch,
				Entity: mesh.EntityEdge,
				ID:     id,
				Msg: fmt.Sprintf("marker %d does not match endpoint markers %d and %d",
					marker, v0.Marker, v1.Marker),
			})
		}
		if err := m.AddEdge(e); err != nil {
			return r.at(err)
		}
		im.log().Debug("edge", "id", id, "marker", marker, "origin", origin, "end", end)
	}

	im.log().Info("imported edges", "file", path, "rows", len(rows))
	return nil
}

// ImportFaces reads the polygon table. Only the polygon marker is checked
// here; edge and vertex references are left to mesh.Validate.
func (im *Importer) ImportFaces(path string, m *mesh.Mesh) error {
	rows, err := ReadTable(path, im.sep())
	if err != nil {
		return err
	}

	for _, row := range rows {
		r := newRowReader(path, row)
		id, err := r.uint("id")
		if err != nil {
			return err
		}
		marker, err := r.marker()
		if err != nil {
			return err
		}
		if marker != 0 {
			return r.at(&mesh.Error{
				Kind:   mesh.MarkerMismatch,
				Entity: mesh.EntityFace,
				ID:     id,
				Msg:    fmt.Sprintf("polygon marker must be 0, got %d", marker),
			})
		}

		nv, err := r.uint("vertex count")
		if err != nil {
			return err
		}
		vertices := make([]mesh.VertexID, 0, min(int(nv), len(row.Fields)))
		for i := range int(nv) {
			v, err := r.uint(fmt.Sprintf("vertex %d", i+1))
			if err != nil {
				return err
			}
			vertices = append(vertices, mesh.VertexID(v))
		}

		ne, err := r.uint("edge count")
		if err != nil {
			return err
		}
		edges := make([]mesh.EdgeID, 0, min(int(ne), len(row.Fields)))
		for i := range int(ne) {
			e, err := r.uint(fmt.Sprintf("edge %d", i+1))
			if err != nil {
				return err
			}
			edges = append(edges, mesh.EdgeID(e))
		}
		if err := r.done(); err != nil {
			return err
		}

		f := mesh.Face{ID: mesh.FaceID(id), Vertices: vertices, Edges: edges}
		if err := m.AddFace(f); err != nil {
			return r.at(err)
		}
		im.log().Debug("polygon", "id", id, "vertices", len(vertices), "edges", len(edges))
	}

	im.log().Info("imported polygons", "file", path, "rows", len(rows))
	return nil
}

// endpointOf rewords an UnknownVertex lookup failure so it names the edge
// that referenced the vertex.
func endpointOf(err error, edge mesh.EdgeID, which mesh.Endpoint) error {
	me, ok := err.(*mesh.Error)
	if !ok {
		return err
	}
	me.Endpoint = which
	me.Msg = fmt.Sprintf("%s of edge %d is not a known vertex", which, edge)
	return me
}

// JoinIDs formats ids as a space separated list.
func JoinIDs[ID mesh.VertexID | mesh.EdgeID](ids []ID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatUint(uint64(id), 10)
	}
	return strings.Join(parts, " ")
}
