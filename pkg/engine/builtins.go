package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/chazu/polymesh/pkg/mesh"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Value conversion
// ---------------------------------------------------------------------------

func sexpInt(n int64) zygo.Sexp {
	return &zygo.SexpInt{Val: n}
}

func sexpFloat(f float64) zygo.Sexp {
	return &zygo.SexpFloat{Val: f}
}

func sexpIDs[ID mesh.VertexID | mesh.EdgeID](ids []ID) zygo.Sexp {
	items := make([]zygo.Sexp, len(ids))
	for i, id := range ids {
		items[i] = sexpInt(int64(id))
	}
	return zygo.MakeList(items)
}

// toID extracts a non-negative 32-bit identifier from a SexpInt.
func toID(s zygo.Sexp) (uint32, error) {
	n, ok := s.(*zygo.SexpInt)
	if !ok {
		return 0, fmt.Errorf("expected integer id, got %T (%s)", s, s.SexpString(nil))
	}
	if n.Val < 0 || n.Val > math.MaxUint32 {
		return 0, fmt.Errorf("id %d out of range", n.Val)
	}
	return uint32(n.Val), nil
}

// toKeyword extracts a keyword name or plain string from a Sexp.
func toKeyword(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword, got %T (%s)", s, s.SexpString(nil))
	}
	return strings.TrimPrefix(str.S, kwPrefix), nil
}

// oneID checks the argument count of a single-id builtin and returns the id.
func oneID(fn string, args []zygo.Sexp) (uint32, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%s requires exactly 1 argument, got %d", fn, len(args))
	}
	id, err := toID(args[0])
	if err != nil {
		return 0, fmt.Errorf("%s: %w", fn, err)
	}
	return id, nil
}

func noArgs(fn string, args []zygo.Sexp) error {
	if len(args) != 0 {
		return fmt.Errorf("%s takes no arguments, got %d", fn, len(args))
	}
	return nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the mesh query builtins. Names use snake_case
// because preprocessSource rewrites kebab-case calls before zygomys sees
// them. None of the builtins mutate m.
func registerBuiltins(env *zygo.Zlisp, m *mesh.Mesh) {

	// (vertex-count) (edge-count) (face-count)
	counts := map[string]func() int{
		"vertex_count": m.NumVertices,
		"edge_count":   m.NumEdges,
		"face_count":   m.NumFaces,
	}
	for fn, count := range counts {
		env.AddFunction(fn, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if err := noArgs(name, args); err != nil {
				return zygo.SexpNull, err
			}
			return sexpInt(int64(count())), nil
		})
	}

	// -----------------------------------------------------------------------
	// Vertices: (vertex-marker 3) (vertex-x 3) (vertex-y 3)
	// -----------------------------------------------------------------------
	vertexFn := func(get func(mesh.Vertex) zygo.Sexp) zygo.ZlispUserFunction {
		return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			id, err := oneID(name, args)
			if err != nil {
				return zygo.SexpNull, err
			}
			v, err := m.Vertex(mesh.VertexID(id))
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", name, err)
			}
			return get(v), nil
		}
	}
	env.AddFunction("vertex_marker", vertexFn(func(v mesh.Vertex) zygo.Sexp { return sexpInt(int64(v.Marker)) }))
	env.AddFunction("vertex_x", vertexFn(func(v mesh.Vertex) zygo.Sexp { return sexpFloat(v.Coord.X) }))
	env.AddFunction("vertex_y", vertexFn(func(v mesh.Vertex) zygo.Sexp { return sexpFloat(v.Coord.Y) }))

	// -----------------------------------------------------------------------
	// Edges: (edge-marker 4) (edge-origin 4) (edge-end 4) (edge-length 4)
	// -----------------------------------------------------------------------
	edgeFn := func(get func(mesh.Edge) zygo.Sexp) zygo.ZlispUserFunction {
		return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			id, err := oneID(name, args)
			if err != nil {
				return zygo.SexpNull, err
			}
			e, err := m.Edge(mesh.EdgeID(id))
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", name, err)
			}
			return get(e), nil
		}
	}
	env.AddFunction("edge_marker", edgeFn(func(e mesh.Edge) zygo.Sexp { return sexpInt(int64(e.Marker)) }))
	env.AddFunction("edge_origin", edgeFn(func(e mesh.Edge) zygo.Sexp { return sexpInt(int64(e.Ends.Origin)) }))
	env.AddFunction("edge_end", edgeFn(func(e mesh.Edge) zygo.Sexp { return sexpInt(int64(e.Ends.End)) }))

	env.AddFunction("edge_length", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		id, err := oneID(name, args)
		if err != nil {
			return zygo.SexpNull, err
		}
		l, err := mesh.EdgeLength(m, mesh.EdgeID(id))
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %w", name, err)
		}
		return sexpFloat(l), nil
	})

	// -----------------------------------------------------------------------
	// Polygons: (face-area 0) (face-vertices 0) (face-edges 0)
	// -----------------------------------------------------------------------
	env.AddFunction("face_area", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		id, err := oneID(name, args)
		if err != nil {
			return zygo.SexpNull, err
		}
		a, err := mesh.FaceArea(m, mesh.FaceID(id))
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %w", name, err)
		}
		return sexpFloat(a), nil
	})

	faceFn := func(get func(mesh.Face) zygo.Sexp) zygo.ZlispUserFunction {
		return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			id, err := oneID(name, args)
			if err != nil {
				return zygo.SexpNull, err
			}
			f, err := m.Face(mesh.FaceID(id))
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", name, err)
			}
			return get(f), nil
		}
	}
	env.AddFunction("face_vertices", faceFn(func(f mesh.Face) zygo.Sexp { return sexpIDs(f.Vertices) }))
	env.AddFunction("face_edges", faceFn(func(f mesh.Face) zygo.Sexp { return sexpIDs(f.Edges) }))

	// -----------------------------------------------------------------------
	// (marker-ids :vertex 5) (marker-ids :edge 8)
	// -----------------------------------------------------------------------
	env.AddFunction("marker_ids", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("%s requires a kind and a marker, got %d arguments", name, len(args))
		}
		kind, err := toKeyword(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: kind: %w", name, err)
		}
		marker, err := toID(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: marker: %w", name, err)
		}
		switch kind {
		case "vertex":
			return sexpIDs(m.VertexMarkers().IDs(mesh.Marker(marker))), nil
		case "edge":
			return sexpIDs(m.EdgeMarkers().IDs(mesh.Marker(marker))), nil
		default:
			return zygo.SexpNull, fmt.Errorf("%s: unknown kind %q, expected :vertex or :edge", name, kind)
		}
	})
}
