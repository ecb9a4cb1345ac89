package mesh

import (
	"fmt"
	"strings"
)

// Kind classifies a mesh import or validation failure. A Kind is itself an
// error so callers can test with errors.Is(err, mesh.EmptyTable).
type Kind int

const (
	FileNotFound Kind = iota + 1
	EmptyTable
	MalformedRow
	MarkerMismatch
	DuplicateID
	UnknownVertex
	UnknownEdge
	UnknownFace
	Topology
	DegenerateEdge
	DegenerateFace
)

func (k Kind) String() string {
	switch k {
	case FileNotFound:
		return "file not found"
	case EmptyTable:
		return "empty table"
	case MalformedRow:
		return "malformed row"
	case MarkerMismatch:
		return "marker mismatch"
	case DuplicateID:
		return "duplicate id"
	case UnknownVertex:
		return "unknown vertex"
	case UnknownEdge:
		return "unknown edge"
	case UnknownFace:
		return "unknown face"
	case Topology:
		return "topology error"
	case DegenerateEdge:
		return "degenerate edge"
	case DegenerateFace:
		return "degenerate face"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

func (k Kind) Error() string { return k.String() }

// Entity names the record type an error refers to.
type Entity int

const (
	EntityNone Entity = iota
	EntityVertex
	EntityEdge
	EntityFace
)

func (e Entity) String() string {
	switch e {
	case EntityVertex:
		return "vertex"
	case EntityEdge:
		return "edge"
	case EntityFace:
		return "polygon"
	default:
		return ""
	}
}

// Endpoint says which end of an edge a topology error is about.
type Endpoint int

const (
	EndpointNone Endpoint = iota
	EndpointOrigin
	EndpointEnd
)

func (e Endpoint) String() string {
	switch e {
	case EndpointOrigin:
		return "origin"
	case EndpointEnd:
		return "end"
	default:
		return ""
	}
}

// Error is the single failure type produced by import and validation.
type Error struct {
	Kind     Kind
	Entity   Entity   // record the ID refers to
	ID       uint32   // offending identifier, meaningful when Entity != EntityNone
	Face     FaceID   // enclosing face for validator failures
	HasFace  bool     // Face is set
	Endpoint Endpoint // topology errors only
	Path     string   // source table, import failures only
	Line     int      // 1-based line in Path, 0 if not applicable
	Msg      string   // extra detail
	Err      error    // underlying cause (I/O, strconv)
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if e.Entity != EntityNone {
		fmt.Fprintf(&b, " in %s %d", e.Entity, e.ID)
	}
	if e.HasFace && !(e.Entity == EntityFace && FaceID(e.ID) == e.Face) {
		fmt.Fprintf(&b, " of polygon %d", e.Face)
	}
	if e.Path != "" {
		if e.Line > 0 {
			fmt.Fprintf(&b, " (%s:%d)", e.Path, e.Line)
		} else {
			fmt.Fprintf(&b, " (%s)", e.Path)
		}
	}
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap exposes both the Kind and the underlying cause.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func vertexError(kind Kind, id VertexID, format string, args ...any) *Error {
	return &Error{Kind: kind, Entity: EntityVertex, ID: uint32(id), Msg: fmt.Sprintf(format, args...)}
}

func edgeError(kind Kind, id EdgeID, format string, args ...any) *Error {
	return &Error{Kind: kind, Entity: EntityEdge, ID: uint32(id), Msg: fmt.Sprintf(format, args...)}
}

func faceError(kind Kind, id FaceID, format string, args ...any) *Error {
	return &Error{Kind: kind, Entity: EntityFace, ID: uint32(id), Face: id, HasFace: true, Msg: fmt.Sprintf(format, args...)}
}
