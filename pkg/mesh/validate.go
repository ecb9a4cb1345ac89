package mesh

import (
	"fmt"
	"math"
)

// DefaultTolerance is the geometric tolerance τ used for edge length and,
// squared, for polygon area.
const DefaultTolerance = 1e-10

// MachineEpsilon returns the float64 ε obtained by halving 1 until 1+ε is
// no longer distinguishable from 1.
func MachineEpsilon() float64 {
	eps := 1.0
	for 1+eps > 1 {
		eps /= 2
	}
	return eps
}

// MachineEpsilon32 is MachineEpsilon computed in float32 arithmetic.
func MachineEpsilon32() float64 {
	var eps float32 = 1
	for float32(1+eps) > 1 {
		eps /= 2
	}
	return float64(eps)
}

// Tolerances are the thresholds below which an edge or face is degenerate.
type Tolerances struct {
	Length float64 // max(|Δx|,|Δy|) floor for edges
	Area   float64 // |area| floor for faces
}

// TolerancesFor derives thresholds from τ: Length = max(ε, τ) and
// Area = max(ε, τ²).
func TolerancesFor(tau float64) Tolerances {
	return TolerancesWithEpsilon(tau, MachineEpsilon())
}

// TolerancesWithEpsilon is TolerancesFor with a caller-supplied ε.
func TolerancesWithEpsilon(tau, eps float64) Tolerances {
	return Tolerances{
		Length: math.Max(eps, tau),
		Area:   math.Max(eps, tau*tau),
	}
}

// DefaultTolerances returns TolerancesFor(DefaultTolerance).
func DefaultTolerances() Tolerances {
	return TolerancesFor(DefaultTolerance)
}

// ValidateOptions tune a validation run.
type ValidateOptions struct {
	Tolerances Tolerances
	OnStart    func(faces int) // called once before the first face; may be nil
	OnFace     func(FaceID)    // called after each face passes; may be nil
}

func (o ValidateOptions) start(m *Mesh) {
	if o.OnStart != nil {
		o.OnStart(m.NumFaces())
	}
}

func (o ValidateOptions) tolerances() Tolerances {
	if o.Tolerances == (Tolerances{}) {
		return DefaultTolerances()
	}
	return o.Tolerances
}

// Validate checks every face in row order and returns the first failure.
// For each face every edge must have both endpoints in the face's vertex
// list and a non-degenerate length, and the polygon must have non-zero
// area. The mesh is never mutated.
func Validate(m *Mesh, opts ValidateOptions) error {
	tol := opts.tolerances()
	opts.start(m)
	for _, f := range m.Faces() {
		if err := validateFace(m, f, tol); err != nil {
			return err
		}
		if opts.OnFace != nil {
			opts.OnFace(f.ID)
		}
	}
	return nil
}

// ValidateAll runs the same checks as Validate but does not stop at the
// first bad face. It returns the first failure of each failing face.
func ValidateAll(m *Mesh, opts ValidateOptions) []error {
	tol := opts.tolerances()
	opts.start(m)
	var errs []error
	for _, f := range m.Faces() {
		if err := validateFace(m, f, tol); err != nil {
			errs = append(errs, err)
			continue
		}
		if opts.OnFace != nil {
			opts.OnFace(f.ID)
		}
	}
	return errs
}

// ValidateFace checks a single face with the given tolerances.
func ValidateFace(m *Mesh, f Face, tol Tolerances) error {
	return validateFace(m, f, tol)
}

func validateFace(m *Mesh, f Face, tol Tolerances) error {
	for _, eid := range f.Edges {
		e, err := m.Edge(eid)
		if err != nil {
			return inFace(err, f.ID)
		}
		if !f.HasVertex(e.Ends.Origin) {
			return topologyError(f.ID, eid, EndpointOrigin, e.Ends.Origin)
		}
		if !f.HasVertex(e.Ends.End) {
			return topologyError(f.ID, eid, EndpointEnd, e.Ends.End)
		}

		length, err := edgeExtent(m, e)
		if err != nil {
			return inFace(err, f.ID)
		}
		// Negated so that NaN fails.
		if !(length >= tol.Length) {
			err := edgeError(DegenerateEdge, eid, "length %g below %g", length, tol.Length)
			return inFace(err, f.ID)
		}
	}

	pts, err := m.FacePoints(f)
	if err != nil {
		return inFace(err, f.ID)
	}
	area := SignedArea(pts)
	if !(math.Abs(area) >= tol.Area) {
		return faceError(DegenerateFace, f.ID, "area %g below %g", area, tol.Area)
	}
	return nil
}

// EdgeLength returns the Euclidean length of edge id.
func EdgeLength(m *Mesh, id EdgeID) (float64, error) {
	e, err := m.Edge(id)
	if err != nil {
		return 0, err
	}
	a, b, err := edgePoints(m, e)
	if err != nil {
		return 0, err
	}
	return b.Sub(a).Length(), nil
}

// FaceArea returns the signed area of face id.
func FaceArea(m *Mesh, id FaceID) (float64, error) {
	f, err := m.Face(id)
	if err != nil {
		return 0, err
	}
	pts, err := m.FacePoints(f)
	if err != nil {
		return 0, err
	}
	return SignedArea(pts), nil
}

// edgeExtent returns max(|Δx|,|Δy|) between the endpoints of e.
func edgeExtent(m *Mesh, e Edge) (float64, error) {
	a, b, err := edgePoints(m, e)
	if err != nil {
		return 0, err
	}
	return b.Sub(a).Abs().MaxComponent(), nil
}

func edgePoints(m *Mesh, e Edge) (Point, Point, error) {
	origin, err := m.Vertex(e.Ends.Origin)
	if err != nil {
		return Point{}, Point{}, err
	}
	end, err := m.Vertex(e.Ends.End)
	if err != nil {
		return Point{}, Point{}, err
	}
	return origin.Coord, end.Coord, nil
}

// SignedArea returns the shoelace area of the polygon pts anchored at
// pts[0]. Counter-clockwise polygons are positive. Fewer than three points
// give zero.
func SignedArea(pts []Point) float64 {
	return SignedAreaFrom(pts, 0)
}

// SignedAreaFrom is SignedArea with the fan anchored at pts[anchor]. The
// result does not depend on the anchor up to rounding.
func SignedAreaFrom(pts []Point, anchor int) float64 {
	n := len(pts)
	if n < 3 {
		return 0
	}
	p0 := pts[anchor%n]
	var sum float64
	for i := 1; i < n-1; i++ {
		a := pts[(anchor+i)%n].Sub(p0)
		b := pts[(anchor+i+1)%n].Sub(p0)
		sum += a.Cross(b)
	}
	return sum / 2
}

func topologyError(face FaceID, edge EdgeID, which Endpoint, missing VertexID) *Error {
	return &Error{
		Kind:     Topology,
		Entity:   EntityEdge,
		ID:       uint32(edge),
		Face:     face,
		HasFace:  true,
		Endpoint: which,
		Msg:      fmt.Sprintf("%s vertex %d is not a vertex of the polygon", which, missing),
	}
}

// inFace attaches the enclosing face to a mesh error.
func inFace(err error, face FaceID) error {
	if me, ok := err.(*Error); ok {
		me.Face = face
		me.HasFace = true
		return me
	}
	return fmt.Errorf("polygon %d: %w", face, err)
}
