package mesh

// sideClass lists, for each side marker, the vertex markers that lie on
// that closed side: the side itself plus its two corners.
var sideClass = map[Marker][3]Marker{
	MarkerBottom: {MarkerBottom, MarkerBottomLeft, MarkerBottomRight},
	MarkerRight:  {MarkerRight, MarkerBottomRight, MarkerTopRight},
	MarkerTop:    {MarkerTop, MarkerTopRight, MarkerTopLeft},
	MarkerLeft:   {MarkerLeft, MarkerTopLeft, MarkerBottomLeft},
}

var sides = [4]Marker{MarkerBottom, MarkerRight, MarkerTop, MarkerLeft}

// onSide reports whether vertex marker m belongs to side's class.
func onSide(side, m Marker) bool {
	for _, c := range sideClass[side] {
		if c == m {
			return true
		}
	}
	return false
}

// bothOnSide reports whether both endpoint markers belong to side's class.
func bothOnSide(side, m0, m1 Marker) bool {
	return onSide(side, m0) && onSide(side, m1)
}

// onBoundary reports whether c is exactly 0 or 1.
func onBoundary(c float64) bool {
	return c == 0 || c == 1
}

// VertexMarkerValid reports whether marker m is consistent with p.
// Comparisons are exact; a coordinate of 1e-17 is interior.
func VertexMarkerValid(m Marker, p Point) bool {
	x, y := p.X, p.Y
	switch m {
	case MarkerInterior:
		return !onBoundary(x) && !onBoundary(y)
	case MarkerBottomLeft:
		return x == 0 && y == 0
	case MarkerBottomRight:
		return x == 1 && y == 0
	case MarkerTopRight:
		return x == 1 && y == 1
	case MarkerTopLeft:
		return x == 0 && y == 1
	case MarkerBottom:
		return y == 0 && !onBoundary(x)
	case MarkerRight:
		return x == 1 && !onBoundary(y)
	case MarkerTop:
		return y == 1 && !onBoundary(x)
	case MarkerLeft:
		return x == 0 && !onBoundary(y)
	default:
		return false
	}
}

// EdgeMarkerValid reports whether edge marker m is consistent with the
// markers m0, m1 of its endpoints. A side-marked edge needs both endpoints
// on that side; an interior edge must not have both endpoints on any one
// side.
func EdgeMarkerValid(m, m0, m1 Marker) bool {
	switch m {
	case MarkerBottom, MarkerRight, MarkerTop, MarkerLeft:
		return bothOnSide(m, m0, m1)
	case MarkerInterior:
		for _, side := range sides {
			if bothOnSide(side, m0, m1) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
