package mesh

import "slices"

// MarkerIndex maps each non-zero marker to the identifiers that carry it.
// Identifiers are kept in first-seen order per marker.
type MarkerIndex[ID VertexID | EdgeID] struct {
	ids map[Marker][]ID
}

// NewMarkerIndex returns an empty index.
func NewMarkerIndex[ID VertexID | EdgeID]() *MarkerIndex[ID] {
	return &MarkerIndex[ID]{ids: make(map[Marker][]ID)}
}

// Add appends id under marker. Interior markers are not indexed.
func (x *MarkerIndex[ID]) Add(marker Marker, id ID) {
	if marker == MarkerInterior {
		return
	}
	x.ids[marker] = append(x.ids[marker], id)
}

// IDs returns a copy of the identifiers recorded for marker.
func (x *MarkerIndex[ID]) IDs(marker Marker) []ID {
	return slices.Clone(x.ids[marker])
}

// Markers returns every marker present, ascending.
func (x *MarkerIndex[ID]) Markers() []Marker {
	ms := make([]Marker, 0, len(x.ids))
	for m := range x.ids {
		ms = append(ms, m)
	}
	slices.Sort(ms)
	return ms
}

// Len returns the number of distinct markers.
func (x *MarkerIndex[ID]) Len() int {
	return len(x.ids)
}
