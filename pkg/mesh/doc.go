// Package mesh defines the polygonal mesh store for polymesh.
// A mesh is a set of vertices, edges and polygonal faces on the unit
// square, each tagged with a boundary marker, plus the checks that decide
// whether the mesh is geometrically and topologically consistent.
package mesh
