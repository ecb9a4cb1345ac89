// Package csvmesh imports a polygonal mesh from the Cell0Ds/Cell1Ds/Cell2Ds
// tables and validates it.
//
// Each table is a header line followed by one record per line. Fields are
// separated by a delimiter (';' by default) that is treated as whitespace,
// so "3;0;0.5;0.25" and "3 0 0.5 0.25" read the same.
//
//	Cell0Ds.csv  id;marker;x;y
//	Cell1Ds.csv  id;marker;origin;end
//	Cell2Ds.csv  id;marker;numVertices;v1;...;numEdges;e1;...
package csvmesh
