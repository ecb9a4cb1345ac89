package csvmesh

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/chazu/polymesh/pkg/mesh"
)

// DefaultSeparator is the field delimiter of the mesh tables.
const DefaultSeparator = ';'

// Row is one data line of a table, already split into fields.
type Row struct {
	Line   int // 1-based line number in the file
	Fields []string
}

// ReadTable reads the whole table at path, drops the header line and splits
// every remaining non-blank line into fields. A table with no data rows is
// an EmptyTable error.
func ReadTable(path string, sep rune) ([]Row, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &mesh.Error{Kind: mesh.FileNotFound, Path: path, Err: err}
	}

	lines := strings.Split(string(data), "\n")
	rows := make([]Row, 0, len(lines))
	for i, line := range lines {
		if i == 0 {
			continue // header
		}
		line = strings.TrimSuffix(line, "\r")
		if sep != ' ' {
			line = strings.ReplaceAll(line, string(sep), " ")
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		rows = append(rows, Row{Line: i + 1, Fields: fields})
	}

	if len(rows) == 0 {
		return nil, &mesh.Error{Kind: mesh.EmptyTable, Path: path}
	}
	return rows, nil
}

// rowReader walks the fields of a row left to right.
type rowReader struct {
	path string
	row  Row
	pos  int
}

func newRowReader(path string, row Row) *rowReader {
	return &rowReader{path: path, row: row}
}

func (r *rowReader) malformed(format string, args ...any) *mesh.Error {
	return &mesh.Error{
		Kind: mesh.MalformedRow,
		Path: r.path,
		Line: r.row.Line,
		Msg:  fmt.Sprintf(format, args...),
	}
}

func (r *rowReader) next(what string) (string, error) {
	if r.pos >= len(r.row.Fields) {
		return "", r.malformed("missing %s (field %d)", what, r.pos+1)
	}
	f := r.row.Fields[r.pos]
	r.pos++
	return f, nil
}

func (r *rowReader) uint(what string) (uint32, error) {
	f, err := r.next(what)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseUint(f, 10, 32)
	if err != nil {
		e := r.malformed("%s %q is not a non-negative integer", what, f)
		e.Err = err
		return 0, e
	}
	return uint32(n), nil
}

func (r *rowReader) float(what string) (float64, error) {
	f, err := r.next(what)
	if err != nil {
		return 0, err
	}
	x, err := strconv.ParseFloat(f, 64)
	if err != nil {
		e := r.malformed("%s %q is not a number", what, f)
		e.Err = err
		return 0, e
	}
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, r.malformed("%s %q is not a finite number", what, f)
	}
	return x, nil
}

// marker reads a marker field. Any integer is accepted here; the caller
// decides whether it is a valid marker for the entity.
func (r *rowReader) marker() (int64, error) {
	f, err := r.next("marker")
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(f, 10, 64)
	if err != nil {
		e := r.malformed("marker %q is not an integer", f)
		e.Err = err
		return 0, e
	}
	return n, nil
}

// markerInRange reports whether n fits a mesh.Marker.
func markerInRange(n int64) bool {
	return n >= 0 && n <= math.MaxUint32
}

// done fails if the row has fields left over.
func (r *rowReader) done() error {
	if extra := len(r.row.Fields) - r.pos; extra > 0 {
		return r.malformed("%d unexpected trailing field(s)", extra)
	}
	return nil
}

// at attaches the table location to a mesh error produced while storing
// the row.
func (r *rowReader) at(err error) error {
	var me *mesh.Error
	if errors.As(err, &me) && me.Path == "" {
		me.Path = r.path
		me.Line = r.row.Line
	}
	return err
}
