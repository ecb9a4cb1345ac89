package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/chazu/polymesh/pkg/config"
	"github.com/chazu/polymesh/pkg/csvmesh"
	"github.com/chazu/polymesh/pkg/engine"
	"github.com/chazu/polymesh/pkg/mesh"
	"github.com/schollz/progressbar/v3"
)

// Exit codes. Validator failures get distinct codes; everything else that
// stops the pipeline exits with ExitFailure.
const (
	ExitOK             = 0
	ExitFailure        = 1
	ExitTopologyOrigin = 2
	ExitTopologyEnd    = 3
	ExitDegenerateEdge = 4
	ExitDegenerateFace = 5
)

// App runs the import pipeline for one mesh directory.
type App struct {
	cfg      config.Config
	log      *slog.Logger
	out      io.Writer // summary, marker listing, query results
	progress io.Writer // progress bar sink, nil to disable
	engine   *engine.Engine
}

// NewApp creates an App. A nil logger discards log output.
func NewApp(cfg config.Config, log *slog.Logger, out io.Writer) *App {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &App{
		cfg:    cfg,
		log:    log,
		out:    out,
		engine: engine.New(),
	}
}

// SetProgress enables a per-polygon progress bar written to w.
func (a *App) SetProgress(w io.Writer) {
	a.progress = w
}

// Import reads and validates the mesh in dir. With all set, every failing
// polygon is reported instead of stopping at the first one; the returned
// error then joins all failures.
func (a *App) Import(dir string, all bool) (*mesh.Mesh, error) {
	im, err := a.cfg.Importer()
	if err != nil {
		return nil, err
	}
	im.Log = a.log

	var bar *progressbar.ProgressBar
	if a.progress != nil {
		im.Validate.OnStart = func(faces int) {
			bar = progressbar.NewOptions(faces,
				progressbar.OptionSetWriter(a.progress),
				progressbar.OptionSetDescription("validating polygons"),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)
		}
		im.Validate.OnFace = func(mesh.FaceID) { _ = bar.Add(1) }
		defer func() {
			if bar != nil {
				_ = bar.Finish()
			}
		}()
	}

	var m *mesh.Mesh
	if all {
		m, err = im.Read(dir)
		if err == nil {
			err = errors.Join(mesh.ValidateAll(m, im.Validate)...)
		}
	} else {
		m, err = im.Import(dir)
	}
	if err != nil {
		a.logFailure(err)
		return nil, err
	}

	a.printSummary(m)
	return m, nil
}

// Query evaluates a Lisp expression against m and prints the result.
func (a *App) Query(m *mesh.Mesh, source string) error {
	value, evalErrs, err := a.engine.Evaluate(source, m)
	if err != nil {
		return fmt.Errorf("query: %w", err)
	}
	if len(evalErrs) > 0 {
		errs := make([]error, len(evalErrs))
		for i, e := range evalErrs {
			a.log.Error("query failed", "line", e.Line, "error", e.Message)
			errs[i] = e
		}
		return fmt.Errorf("query: %w", errors.Join(errs...))
	}
	fmt.Fprintln(a.out, value)
	return nil
}

func (a *App) printSummary(m *mesh.Mesh) {
	fmt.Fprintf(a.out, "mesh ok: %d vertices, %d edges, %d polygons\n",
		m.NumVertices(), m.NumEdges(), m.NumFaces())

	fmt.Fprintln(a.out, "Cell0D markers:")
	for _, mk := range m.VertexMarkers().Markers() {
		fmt.Fprintf(a.out, "  %d:\t%s\n", mk, csvmesh.JoinIDs(m.VertexMarkers().IDs(mk)))
	}
	fmt.Fprintln(a.out, "Cell1D markers:")
	for _, mk := range m.EdgeMarkers().Markers() {
		fmt.Fprintf(a.out, "  %d:\t%s\n", mk, csvmesh.JoinIDs(m.EdgeMarkers().IDs(mk)))
	}
}

// logFailure logs each mesh error once with its structured fields.
func (a *App) logFailure(err error) {
	var errs []error
	if joined, ok := err.(interface{ Unwrap() []error }); ok && !isMeshError(err) {
		errs = joined.Unwrap()
	} else {
		errs = []error{err}
	}

	for _, err := range errs {
		var me *mesh.Error
		if !errors.As(err, &me) {
			a.log.Error("import failed", "error", err)
			continue
		}
		attrs := []any{"kind", me.Kind.String()}
		if me.Entity != mesh.EntityNone {
			attrs = append(attrs, me.Entity.String(), me.ID)
		}
		if me.HasFace && me.Entity != mesh.EntityFace {
			attrs = append(attrs, "polygon", me.Face)
		}
		if me.Path != "" {
			attrs = append(attrs, "file", me.Path, "line", me.Line)
		}
		attrs = append(attrs, "error", me.Error())
		a.log.Error("mesh rejected", attrs...)
	}
}

func isMeshError(err error) bool {
	_, ok := err.(*mesh.Error)
	return ok
}

// ExitCode maps a pipeline error to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var me *mesh.Error
	if !errors.As(err, &me) {
		return ExitFailure
	}
	switch me.Kind {
	case mesh.Topology:
		if me.Endpoint == mesh.EndpointEnd {
			return ExitTopologyEnd
		}
		return ExitTopologyOrigin
	case mesh.DegenerateEdge:
		return ExitDegenerateEdge
	case mesh.DegenerateFace:
		return ExitDegenerateFace
	default:
		return ExitFailure
	}
}
