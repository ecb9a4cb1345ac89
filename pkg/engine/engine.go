// Package engine evaluates Lisp queries against an imported mesh.
// It wraps zygomys in a sandboxed environment with read-only builtins
// over a mesh.Mesh, so a mesh can be inspected from the command line:
//
//	(face-area 3)
//	(marker-ids :edge 5)
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/chazu/polymesh/pkg/mesh"
	zygo "github.com/glycerine/zygomys/zygo"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a failing builtin.
type EvalError struct {
	Line    int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Engine evaluates queries. It is safe for concurrent use; each call to
// Evaluate gets a fresh sandbox.
type Engine struct {
	mu         sync.Mutex
	generation uint64
}

// New creates a new Engine.
func New() *Engine {
	return &Engine{}
}

// Evaluate runs source against m and returns the printed value of the last
// expression.
//
//   - On success: value, nil, nil
//   - On parse/eval failure: "", eval errors, nil
//   - On fatal failure (timeout, panic): "", nil, error
func (e *Engine) Evaluate(source string, m *mesh.Mesh) (string, []EvalError, error) {
	if m == nil {
		return "", nil, fmt.Errorf("engine: no mesh loaded")
	}

	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		value, evalErrs, err := evaluate(source, m)
		ch <- evalResult{value: value, errors: evalErrs, err: err}
	}()

	return waitWithTimeout(ch, gen, &e.mu, &e.generation)
}

func evaluate(source string, m *mesh.Mesh) (string, []EvalError, error) {
	if strings.TrimSpace(source) == "" {
		return "", nil, nil
	}

	env := zygo.NewZlispSandbox()
	defer env.Stop()
	registerBuiltins(env, m)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return "", parseZygomysError(err), nil
	}

	res, err := env.Run()
	if err != nil {
		return "", parseZygomysError(err), nil
	}
	return res.SexpString(nil), nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into EvalError values,
// keeping the line number when zygomys reports one.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	if m := linePattern.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
	}
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
