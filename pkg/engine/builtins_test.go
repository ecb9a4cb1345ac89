package engine

import (
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// Preprocessing
// ---------------------------------------------------------------------------

func TestPreprocessSource(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{"keyword", `(marker-ids :vertex 5)`, `(marker_ids "__kw_vertex" 5)`},
		{"keyword in string preserved", `"see :vertex here"`, `"see :vertex here"`},
		{"assignment operator preserved", `(def x := 10)`, `(def x := 10)`},
		{"kebab-case", `(face-area 3)`, `(face_area 3)`},
		{"minus preserved", `(- 10 5)`, `(- 10 5)`},
		{"minus before digit", `(- x-1 2)`, `(- x-1 2)`},
		{"double semicolon comment", ";; area of :edge", "// area of :edge"},
		{"single semicolon comment", "; note\n(edge-count)", "// note\n(edge_count)"},
		{"escaped quote in string", `"a \"b-c\" d"`, `"a \"b-c\" d"`},
		{"backtick string", "`face-area`", "`face-area`"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := preprocessSource(tt.input); got != tt.expect {
				t.Errorf("preprocessSource(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Builtins
// ---------------------------------------------------------------------------

func TestBuiltins(t *testing.T) {
	m := squareMesh(t)
	eng := New()

	tests := []struct {
		src  string
		want string
	}{
		{"(vertex-count)", "4"},
		{"(edge-count)", "5"},
		{"(face-count)", "2"},
		{"(vertex-marker 2)", "3"},
		{"(> (vertex-x 1) 0.5)", "true"},
		{"(< (vertex-y 1) 0.5)", "true"},
		{"(edge-marker 3)", "8"},
		{"(edge-origin 4)", "0"},
		{"(edge-end 4)", "2"},
		{"(and (> (edge-length 4) 1.41) (< (edge-length 4) 1.42))", "true"},
		{"(and (> (face-area 1) 0.49) (< (face-area 1) 0.51))", "true"},
		{"(face-vertices 1)", "(0 2 3)"},
		{"(face-edges 0)", "(0 1 4)"},
		{"(marker-ids :edge 6)", "(1)"},
		{"(marker-ids :vertex 4)", "(3)"},
		{"(+ (vertex-count) (edge-count))", "9"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			out, evalErrs, err := eng.Evaluate(tt.src, m)
			if err != nil {
				t.Fatalf("fatal: %v", err)
			}
			if len(evalErrs) > 0 {
				t.Fatalf("eval errors: %v", evalErrs)
			}
			if out != tt.want {
				t.Errorf("%s = %q, want %q", tt.src, out, tt.want)
			}
		})
	}
}

func TestBuiltinErrors(t *testing.T) {
	m := squareMesh(t)
	eng := New()

	tests := []struct {
		src    string
		substr string
	}{
		{"(vertex-x 42)", "unknown vertex"},
		{"(edge-length 42)", "unknown edge"},
		{"(face-area 42)", "unknown face"},
		{"(vertex-marker)", "exactly 1 argument"},
		{"(face-count 1)", "no arguments"},
		{`(edge-end "two")`, "expected integer id"},
		{"(vertex-x -1)", "out of range"},
		{"(marker-ids :polygon 0)", "unknown kind"},
		{"(marker-ids :edge)", "kind and a marker"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, evalErrs, err := eng.Evaluate(tt.src, m)
			if err != nil {
				t.Fatalf("fatal: %v", err)
			}
			if len(evalErrs) == 0 {
				t.Fatal("expected eval error")
			}
			if !strings.Contains(evalErrs[0].Error(), tt.substr) {
				t.Errorf("error %q should mention %q", evalErrs[0].Error(), tt.substr)
			}
		})
	}
}
