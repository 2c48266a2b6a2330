package arch_test

import (
	"go/ast"
	"go/parser"
	"go/token"
	"strings"
	"testing"
)

// stylePrefixes names the lipgloss palette and style vars each rendering
// package keeps at package level. They are assigned once at init.
var stylePrefixes = map[string][]string{
	"ui":  {"color", "style"},
	"tui": {"color", "style"},
}

func TestNoMutableGlobalState(t *testing.T) {
	t.Parallel()

	for _, p := range packages(t) {
		for _, s := range p.Sources {
			for _, name := range mutableGlobals(s.File, stylePrefixes[p.Name]) {
				t.Errorf("%s: package-level var %s holds mutable state; pass it in instead", s.Path, name)
			}
		}
	}
}

func TestMutableGlobalsDetection(t *testing.T) {
	t.Parallel()

	src := `package sample

import (
	"errors"
	"github.com/charmbracelet/lipgloss"
)

var ErrGone = errors.New("gone")
var formats = []string{"a", "b"}
var limit = 3
var _ fmtStringer = thing{}
var colorRed = lipgloss.Color("#f00")

var cache = make(map[string]int)
var counter int
var styleLoose = lipgloss.NewStyle()
`
	f, err := parser.ParseFile(token.NewFileSet(), "sample.go", src, 0)
	if err != nil {
		t.Fatal(err)
	}
	got := strings.Join(mutableGlobals(f, []string{"color"}), ",")
	if want := "cache,counter,styleLoose"; got != want {
		t.Errorf("mutableGlobals = %q, want %q", got, want)
	}
}

// mutableGlobals lists package-level vars other than error sentinels, blank
// interface assertions, literals, and names carrying one of prefixes.
func mutableGlobals(f *ast.File, prefixes []string) []string {
	var out []string
	for _, decl := range f.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.VAR {
			continue
		}
		for _, spec := range gd.Specs {
			vs := spec.(*ast.ValueSpec)
			for i, n := range vs.Names {
				var val ast.Expr
				if i < len(vs.Values) {
					val = vs.Values[i]
				}
				if n.Name == "_" || hasPrefix(n.Name, prefixes) || constLike(val) {
					continue
				}
				out = append(out, n.Name)
			}
		}
	}
	return out
}

func constLike(val ast.Expr) bool {
	switch v := val.(type) {
	case *ast.BasicLit, *ast.CompositeLit:
		return true
	case *ast.CallExpr:
		sel, ok := v.Fun.(*ast.SelectorExpr)
		if !ok {
			return false
		}
		x, ok := sel.X.(*ast.Ident)
		return ok && ((x.Name == "errors" && sel.Sel.Name == "New") ||
			(x.Name == "fmt" && sel.Sel.Name == "Errorf"))
	}
	return false
}

func hasPrefix(name string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}
