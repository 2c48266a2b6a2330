// Package arch_test checks structural rules over every package under
// internal/: import layering, GoDoc on exported symbols, package-level state,
// and file size.
package arch_test

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"testing"
)

const internalPrefix = "github.com/papapumpkin/manpower/internal/"

// source is one parsed non-test Go file.
type source struct {
	Path  string // relative to internal/
	Lines int
	File  *ast.File
}

// pkg is one package directory under internal/.
type pkg struct {
	Name      string
	Sources   []source
	TestLines map[string]int // _test.go path relative to internal/ -> lines
}

var loadTree = sync.OnceValues(func() ([]pkg, error) {
	_, self, _, ok := runtime.Caller(0)
	if !ok {
		return nil, fmt.Errorf("runtime.Caller failed")
	}
	root := filepath.Dir(filepath.Dir(self))
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	fset := token.NewFileSet()
	var pkgs []pkg
	for _, e := range entries {
		if !e.IsDir() || e.Name() == "arch_test" {
			continue
		}
		p, err := loadPkg(fset, root, e.Name())
		if err != nil {
			return nil, err
		}
		if len(p.Sources) > 0 {
			pkgs = append(pkgs, p)
		}
	}
	sort.Slice(pkgs, func(i, j int) bool { return pkgs[i].Name < pkgs[j].Name })
	return pkgs, nil
})

func loadPkg(fset *token.FileSet, root, name string) (pkg, error) {
	p := pkg{Name: name, TestLines: make(map[string]int)}
	paths, err := filepath.Glob(filepath.Join(root, name, "*.go"))
	if err != nil {
		return p, err
	}
	sort.Strings(paths)
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return p, err
		}
		rel := filepath.ToSlash(filepath.Join(name, filepath.Base(path)))
		lines := strings.Count(string(data), "\n")
		if strings.HasSuffix(path, "_test.go") {
			p.TestLines[rel] = lines
			continue
		}
		f, err := parser.ParseFile(fset, path, data, parser.ParseComments)
		if err != nil {
			return p, err
		}
		p.Sources = append(p.Sources, source{Path: rel, Lines: lines, File: f})
	}
	return p, nil
}

// packages returns every package under internal/ except this one.
func packages(t *testing.T) []pkg {
	t.Helper()
	pkgs, err := loadTree()
	if err != nil {
		t.Fatalf("loading internal packages: %v", err)
	}
	return pkgs
}

// internalImports returns the sorted internal packages p imports.
func (p pkg) internalImports() []string {
	seen := make(map[string]bool)
	for _, s := range p.Sources {
		for _, imp := range s.File.Imports {
			path := strings.Trim(imp.Path.Value, `"`)
			if rest, ok := strings.CutPrefix(path, internalPrefix); ok {
				name, _, _ := strings.Cut(rest, "/")
				seen[name] = true
			}
		}
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
