package arch_test

import "testing"

const (
	maxFilesPerPackage = 12
	maxLinesPerFile    = 400
)

func TestPackageFileCount(t *testing.T) {
	t.Parallel()

	for _, p := range packages(t) {
		if n := len(p.Sources); n > maxFilesPerPackage {
			t.Errorf("package %s has %d files (limit %d); split it", p.Name, n, maxFilesPerPackage)
		}
	}
}

func TestFileLineCount(t *testing.T) {
	t.Parallel()

	for _, p := range packages(t) {
		for _, s := range p.Sources {
			if s.Lines > maxLinesPerFile {
				t.Errorf("%s has %d lines (limit %d)", s.Path, s.Lines, maxLinesPerFile)
			}
		}
		for path, n := range p.TestLines {
			if n > maxLinesPerFile {
				t.Errorf("%s has %d lines (limit %d)", path, n, maxLinesPerFile)
			}
		}
	}
}
