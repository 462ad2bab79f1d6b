package internalcheck

import (
	"testing"

	"golang.org/x/tools/go/packages"
)

const libraryPattern = "github.com/coinbase/pwharden-go/pkg/pwharden/..."

func load(t *testing.T, mode packages.LoadMode, patterns ...string) []*packages.Package {
	t.Helper()

	pkgs, err := packages.Load(&packages.Config{Mode: mode}, patterns...)
	if err != nil {
		t.Fatalf("load packages: %v", err)
	}
	if len(pkgs) == 0 {
		t.Fatalf("no packages matched %v", patterns)
	}
	return pkgs
}
