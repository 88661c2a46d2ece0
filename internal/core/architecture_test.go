package core

import (
	"golang.org/x/tools/go/packages"
	"strings"
	"testing"
)

const modulePath = "github.com/HtWu123/databootcamp-final-project"

// TestLayering keeps the engine free of I/O packages: core and model may
// import each other but nothing from repository, infrastructure, config or api.
func TestLayering(t *testing.T) {
	cfg := &packages.Config{Mode: packages.NeedName | packages.NeedImports}
	pkgs, err := packages.Load(cfg, modulePath+"/internal/core", modulePath+"/internal/domain/model")
	if err != nil {
		t.Fatalf("load packages: %v", err)
	}
	forbidden := []string{
		modulePath + "/internal/domain/repository",
		modulePath + "/internal/infrastructure",
		modulePath + "/internal/config",
		modulePath + "/internal/api",
	}
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			t.Errorf("%s: %v", pkg.PkgPath, e)
		}
		for path := range pkg.Imports {
			for _, f := range forbidden {
				if strings.HasPrefix(path, f) {
					t.Errorf("%s imports %s", pkg.PkgPath, path)
				}
			}
		}
	}
	if len(pkgs) != 2 {
		t.Fatalf("loaded %d packages, want 2", len(pkgs))
	}
}
