package generate

import (
	"flag"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/cpcf/ngsyntax/binding"
	ngtest "github.com/cpcf/ngsyntax/testing"
)

var update = flag.Bool("update", false, "rewrite golden snapshots in testdata")

// TestGolden renders the request stored as YAML in each testdata archive's
// comment and compares the artifacts with the archive's files.
func TestGolden(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "*.txtar"))
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) == 0 {
		t.Fatal("no golden files found")
	}

	sm := ngtest.NewSnapshotManager("testdata", *update)
	parser := binding.NewParser()

	for _, path := range paths {
		name := strings.TrimSuffix(filepath.Base(path), ".txtar")
		t.Run(name, func(t *testing.T) {
			stored, err := sm.Load(name)
			if err != nil {
				t.Fatal(err)
			}

			var req Request
			if err := yaml.Unmarshal(stored.Comment, &req); err != nil {
				t.Fatalf("invalid request in %s: %v", path, err)
			}

			result := parser.ParseTemplateBindings(req.Directive, req.Binding, "")
			if len(result.Errors) > 0 {
				t.Fatalf("unexpected parse errors: %v", result.ErrorMessages())
			}

			a := Render(req.Directive, req.TagName, result.Bindings)
			actual := ngtest.NewArchive(string(stored.Comment),
				"skeleton.html", a.Skeleton,
				"directive.ts", a.Directive,
			)
			if err := sm.AssertSnapshot(name, actual); err != nil {
				t.Error(err)
			}
		})
	}
}
