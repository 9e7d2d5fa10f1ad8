package architecture_test

import (
	"fmt"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"golang.org/x/mod/modfile"
)

// rule bans imports with any of the given prefixes from files under dir.
type rule struct {
	dir    string
	except []string
	banned []string
}

type importRef struct {
	file string
	imp  string
}

func TestLayering(t *testing.T) {
	root, mod := moduleRoot(t)
	in := func(p string) string { return mod + "/internal/" + p }

	rules := []rule{
		{dir: "internal/platform", banned: []string{in("genui/"), in("http"), in("observability"), in("app")}},
		{dir: "internal/genui", except: []string{"internal/genui/pipeline"}, banned: []string{in("genui/pipeline"), in("http"), in("observability"), in("app")}},
		{dir: "internal/observability", banned: []string{in("genui/pipeline"), in("http"), in("app")}},
		{dir: "internal/genui/pipeline", banned: []string{in("http"), in("app")}},
		{dir: "internal/http", banned: []string{in("app")}},
	}

	var report strings.Builder
	for _, r := range rules {
		for _, ref := range collectImports(t, root, r.dir, true) {
			if skipped(ref.file, r.except) {
				continue
			}
			for _, bad := range r.banned {
				if strings.HasPrefix(ref.imp, bad) {
					fmt.Fprintf(&report, "- %s imports %q (banned under %s)\n", ref.file, ref.imp, r.dir)
					break
				}
			}
		}
	}
	if report.Len() > 0 {
		t.Fatalf("layering violations:\n%s", report.String())
	}
}

// Rendering, extraction and adaptation stay usable outside an HTTP server.
func TestGenUICoreIsTransportFree(t *testing.T) {
	root, _ := moduleRoot(t)
	banned := []string{"net/http", "github.com/gin-gonic/", "github.com/gin-contrib/"}

	var report strings.Builder
	for _, ref := range collectImports(t, root, "internal/genui", false) {
		for _, bad := range banned {
			if ref.imp == bad || strings.HasPrefix(ref.imp, bad) {
				fmt.Fprintf(&report, "- %s imports %q\n", ref.file, ref.imp)
				break
			}
		}
	}
	if report.Len() > 0 {
		t.Fatalf("transport imports under internal/genui (keep them in internal/http):\n%s", report.String())
	}
}

func skipped(file string, except []string) bool {
	for _, e := range except {
		if strings.HasPrefix(file, e+"/") {
			return true
		}
	}
	return false
}

func collectImports(t *testing.T, root, dir string, withTests bool) []importRef {
	t.Helper()
	fset := token.NewFileSet()
	var refs []importRef
	err := filepath.WalkDir(filepath.Join(root, filepath.FromSlash(dir)), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".go") {
			return nil
		}
		if !withTests && strings.HasSuffix(path, "_test.go") {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		f, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if err != nil {
			return err
		}
		for _, spec := range f.Imports {
			imp, err := strconv.Unquote(spec.Path.Value)
			if err != nil {
				continue
			}
			refs = append(refs, importRef{file: filepath.ToSlash(rel), imp: imp})
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk %s: %v", dir, err)
	}
	return refs
}

func moduleRoot(t *testing.T) (string, string) {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	for {
		raw, err := os.ReadFile(filepath.Join(dir, "go.mod"))
		if err == nil {
			mod := modfile.ModulePath(raw)
			if mod == "" {
				t.Fatalf("module path not found in %s/go.mod", dir)
			}
			return dir, mod
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatalf("go.mod not found")
		}
		dir = parent
	}
}
