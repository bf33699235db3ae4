package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cszdzs/sonarqube/pkg/errors"
)

func writeReport(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "report.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write report: %v", err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeReport(t, `{
		"root_ref": 1,
		"components": [
			{"ref": 1, "kind": "PROJECT", "path": "", "children": [2]},
			{"ref": 2, "kind": "DIRECTORY", "path": "src", "children": [3]},
			{"ref": 3, "kind": "FILE", "path": "src/a.go"}
		],
		"dependencies": {
			"3": [{"to": 3, "weight": 1}]
		}
	}`)

	r, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if r.Root() != 1 {
		t.Errorf("Root() = %d, want 1", r.Root())
	}
	deps, err := r.FileDependencies(3)
	if err != nil || len(deps) != 1 {
		t.Errorf("FileDependencies(3) = %v, %v, want 1 edge", deps, err)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("LoadFile() error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestLoadFile_MalformedJSON(t *testing.T) {
	path := writeReport(t, `{"root_ref": `)

	_, err := LoadFile(path)
	if !errors.Is(err, errors.ErrCodeInvalidReport) {
		t.Errorf("LoadFile() error = %v, want INVALID_REPORT", err)
	}
}

func TestLoadFile_BadDependencyKey(t *testing.T) {
	path := writeReport(t, `{
		"root_ref": 1,
		"components": [{"ref": 1, "kind": "PROJECT", "path": ""}],
		"dependencies": {"src/a.go": []}
	}`)

	_, err := LoadFile(path)
	if !errors.Is(err, errors.ErrCodeInvalidReport) {
		t.Errorf("LoadFile() error = %v, want INVALID_REPORT", err)
	}
}
