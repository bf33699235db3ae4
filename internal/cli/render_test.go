package cli

import (
	"testing"

	"github.com/cszdzs/sonarqube/pkg/report"
)

func TestResolveComponent(t *testing.T) {
	rep, err := report.New(1, []report.Component{
		{Ref: 1, Kind: report.KindProject, Path: "", Children: []int64{2}},
		{Ref: 2, Kind: report.KindDirectory, Path: "src"},
	}, nil)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}

	byRef, err := resolveComponent(rep, "2")
	if err != nil || byRef.Path != "src" {
		t.Errorf("resolveComponent(2) = %v, %v", byRef, err)
	}

	byPath, err := resolveComponent(rep, "src")
	if err != nil || byPath.Ref != 2 {
		t.Errorf("resolveComponent(src) = %v, %v", byPath, err)
	}

	if _, err := resolveComponent(rep, "missing"); err == nil {
		t.Error("resolveComponent(missing) error = nil")
	}
}

func TestSafeFileName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"src/lib", "src_lib"},
		{"", "dsm"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		if got := safeFileName(tt.in); got != tt.want {
			t.Errorf("safeFileName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
