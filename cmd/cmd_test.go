package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nikki93/gxwgsl/gpucompute"
)

func TestParseWorkgroup(t *testing.T) {
	tests := []struct {
		in   string
		want gpucompute.WorkgroupSizes
	}{
		{"1d", gpucompute.OneD()},
		{"2D", gpucompute.TwoD()},
		{"3d", gpucompute.ThreeD()},
		{"16, 4, 1", gpucompute.WorkgroupSizes{X: 16, Y: 4, Z: 1}},
	}
	for _, tt := range tests {
		got, err := parseWorkgroup(tt.in)
		if err != nil {
			t.Errorf("%q: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%q: got %s, want %s", tt.in, got, tt.want)
		}
	}

	for _, in := range []string{"", "4d", "8,8", "8,0,1", "8,x,1"} {
		if _, err := parseWorkgroup(in); err == nil {
			t.Errorf("%q: expected error", in)
		}
	}
}

func TestWriteFileIfChanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	written, err := writeFileIfChanged(path, []byte("a"))
	if err != nil || !written {
		t.Fatalf("first write: %v, %v", written, err)
	}
	written, err = writeFileIfChanged(path, []byte("a"))
	if err != nil || written {
		t.Fatalf("same contents: %v, %v", written, err)
	}
	written, err = writeFileIfChanged(path, []byte("b"))
	if err != nil || !written {
		t.Fatalf("new contents: %v, %v", written, err)
	}
	if data, _ := os.ReadFile(path); string(data) != "b" {
		t.Errorf("got %q", data)
	}
}

func TestWGSLCommand(t *testing.T) {
	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetArgs([]string{"wgsl", "--validate=false", "--workgroup", "2d", "--input-len", "100", "--output-len", "1000",
		"../examples/collision/collision.go"})
	defer rootCmd.SetArgs(nil)

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("wgsl: %v", err)
	}
	want, err := os.ReadFile("../compiler/testdata/collision.wgsl")
	if err != nil {
		t.Fatal(err)
	}
	if got := stdout.String(); got != string(want) {
		t.Errorf("wgsl output differs from compiler/testdata/collision.wgsl:\n%s", got)
	}
}

func TestWGSLCommandCompileErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.go")
	src := "package bad\n\nvar counter int\n\nfunc main() {}\n"
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	var stderr bytes.Buffer
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs([]string{"wgsl", "--validate=false", path})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	if err == nil || !strings.HasSuffix(err.Error(), "compile errors") {
		t.Fatalf("got %v, want compile errors", err)
	}
	if !strings.Contains(stderr.String(), "bad.go:3:") {
		t.Errorf("errors do not carry positions:\n%s", stderr.String())
	}
}
