package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mjm114514/personal-wgpu-demos/engine/model"
)

func countPrefix(obj, prefix string) int {
	n := 0
	for _, line := range strings.Split(obj, "\n") {
		if strings.HasPrefix(line, prefix) {
			n++
		}
	}
	return n
}

func TestRunWritesStdout(t *testing.T) {
	var stdout bytes.Buffer
	if err := run([]string{"-kind", "brick", "-subdivision", "1"}, &stdout, io.Discard); err != nil {
		t.Fatal(err)
	}
	obj := stdout.String()
	// 24 + 3 per triangle of the 12-triangle brick, then four times the triangles.
	if got := countPrefix(obj, "v "); got != 60 {
		t.Errorf("vertices = %d, want 60", got)
	}
	if got := countPrefix(obj, "f "); got != 48 {
		t.Errorf("faces = %d, want 48", got)
	}
}

func TestRunWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sphere.obj")
	var stderr bytes.Buffer
	if err := run([]string{"-kind", "geosphere", "-subdivision", "0", "-radius", "2", "-out", path, "-quiet"}, io.Discard, &stderr); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := countPrefix(string(data), "f "); got != 20 {
		t.Errorf("faces = %d, want 20", got)
	}
	if !strings.Contains(stderr.String(), "wrote obj") {
		t.Errorf("missing log line in %q", stderr.String())
	}
}

func TestRunRejectsBadInput(t *testing.T) {
	err := run([]string{"-kind", "teapot"}, io.Discard, io.Discard)
	if !errors.Is(err, model.ErrInvalidMesh) {
		t.Fatalf("unknown kind: %v, want ErrInvalidMesh", err)
	}
	err = run([]string{"-kind", "sphere", "-radius", "-1"}, io.Discard, io.Discard)
	if !errors.Is(err, model.ErrInvalidMesh) {
		t.Fatalf("negative radius: %v, want ErrInvalidMesh", err)
	}
	err = run([]string{"-kind", "brick", "-subdivision", "16"}, io.Discard, io.Discard)
	if !errors.Is(err, model.ErrInvalidMesh) {
		t.Fatalf("brick subdivision 16: %v, want ErrInvalidMesh", err)
	}
	if err := run([]string{"-bogus"}, io.Discard, io.Discard); err == nil {
		t.Fatal("expected a flag error")
	}
}
