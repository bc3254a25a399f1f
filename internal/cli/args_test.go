package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0644); err != nil {
			t.Fatalf("failed to create test file %s: %v", name, err)
		}
	}
}

func asValidationError(t *testing.T, err error) *ValidationError {
	t.Helper()
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %T (%v)", err, err)
	}
	return ve
}

func TestParseArgs(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"scan.pdf": "pdf"})
	file := filepath.Join(root, "scan.pdf")

	t.Run("no args", func(t *testing.T) {
		_, err := ParseArgs(nil)
		if ve := asValidationError(t, err); ve.Arg != "<files>" || ve.Cause != "no files provided" {
			t.Errorf("unexpected error %+v", ve)
		}
	})

	t.Run("file and directory with messy path", func(t *testing.T) {
		got, err := ParseArgs([]string{filepath.Join(root, ".", "scan.pdf"), root})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("expected 2 results, got %d", len(got))
		}
		if got[0].FullPath != file || got[0].Kind != PathFile {
			t.Errorf("unexpected first path %+v", got[0])
		}
		if got[1].FullPath != root || got[1].Kind != PathDir {
			t.Errorf("unexpected second path %+v", got[1])
		}
	})

	t.Run("missing path", func(t *testing.T) {
		_, err := ParseArgs([]string{filepath.Join(root, "missing.png")})
		if ve := asValidationError(t, err); ve.Cause != "not found or not accessible" {
			t.Errorf("unexpected cause %q", ve.Cause)
		}
	})
}

func TestExpandFiles(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"b.png":             "b",
		"a.jpg":             "a",
		"nested/c.pdf":      "c",
		".hidden/secret":    "s",
		"nested/.DS_Store":  "x",
		"nested/deep/d.txt": "d",
	})

	parsed, err := ParseArgs([]string{filepath.Join(root, "b.png"), root})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := ExpandFiles(parsed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{
		filepath.Join(root, "b.png"),
		filepath.Join(root, "a.jpg"),
		filepath.Join(root, "nested", "c.pdf"),
		filepath.Join(root, "nested", "deep", "d.txt"),
	}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("file %d: expected %s, got %s", i, want[i], got[i])
		}
	}

	t.Run("empty directory", func(t *testing.T) {
		parsed, _ := ParseArgs([]string{t.TempDir()})
		_, err := ExpandFiles(parsed)
		if ve := asValidationError(t, err); ve.Cause != "no regular files found" {
			t.Errorf("unexpected cause %q", ve.Cause)
		}
	})
}

func TestParseImagePair(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"id.png": "1", "selfie.jpg": "2"})
	id, selfie := filepath.Join(root, "id.png"), filepath.Join(root, "selfie.jpg")

	a, b, err := ParseImagePair([]string{id, selfie})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a != id || b != selfie {
		t.Errorf("unexpected pair %s, %s", a, b)
	}

	tests := []struct {
		name string
		args []string
	}{
		{"one image", []string{id}},
		{"three images", []string{id, selfie, id}},
		{"directory", []string{id, root}},
		{"missing", []string{id, filepath.Join(root, "nope.png")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseImagePair(tt.args)
			asValidationError(t, err)
		})
	}
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{Arg: "scan.pdf", Cause: "file not found"}
	if got := err.Error(); got != `invalid argument "scan.pdf": file not found` {
		t.Errorf("unexpected message %q", got)
	}
}
