package fileutil_test

// Notes:
// - WriteFileAtomic: the Sync, Chmod and Rename failure branches are not
//   tested because triggering them is platform-specific.
// - syncDir errors are ignored by design of the callers and not observable.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alnah/go-fencecache/internal/fileutil"
)

// ---------------------------------------------------------------------------
// TestValidatePath - Path validation
// ---------------------------------------------------------------------------

func TestValidatePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{
			name:    "relative path",
			path:    "cache/render-cache.msgpack",
			wantErr: nil,
		},
		{
			name:    "absolute path",
			path:    "/tmp/render-cache.msgpack",
			wantErr: nil,
		},
		{
			name:    "empty path",
			path:    "",
			wantErr: fileutil.ErrEmptyPath,
		},
		{
			name:    "null byte injection",
			path:    "cache\x00.db",
			wantErr: fileutil.ErrInvalidPath,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := fileutil.ValidatePath(tt.path)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidatePath(%q) = %v, want %v", tt.path, err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestWriteFileAtomic - Atomic replace semantics
// ---------------------------------------------------------------------------

func TestWriteFileAtomic(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		existing string
		content  string
	}{
		{
			name:    "new file",
			content: "fresh content",
		},
		{
			name:     "replaces existing file",
			existing: "old content that is longer than the new one",
			content:  "new",
		},
		{
			name:    "empty content",
			content: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			path := filepath.Join(dir, "snapshot.bin")
			if tt.existing != "" {
				if err := os.WriteFile(path, []byte(tt.existing), 0o600); err != nil {
					t.Fatalf("seeding file: %v", err)
				}
			}

			if err := fileutil.WriteFileAtomic(path, []byte(tt.content), fileutil.FilePermissions); err != nil {
				t.Fatalf("WriteFileAtomic() error = %v", err)
			}

			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("reading file: %v", err)
			}
			if string(data) != tt.content {
				t.Errorf("content = %q, want %q", data, tt.content)
			}

			entries, err := os.ReadDir(dir)
			if err != nil {
				t.Fatalf("reading dir: %v", err)
			}
			for _, e := range entries {
				if strings.HasSuffix(e.Name(), ".tmp") {
					t.Errorf("temporary file %q left behind", e.Name())
				}
			}
		})
	}
}

func TestWriteFileAtomic_MissingDirectory(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "missing", "snapshot.bin")
	err := fileutil.WriteFileAtomic(path, []byte("x"), fileutil.FilePermissions)
	if err == nil {
		t.Fatal("expected error for missing parent directory")
	}
	if fileutil.FileExists(path) {
		t.Error("file should not exist after failed write")
	}
}

func TestWriteFileAtomic_InvalidPath(t *testing.T) {
	t.Parallel()

	err := fileutil.WriteFileAtomic("", []byte("x"), fileutil.FilePermissions)
	if !errors.Is(err, fileutil.ErrEmptyPath) {
		t.Errorf("WriteFileAtomic(\"\") = %v, want %v", err, fileutil.ErrEmptyPath)
	}
}

// ---------------------------------------------------------------------------
// TestEnsureDir - Directory creation
// ---------------------------------------------------------------------------

func TestEnsureDir(t *testing.T) {
	t.Parallel()

	t.Run("creates nested directories", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "a", "b", "c")
		if err := fileutil.EnsureDir(dir); err != nil {
			t.Fatalf("EnsureDir() error = %v", err)
		}
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Errorf("directory %s not created", dir)
		}
	})

	t.Run("existing directory is fine", func(t *testing.T) {
		t.Parallel()

		if err := fileutil.EnsureDir(t.TempDir()); err != nil {
			t.Errorf("EnsureDir() error = %v", err)
		}
	})

	t.Run("fails when a file is in the way", func(t *testing.T) {
		t.Parallel()

		file := filepath.Join(t.TempDir(), "file")
		if err := os.WriteFile(file, []byte("x"), 0o600); err != nil {
			t.Fatalf("seeding file: %v", err)
		}
		if err := fileutil.EnsureDir(filepath.Join(file, "sub")); err == nil {
			t.Error("expected error when parent is a regular file")
		}
	})
}

// ---------------------------------------------------------------------------
// TestMoveAside - Quarantine of damaged files
// ---------------------------------------------------------------------------

func TestMoveAside(t *testing.T) {
	t.Parallel()

	t.Run("renames file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "cache.db")
		if err := os.WriteFile(path, []byte("garbage"), 0o600); err != nil {
			t.Fatalf("seeding file: %v", err)
		}

		target, err := fileutil.MoveAside(path, ".corrupt")
		if err != nil {
			t.Fatalf("MoveAside() error = %v", err)
		}
		if target != path+".corrupt" {
			t.Errorf("target = %q, want %q", target, path+".corrupt")
		}
		if fileutil.FileExists(path) {
			t.Error("original file still exists")
		}
		if !fileutil.FileExists(target) {
			t.Error("moved file does not exist")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := fileutil.MoveAside(filepath.Join(t.TempDir(), "nope"), ".corrupt")
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("MoveAside() = %v, want os.ErrNotExist", err)
		}
	})

	t.Run("directory", func(t *testing.T) {
		t.Parallel()

		_, err := fileutil.MoveAside(t.TempDir(), ".corrupt")
		if !errors.Is(err, fileutil.ErrPathIsDir) {
			t.Errorf("MoveAside() = %v, want %v", err, fileutil.ErrPathIsDir)
		}
	})
}

// ---------------------------------------------------------------------------
// TestFileExists / TestIsFilePath - Path helpers
// ---------------------------------------------------------------------------

func TestFileExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "x.yaml")
	if err := os.WriteFile(file, []byte("a: 1"), 0o600); err != nil {
		t.Fatalf("seeding file: %v", err)
	}

	if !fileutil.FileExists(file) {
		t.Error("FileExists(file) = false, want true")
	}
	if fileutil.FileExists(dir) {
		t.Error("FileExists(dir) = true, want false")
	}
	if fileutil.FileExists(filepath.Join(dir, "missing")) {
		t.Error("FileExists(missing) = true, want false")
	}
}

func TestIsFilePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{"docs", false},
		{"my-config", false},
		{"./fencecache.yaml", true},
		{"/etc/fencecache.yaml", true},
		{`C:\config\fencecache.yaml`, true},
		{"sub/dir", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			if got := fileutil.IsFilePath(tt.input); got != tt.want {
				t.Errorf("IsFilePath(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
