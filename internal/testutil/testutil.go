// Package testutil provides test fixtures for building throwaway
// directory trees. All file operations use t.TempDir() for safe,
// isolated testing.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// Fixture is a temp directory tree rooted at RootDir (auto-cleaned).
type Fixture struct {
	T       *testing.T
	RootDir string
}

// NewFixture creates an empty fixture.
func NewFixture(t *testing.T) *Fixture {
	t.Helper()
	return &Fixture{T: t, RootDir: t.TempDir()}
}

// Path returns the absolute path for a fixture-relative path.
func (f *Fixture) Path(relPath string) string {
	return filepath.Join(f.RootDir, relPath)
}

// CreateFile creates a file with the given content, making parents as
// needed, and returns its path.
func (f *Fixture) CreateFile(relPath string, content []byte) string {
	f.T.Helper()

	fullPath := f.Path(relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		f.T.Fatalf("failed to create directory for %s: %v", fullPath, err)
	}
	if err := os.WriteFile(fullPath, content, 0644); err != nil {
		f.T.Fatalf("failed to create file %s: %v", fullPath, err)
	}
	return fullPath
}

// CreateFileWithSize creates a file filled with size zero bytes.
func (f *Fixture) CreateFileWithSize(relPath string, size int) string {
	f.T.Helper()
	return f.CreateFile(relPath, make([]byte, size))
}

// CreateFileWithAge creates a file and backdates its modification time.
func (f *Fixture) CreateFileWithAge(relPath string, content []byte, age time.Duration) string {
	f.T.Helper()

	fullPath := f.CreateFile(relPath, content)
	oldTime := time.Now().Add(-age)
	if err := os.Chtimes(fullPath, oldTime, oldTime); err != nil {
		f.T.Fatalf("failed to set file time for %s: %v", fullPath, err)
	}
	return fullPath
}

// CreateDir creates a directory and returns its path.
func (f *Fixture) CreateDir(relPath string) string {
	f.T.Helper()

	fullPath := f.Path(relPath)
	if err := os.MkdirAll(fullPath, 0755); err != nil {
		f.T.Fatalf("failed to create directory %s: %v", fullPath, err)
	}
	return fullPath
}

// CreateDirWithMode creates a directory with explicit permissions and
// restores them on cleanup so TempDir removal works.
func (f *Fixture) CreateDirWithMode(relPath string, mode os.FileMode) string {
	f.T.Helper()

	fullPath := f.CreateDir(relPath)
	if err := os.Chmod(fullPath, mode); err != nil {
		f.T.Fatalf("failed to chmod directory %s: %v", fullPath, err)
	}
	f.T.Cleanup(func() {
		os.Chmod(fullPath, 0755)
	})
	return fullPath
}

// CreateSymlink creates a symbolic link at relPath pointing to target.
func (f *Fixture) CreateSymlink(target, relPath string) string {
	f.T.Helper()

	fullPath := f.Path(relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		f.T.Fatalf("failed to create directory for %s: %v", fullPath, err)
	}
	if err := os.Symlink(target, fullPath); err != nil {
		f.T.Fatalf("failed to create symlink %s -> %s: %v", fullPath, target, err)
	}
	return fullPath
}

// CreateCycle makes dir/loop point back at dir, forming a traversal cycle
// when symlinks are followed.
func (f *Fixture) CreateCycle(dirRel, linkName string) (string, string) {
	f.T.Helper()

	dir := f.CreateDir(dirRel)
	link := f.CreateSymlink(dir, filepath.Join(dirRel, linkName))
	return dir, link
}

// SkipIfRoot skips tests that rely on permission failures, which root
// does not get.
func SkipIfRoot(t *testing.T) {
	t.Helper()
	if os.Geteuid() == 0 {
		t.Skip("skipping test when running as root")
	}
}
