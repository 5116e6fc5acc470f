package publish

import (
	"context"
	"fmt"
	"os"
	"path"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
)

// FilesystemSink writes files into a billy filesystem.
//
// Each file is written to a temporary file in its target directory and
// renamed into place, so a failed write never leaves a truncated file.
type FilesystemSink struct {
	fs   billy.Filesystem
	perm os.FileMode
}

// NewFilesystemSink wraps an existing billy filesystem.
func NewFilesystemSink(fs billy.Filesystem) *FilesystemSink {
	return &FilesystemSink{fs: fs, perm: 0o644}
}

// NewDirSink writes below dir, creating it if needed.
func NewDirSink(dir string) (*FilesystemSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return NewFilesystemSink(osfs.New(dir)), nil
}

// NewMemorySink keeps files in memory.
func NewMemorySink() *FilesystemSink {
	return NewFilesystemSink(memfs.New())
}

// Filesystem returns the underlying filesystem.
func (s *FilesystemSink) Filesystem() billy.Filesystem {
	return s.fs
}

// Write stores data at p, creating intermediate directories.
func (s *FilesystemSink) Write(ctx context.Context, p string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	name, err := cleanPath(p)
	if err != nil {
		return err
	}

	dir := path.Dir(name)
	if dir != "." {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	tmp, err := util.TempFile(s.fs, dir, ".pagebake-")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = s.fs.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = s.fs.Remove(tmpName)
		return err
	}

	// TempFile creates files as 0600.
	if ch, ok := s.fs.(billy.Chmod); ok {
		if err := ch.Chmod(tmpName, s.perm); err != nil {
			_ = s.fs.Remove(tmpName)
			return fmt.Errorf("chmod %s: %w", name, err)
		}
	}

	if err := s.fs.Rename(tmpName, name); err != nil {
		_ = s.fs.Remove(tmpName)
		return err
	}
	return nil
}

// ReadFile returns the content stored at p.
func (s *FilesystemSink) ReadFile(p string) ([]byte, error) {
	name, err := cleanPath(p)
	if err != nil {
		return nil, err
	}
	return util.ReadFile(s.fs, name)
}

// Clean removes everything below the sink root.
func (s *FilesystemSink) Clean() error {
	entries, err := s.fs.ReadDir("/")
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, e := range entries {
		if err := util.RemoveAll(s.fs, e.Name()); err != nil {
			return err
		}
	}
	return nil
}

// Files lists every regular file below the sink root, slash-separated.
func (s *FilesystemSink) Files() ([]string, error) {
	var files []string
	err := util.Walk(s.fs, "/", func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			files = append(files, path.Clean(p)[1:])
		}
		return nil
	})
	return files, err
}
