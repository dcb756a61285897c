package xmpfiles

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/simonhull/xmpmeta/internal/types"
)

// CommitOptions configure how a staged packet reaches the disk.
type CommitOptions struct {
	// BackupSuffix keeps the previous file at path+suffix when non-empty.
	BackupSuffix string

	// PreserveModTime restores the original modification time.
	PreserveModTime bool
}

// CloseSafely commits the staged packet, if any, and releases the file.
// The replacement is written to a temporary file in the same directory
// and renamed over the original, so a failure at any step leaves the
// original untouched and no temporary file behind.
func (h *Handle) CloseSafely(opts CommitOptions) error {
	if h.f == nil {
		return &types.WriteError{Path: h.path, Reason: types.ReasonClosed}
	}
	if !h.staged {
		return h.Release()
	}

	err := h.commit(opts)
	if rerr := h.Release(); err == nil && rerr != nil {
		err = rerr
	}
	if err != nil {
		return &types.WriteError{Err: err, Path: h.path, Reason: types.ReasonCommit}
	}
	return nil
}

func (h *Handle) commit(opts CommitOptions) error { //nolint:gocyclo // Atomic file operations require sequential steps
	info, err := h.f.Stat()
	if err != nil {
		return fmt.Errorf("stat original: %w", err)
	}

	// Create temp file in same directory as the original (for atomic rename)
	dir := filepath.Dir(h.path)
	tempFile, err := os.CreateTemp(dir, ".xmpmeta-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	// Ensure cleanup on any error
	success := false
	defer func() {
		if !success {
			_ = tempFile.Close()    //nolint:errcheck // Best effort cleanup
			_ = os.Remove(tempPath) //nolint:errcheck // Best effort cleanup
		}
	}()

	if err := h.handler.Write(tempFile, h.pending, h.f, h.size); err != nil {
		return fmt.Errorf("write: %w", err)
	}

	// Sync temp file (fsync) to ensure data is on disk
	if err := tempFile.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tempFile.Chmod(info.Mode().Perm()); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}

	// Close temp file before rename
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	// The original must be closed before it is replaced
	if err := h.Release(); err != nil {
		return fmt.Errorf("close original: %w", err)
	}

	if opts.BackupSuffix != "" {
		backupPath := h.path + opts.BackupSuffix
		_ = os.Remove(backupPath) //nolint:errcheck // Replaced below either way
		if err := linkFile(h.path, backupPath); err != nil {
			// The original stays at its path until the final rename.
			if err := copyFile(h.path, backupPath, info.Mode().Perm()); err != nil {
				return fmt.Errorf("create backup: %w", err)
			}
		}
	}

	// Atomic rename temp -> original
	if err := replaceFile(tempPath, h.path); err != nil {
		return fmt.Errorf("rename temp to original: %w", err)
	}

	// Mark success so defer doesn't clean up
	success = true

	syncDir(dir)

	if opts.PreserveModTime {
		_ = os.Chtimes(h.path, info.ModTime(), info.ModTime()) //nolint:errcheck // Non-fatal: file was written successfully
	}
	return nil
}

// Replaced in tests to simulate filesystems without hard links and
// failing renames.
var (
	linkFile    = os.Link
	replaceFile = os.Rename
)

// copyFile copies src to dst through a temporary file, so dst is either
// absent, its previous content, or a complete copy.
func copyFile(src, dst string, perm os.FileMode) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.CreateTemp(filepath.Dir(dst), ".xmpmeta-backup-*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = out.Close()           //nolint:errcheck // Best effort cleanup
			_ = os.Remove(out.Name()) //nolint:errcheck // Best effort cleanup
		}
	}()

	if _, err = io.Copy(out, in); err != nil {
		return err
	}
	if err = out.Sync(); err != nil {
		return err
	}
	if err = out.Chmod(perm); err != nil {
		return err
	}
	if err = out.Close(); err != nil {
		return err
	}
	return os.Rename(out.Name(), dst)
}

// syncDir flushes the directory entry of the rename.
func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = d.Sync()  //nolint:errcheck // Not supported on every platform
	_ = d.Close() //nolint:errcheck // Read-only handle
}
