package xmpmeta

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/simonhull/xmpmeta/internal/xmpfiles"
)

// InstanceIDPath is the property WithInstanceID stamps.
const InstanceIDPath = "xmpMM:InstanceID"

// Save writes the current store back to the file and reopens it.
//
// This is an atomic operation: the new file is written to a temporary
// file in the same directory, synced and renamed over the original. If
// any step fails, the original file remains unchanged and the temporary
// file is removed.
//
// Options can be provided to customize save behavior:
//
//	err := file.Save(
//	    xmpmeta.WithBackup(".bak"),
//	    xmpmeta.WithValidation(),
//	)
//
// Returns *WriteError if the file is read-only, closed, or the format
// refuses the packet.
func (f *File) Save(opts ...SaveOption) error {
	options := defaultSaveOptions()
	for _, opt := range opts {
		opt(options)
	}

	if !f.mode.writable() {
		return &WriteError{Path: f.path, Reason: ReasonReadOnly}
	}
	if f.handle == nil {
		return &WriteError{Path: f.path, Reason: ReasonClosed}
	}

	if options.instanceID {
		if _, err := f.xmp.Set(NSXMPMM, InstanceIDPath, "xmp.iid:"+uuid.NewString()); err != nil {
			return fmt.Errorf("stamp instance ID: %w", err)
		}
	}

	if err := f.handle.Put(f.xmp.packet()); err != nil {
		return err
	}

	h := f.handle
	f.handle = nil
	if err := h.CloseSafely(xmpfiles.CommitOptions{
		BackupSuffix:    options.backupSuffix,
		PreserveModTime: options.preserveModTime,
	}); err != nil {
		return err
	}
	f.options.logger.Debug("saved file", "path", f.path, "backup", options.backupSuffix != "")

	want := f.xmp.digest()
	if err := f.open(); err != nil {
		return fmt.Errorf("reopen after save: %w", err)
	}

	if options.validate {
		if got := f.xmp.digest(); got != want {
			return &CorruptedFileError{
				Path:   f.path,
				Reason: fmt.Sprintf("validation failed: XMP read back (blake3 %x) differs from XMP written (blake3 %x)", got[:8], want[:8]),
			}
		}
	}

	return nil
}
