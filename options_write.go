package xmpmeta

// SaveOption configures behavior when saving files.
//
// Options use the functional options pattern for clean, extensible APIs.
//
// Example:
//
//	err := file.Save(
//	    xmpmeta.WithBackup(".bak"),
//	    xmpmeta.WithValidation(),
//	)
type SaveOption func(*saveOptions)

// saveOptions holds configuration for saving files.
type saveOptions struct {
	backupSuffix    string // Suffix for backup file (e.g., ".bak")
	validate        bool   // Re-read after write to verify
	preserveModTime bool   // Keep original modification time
	instanceID      bool   // Stamp a fresh xmpMM:InstanceID
}

// defaultSaveOptions returns the default configuration for saving.
func defaultSaveOptions() *saveOptions {
	return &saveOptions{}
}

// WithBackup keeps the previous version of the file next to it.
//
// The backup file will have the specified suffix appended to the original
// filename. For example, WithBackup(".bak") keeps "photo.jpg.bak"
// after replacing "photo.jpg".
//
// If the backup file already exists, it will be overwritten.
func WithBackup(suffix string) SaveOption {
	return func(o *saveOptions) {
		o.backupSuffix = suffix
	}
}

// WithValidation re-reads the file after writing to verify integrity.
//
// After saving, the reopened file's XMP is compared with what was
// written using BLAKE3 digests of the canonical serialization. A
// mismatch is reported as *CorruptedFileError.
func WithValidation() SaveOption {
	return func(o *saveOptions) {
		o.validate = true
	}
}

// WithPreserveModTime keeps the original file modification time.
//
// By default, saving updates the file's modification time to the current
// time. Use this when metadata edits should not count as a change to
// the file's content.
func WithPreserveModTime() SaveOption {
	return func(o *saveOptions) {
		o.preserveModTime = true
	}
}

// WithInstanceID stamps xmpMM:InstanceID with a new "xmp.iid:" UUID
// before writing, marking the saved file as a new instance.
func WithInstanceID() SaveOption {
	return func(o *saveOptions) {
		o.instanceID = true
	}
}
