package xmpfiles

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	xmpbinary "github.com/simonhull/xmpmeta/internal/binary"
	"github.com/simonhull/xmpmeta/internal/types"
)

var xmpHeader = []byte("http://ns.adobe.com/xap/1.0/\x00")

// createJPEG builds SOI, optional XMP APP1, a scan and EOI.
func createJPEG(packet string) []byte {
	buf := &bytes.Buffer{}
	buf.Write([]byte{0xFF, 0xD8})
	buf.Write([]byte{0xFF, 0xE0, 0x00, 0x10})
	buf.WriteString("JFIF\x00\x01\x01\x00\x00\x01\x00\x01\x00\x00")
	if packet != "" {
		buf.Write([]byte{0xFF, 0xE1})
		binary.Write(buf, binary.BigEndian, uint16(2+len(xmpHeader)+len(packet)))
		buf.Write(xmpHeader)
		buf.WriteString(packet)
	}
	buf.Write([]byte{0xFF, 0xDA, 0x00, 0x08, 0x01, 0x01, 0x00, 0x00, 0x3F, 0x00})
	buf.Write([]byte{0x12, 0x34, 0x56, 0xFF, 0xD9})
	return buf.Bytes()
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func dirEntries(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	return names
}

func TestOpen_NotFound(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.jpg"), false)
	var notFound *types.FileNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("Open() error = %v, want *FileNotFoundError", err)
	}
}

func TestOpen_Unsupported(t *testing.T) {
	path := writeFile(t, "notes.txt", []byte("plain text without metadata"))
	_, err := Open(path, false)
	var unsupported *types.UnsupportedFormatError
	if !errors.As(err, &unsupported) {
		t.Fatalf("Open() error = %v, want *UnsupportedFormatError", err)
	}
}

func TestOpen_Corrupted(t *testing.T) {
	data := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x01}
	path := writeFile(t, "broken.jpg", data)
	_, err := Open(path, false)
	var corrupted *types.CorruptedFileError
	if !errors.As(err, &corrupted) {
		t.Fatalf("Open() error = %v, want *CorruptedFileError", err)
	}
}

func TestOpen_ReadsPacket(t *testing.T) {
	path := writeFile(t, "photo.jpg", createJPEG("<x:xmpmeta/>"))

	h, err := Open(path, false)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer h.Release()

	if h.Format() != types.FormatJPEG {
		t.Errorf("Format() = %v, want JPEG", h.Format())
	}
	if string(h.Packet()) != "<x:xmpmeta/>" {
		t.Errorf("Packet() = %q", h.Packet())
	}
	if h.Path() != path {
		t.Errorf("Path() = %q, want %q", h.Path(), path)
	}
}

func TestPut_ReadOnly(t *testing.T) {
	path := writeFile(t, "photo.jpg", createJPEG(""))
	h, err := Open(path, false)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Release()

	if ok, _ := h.CanPut([]byte("<x/>")); ok {
		t.Error("CanPut() = true on read-only handle")
	}
	var we *types.WriteError
	if err := h.Put([]byte("<x/>")); !errors.As(err, &we) || we.Reason != types.ReasonReadOnly {
		t.Errorf("Put() error = %v, want ReasonReadOnly", err)
	}
}

func TestPut_FormatRefuses(t *testing.T) {
	path := writeFile(t, "photo.jpg", createJPEG(""))
	h, err := Open(path, true)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Release()

	var we *types.WriteError
	err = h.Put(make([]byte, 70000))
	if !errors.As(err, &we) || we.Reason != types.ReasonFormat {
		t.Fatalf("Put() error = %v, want ReasonFormat", err)
	}
	if h.Staged() {
		t.Error("refused packet must not be staged")
	}
}

func TestCloseSafely_Commits(t *testing.T) {
	path := writeFile(t, "photo.jpg", createJPEG("<old/>"))
	old := time.Date(2012, 3, 17, 11, 45, 16, 0, time.UTC)
	if err := os.Chtimes(path, old, old); err != nil {
		t.Fatal(err)
	}

	h, err := Open(path, true)
	if err != nil {
		t.Fatal(err)
	}
	if err := h.Put([]byte("<new/>")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	opts := CommitOptions{BackupSuffix: ".bak", PreserveModTime: true}
	if err := h.CloseSafely(opts); err != nil {
		t.Fatalf("CloseSafely() error = %v", err)
	}

	reopened, err := Open(path, false)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Release()
	if string(reopened.Packet()) != "<new/>" {
		t.Errorf("Packet() after commit = %q", reopened.Packet())
	}

	backup, err := os.ReadFile(path + ".bak")
	if err != nil {
		t.Fatalf("backup missing: %v", err)
	}
	if !bytes.Equal(backup, createJPEG("<old/>")) {
		t.Error("backup does not hold the original bytes")
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if !info.ModTime().Equal(old) {
		t.Errorf("ModTime() = %v, want %v", info.ModTime(), old)
	}
	if info.Mode().Perm() != 0o644 {
		t.Errorf("Mode() = %v, want 0644", info.Mode().Perm())
	}

	names := dirEntries(t, filepath.Dir(path))
	if len(names) != 2 {
		t.Errorf("directory holds %v, want only the file and its backup", names)
	}
}

func TestCloseSafely_NothingStaged(t *testing.T) {
	original := createJPEG("<old/>")
	path := writeFile(t, "photo.jpg", original)

	h, err := Open(path, true)
	if err != nil {
		t.Fatal(err)
	}
	if err := h.CloseSafely(CommitOptions{}); err != nil {
		t.Fatalf("CloseSafely() error = %v", err)
	}

	var we *types.WriteError
	if err := h.CloseSafely(CommitOptions{}); !errors.As(err, &we) || we.Reason != types.ReasonClosed {
		t.Errorf("second CloseSafely() error = %v, want ReasonClosed", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, original) {
		t.Error("file changed without a staged packet")
	}
}

// failingHandler writes part of the output, then fails.
type failingHandler struct{}

func (failingHandler) Extract(sr *xmpbinary.SafeReader) ([]byte, error) { return nil, nil }

func (failingHandler) Write(w io.Writer, packet []byte, original io.ReaderAt, size int64) error {
	if _, err := w.Write([]byte{0xFF, 0xD8, 0xFF}); err != nil {
		return err
	}
	return errors.New("disk on fire")
}

func TestCloseSafely_FailureKeepsOriginal(t *testing.T) {
	original := createJPEG("<old/>")
	path := writeFile(t, "photo.jpg", original)

	h, err := Open(path, true)
	if err != nil {
		t.Fatal(err)
	}
	if err := h.Put([]byte("<new/>")); err != nil {
		t.Fatal(err)
	}
	h.handler = failingHandler{}

	err = h.CloseSafely(CommitOptions{})
	var we *types.WriteError
	if !errors.As(err, &we) || we.Reason != types.ReasonCommit {
		t.Fatalf("CloseSafely() error = %v, want ReasonCommit", err)
	}
	if !strings.Contains(err.Error(), "disk on fire") {
		t.Errorf("error %q does not carry the cause", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, original) {
		t.Error("original modified by failed commit")
	}
	if names := dirEntries(t, filepath.Dir(path)); len(names) != 1 {
		t.Errorf("temp file left behind: %v", names)
	}
}

func openFDs(t *testing.T) int {
	t.Helper()
	entries, err := os.ReadDir("/proc/self/fd")
	if err != nil {
		t.Skip("no /proc/self/fd on this platform")
	}
	return len(entries)
}

func TestOpen_FailureReleasesDescriptor(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("descriptor counting needs /proc")
	}
	path := writeFile(t, "broken.jpg", []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x01})

	before := openFDs(t)
	for range 20 {
		if _, err := Open(path, true); err == nil {
			t.Fatal("Open() succeeded on a corrupted file")
		}
	}
	if after := openFDs(t); after > before {
		t.Errorf("descriptors leaked: %d before, %d after", before, after)
	}
}

func noHardLinks(t *testing.T) {
	t.Helper()
	orig := linkFile
	linkFile = func(oldname, newname string) error {
		return &os.LinkError{Op: "link", Old: oldname, New: newname, Err: errors.ErrUnsupported}
	}
	t.Cleanup(func() { linkFile = orig })
}

func TestCloseSafely_BackupWithoutHardLinks(t *testing.T) {
	noHardLinks(t)
	original := createJPEG("<old/>")
	path := writeFile(t, "photo.jpg", original)

	h, err := Open(path, true)
	if err != nil {
		t.Fatal(err)
	}
	if err := h.Put([]byte("<new/>")); err != nil {
		t.Fatal(err)
	}
	if err := h.CloseSafely(CommitOptions{BackupSuffix: ".bak"}); err != nil {
		t.Fatalf("CloseSafely() error = %v", err)
	}

	backup, err := os.ReadFile(path + ".bak")
	if err != nil {
		t.Fatalf("backup missing: %v", err)
	}
	if !bytes.Equal(backup, original) {
		t.Error("backup does not hold the original bytes")
	}
	if got, _ := os.ReadFile(path); !bytes.Equal(got, createJPEG("<new/>")) {
		t.Error("file does not hold the new packet")
	}
	if names := dirEntries(t, filepath.Dir(path)); len(names) != 2 {
		t.Errorf("directory holds %v, want only the file and its backup", names)
	}
}

func TestCloseSafely_ReplaceFailureKeepsOriginal(t *testing.T) {
	noHardLinks(t)
	orig := replaceFile
	replaceFile = func(oldpath, newpath string) error {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: errors.New("device busy")}
	}
	t.Cleanup(func() { replaceFile = orig })

	original := createJPEG("<old/>")
	path := writeFile(t, "photo.jpg", original)

	h, err := Open(path, true)
	if err != nil {
		t.Fatal(err)
	}
	if err := h.Put([]byte("<new/>")); err != nil {
		t.Fatal(err)
	}

	err = h.CloseSafely(CommitOptions{BackupSuffix: ".bak"})
	var we *types.WriteError
	if !errors.As(err, &we) || we.Reason != types.ReasonCommit {
		t.Fatalf("CloseSafely() error = %v, want ReasonCommit", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("original vanished: %v", err)
	}
	if !bytes.Equal(got, original) {
		t.Error("original modified by failed commit")
	}
	for _, name := range dirEntries(t, filepath.Dir(path)) {
		if strings.HasSuffix(name, ".tmp") {
			t.Errorf("temp file left behind: %s", name)
		}
	}
}
