package registry

import (
	"io"
	"testing"

	"github.com/simonhull/xmpmeta/internal/binary"
	"github.com/simonhull/xmpmeta/internal/types"
)

// mockHandler implements Handler for testing.
type mockHandler struct {
	name string
}

func (m *mockHandler) Extract(sr *binary.SafeReader) ([]byte, error) {
	return []byte(m.name), nil
}

func (m *mockHandler) Write(w io.Writer, packet []byte, original io.ReaderAt, size int64) error {
	_, err := w.Write(packet)
	return err
}

func TestRegisterAndGet(t *testing.T) {
	// Use a format that's unlikely to conflict with real registrations
	format := types.Format(999)
	handler := &mockHandler{name: "test"}

	Register(format, handler)

	got := Get(format)
	if got == nil {
		t.Fatal("Get() returned nil for registered format")
	}

	mh, ok := got.(*mockHandler)
	if !ok {
		t.Fatal("Get() returned wrong handler type")
	}
	if mh.name != "test" {
		t.Errorf("Handler name = %q, want %q", mh.name, "test")
	}
}

func TestGet_Unregistered(t *testing.T) {
	format := types.Format(998)

	if got := Get(format); got != nil {
		t.Errorf("Get() = %v for unregistered format, want nil", got)
	}
}

func TestRegister_Overwrites(t *testing.T) {
	format := types.Format(997)

	Register(format, &mockHandler{name: "first"})
	Register(format, &mockHandler{name: "second"})

	mh, ok := Get(format).(*mockHandler)
	if !ok {
		t.Fatal("Get() returned wrong handler type")
	}
	if mh.name != "second" {
		t.Errorf("Handler name = %q, want %q (should be overwritten)", mh.name, "second")
	}
}

// limitedHandler implements both Handler and Checker.
type limitedHandler struct {
	mockHandler
	max int
}

func (l *limitedHandler) CanPut(packet []byte, original io.ReaderAt, size int64) (bool, string) {
	if len(packet) > l.max {
		return false, "packet too large"
	}
	return true, ""
}

func TestCheckerInterface(t *testing.T) {
	format := types.Format(996)
	Register(format, &limitedHandler{mockHandler: mockHandler{name: "limited"}, max: 4})

	c, ok := Get(format).(Checker)
	if !ok {
		t.Fatal("handler should implement Checker")
	}
	if ok, _ := c.CanPut([]byte("abc"), nil, 0); !ok {
		t.Error("CanPut() = false for small packet")
	}
	if ok, reason := c.CanPut([]byte("abcdef"), nil, 0); ok || reason == "" {
		t.Errorf("CanPut() = %v, %q for large packet, want false with reason", ok, reason)
	}
}

func TestMockHandlerNotChecker(t *testing.T) {
	Register(types.Format(995), &mockHandler{name: "plain"})
	if _, ok := Get(types.Format(995)).(Checker); ok {
		t.Error("plain handler should not implement Checker")
	}
}
