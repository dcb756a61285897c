package packet

import (
	"bytes"
	"strings"
	"testing"

	"github.com/simonhull/xmpmeta/internal/binary"
	"github.com/simonhull/xmpmeta/internal/types"
)

func wrap(body string, padding int, end string) string {
	return `<?xpacket begin="" id="W5M0MpCehiHzreSzNTczkc9d"?>` + body +
		strings.Repeat(" ", padding) + `<?xpacket end="` + end + `"?>`
}

// host embeds a packet between opaque binary data.
func host(p string) []byte {
	data := []byte("%PDF-1.4\n\x00\x01\x02 stream\n")
	data = append(data, p...)
	return append(data, "\nendstream\x00\x03\x04"...)
}

func reader(data []byte) *binary.SafeReader {
	return binary.NewSafeReader(bytes.NewReader(data), int64(len(data)), "doc.pdf")
}

func TestExtract(t *testing.T) {
	p := wrap("<x:xmpmeta/>", 40, "w")
	got, err := Handler{}.Extract(reader(host(p)))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if string(got) != p {
		t.Errorf("Extract() = %q, want %q", got, p)
	}
}

func TestExtract_NoPacket(t *testing.T) {
	got, err := Handler{}.Extract(reader([]byte("plain data with no packet")))
	if err != nil || got != nil {
		t.Errorf("Extract() = %q, %v; want nil, nil", got, err)
	}
}

func TestExtract_Unterminated(t *testing.T) {
	_, err := Handler{}.Extract(reader(host(`<?xpacket begin="" id="x"?><x:xmpmeta/>`)))
	if err == nil {
		t.Fatal("Extract() error = nil, want corrupted")
	}
}

func TestFit(t *testing.T) {
	p := []byte(wrap("<x:xmpmeta/>", 5, "w"))

	tests := []struct {
		name    string
		size    int
		wantErr bool
	}{
		{"same size", len(p), false},
		{"grow", len(p) + 250, false},
		{"shrink into padding", len(p) - 5, false},
		{"too small", len(p) - 6, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Fit(p, tt.size)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Fit() error = nil, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Fit() error = %v", err)
			}
			if len(got) != tt.size {
				t.Errorf("len(Fit()) = %d, want %d", len(got), tt.size)
			}
			if !bytes.HasSuffix(got, []byte(`<?xpacket end="w"?>`)) {
				t.Error("trailer lost")
			}
		})
	}

	if _, err := Fit([]byte("<x:xmpmeta/>"), 100); err == nil {
		t.Error("Fit() without trailer should fail")
	}
}

func TestWrite_InPlace(t *testing.T) {
	original := host(wrap("<x:xmpmeta>old</x:xmpmeta>", 200, "w"))
	replacement := []byte(wrap("<x:xmpmeta>new and longer</x:xmpmeta>", 10, "w"))

	var out bytes.Buffer
	if err := (Handler{}).Write(&out, replacement, bytes.NewReader(original), int64(len(original))); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if out.Len() != len(original) {
		t.Fatalf("size changed: %d -> %d", len(original), out.Len())
	}
	if !bytes.HasPrefix(out.Bytes(), []byte("%PDF-1.4\n\x00\x01\x02 stream\n")) ||
		!bytes.HasSuffix(out.Bytes(), []byte("\nendstream\x00\x03\x04")) {
		t.Error("bytes around the packet changed")
	}
	if !bytes.Contains(out.Bytes(), []byte("new and longer")) {
		t.Error("new packet not written")
	}
}

func TestCanPut(t *testing.T) {
	tests := []struct {
		name     string
		original []byte
		packet   string
		want     bool
	}{
		{"fits", host(wrap("<a/>", 100, "w")), wrap("<b/>", 0, "w"), true},
		{"too big", host(wrap("<a/>", 0, "w")), wrap(strings.Repeat("b", 50), 0, "w"), false},
		{"read-only", host(wrap("<a/>", 100, "r")), wrap("<b/>", 0, "w"), false},
		{"no packet", []byte("nothing here"), wrap("<b/>", 0, "w"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, reason := Handler{}.CanPut([]byte(tt.packet), bytes.NewReader(tt.original), int64(len(tt.original)))
			if ok != tt.want {
				t.Errorf("CanPut() = %v (%s), want %v", ok, reason, tt.want)
			}
			if !ok && reason == "" {
				t.Error("refusal without reason")
			}
		})
	}

	original := host(wrap("<a/>", 0, "r"))
	err := Handler{}.Write(&bytes.Buffer{}, []byte(wrap("<b/>", 0, "w")), bytes.NewReader(original), int64(len(original)))
	if types.CodeOf(err) != types.CodeBadFileFormat {
		t.Errorf("Write() code = %v, want %v", types.CodeOf(err), types.CodeBadFileFormat)
	}
}
