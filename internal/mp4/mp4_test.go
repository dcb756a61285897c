package mp4

import (
	"bytes"
	"strings"
	"testing"
)

func xmpBox(packet string) []byte {
	return createMockBox("uuid", append(XMPBoxID[:], packet...))
}

// createMovie builds ftyp, moov and mdat with optional extra boxes
// before mdat.
func createMovie(extra ...[]byte) []byte {
	data := createMockBox("ftyp", []byte("isom\x00\x00\x02\x00isomavc1"))
	data = append(data, createMockBox("moov", bytes.Repeat([]byte{0x11}, 32))...)
	for _, e := range extra {
		data = append(data, e...)
	}
	return append(data, createMockBox("mdat", bytes.Repeat([]byte{0x22}, 64))...)
}

func write(t *testing.T, original []byte, packet string) []byte {
	t.Helper()
	var out bytes.Buffer
	if err := (Handler{}).Write(&out, []byte(packet), bytes.NewReader(original), int64(len(original))); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	return out.Bytes()
}

func extract(t *testing.T, data []byte) string {
	t.Helper()
	got, err := Handler{}.Extract(reader(data))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	return string(got)
}

func TestExtract(t *testing.T) {
	if got := extract(t, createMovie()); got != "" {
		t.Errorf("Extract() = %q, want none", got)
	}

	// a uuid box with another usertype is not XMP
	other := createMockBox("uuid", append(bytes.Repeat([]byte{0x01}, 16), "nope"...))
	if got := extract(t, createMovie(other, xmpBox("<x:xmpmeta/>"))); got != "<x:xmpmeta/>" {
		t.Errorf("Extract() = %q, want %q", got, "<x:xmpmeta/>")
	}
}

func TestWrite_AppendsWhenAbsent(t *testing.T) {
	original := createMovie()
	out := write(t, original, "<x:xmpmeta/>")

	if !bytes.HasPrefix(out, original) {
		t.Error("original boxes must be kept byte for byte")
	}
	if got := extract(t, out); got != "<x:xmpmeta/>" {
		t.Errorf("Extract() = %q", got)
	}
}

func TestWrite_InPlace(t *testing.T) {
	original := createMovie(xmpBox(strings.Repeat("x", 100)))
	out := write(t, original, "<short/>")

	if len(out) != len(original) {
		t.Fatalf("in-place write changed size: %d -> %d", len(original), len(out))
	}
	if got := extract(t, out); got != "<short/>" {
		t.Errorf("Extract() = %q", got)
	}

	boxes, err := topLevel(reader(out))
	if err != nil {
		t.Fatalf("topLevel() error = %v", err)
	}
	types := make([]string, len(boxes))
	for i, b := range boxes {
		types[i] = b.Type
	}
	if strings.Join(types, ",") != "ftyp,moov,uuid,free,mdat" {
		t.Errorf("box layout = %v", types)
	}
	if boxes[4].Offset != int64(len(original)-72) {
		t.Error("mdat moved")
	}
}

func TestWrite_ExactFit(t *testing.T) {
	original := createMovie(xmpBox("12345678"))
	out := write(t, original, "abcdefgh")

	if len(out) != len(original) {
		t.Fatalf("exact fit changed size: %d -> %d", len(original), len(out))
	}
	if got := extract(t, out); got != "abcdefgh" {
		t.Errorf("Extract() = %q", got)
	}
}

func TestWrite_GrowsByAppending(t *testing.T) {
	original := createMovie(xmpBox("<small/>"))
	packet := strings.Repeat("y", 200)
	out := write(t, original, packet)

	if got := extract(t, out); got != packet {
		t.Errorf("Extract() = %q", got)
	}

	boxes, err := topLevel(reader(out))
	if err != nil {
		t.Fatalf("topLevel() error = %v", err)
	}
	if boxes[2].Type != "free" {
		t.Errorf("old XMP box type = %q, want free", boxes[2].Type)
	}
	if boxes[3].Type != "mdat" || boxes[3].Offset != int64(len(original)-72) {
		t.Error("mdat moved")
	}
	if boxes[4].Type != "uuid" {
		t.Errorf("last box = %q, want uuid", boxes[4].Type)
	}
}

func TestCanPut_OpenEndedMdat(t *testing.T) {
	original := createMockBox("ftyp", []byte("isom"))
	original = append(original, 0, 0, 0, 0, 'm', 'd', 'a', 't', 0x01, 0x02)

	ok, reason := Handler{}.CanPut([]byte("<x/>"), bytes.NewReader(original), int64(len(original)))
	if ok {
		t.Fatal("CanPut() = true, want false for open-ended final box")
	}
	if !strings.Contains(reason, "mdat") {
		t.Errorf("reason = %q, want it to name the box", reason)
	}
}
