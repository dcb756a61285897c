package mp4

import (
	"bytes"
	"encoding/binary"
	"errors"
	"strings"
	"testing"

	xmpbinary "github.com/simonhull/xmpmeta/internal/binary"
	"github.com/simonhull/xmpmeta/internal/types"
)

// createMockBox creates a test box with given type and data.
func createMockBox(boxType string, data []byte) []byte {
	buf := &bytes.Buffer{}

	// Write size (8 byte header + data length)
	binary.Write(buf, binary.BigEndian, uint32(8+len(data)))
	buf.WriteString(boxType)
	buf.Write(data)

	return buf.Bytes()
}

func reader(data []byte) *xmpbinary.SafeReader {
	return xmpbinary.NewSafeReader(bytes.NewReader(data), int64(len(data)), "test.mp4")
}

func TestReadBoxHeader_Success(t *testing.T) {
	data := createMockBox("moov", []byte{0x01, 0x02, 0x03, 0x04})

	box, err := readBoxHeader(reader(data), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if box.Size != 12 {
		t.Errorf("expected size 12, got %d", box.Size)
	}
	if box.Type != "moov" {
		t.Errorf("expected type 'moov', got %s", box.Type)
	}
	if box.DataSize() != 4 {
		t.Errorf("expected data size 4, got %d", box.DataSize())
	}
	if box.DataOffset() != 8 {
		t.Errorf("expected data offset 8, got %d", box.DataOffset())
	}
}

func TestReadBoxHeader_Extended(t *testing.T) {
	buf := &bytes.Buffer{}

	// Extended size marker (1) followed by the 64-bit size
	binary.Write(buf, binary.BigEndian, uint32(1))
	buf.WriteString("mdat")
	binary.Write(buf, binary.BigEndian, uint64(20))
	buf.Write([]byte{0x01, 0x02, 0x03, 0x04})

	box, err := readBoxHeader(reader(buf.Bytes()), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !box.Extended {
		t.Error("expected extended size flag")
	}
	if box.Size != 20 {
		t.Errorf("expected size 20, got %d", box.Size)
	}
	if box.DataOffset() != 16 {
		t.Errorf("expected data offset 16, got %d", box.DataOffset())
	}
}

func TestReadBoxHeader_ToEOF(t *testing.T) {
	data := append(createMockBox("ftyp", []byte("isom")), 0, 0, 0, 0, 'm', 'd', 'a', 't', 0xAA, 0xBB)

	boxes, err := topLevel(reader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(boxes) != 2 {
		t.Fatalf("expected 2 boxes, got %d", len(boxes))
	}
	last := boxes[1]
	if !last.ToEOF || last.Size != 10 {
		t.Errorf("expected open-ended mdat of size 10, got ToEOF=%v size=%d", last.ToEOF, last.Size)
	}
}

func TestReadBoxHeader_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"size below header", []byte{0, 0, 0, 4, 't', 'e', 's', 't'}},
		{"size past EOF", []byte{0, 0, 0, 64, 'm', 'o', 'o', 'v', 1, 2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := readBoxHeader(reader(tt.data), 0)
			var corrupted *types.CorruptedFileError
			if !errors.As(err, &corrupted) {
				t.Fatalf("expected *CorruptedFileError, got %v", err)
			}
		})
	}
}

func TestBoxes(t *testing.T) {
	other := createMockBox("uuid", append(bytes.Repeat([]byte{0x01}, 16), "nope"...))
	data := createMovie(other, xmpBox("<x:xmpmeta/>"))
	r := bytes.NewReader(data)

	boxes, err := Boxes(r, int64(len(data)), "test.mp4")
	if err != nil {
		t.Fatalf("Boxes() error = %v", err)
	}

	var got []string
	var xmp int
	for _, b := range boxes {
		got = append(got, b.Type)
		if IsXMP(r, int64(len(data)), b) {
			xmp++
		}
	}
	want := []string{"ftyp", "moov", "uuid", "uuid", "mdat"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Boxes() types = %v, want %v", got, want)
	}
	if xmp != 1 {
		t.Errorf("IsXMP matched %d boxes, want 1", xmp)
	}
	if boxes[len(boxes)-1].End() != int64(len(data)) {
		t.Errorf("last box ends at %d, want %d", boxes[len(boxes)-1].End(), len(data))
	}
}
