package modplayer

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// buildMinimalMOD assembles a byte-exact, valid 4-channel MOD buffer with
// one empty pattern and no sample data, for parser tests that don't care
// about audio content.
func buildMinimalMOD(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer
	buf.WriteString("test song title      "[:20])

	for i := 0; i < numSongSamples; i++ {
		hdr := struct {
			Name         [22]byte
			LengthWords  uint16
			FineTune     uint8
			Volume       uint8
			RepeatOffset uint16
			RepeatLength uint16
		}{}
		if err := binary.Write(&buf, binary.BigEndian, hdr); err != nil {
			t.Fatal(err)
		}
	}

	buf.WriteByte(1) // song length
	buf.WriteByte(0) // restart byte

	var table [patternTableLen]byte
	buf.Write(table[:])
	buf.WriteString("M.K.")

	buf.Write(make([]byte, rowsPerPattern*4*bytesPerChannel))

	return buf.Bytes()
}

func TestNewModuleFromBytesMinimal(t *testing.T) {
	mod, err := NewModuleFromBytes(buildMinimalMOD(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mod.NumChannels != 4 {
		t.Errorf("NumChannels: got %d, want 4", mod.NumChannels)
	}
	if mod.SongLength != 1 {
		t.Errorf("SongLength: got %d, want 1", mod.SongLength)
	}
	if len(mod.Patterns) != 1 {
		t.Errorf("len(Patterns): got %d, want 1", len(mod.Patterns))
	}
}

func TestNewModuleFromBytesShortBuffer(t *testing.T) {
	_, err := NewModuleFromBytes(make([]byte, 100))
	if err != ErrShortBuffer {
		t.Errorf("got %v, want ErrShortBuffer", err)
	}
}

func TestNewModuleFromBytesSizeInconsistent(t *testing.T) {
	buf := buildMinimalMOD(t)
	buf = buf[:len(buf)-10] // truncate pattern data
	_, err := NewModuleFromBytes(buf)
	if err != ErrSizeInconsistent {
		t.Errorf("got %v, want ErrSizeInconsistent", err)
	}
}

func TestSignExtendNibble(t *testing.T) {
	cases := []struct {
		in   uint8
		want int
	}{
		{0x00, 0}, {0x07, 7}, {0x08, -8}, {0x0F, -1},
		{0xF0 | 0x0, 0}, // high nibble must be ignored
	}
	for _, c := range cases {
		if got := signExtendNibble(c.in); got != c.want {
			t.Errorf("signExtendNibble(%#x) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestDecodeNote(t *testing.T) {
	// period 0x1F4 = 500, effect C, param 0x20
	b := []byte{0x11, 0xF4, 0x0C, 0x20}
	n := decodeNote(b)
	if n.Period != 500 {
		t.Errorf("Period: got %d, want 500", n.Period)
	}
	if n.EffectType != 0xC {
		t.Errorf("EffectType: got %#x, want 0xC", n.EffectType)
	}
}

func TestPeriodToNoteString(t *testing.T) {
	cases := []struct {
		period int
		want   string
	}{
		{0, "..."},
		{856, "C-1"},
		{428, "C-2"},
		{214, "C-3"},
		{999, "???"},
	}
	for _, c := range cases {
		if got := periodToNoteString(c.period); got != c.want {
			t.Errorf("periodToNoteString(%d) = %q, want %q", c.period, got, c.want)
		}
	}
}
