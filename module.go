package modplayer

import (
	"bytes"
	"encoding/binary"
	"strings"
)

const (
	rowsPerPattern  = 64
	bytesPerChannel = 4
	numSampleSlots  = 32 // slot 0 is the silent sentinel
	numSongSamples  = 31 // stored in the file, 1-based once loaded
	patternTableLen = 128

	// headerSize is the byte count of everything before pattern data:
	// 20 (title) + 31*30 (sample headers) + 1 (song length) + 1 (restart,
	// ignored) + 128 (pattern table) + 4 (format signature).
	headerSize = 20 + numSongSamples*30 + 1 + 1 + patternTableLen + 4

	minBufferSize = 2048
)

// Sample is one of a Module's 32 instrument slots (slot 0 is always silent).
type Sample struct {
	Name         string
	Length       int // frames (8-bit PCM samples) in Data
	FineTune     int // -8..+7, eighths of a semitone
	Volume       int // 0..64
	RepeatOffset int // frames
	RepeatLength int // frames
	Loop         bool
	Data         []float32 // normalised to [-1, 1]
}

// ChannelNote is one channel's slot within a pattern line.
type ChannelNote struct {
	Period      int  // 12-bit Amiga period, 0 = no new note
	Sample      int  // 1..31, 0 = no sample change
	EffectType  byte // 0x0..0xF
	EffectParam byte
}

// Pattern is rowsPerPattern lines of NumChannels notes each, row-major.
type Pattern struct {
	Notes []ChannelNote
}

func (p *Pattern) noteAt(line, channel, numChannels int) *ChannelNote {
	return &p.Notes[line*numChannels+channel]
}

// Module is the immutable, parsed form of a MOD file.
type Module struct {
	Name         string
	NumChannels  int
	Samples      [numSampleSlots]Sample
	SongLength   int
	PatternTable [patternTableLen]byte
	Patterns     []Pattern
}

// NewModuleFromBytes parses a raw Protracker MOD byte buffer.
func NewModuleFromBytes(buf []byte) (*Module, error) {
	if len(buf) < minBufferSize {
		return nil, ErrShortBuffer
	}

	r := bytes.NewReader(buf)

	name := make([]byte, 20)
	if _, err := r.Read(name); err != nil {
		return nil, ErrShortBuffer
	}

	mod := &Module{
		Name:        strings.TrimRight(string(name), "\x00"),
		NumChannels: 4,
	}

	for i := 1; i <= numSongSamples; i++ {
		s, err := readSampleHeader(r)
		if err != nil {
			return nil, ErrShortBuffer
		}
		mod.Samples[i] = *s
	}

	songLength, err := r.ReadByte()
	if err != nil {
		return nil, ErrShortBuffer
	}
	mod.SongLength = int(songLength)

	if _, err := r.ReadByte(); err != nil { // restart byte, ignored
		return nil, ErrShortBuffer
	}

	if _, err := r.Read(mod.PatternTable[:]); err != nil {
		return nil, ErrShortBuffer
	}

	sig := make([]byte, 4)
	if _, err := r.Read(sig); err != nil {
		return nil, ErrShortBuffer
	}
	// The signature (e.g. "M.K.") is informational only for 4-channel MOD;
	// any 4 bytes are accepted, matching spec's "informational only" note.

	numPatterns := 0
	for i := 0; i < mod.SongLength; i++ {
		if int(mod.PatternTable[i]) > numPatterns {
			numPatterns = int(mod.PatternTable[i])
		}
	}
	numPatterns++

	var sampleBytes int
	for i := 1; i <= numSongSamples; i++ {
		sampleBytes += mod.Samples[i].Length
	}
	if len(buf) < headerSize+1024*numPatterns+sampleBytes {
		return nil, ErrSizeInconsistent
	}

	mod.Patterns = make([]Pattern, numPatterns)
	notesPerPattern := rowsPerPattern * mod.NumChannels
	scratch := make([]byte, notesPerPattern*bytesPerChannel)
	for p := 0; p < numPatterns; p++ {
		if _, err := r.Read(scratch); err != nil {
			return nil, ErrShortBuffer
		}

		pat := Pattern{Notes: make([]ChannelNote, notesPerPattern)}
		for n := 0; n < notesPerPattern; n++ {
			pat.Notes[n] = decodeNote(scratch[n*bytesPerChannel : (n+1)*bytesPerChannel])
		}
		mod.Patterns[p] = pat
	}

	for i := 1; i <= numSongSamples; i++ {
		smp := &mod.Samples[i]
		raw := make([]byte, smp.Length)
		if smp.Length > 0 {
			if _, err := r.Read(raw); err != nil {
				return nil, ErrShortBuffer
			}
		}
		smp.Data = make([]float32, smp.Length)
		for j, b := range raw {
			smp.Data[j] = float32(int8(b)) / 128.0
		}
	}

	return mod, nil
}

func readSampleHeader(r *bytes.Reader) (*Sample, error) {
	var hdr struct {
		Name         [22]byte
		LengthWords  uint16
		FineTune     uint8
		Volume       uint8
		RepeatOffset uint16
		RepeatLength uint16
	}
	if err := binary.Read(r, binary.BigEndian, &hdr); err != nil {
		return nil, err
	}

	smp := &Sample{
		Name:         strings.TrimRight(string(hdr.Name[:]), "\x00"),
		Length:       int(hdr.LengthWords) * 2,
		FineTune:     signExtendNibble(hdr.FineTune),
		Volume:       int(hdr.Volume),
		RepeatOffset: int(hdr.RepeatOffset) * 2,
		RepeatLength: int(hdr.RepeatLength) * 2,
	}
	smp.Loop = smp.RepeatLength > 2

	return smp, nil
}

// signExtendNibble interprets the low 4 bits of b as a signed nibble,
// yielding a value in -8..+7.
func signExtendNibble(b uint8) int {
	n := b & 0xF
	if n >= 8 {
		return int(n) - 16
	}
	return int(n)
}

// periodTable maps the 36 standard Amiga periods (octaves 1-3, untuned)
// to a note index 0..35, for display purposes only; it plays no part in
// playback. Grounded on main.go's periodTable/periodToNote/noteStr.
var periodTable = []int{
	856, 808, 762, 720, 678, 640, 604, 570, 538, 508, 480, 453,
	428, 404, 381, 360, 339, 320, 302, 285, 269, 254, 240, 226,
	214, 202, 190, 180, 170, 160, 151, 143, 135, 127, 120, 113,
}

var noteNames = []string{
	"C-", "C#", "D-", "D#", "E-", "F-", "F#", "G-", "G#", "A-", "A#", "B-",
}

// periodToNoteString renders a raw pattern period as e.g. "C-2" or "F#3",
// "..." if period is 0 (no note), or "???" if it is not one of the
// standard periods in periodTable.
func periodToNoteString(period int) string {
	if period == 0 {
		return "..."
	}
	for i, p := range periodTable {
		if p == period {
			return noteNames[i%12] + string(rune('1'+i/12))
		}
	}
	return "???"
}

func decodeNote(b []byte) ChannelNote {
	return ChannelNote{
		Sample:      int((b[0] & 0xF0) | (b[2] >> 4)),
		Period:      int(b[0]&0x0F)<<8 | int(b[1]),
		EffectType:  b[2] & 0x0F,
		EffectParam: b[3],
	}
}
