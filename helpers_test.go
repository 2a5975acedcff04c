package modplayer

import (
	"strconv"
	"strings"
	"testing"
)

// newTestModule builds a minimal Module with nChannels channels and a
// single rowsPerPattern-line pattern whose leading rows come from
// rowsOfNotes (the rest are empty), plus sample slots 1 and 2 holding
// 1000 frames of full-scale PCM data at volume 60.
func newTestModule(rowsOfNotes [][]string) *Module {
	nChannels := len(rowsOfNotes[0])

	mod := &Module{
		Name:        "testmod",
		NumChannels: nChannels,
		SongLength:  1,
	}
	mod.PatternTable[0] = 0

	for i := 1; i <= 2; i++ {
		data := make([]float32, 1000)
		for j := range data {
			data[j] = 1.0
		}
		mod.Samples[i] = Sample{
			Name:   "testins" + strconv.Itoa(i),
			Length: 1000,
			Volume: 60,
			Data:   data,
		}
	}

	pat := Pattern{Notes: make([]ChannelNote, rowsPerPattern*nChannels)}
	for r, row := range rowsOfNotes {
		for c, col := range row {
			pat.Notes[r*nChannels+c] = decodeTestNote(col)
		}
	}
	mod.Patterns = []Pattern{pat}

	return mod
}

// decodeTestNote parses one pattern cell of the form "C-2 01 A05" (note,
// sample, effect+param), or "..." or "" for an empty cell.
func decodeTestNote(col string) ChannelNote {
	if col == "" {
		return ChannelNote{}
	}

	parts := []string{}
	for _, p := range strings.Split(col, " ") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	for len(parts) < 3 {
		parts = append(parts, "...")
	}

	return ChannelNote{
		Period:      decodeTestPeriod(parts[0]),
		Sample:      decodeTestSample(parts[1]),
		EffectType:  decodeTestEffectType(parts[2]),
		EffectParam: decodeTestEffectParam(parts[2]),
	}
}

func decodeTestPeriod(tok string) int {
	if tok == "..." || tok == "" {
		return 0
	}
	for i, name := range noteNames {
		_ = name
		if strings.HasPrefix(tok, noteNames[i]) {
			octave := int(tok[2]-'0') - 1
			if octave >= 0 && octave < 3 {
				return periodTable[octave*12+i]
			}
		}
	}
	panic("invalid test note " + tok)
}

func decodeTestSample(tok string) int {
	if tok == ".." || tok == "..." || tok == "" {
		return 0
	}
	v, err := strconv.Atoi(tok)
	if err != nil {
		panic(err)
	}
	return v
}

func decodeTestEffectType(tok string) byte {
	if tok == "..." || tok == "" {
		return 0
	}
	v, err := strconv.ParseUint(tok[0:1], 16, 8)
	if err != nil {
		panic(err)
	}
	return byte(v)
}

func decodeTestEffectParam(tok string) byte {
	if tok == "..." || tok == "" {
		return 0
	}
	v, err := strconv.ParseUint(tok[1:3], 16, 8)
	if err != nil {
		panic(err)
	}
	return byte(v)
}

func newPlayerWithTestPattern(rowsOfNotes [][]string, t *testing.T) *Player {
	t.Helper()
	mod := newTestModule(rowsOfNotes)
	return newPlayer(mod)
}

// advanceToNextRow ticks the player until its row (or pattern) changes.
func advanceToNextRow(p *Player) {
	oldLine, oldPattern := p.lineIdx, p.patternIdx
	for p.lineIdx == oldLine && p.patternIdx == oldPattern {
		p.tick()
	}
}

// advanceFullLine finishes out every remaining tick of the current line,
// then runs tick 0 (runLine) of the line it lands on, so the new line's
// triggers and primary effect have been fully applied before returning.
func advanceFullLine(p *Player) {
	advanceToNextRow(p)
	p.tick()
}

func validateChan(t *testing.T, ch *channelState, sample, period, volume int) {
	t.Helper()
	if ch.sample != sample {
		t.Errorf("sample: got %d, want %d", ch.sample, sample)
	}
	if ch.period != period {
		t.Errorf("period: got %d, want %d", ch.period, period)
	}
	if ch.volume != volume {
		t.Errorf("volume: got %d, want %d", ch.volume, volume)
	}
}
