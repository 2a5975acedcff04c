package modplayer

import (
	"fmt"
	"os"

	clone "github.com/huandu/go-clone/generic"
)

const (
	defaultSampleRate = 48000
	defaultSpeed      = 6
	defaultBPM        = 125
)

// Player is the sequencer+mixer facade (spec §2.6): it owns a parsed
// Module, per-channel playback state, song position, and decode-time
// configuration, and exposes frame-producing entry points. Grounded on
// player.go's Player/NewPlayer/GenerateAudio, extended with the
// Start/Stop/IsPlaying/SeekTo/NoteDataFor/Position/State surface implied
// by player_test.go and cmd/modplay/play.go.
type Player struct {
	Module *Module

	// Mute is a bitmask of muted channels, channel 1 in the LSB.
	Mute uint

	sampleRate  int
	channelsOut int
	stereoWidth float64

	channels        []channelState
	initialChannels []channelState

	patternIdx          int
	lineIdx             int
	tickIdx             int
	framesUntilNextTick int

	speed int
	bpm   int

	doPositionJump      bool
	jumpPatIdx          int
	jumpLineIdx         int
	jumpPatSetThisLine  bool
	jumpLineSetThisLine bool

	patternDelay int

	playing bool

	mixL, mixR []float32
	scratch    []float32
}

// PlayerPosition is a snapshot of song position.
type PlayerPosition struct {
	Order int
	Row   int
}

// ChannelSnapshot is one channel's contribution to a PlayerState.
type ChannelSnapshot struct {
	Instrument int // -1 if silent
	TrigOrder  int
	TrigRow    int
}

// PlayerState is a point-in-time snapshot for UIs (spec SUPPLEMENTED FEATURES).
type PlayerState struct {
	Order    int
	Row      int
	Channels []ChannelSnapshot
	Notes    []ChannelNoteData // the row currently playing, for change detection
}

// ChannelNoteData is a human-readable view of one channel's pattern slot.
type ChannelNoteData struct {
	Note       string
	Instrument int
	Effect     byte
	Param      byte
}

// NewPlayerFromBytes parses buf and constructs a ready-to-play Player.
func NewPlayerFromBytes(buf []byte) (*Player, error) {
	mod, err := NewModuleFromBytes(buf)
	if err != nil {
		return nil, err
	}
	return newPlayer(mod), nil
}

// NewPlayerFromFile reads path and delegates to NewPlayerFromBytes.
func NewPlayerFromFile(path string) (*Player, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("modplayer: reading %s: %w", path, err)
	}
	return NewPlayerFromBytes(buf)
}

func newPlayer(mod *Module) *Player {
	p := &Player{
		Module:      mod,
		sampleRate:  defaultSampleRate,
		channelsOut: 2,
		stereoWidth: 1.0,
		speed:       defaultSpeed,
		bpm:         defaultBPM,
		playing:     true,
	}

	p.channels = make([]channelState, mod.NumChannels)
	for i := range p.channels {
		p.channels[i] = newChannelState(i)
	}
	p.initialChannels = clone.Clone(p.channels)

	p.mixL = make([]float32, maxChunkFrames)
	p.mixR = make([]float32, maxChunkFrames)
	p.scratch = make([]float32, maxChunkFrames)

	p.recomputeTickFrames()
	p.runLine() // execute line 0 of pattern 0 at construction, per spec §6
	p.advanceTickCounter()

	return p
}

// SetSampleRate sets the output sample rate. Accepts any positive integer.
func (p *Player) SetSampleRate(rate int) {
	if rate <= 0 {
		return
	}
	p.sampleRate = rate
	p.recomputeTickFrames()
}

// SetStereo selects 1- or 2-channel output.
func (p *Player) SetStereo(stereo bool) {
	if stereo {
		p.channelsOut = 2
	} else {
		p.channelsOut = 1
	}
}

// SetStereoWidth scales panning magnitude; 1.0 = hard Amiga pan, 0.0 = mono-like.
func (p *Player) SetStereoWidth(w float64) {
	if w < 0 {
		w = 0
	}
	if w > 1 {
		w = 1
	}
	p.stereoWidth = w
}

// ResetSongToBeginning resets position to (0,0,0) and runs line 0 of
// pattern 0, restoring the per-channel snapshot captured at construction
// via a deep clone rather than re-deriving each field.
func (p *Player) ResetSongToBeginning() {
	p.patternIdx = 0
	p.lineIdx = 0
	p.tickIdx = 0
	p.patternDelay = 0
	p.doPositionJump = false
	p.speed = defaultSpeed
	p.bpm = defaultBPM
	p.channels = clone.Clone(p.initialChannels)
	p.recomputeTickFrames()
	p.runLine()
	p.advanceTickCounter()
}

// Start resumes playback; decoding advances the sequencer.
func (p *Player) Start() { p.playing = true }

// Stop pauses playback; decoding produces silence without advancing the
// sequencer.
func (p *Player) Stop() { p.playing = false }

// IsPlaying reports whether the sequencer is currently advancing.
func (p *Player) IsPlaying() bool { return p.playing }

// SeekTo jumps directly to a song position, clamped to the song's range.
func (p *Player) SeekTo(order, row int) {
	if order < 0 {
		order = 0
	}
	if order >= p.Module.SongLength {
		order = p.Module.SongLength - 1
	}
	if row < 0 {
		row = 0
	}
	if row >= rowsPerPattern {
		row = rowsPerPattern - 1
	}
	p.patternIdx = order
	p.lineIdx = row
	p.tickIdx = 0
	p.patternDelay = 0
	p.doPositionJump = false
	p.recomputeTickFrames()
	p.runLine()
	p.advanceTickCounter()
}

// Position returns the current song position.
func (p *Player) Position() PlayerPosition {
	return PlayerPosition{Order: p.patternIdx, Row: p.lineIdx}
}

// State returns a snapshot suitable for a live UI.
func (p *Player) State() PlayerState {
	st := PlayerState{
		Order:    p.patternIdx,
		Row:      p.lineIdx,
		Channels: make([]ChannelSnapshot, len(p.channels)),
		Notes:    p.NoteDataFor(p.patternIdx, p.lineIdx),
	}
	for i, ch := range p.channels {
		inst := -1
		if ch.sample != 0 {
			inst = ch.sample
		}
		st.Channels[i] = ChannelSnapshot{Instrument: inst, TrigOrder: ch.trigOrder, TrigRow: ch.trigRow}
	}
	return st
}

// Speed returns the current ticks-per-line setting (effect 0xF, 1..32).
func (p *Player) Speed() int { return p.speed }

// Tempo returns the current BPM setting (effect 0xF, 33..255).
func (p *Player) Tempo() int { return p.bpm }

// NoteDataFor returns a human-readable view of one pattern row, wrapping
// row across pattern/order boundaries the way a tracker's pattern view
// scrolls past the edges of the current pattern.
func (p *Player) NoteDataFor(order, row int) []ChannelNoteData {
	songLen := p.Module.SongLength
	if songLen == 0 {
		return nil
	}

	for row < 0 {
		order--
		row += rowsPerPattern
	}
	for row >= rowsPerPattern {
		order++
		row -= rowsPerPattern
	}
	order = ((order % songLen) + songLen) % songLen

	pat := &p.Module.Patterns[p.Module.PatternTable[order]]
	out := make([]ChannelNoteData, p.Module.NumChannels)
	for ci := 0; ci < p.Module.NumChannels; ci++ {
		n := pat.noteAt(row, ci, p.Module.NumChannels)
		out[ci] = ChannelNoteData{
			Note:       periodToNoteString(n.Period),
			Instrument: n.Sample,
			Effect:     n.EffectType,
			Param:      n.EffectParam,
		}
	}
	return out
}

// DecodeFrames writes n frames of interleaved signed 16-bit PCM into out,
// which must be at least n*channelsOut long.
func (p *Player) DecodeFrames(n int, out []int16) error {
	if len(out) < n*p.channelsOut {
		return fmt.Errorf("modplayer: output buffer too small for %d frames", n)
	}

	produced := 0
	for produced < n {
		chunk := p.nextChunkSize(n - produced)

		if !p.playing {
			for i := 0; i < chunk*p.channelsOut; i++ {
				out[produced*p.channelsOut+i] = 0
			}
			produced += chunk
			continue
		}

		p.mixChunk(chunk)
		base := produced * p.channelsOut
		for i := 0; i < chunk; i++ {
			out[base+i*p.channelsOut] = floatToInt16(p.mixL[i])
			if p.channelsOut == 2 {
				out[base+i*p.channelsOut+1] = floatToInt16(p.mixR[i])
			}
		}

		produced += chunk
		p.framesUntilNextTick -= chunk
		if p.framesUntilNextTick <= 0 {
			p.tick()
		}
	}

	return nil
}

// DecodeFramesF writes n frames of interleaved 32-bit float PCM into out.
func (p *Player) DecodeFramesF(n int, out []float32) error {
	if len(out) < n*p.channelsOut {
		return fmt.Errorf("modplayer: output buffer too small for %d frames", n)
	}

	produced := 0
	for produced < n {
		chunk := p.nextChunkSize(n - produced)

		if !p.playing {
			for i := 0; i < chunk*p.channelsOut; i++ {
				out[produced*p.channelsOut+i] = 0
			}
			produced += chunk
			continue
		}

		p.mixChunk(chunk)
		base := produced * p.channelsOut
		for i := 0; i < chunk; i++ {
			out[base+i*p.channelsOut] = p.mixL[i]
			if p.channelsOut == 2 {
				out[base+i*p.channelsOut+1] = p.mixR[i]
			}
		}

		produced += chunk
		p.framesUntilNextTick -= chunk
		if p.framesUntilNextTick <= 0 {
			p.tick()
		}
	}

	return nil
}

// nextChunkSize bounds a mixing chunk to the mixer's scratch buffer size,
// the remaining requested frames, and the frames left before the next
// sequencer event (spec §4.4: "N ≤ 1024 frames (and ≤ frames_until_next_tick)").
func (p *Player) nextChunkSize(remaining int) int {
	chunk := remaining
	if chunk > maxChunkFrames {
		chunk = maxChunkFrames
	}
	if p.framesUntilNextTick > 0 && chunk > p.framesUntilNextTick {
		chunk = p.framesUntilNextTick
	}
	if chunk <= 0 {
		chunk = 1
	}
	return chunk
}

// mixChunk renders chunk frames of every unmuted channel into p.mixL/mixR.
func (p *Player) mixChunk(chunk int) {
	for i := 0; i < chunk; i++ {
		p.mixL[i] = 0
		p.mixR[i] = 0
	}

	for ci := range p.channels {
		if p.Mute&(1<<uint(ci)) != 0 {
			continue
		}
		ch := &p.channels[ci]
		resampleChannel(ch, p.Module, p.sampleRate, p.scratch[:chunk])
		mixInto(ch, p.scratch[:chunk], p.Module.NumChannels, p.channelsOut, p.stereoWidth, p.mixL, p.mixR)
	}
}
