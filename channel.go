package modplayer

// channelState is the mutable per-channel playback state the sequencer
// drives and the mixer reads. Field names track player.go's channel
// struct, extended with the vibrato/tremolo/arpeggio/retrigger/loop
// state spec.md's ChannelState section asks for.
type channelState struct {
	period   int
	sample   int // 1..31, or 0 meaning "silent sentinel"
	volume   int // 0..64
	looped   bool

	fineTune int

	volSlideOn   bool
	pitchSlideOn bool
	vibratoOn    bool
	tremoloOn    bool
	arpeggioOn   bool

	volSlide    int // signed, per-tick volume delta
	pitchSlide  int // signed, per-tick period delta
	targetPeriod int // slide-to-note destination, 0 = none

	vibRate  int
	vibDepth int
	vibPhase int

	arp1, arp2 int // semitone offsets for arpeggio ticks 1 and 2

	retriggerRate int
	noteCutIdx    int

	loopStart int
	loopCount int

	pitchOffset float64 // semitones, from vibrato/arpeggio
	volOffset   int

	samplePos float64
	panning   float64

	// trigOrder/trigRow record the song position at which this channel's
	// currently playing note was triggered, for UI highlighting.
	trigOrder int
	trigRow   int

	// effect/param are not set or read by the sequencer; tick-time
	// handlers (volume slide, vibrato, ...) work from the enable flags
	// and parameters above.
	effect byte
	param  byte
}

func newChannelState(index int) channelState {
	c := channelState{sample: 0}
	switch index % 4 {
	case 0, 3:
		c.panning = -1
	case 1, 2:
		c.panning = 1
	}
	return c
}

func clampVolume(v int) int {
	if v < 0 {
		return 0
	}
	if v > 64 {
		return 64
	}
	return v
}

func clampPeriod(p int) int {
	if p == 0 {
		return 0
	}
	if p < 20 {
		return 20
	}
	if p > 20000 {
		return 20000
	}
	return p
}
