package modplayer

import "math"

const (
	chipFreqHz    = 7159090.5 // Amiga NTSC vertical retrace timing, spec glossary "chip_freq"
	maxChunkFrames = 1024
)

// resampleChannel fills scratch[:n] with this channel's mono contribution
// for n output frames at outputRate, linearly interpolating between
// adjacent native-rate sample points and advancing the channel's playback
// cursor. Grounded on mixer_scalar.go's pos/dr fixed-step inner loop,
// generalized from a fixed-point Amiga-native step to a float step so the
// output rate is no longer tied to the Amiga's native playback rate.
func resampleChannel(ch *channelState, mod *Module, outputRate int, scratch []float32) {
	n := len(scratch)

	if ch.sample == 0 || ch.period <= 20 {
		for i := range scratch {
			scratch[i] = 0
		}
		return
	}

	smp := &mod.Samples[ch.sample]
	if smp.Length == 0 {
		for i := range scratch {
			scratch[i] = 0
		}
		return
	}

	rateHz := chipFreqHz / (2 * float64(ch.period))
	if ch.pitchOffset != 0 || ch.fineTune != 0 {
		semitones := ch.pitchOffset + float64(ch.fineTune)/8.0
		rateHz *= math.Pow(2, semitones/12.0)
	}
	step := rateHz / float64(outputRate)

	gain := float64(ch.volume+ch.volOffset) / 64.0
	if ch.volume+ch.volOffset > 64 {
		gain = 1.0
	}

	end := smp.Length
	if ch.looped {
		end = smp.RepeatOffset + smp.RepeatLength
	}

	for i := 0; i < n; i++ {
		if ch.samplePos >= float64(end) {
			if smp.Loop {
				ch.samplePos = float64(smp.RepeatOffset) + (ch.samplePos - float64(end))
				ch.looped = true
				end = smp.RepeatOffset + smp.RepeatLength
			} else {
				for j := i; j < n; j++ {
					scratch[j] = 0
				}
				return
			}
		}

		idx := int(ch.samplePos)
		next := idx + 1
		if next >= end {
			next = end - 1
		}
		if next < 0 {
			next = 0
		}
		frac := float32(ch.samplePos - float64(idx))
		s0 := smp.Data[idx]
		s1 := smp.Data[next]
		scratch[i] = float32(gain) * (s0 + (s1-s0)*frac)

		ch.samplePos += step
	}
}

// mixInto adds a channel's resampled mono scratch buffer into the
// interleaved output accumulation buffers, applying the per-channel pan.
// Grounded on player.go's mixChannels pan-gain math (lvol/rvol derived
// from a single pan value), generalized to mono/stereo output and an
// explicit stereo-width control.
func mixInto(ch *channelState, scratch []float32, numChannels, channelsOut int, stereoWidth float64, left, right []float32) {
	g := float64(channelsOut) / float64(numChannels)

	if channelsOut == 1 {
		for i, s := range scratch {
			left[i] += float32(g) * s
		}
		return
	}

	pan := ch.panning * stereoWidth
	if pan < -1 {
		pan = -1
	} else if pan > 1 {
		pan = 1
	}
	lg := g * (0.5 - 0.5*pan)
	rg := g * (0.5 + 0.5*pan)
	for i, s := range scratch {
		left[i] += float32(lg) * s
		right[i] += float32(rg) * s
	}
}

func floatToInt16(f float32) int16 {
	v := f * 32767
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(v)
}
