package modplayer

import "math"

// runLine executes tick 0 of the current line: per-line effect-enable
// resets, note triggering, and primary effect dispatch. Grounded on
// player.go's sequenceTick row-decode loop.
func (p *Player) runLine() {
	p.jumpPatSetThisLine = false
	p.jumpLineSetThisLine = false

	pat := &p.Module.Patterns[p.Module.PatternTable[p.patternIdx]]

	for ci := 0; ci < p.Module.NumChannels; ci++ {
		ch := &p.channels[ci]
		note := pat.noteAt(p.lineIdx, ci, p.Module.NumChannels)

		// Per-line effect-enable reset (spec §4.2 step 1).
		ch.volSlideOn = false
		ch.tremoloOn = false
		ch.arpeggioOn = false
		ch.volOffset = 0
		ch.retriggerRate = 0
		ch.noteCutIdx = 0
		if note.EffectType != effectVolSlidePorta {
			ch.pitchSlideOn = false
		}
		if note.EffectType != effectVolSlideVib {
			ch.vibratoOn = false
			ch.pitchOffset = 0
		}

		// A new sample number updates volume and fine-tune even on a
		// SlideToNote (0x3) row; only the sample index used for PCM
		// lookup, and the retrigger itself, stay gated below.
		if note.Sample != 0 {
			ch.volume = clampVolume(p.Module.Samples[note.Sample].Volume)
			ch.fineTune = p.Module.Samples[note.Sample].FineTune
		}

		triggers := (note.Period != 0 || note.Sample != 0) && note.EffectType != effectSlideToNote
		if triggers {
			if note.Sample != 0 {
				ch.sample = note.Sample
			}
			if note.Period != 0 {
				ch.period = clampPeriod(note.Period)
			}
			ch.samplePos = 0
			ch.looped = false
			ch.trigOrder = p.patternIdx
			ch.trigRow = p.lineIdx
			if note.EffectType != effectVibrato && note.EffectType != effectTremolo && note.EffectType != effectVolSlideVib {
				ch.vibPhase = 0
			}
		}

		p.executeLineEffect(ci, note)
	}

	p.recomputeTickFrames()
}

// runTick executes one intra-row tick (ticks 1..speed+pattern_delay-1) for
// every channel. Grounded on player.go's channelTick per-effect switch.
func (p *Player) runTick() {
	for ci := range p.channels {
		ch := &p.channels[ci]

		if ch.volSlideOn {
			ch.volume = clampVolume(ch.volume + ch.volSlide)
		}

		if ch.pitchSlideOn {
			ch.period = clampPeriod(ch.period + ch.pitchSlide)
			if ch.targetPeriod != 0 {
				if ch.pitchSlide < 0 && ch.period < ch.targetPeriod {
					ch.period = ch.targetPeriod
				} else if ch.pitchSlide > 0 && ch.period > ch.targetPeriod {
					ch.period = ch.targetPeriod
				}
			}
		}

		if ch.arpeggioOn {
			switch p.tickIdx % 3 {
			case 0:
				ch.pitchOffset = 0
			case 1:
				ch.pitchOffset = float64(ch.arp1)
			case 2:
				ch.pitchOffset = float64(ch.arp2)
			}
		}

		if ch.vibratoOn || ch.tremoloOn {
			ch.vibPhase++
			wave := math.Sin(float64(ch.vibPhase) * (float64(ch.vibRate) / 64.0) * 2 * math.Pi)
			if ch.vibratoOn {
				ch.pitchOffset = wave * float64(ch.vibDepth) / 16.0
			}
			if ch.tremoloOn {
				ch.volOffset = int(int8(wave * float64(ch.vibDepth)))
			}
		}

		if ch.retriggerRate > 0 && p.tickIdx%ch.retriggerRate == 0 {
			ch.samplePos = 0
		}

		if ch.noteCutIdx != 0 && p.tickIdx == ch.noteCutIdx {
			ch.volume = 0
		}
	}

	p.recomputeTickFrames()
}

// advanceLine runs when the tick counter reaches speed+pattern_delay. It
// clears pattern_delay, moves the song position forward (or jumps),
// wraps the song, and clears per-channel loop state on a pattern change.
func (p *Player) advanceLine() {
	p.patternDelay = 0
	prevPattern := p.patternIdx
	p.lineIdx++

	if p.doPositionJump {
		p.patternIdx = p.jumpPatIdx
		p.lineIdx = p.jumpLineIdx
		p.doPositionJump = false
	} else if p.lineIdx >= rowsPerPattern {
		p.lineIdx = 0
		p.patternIdx++
	}

	if p.patternIdx >= p.Module.SongLength {
		p.patternIdx = 0
	}

	if p.patternIdx != prevPattern {
		for i := range p.channels {
			p.channels[i].loopStart = 0
			p.channels[i].loopCount = 0
		}
	}
}

// recomputeTickFrames derives how many output frames the current tick
// spans at the player's configured sample rate, per spec §4.2's "one
// tick spans output_sample_rate / (0.4 * bpm) output frames". The floor
// bias is intentional (spec §9) and must not be rounded away.
func (p *Player) recomputeTickFrames() {
	p.framesUntilNextTick = int(math.Floor(float64(p.sampleRate) / (0.4 * float64(p.bpm))))
}

// tick advances the sequencer by exactly one tick: line execution at
// tick 0, per-tick effect updates otherwise, then line advancement when
// the row's tick budget (speed+pattern_delay) is exhausted.
func (p *Player) tick() {
	if p.tickIdx == 0 {
		p.runLine()
	} else {
		p.runTick()
	}

	p.advanceTickCounter()
}

// advanceTickCounter increments tick_idx and rolls the line over once the
// row's tick budget (speed+pattern_delay) is exhausted. Split out of tick
// so construction and ResetSongToBeginning can pre-run line 0 (for
// NoteDataFor/Position to be valid before the first decode call) without
// leaving tick_idx stuck at 0, which would re-execute line 0 on the next
// tick() instead of advancing to tick 1.
func (p *Player) advanceTickCounter() {
	p.tickIdx++
	if p.tickIdx >= p.speed+p.patternDelay {
		p.tickIdx = 0
		p.advanceLine()
	}
}
