package modplayer

import "testing"

func TestRecomputeTickFrames(t *testing.T) {
	cases := []struct {
		sampleRate, bpm int
		want            int
	}{
		{44100, 125, 882},  // 44100 / 50.0 = 882.0 exact
		{48000, 125, 960},  // 48000 / 50.0 = 960.0 exact
		{44100, 33, 3340},  // floor(44100 / 13.2) = floor(3340.9...) = 3340
		{44100, 120, 918},  // floor(44100 / 48.0) = 918.75 -> 918
	}
	for _, c := range cases {
		p := &Player{sampleRate: c.sampleRate, bpm: c.bpm}
		p.recomputeTickFrames()
		if p.framesUntilNextTick != c.want {
			t.Errorf("sampleRate=%d bpm=%d: got %d, want %d", c.sampleRate, c.bpm, p.framesUntilNextTick, c.want)
		}
	}
}

func TestAdvanceLineRowWrap(t *testing.T) {
	p := newPlayerWithTestPattern([][]string{{"..."}, {"..."}}, t)
	p.Module.SongLength = 2
	p.Module.PatternTable[1] = 0
	p.patternIdx = 0
	p.lineIdx = rowsPerPattern - 1

	p.advanceLine()

	if p.lineIdx != 0 {
		t.Errorf("lineIdx: got %d, want 0", p.lineIdx)
	}
	if p.patternIdx != 1 {
		t.Errorf("patternIdx: got %d, want 1", p.patternIdx)
	}
}

func TestAdvanceLineSongWrap(t *testing.T) {
	p := newPlayerWithTestPattern([][]string{{"..."}}, t)
	p.patternIdx = 0
	p.lineIdx = rowsPerPattern - 1

	p.advanceLine()

	if p.patternIdx != 0 {
		t.Errorf("patternIdx: got %d, want 0 (song should loop)", p.patternIdx)
	}
	if p.lineIdx != 0 {
		t.Errorf("lineIdx: got %d, want 0", p.lineIdx)
	}
}

func TestAdvanceLinePositionJump(t *testing.T) {
	p := newPlayerWithTestPattern([][]string{{"..."}}, t)
	p.Module.SongLength = 8
	p.patternIdx = 0
	p.lineIdx = 10
	p.doPositionJump = true
	p.jumpPatIdx = 5
	p.jumpLineIdx = 13

	p.advanceLine()

	if p.patternIdx != 5 || p.lineIdx != 13 {
		t.Errorf("position: got (%d,%d), want (5,13)", p.patternIdx, p.lineIdx)
	}
	if p.doPositionJump {
		t.Error("doPositionJump should be cleared after the jump")
	}
}

func TestAdvanceLineClearsLoopStateOnPatternChange(t *testing.T) {
	p := newPlayerWithTestPattern([][]string{{"..."}}, t)
	p.Module.SongLength = 2
	p.channels[0].loopStart = 3
	p.channels[0].loopCount = 2
	p.patternIdx = 0
	p.lineIdx = rowsPerPattern - 1

	p.advanceLine()

	if p.channels[0].loopStart != 0 || p.channels[0].loopCount != 0 {
		t.Errorf("loop state: got (start=%d, count=%d), want (0,0) after pattern change",
			p.channels[0].loopStart, p.channels[0].loopCount)
	}
}

func TestAdvanceLineKeepsLoopStateWithinSamePattern(t *testing.T) {
	p := newPlayerWithTestPattern([][]string{{"..."}}, t)
	p.Module.SongLength = 1
	p.channels[0].loopStart = 3
	p.channels[0].loopCount = 2
	p.patternIdx = 0
	p.lineIdx = 5 // not the last row, so the pattern won't change

	p.advanceLine()

	if p.channels[0].loopStart != 3 || p.channels[0].loopCount != 2 {
		t.Errorf("loop state should survive a same-pattern line advance, got (start=%d, count=%d)",
			p.channels[0].loopStart, p.channels[0].loopCount)
	}
}

func TestLineAndTickIdxStayInBounds(t *testing.T) {
	rows := [][]string{{"C-2 01 A0F"}, {"..."}, {"..."}, {"C-2 01 905"}}
	p := newPlayerWithTestPattern(rows, t)

	for i := 0; i < 600; i++ {
		p.tick()
		if p.lineIdx < 0 || p.lineIdx >= rowsPerPattern {
			t.Fatalf("lineIdx out of bounds after %d ticks: %d", i, p.lineIdx)
		}
		if p.tickIdx < 0 || p.tickIdx >= p.speed+p.patternDelay {
			t.Fatalf("tickIdx out of bounds after %d ticks: %d (speed=%d patternDelay=%d)",
				i, p.tickIdx, p.speed, p.patternDelay)
		}
		if p.channels[0].volume < 0 || p.channels[0].volume > 64 {
			t.Fatalf("volume out of bounds after %d ticks: %d", i, p.channels[0].volume)
		}
		if per := p.channels[0].period; per != 0 && (per < 20 || per > 20000) {
			t.Fatalf("period out of bounds after %d ticks: %d", i, per)
		}
	}
}

// Scenario: pattern_delay = k holds the current line for k*speed extra
// ticks before advancing.
func TestPatternDelayHoldsLine(t *testing.T) {
	rows := [][]string{{"... .. EE2"}}
	p := newPlayerWithTestPattern(rows, t)

	wantTicks := p.speed + p.patternDelay // speed=6, patternDelay=2*6=12 -> 18
	if wantTicks != 18 {
		t.Fatalf("test setup: speed+patternDelay = %d, want 18", wantTicks)
	}

	ticks := 1 // construction already ran line 0's tick 0
	for p.lineIdx == 0 {
		p.tick()
		ticks++
	}

	if ticks != wantTicks {
		t.Errorf("ticks spent on line 0: got %d, want %d", ticks, wantTicks)
	}
	if p.patternDelay != 0 {
		t.Errorf("patternDelay: got %d, want 0 after consumption", p.patternDelay)
	}
}

// Scenario: pattern break (D13) and position jump (B05) on the same row.
// Whichever effect arrives first claims its side of the destination; the
// other effect fills in the remaining side.
func TestPatternBreakAndPositionJumpSameRow(t *testing.T) {
	rows := [][]string{{"... .. D13", "... .. B05"}}
	p := newPlayerWithTestPattern(rows, t)
	p.Module.SongLength = 8

	if !p.doPositionJump {
		t.Fatal("expected a position jump to be armed")
	}
	if p.jumpPatIdx != 5 {
		t.Errorf("jumpPatIdx: got %d, want 5", p.jumpPatIdx)
	}
	if p.jumpLineIdx != 13 {
		t.Errorf("jumpLineIdx: got %d, want 13", p.jumpLineIdx)
	}
}

// Scenario: E60 marks loop_start, E62 loops it twice. Lines 0..3 run three
// times in total before the position finally advances past line 3.
func TestPatternLoopScenario(t *testing.T) {
	rows := [][]string{
		{"... .. E60"},
		{"..."},
		{"..."},
		{"... .. E62"},
		{"..."},
	}
	p := newPlayerWithTestPattern(rows, t)

	visited := []int{p.lineIdx}
	for i := 0; i < 12; i++ {
		advanceFullLine(p)
		visited = append(visited, p.lineIdx)
	}

	want := []int{0, 1, 2, 3, 0, 1, 2, 3, 0, 1, 2, 3, 4}
	if len(visited) != len(want) {
		t.Fatalf("visited %v, want %v", visited, want)
	}
	for i := range want {
		if visited[i] != want[i] {
			t.Errorf("visited[%d]: got %d, want %d (full sequence %v)", i, visited[i], want[i], visited)
		}
	}
}
