package modplayer

import "testing"

func TestNewChannelStateDefaultPanning(t *testing.T) {
	cases := []struct {
		index int
		want  float64
	}{
		{0, -1}, {1, 1}, {2, 1}, {3, -1}, {4, -1}, {5, 1},
	}
	for _, c := range cases {
		ch := newChannelState(c.index)
		if ch.panning != c.want {
			t.Errorf("channel %d panning: got %v, want %v", c.index, ch.panning, c.want)
		}
	}
}

func TestClampVolume(t *testing.T) {
	cases := []struct{ in, want int }{
		{-5, 0}, {0, 0}, {32, 32}, {64, 64}, {100, 64},
	}
	for _, c := range cases {
		if got := clampVolume(c.in); got != c.want {
			t.Errorf("clampVolume(%d) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestClampPeriod(t *testing.T) {
	cases := []struct{ in, want int }{
		{0, 0}, {5, 20}, {20, 20}, {500, 500}, {30000, 20000},
	}
	for _, c := range cases {
		if got := clampPeriod(c.in); got != c.want {
			t.Errorf("clampPeriod(%d) = %d, want %d", c.in, got, c.want)
		}
	}
}
