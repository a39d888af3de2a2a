package tetris

// Observation channels.
const (
	ChannelLocked = iota
	ChannelCurrent
	ObservationChannels
)

// Observation is a (channels, height, width) occupancy tensor: channel 0
// holds locked cells, channel 1 the falling piece. Values are 0 or 1.
type Observation [ObservationChannels][][]float32

// Observe builds the observation for the current state.
func (e *Engine) Observe() Observation {
	var obs Observation
	w, h := e.board.width, e.board.height
	for c := range obs {
		obs[c] = make([][]float32, h)
		for y := range obs[c] {
			obs[c][y] = make([]float32, w)
		}
	}

	for y := range h {
		for x := range w {
			if e.board.Occupied(x, y) {
				obs[ChannelLocked][y][x] = 1
			}
		}
	}
	for _, b := range e.current.Blocks() {
		if e.board.inside(b.X, b.Y) {
			obs[ChannelCurrent][b.Y][b.X] = 1
		}
	}
	return obs
}

// Shape returns (channels, height, width).
func (o Observation) Shape() (int, int, int) {
	h := len(o[0])
	w := 0
	if h > 0 {
		w = len(o[0][0])
	}
	return len(o), h, w
}

// Sum returns the number of set cells in channel c.
func (o Observation) Sum(c int) int {
	n := 0
	for _, row := range o[c] {
		for _, v := range row {
			if v != 0 {
				n++
			}
		}
	}
	return n
}
