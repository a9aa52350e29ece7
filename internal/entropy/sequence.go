package entropy

import "sync"

// Sequence is a scripted Source that replays fixed draws in order. It is
// used to remove all branching from a run. When a script is exhausted the
// last value is repeated; an empty script yields 0.
type Sequence struct {
	mu     sync.Mutex
	floats []float64
	ints   []int
	fi, ii int
}

// NewSequence creates a Sequence that returns floats from Float64 and ints
// from IntN, each in order.
func NewSequence(floats []float64, ints []int) *Sequence {
	return &Sequence{floats: floats, ints: ints}
}

// Constant returns a Sequence that always yields f from Float64 and i from IntN.
func Constant(f float64, i int) *Sequence {
	return NewSequence([]float64{f}, []int{i})
}

// Float64 returns the next scripted float.
func (s *Sequence) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.floats) == 0 {
		return 0
	}
	idx := s.fi
	if idx >= len(s.floats) {
		idx = len(s.floats) - 1
	} else {
		s.fi++
	}
	return s.floats[idx]
}

// IntN returns the next scripted int reduced into [0, n).
func (s *Sequence) IntN(n int) int {
	if n <= 0 {
		panic("entropy: invalid argument to IntN")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.ints) == 0 {
		return 0
	}
	idx := s.ii
	if idx >= len(s.ints) {
		idx = len(s.ints) - 1
	} else {
		s.ii++
	}
	v := s.ints[idx] % n
	if v < 0 {
		v += n
	}
	return v
}

// Draws reports how many floats and ints have been consumed.
func (s *Sequence) Draws() (floats, ints int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fi, s.ii
}
