package biquad

// Coefficients holds the transfer function coefficients for a single
// second-order section (biquad). a0 is normalized to 1 and not stored.
//
// The sign convention follows Direct Form II Transposed:
//
//	y  = B0*x + d0
//	d0 = B1*x - A1*y + d1
//	d1 = B2*x - A2*y
type Coefficients struct {
	B0, B1, B2 float64 // feedforward (numerator)
	A1, A2     float64 // feedback (denominator)
}

// IsFirstOrder reports whether the section degenerates to a first-order
// filter (B2 = A2 = 0).
func (c *Coefficients) IsFirstOrder() bool {
	return c.B2 == 0 && c.A2 == 0
}

// DCGain returns H(z=1) = (B0+B1+B2)/(1+A1+A2).
func (c *Coefficients) DCGain() float64 {
	return (c.B0 + c.B1 + c.B2) / (1 + c.A1 + c.A2)
}

// Section is a single biquad filter with coefficients and internal state.
// It implements Direct Form II Transposed processing.
type Section struct {
	Coefficients

	d0, d1 float64
}

// NewSection returns a Section initialized with the given coefficients
// and zero state.
func NewSection(c Coefficients) *Section {
	return &Section{Coefficients: c}
}

// ProcessSample filters one input sample and returns the output.
func (s *Section) ProcessSample(x float64) float64 {
	y := s.B0*x + s.d0
	s.d0 = s.B1*x - s.A1*y + s.d1
	s.d1 = s.B2*x - s.A2*y

	return y
}

// ProcessBlock filters a block of samples in-place. Zero-alloc.
func (s *Section) ProcessBlock(buf []float64) {
	b0, b1, b2 := s.B0, s.B1, s.B2
	a1, a2 := s.A1, s.A2
	d0, d1 := s.d0, s.d1

	for i, x := range buf {
		y := b0*x + d0
		d0 = b1*x - a1*y + d1
		d1 = b2*x - a2*y
		buf[i] = y
	}

	s.d0, s.d1 = d0, d1
}

// SteadyState loads the delay line with the state the section settles to
// after an infinitely long constant input of value x. Starting a pass from
// this state suppresses the start-up transient when the signal begins at x.
//
// Requires 1+A1+A2 != 0, which holds for every stable section.
func (s *Section) SteadyState(x float64) {
	y := s.DCGain() * x
	s.d1 = s.B2*x - s.A2*y
	s.d0 = s.B1*x - s.A1*y + s.d1
}

// Reset clears the delay line to zero.
func (s *Section) Reset() {
	s.d0 = 0
	s.d1 = 0
}

// State returns the current delay-line state [d0, d1].
func (s *Section) State() [2]float64 {
	return [2]float64{s.d0, s.d1}
}

// SetState restores a previously saved delay-line state.
func (s *Section) SetState(state [2]float64) {
	s.d0 = state[0]
	s.d1 = state[1]
}
