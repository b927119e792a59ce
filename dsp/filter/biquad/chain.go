package biquad

// Chain is an ordered cascade of biquad sections processed in series
// (second-order sections form). High-order Butterworth designs are run as a
// Chain to keep every recursion at order two.
type Chain struct {
	sections []Section
	gain     float64
}

// chainConfig holds options for NewChain.
type chainConfig struct {
	gain float64
}

// ChainOption configures a Chain.
type ChainOption func(*chainConfig)

// WithGain sets an overall gain applied to the input before cascading.
// Default is 1.0 (unity gain).
func WithGain(g float64) ChainOption {
	return func(cfg *chainConfig) { cfg.gain = g }
}

// NewChain creates a cascade from one or more coefficient sets.
// Each Coefficients value becomes one Section in the cascade.
func NewChain(coeffs []Coefficients, opts ...ChainOption) *Chain {
	cfg := chainConfig{gain: 1}
	for _, o := range opts {
		o(&cfg)
	}

	c := &Chain{
		sections: make([]Section, len(coeffs)),
		gain:     cfg.gain,
	}
	for i := range coeffs {
		c.sections[i].Coefficients = coeffs[i]
	}

	return c
}

// ProcessSample cascades input through all sections in order.
// If gain != 1, the input is scaled before the first section.
func (c *Chain) ProcessSample(x float64) float64 {
	x *= c.gain
	for i := range c.sections {
		x = c.sections[i].ProcessSample(x)
	}

	return x
}

// ProcessBlock filters a block in-place through the full cascade.
func (c *Chain) ProcessBlock(buf []float64) {
	if c.gain != 1 {
		for i, x := range buf {
			buf[i] = x * c.gain
		}
	}

	for i := range c.sections {
		c.sections[i].ProcessBlock(buf)
	}
}

// SteadyState initializes every section so that a constant input of value
// x passes through the cascade without a start-up transient. Each section
// is primed with the level its predecessor settles to.
func (c *Chain) SteadyState(x float64) {
	level := x * c.gain
	for i := range c.sections {
		c.sections[i].SteadyState(level)
		level *= c.sections[i].DCGain()
	}
}

// Reset clears all section states.
func (c *Chain) Reset() {
	for i := range c.sections {
		c.sections[i].Reset()
	}
}

// Order returns the total filter order. First-order sections count as one.
func (c *Chain) Order() int {
	order := 0
	for i := range c.sections {
		if c.sections[i].IsFirstOrder() {
			order++
		} else {
			order += 2
		}
	}

	return order
}

// NumSections returns the number of biquad sections.
func (c *Chain) NumSections() int {
	return len(c.sections)
}

// Gain returns the input gain applied before cascading.
func (c *Chain) Gain() float64 { return c.gain }

// Section returns a pointer to the i-th section for inspection.
func (c *Chain) Section(i int) *Section {
	return &c.sections[i]
}

// State returns a snapshot of all section delay-line states.
func (c *Chain) State() [][2]float64 {
	states := make([][2]float64, len(c.sections))
	for i := range c.sections {
		states[i] = c.sections[i].State()
	}

	return states
}

// SetState restores previously saved section states.
// The slice length must match NumSections.
func (c *Chain) SetState(states [][2]float64) {
	for i := range c.sections {
		c.sections[i].SetState(states[i])
	}
}
