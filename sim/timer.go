package sim

// Timer models one hardware timer/counter unit. The counter advances from
// elapsed virtual time (fed in by the interpreter's delay handling), is
// monotonically non-decreasing within an epoch, and wraps at 2^Width with an
// overflow count increment.
type Timer struct {
	ID           int
	Width        int // counter width in bits (8 or 16)
	Prescaler    int
	CompareValue int
	Counter      int64
	Overflows    int64
	PWMMode      bool
	DutyCycle    float64

	clockHz int
	residue float64 // fractional input ticks carried between advances
}

func newTimer(id, width, clockHz int) *Timer {
	return &Timer{ID: id, Width: width, Prescaler: 1, clockHz: clockHz}
}

// Frequency reports the output frequency derived from the current prescaler
// and compare value. It is computed on demand so it can never drift out of
// sync with the fields it derives from.
func (t *Timer) Frequency() float64 {
	if t.Prescaler <= 0 || t.clockHz <= 0 {
		return 0
	}
	period := float64(t.CompareValue + 1)
	if t.CompareValue <= 0 {
		period = float64(t.modulus()) // free-running, overflow-driven
	}
	return float64(t.clockHz) / (float64(t.Prescaler) * period)
}

func (t *Timer) modulus() int64 {
	return int64(1) << uint(t.Width)
}

// advance feeds elapsed virtual seconds into the counter. Sub-tick remainders
// are carried in residue so repeated short delays do not lose time.
func (t *Timer) advance(seconds float64) {
	if seconds <= 0 || t.Prescaler <= 0 || t.clockHz <= 0 {
		return
	}
	t.residue += seconds * float64(t.clockHz) / float64(t.Prescaler)
	ticks := int64(t.residue)
	if ticks <= 0 {
		return
	}
	t.residue -= float64(ticks)
	total := t.Counter + ticks
	mod := t.modulus()
	t.Overflows += total / mod
	t.Counter = total % mod
}

// resetState zeroes the counting state for a new epoch. Prescaler and compare
// value are configuration, not counting state, and survive a reset.
func (t *Timer) resetState() {
	t.Counter = 0
	t.Overflows = 0
	t.residue = 0
	t.PWMMode = false
	t.DutyCycle = 0
}
