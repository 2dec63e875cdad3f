package sim

// PinMode selects how a GPIO pin is driven.
type PinMode int

const (
	Input PinMode = iota
	Output
	InputPullUp
)

func (m PinMode) String() string {
	switch m {
	case Input:
		return "INPUT"
	case Output:
		return "OUTPUT"
	case InputPullUp:
		return "INPUT_PULLUP"
	}
	return "UNKNOWN"
}

// ParsePinMode maps sketch-level mode names to a PinMode.
func ParsePinMode(s string) (PinMode, bool) {
	switch s {
	case "INPUT":
		return Input, true
	case "OUTPUT":
		return Output, true
	case "INPUT_PULLUP":
		return InputPullUp, true
	}
	return Input, false
}

// PinLevel is the logic level of a digital pin.
type PinLevel int

const (
	Low PinLevel = iota
	High
)

func (l PinLevel) String() string {
	if l == High {
		return "HIGH"
	}
	return "LOW"
}

// Value ranges for the ADC and PWM hardware.
const (
	AnalogMax     = 1023 // 10-bit ADC
	AnalogDefault = 512  // mid-scale, the power-on reading of a floating analog input
	PWMMax        = 255  // 8-bit PWM duty
)

// GPIOPin models one general-purpose I/O line. Pins are created once at board
// construction with fixed identities and live for the whole simulation; Reset
// restores their electrical state but never destroys them.
//
// Level and PWMDuty are written only by the interpreter, and only while the
// pin is in Output mode (writes in any other mode are silent no-ops).
// AnalogValue is the one field an observer may set, standing in for a sensor
// or potentiometer wired to the pin.
type GPIOPin struct {
	Number        int
	Mode          PinMode
	Level         PinLevel
	AnalogValue   int     // 0..AnalogMax, meaningful on analog-capable pins
	PWMDuty       int     // 0..PWMMax, meaningful while PWMEnabled
	PWMEnabled    bool
	LastChange    float64 // simulated seconds of the last level transition
	AnalogCapable bool
}

// resetState restores power-on defaults. The configured mode is kept: mode
// changes are side-effect-free on stored values, and reset follows suit.
func (p *GPIOPin) resetState() {
	p.Level = Low
	p.PWMDuty = 0
	p.PWMEnabled = false
	p.LastChange = 0
	if p.AnalogCapable {
		p.AnalogValue = AnalogDefault
	} else {
		p.AnalogValue = 0
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
