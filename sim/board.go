package sim

import (
	"sync"

	"github.com/pkg/errors"
)

// Board is the peripheral registry: the sole owner and mutator of all GPIO
// pins, timers, and the serial channel. Every mutation updates all of an
// entity's fields under the board lock before returning, so an observer
// reading through Snapshot never sees a partially-updated entity.
type Board struct {
	mu     sync.Mutex
	cfg    BoardConfig
	clock  *VirtualClock
	pins   map[int]*GPIOPin
	timers map[int]*Timer
	serial SerialChannel
}

// NewBoard builds the fixed peripheral complement described by cfg. Digital
// pins occupy numbers [0, DigitalPins); analog-capable pins follow at
// [DigitalPins, DigitalPins+AnalogPins) and power on at mid-scale. Pins are
// never created or destroyed after this point.
func NewBoard(cfg BoardConfig, clock *VirtualClock) *Board {
	b := &Board{
		cfg:    cfg,
		clock:  clock,
		pins:   make(map[int]*GPIOPin, cfg.DigitalPins+cfg.AnalogPins),
		timers: make(map[int]*Timer, len(cfg.Timers)),
	}
	for n := 0; n < cfg.DigitalPins; n++ {
		b.pins[n] = &GPIOPin{Number: n}
	}
	for i := 0; i < cfg.AnalogPins; i++ {
		n := cfg.DigitalPins + i
		b.pins[n] = &GPIOPin{Number: n, AnalogCapable: true, AnalogValue: AnalogDefault}
	}
	for _, n := range cfg.OutputPins {
		if p, ok := b.pins[n]; ok {
			p.Mode = Output
		}
	}
	for _, ts := range cfg.Timers {
		b.timers[ts.ID] = newTimer(ts.ID, ts.WidthBits, cfg.ClockHz)
	}
	return b
}

func (b *Board) pin(number int) (*GPIOPin, error) {
	p, ok := b.pins[number]
	if !ok {
		return nil, errors.Errorf("unknown pin %d", number)
	}
	return p, nil
}

// SetMode configures a pin's drive mode. Switching away from Output keeps the
// last-written level stored; it simply becomes unwritable until the pin is an
// output again.
func (b *Board) SetMode(number int, mode PinMode) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, err := b.pin(number)
	if err != nil {
		return err
	}
	p.Mode = mode
	return nil
}

// WriteDigital drives a pin's logic level. Unless the pin is in Output mode
// the write is a silent no-op, not an error.
func (b *Board) WriteDigital(number int, level PinLevel) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, err := b.pin(number)
	if err != nil {
		return err
	}
	if p.Mode != Output {
		return nil
	}
	p.Level = level
	p.LastChange = b.clock.Now()
	return nil
}

// WritePWM sets a pin's PWM duty, clamped to [0, PWMMax], and enables PWM on
// the pin. PWM capability is independent of the digital mode flag, so the
// write is accepted whatever mode the pin is in.
func (b *Board) WritePWM(number int, duty int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, err := b.pin(number)
	if err != nil {
		return err
	}
	p.PWMDuty = clampInt(duty, 0, PWMMax)
	p.PWMEnabled = true
	return nil
}

// SetAnalog sets a pin's analog reading, clamped to [0, AnalogMax]. This is
// the observer's write path, standing in for a sensor on the pin.
func (b *Board) SetAnalog(number int, value int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, err := b.pin(number)
	if err != nil {
		return err
	}
	p.AnalogValue = clampInt(value, 0, AnalogMax)
	return nil
}

// ReadAnalog returns a pin's current analog reading.
func (b *Board) ReadAnalog(number int) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, err := b.pin(number)
	if err != nil {
		return 0, err
	}
	return p.AnalogValue, nil
}

// OpenSerial opens the serial channel at the given baud rate.
func (b *Board) OpenSerial(baud int) {
	b.mu.Lock()
	b.serial.open(baud)
	b.mu.Unlock()
}

// Emit appends text to the serial transmit log and reports whether the
// channel accepted it. Emissions before OpenSerial are dropped.
func (b *Board) Emit(text string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.serial.transmit(text)
}

// InjectSerial pushes observer-supplied text onto the receive queue.
func (b *Board) InjectSerial(text string) {
	b.mu.Lock()
	b.serial.receive(text)
	b.mu.Unlock()
}

// AdvanceTimers feeds elapsed virtual seconds into every timer counter.
// Called by the interpreter as part of delay handling.
func (b *Board) AdvanceTimers(seconds float64) {
	b.mu.Lock()
	for _, t := range b.timers {
		t.advance(seconds)
	}
	b.mu.Unlock()
}

// Reset restores every owned peripheral to its power-on state. The whole
// sweep happens under the board lock, so it is atomic with respect to any
// concurrent Snapshot.
func (b *Board) Reset() {
	b.mu.Lock()
	for _, p := range b.pins {
		p.resetState()
	}
	for _, t := range b.timers {
		t.resetState()
	}
	b.serial.resetState()
	b.mu.Unlock()
}
