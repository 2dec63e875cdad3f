package sim

import "github.com/pkg/errors"

// TimerSpec describes one hardware timer unit on a board profile.
type TimerSpec struct {
	ID        int `yaml:"id"`
	WidthBits int `yaml:"width_bits"` // counter width, 8 or 16
}

// BoardConfig describes the fixed peripheral complement of a simulated board.
// Profiles are loaded from YAML by the CLI; DefaultBoardConfig covers the
// common case.
type BoardConfig struct {
	Name        string      `yaml:"name"`
	ClockHz     int         `yaml:"clock_hz"`
	DigitalPins int         `yaml:"digital_pins"` // pin numbers [0, DigitalPins)
	AnalogPins  int         `yaml:"analog_pins"`  // analog-capable pins follow the digital range
	OutputPins  []int       `yaml:"output_pins"`  // pins wired as outputs at power-on (TX, built-in LED)
	Timers      []TimerSpec `yaml:"timers"`
}

// DefaultBoardConfig returns the Uno profile: 14 digital pins, 6 analog pins
// (A0..A5 at numbers 14..19), a 16MHz clock, and three timers. Pin 1 (TX) and
// pin 13 (built-in LED) power on as outputs.
func DefaultBoardConfig() BoardConfig {
	return BoardConfig{
		Name:        "uno",
		ClockHz:     16_000_000,
		DigitalPins: 14,
		AnalogPins:  6,
		OutputPins:  []int{1, 13},
		Timers: []TimerSpec{
			{ID: 0, WidthBits: 8},
			{ID: 1, WidthBits: 16},
			{ID: 2, WidthBits: 8},
		},
	}
}

// Validate checks a profile before a board is built from it.
func (c BoardConfig) Validate() error {
	if c.ClockHz <= 0 {
		return errors.Errorf("board %q: clock_hz must be positive, got %d", c.Name, c.ClockHz)
	}
	if c.DigitalPins <= 0 {
		return errors.Errorf("board %q: digital_pins must be positive, got %d", c.Name, c.DigitalPins)
	}
	if c.AnalogPins < 0 {
		return errors.Errorf("board %q: analog_pins must not be negative, got %d", c.Name, c.AnalogPins)
	}
	total := c.DigitalPins + c.AnalogPins
	for _, n := range c.OutputPins {
		if n < 0 || n >= total {
			return errors.Errorf("board %q: output pin %d outside pin range [0, %d)", c.Name, n, total)
		}
	}
	for _, t := range c.Timers {
		if t.WidthBits != 8 && t.WidthBits != 16 {
			return errors.Errorf("board %q: timer %d width must be 8 or 16 bits, got %d", c.Name, t.ID, t.WidthBits)
		}
	}
	return nil
}
