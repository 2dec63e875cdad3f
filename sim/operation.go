package sim

import "fmt"

// Operation is one extracted board-API call. The set of implementations is
// closed (the unexported marker method sees to that) and the interpreter
// matches over it exhaustively; parsing sketch text into operations lives
// entirely outside this package, in sim/extract.
type Operation interface {
	fmt.Stringer
	isOperation()
}

// ConfigurePin sets a pin's drive mode (pinMode).
type ConfigurePin struct {
	Pin  int
	Mode PinMode
}

// WriteDigital drives a pin's logic level (digitalWrite).
type WriteDigital struct {
	Pin   int
	Level PinLevel
}

// WritePWM sets a pin's PWM duty (analogWrite). Duty is clamped to
// [0, PWMMax] at execution time.
type WritePWM struct {
	Pin  int
	Duty int
}

// OpenSerial opens the serial channel at a baud rate (Serial.begin).
type OpenSerial struct {
	Baud int
}

// EmitSerial appends text to the transmit log (Serial.print/println).
type EmitSerial struct {
	Text string
}

// Wait advances simulated time by Millis and throttles wall-clock time
// accordingly (delay).
type Wait struct {
	Millis int
}

func (ConfigurePin) isOperation() {}
func (WriteDigital) isOperation() {}
func (WritePWM) isOperation()     {}
func (OpenSerial) isOperation()   {}
func (EmitSerial) isOperation()   {}
func (Wait) isOperation()         {}

func (o ConfigurePin) String() string { return fmt.Sprintf("pinMode(%d, %s)", o.Pin, o.Mode) }
func (o WriteDigital) String() string { return fmt.Sprintf("digitalWrite(%d, %s)", o.Pin, o.Level) }
func (o WritePWM) String() string     { return fmt.Sprintf("analogWrite(%d, %d)", o.Pin, o.Duty) }
func (o OpenSerial) String() string   { return fmt.Sprintf("Serial.begin(%d)", o.Baud) }
func (o EmitSerial) String() string   { return fmt.Sprintf("Serial.print(%q)", o.Text) }
func (o Wait) String() string         { return fmt.Sprintf("delay(%d)", o.Millis) }

// Sequence is an ordered list of operations for one phase of a sketch. The
// interpreter treats it as read-only input.
type Sequence []Operation

// Program pairs the one-shot setup phase with the repeating loop phase.
type Program struct {
	Setup Sequence
	Loop  Sequence
}
