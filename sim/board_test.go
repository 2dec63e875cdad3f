package sim

import (
	"testing"
)

func newTestBoard() (*Board, *VirtualClock) {
	clock := NewVirtualClock()
	return NewBoard(DefaultBoardConfig(), clock), clock
}

func TestBoard_WriteDigital_InputMode_IsNoOp(t *testing.T) {
	// GIVEN pin 2 in its power-on Input mode
	b, _ := newTestBoard()

	// WHEN the interpreter path writes HIGH to it
	if err := b.WriteDigital(2, High); err != nil {
		t.Fatalf("WriteDigital: unexpected error %v", err)
	}

	// THEN the level stays Low and the write left no trace
	snap := b.Snapshot()
	pin, _ := snap.Pin(2)
	if pin.Level != Low {
		t.Errorf("pin 2 level: got %v, want LOW", pin.Level)
	}
	if pin.LastChange != 0 {
		t.Errorf("pin 2 LastChange: got %v, want 0", pin.LastChange)
	}
}

func TestBoard_WriteDigital_OutputMode_UpdatesLevelAndTimestamp(t *testing.T) {
	// GIVEN pin 7 configured as an output and a non-zero clock
	b, clock := newTestBoard()
	if err := b.SetMode(7, Output); err != nil {
		t.Fatalf("SetMode: %v", err)
	}
	clock.Advance(1.5)

	// WHEN HIGH is written
	if err := b.WriteDigital(7, High); err != nil {
		t.Fatalf("WriteDigital: %v", err)
	}

	// THEN both the level and the transition timestamp are updated together
	snap := b.Snapshot()
	pin, _ := snap.Pin(7)
	if pin.Level != High {
		t.Errorf("pin 7 level: got %v, want HIGH", pin.Level)
	}
	if pin.LastChange != 1.5 {
		t.Errorf("pin 7 LastChange: got %v, want 1.5", pin.LastChange)
	}
}

func TestBoard_SetMode_AwayFromOutput_KeepsStoredLevel(t *testing.T) {
	// GIVEN pin 5 driven HIGH as an output
	b, _ := newTestBoard()
	b.SetMode(5, Output)
	b.WriteDigital(5, High)

	// WHEN the pin is switched to Input and a write is attempted
	b.SetMode(5, Input)
	b.WriteDigital(5, Low)

	// THEN the stored level survives the mode change and the blocked write
	snap := b.Snapshot()
	pin, _ := snap.Pin(5)
	if pin.Level != High {
		t.Errorf("pin 5 level after mode change: got %v, want HIGH", pin.Level)
	}
}

func TestBoard_WritePWM_ClampsDuty(t *testing.T) {
	// GIVEN a fresh board
	b, _ := newTestBoard()

	// WHEN out-of-range duties are written
	b.WritePWM(9, 300)
	b.WritePWM(10, -10)

	// THEN duties are clamped to [0, 255] and PWM is enabled
	snap := b.Snapshot()
	p9, _ := snap.Pin(9)
	p10, _ := snap.Pin(10)
	if p9.PWMDuty != 255 || !p9.PWMEnabled {
		t.Errorf("pin 9: got duty=%d enabled=%v, want 255/true", p9.PWMDuty, p9.PWMEnabled)
	}
	if p10.PWMDuty != 0 || !p10.PWMEnabled {
		t.Errorf("pin 10: got duty=%d enabled=%v, want 0/true", p10.PWMDuty, p10.PWMEnabled)
	}
}

func TestBoard_WritePWM_NonOutputPin_IsAccepted(t *testing.T) {
	// GIVEN pin 9 left in Input mode (PWM capability is independent of the
	// digital mode flag)
	b, _ := newTestBoard()

	// WHEN a duty is written
	if err := b.WritePWM(9, 128); err != nil {
		t.Fatalf("WritePWM: %v", err)
	}

	// THEN the write is accepted
	snap := b.Snapshot()
	pin, _ := snap.Pin(9)
	if pin.PWMDuty != 128 || !pin.PWMEnabled {
		t.Errorf("pin 9: got duty=%d enabled=%v, want 128/true", pin.PWMDuty, pin.PWMEnabled)
	}
}

func TestBoard_UnknownPin_ReturnsError(t *testing.T) {
	// GIVEN the Uno profile with pins 0..19
	b, _ := newTestBoard()

	// WHEN operations reference pin 99
	// THEN each returns a recoverable error
	if err := b.SetMode(99, Output); err == nil {
		t.Error("SetMode(99): want error, got nil")
	}
	if err := b.WriteDigital(99, High); err == nil {
		t.Error("WriteDigital(99): want error, got nil")
	}
	if err := b.WritePWM(99, 10); err == nil {
		t.Error("WritePWM(99): want error, got nil")
	}
	if err := b.SetAnalog(99, 10); err == nil {
		t.Error("SetAnalog(99): want error, got nil")
	}
}

func TestBoard_SetAnalog_ClampsAndReads(t *testing.T) {
	// GIVEN analog pin A0 (number 14)
	b, _ := newTestBoard()

	// WHEN the observer sets readings beyond the ADC range
	b.SetAnalog(14, 2000)
	got, err := b.ReadAnalog(14)
	if err != nil {
		t.Fatalf("ReadAnalog: %v", err)
	}
	// THEN values are clamped to [0, 1023]
	if got != AnalogMax {
		t.Errorf("analog after 2000: got %d, want %d", got, AnalogMax)
	}
	b.SetAnalog(14, -5)
	got, _ = b.ReadAnalog(14)
	if got != 0 {
		t.Errorf("analog after -5: got %d, want 0", got)
	}
}

func TestBoard_Serial_FIFOAndByteCount(t *testing.T) {
	// GIVEN an opened channel (Scenario: begin(9600) then two "hi" emissions)
	b, _ := newTestBoard()
	b.OpenSerial(9600)

	// WHEN two emissions happen
	b.Emit("hi")
	b.Emit("hi")

	// THEN order is preserved and byte counts match
	snap := b.Snapshot()
	if len(snap.Serial.TxLog) != 2 || snap.Serial.TxLog[0] != "hi" || snap.Serial.TxLog[1] != "hi" {
		t.Errorf("TxLog: got %v, want [hi hi]", snap.Serial.TxLog)
	}
	if snap.Serial.TxBytes != 4 {
		t.Errorf("TxBytes: got %d, want 4", snap.Serial.TxBytes)
	}
}

func TestBoard_Serial_EmitBeforeOpen_IsDropped(t *testing.T) {
	// GIVEN a channel that was never opened
	b, _ := newTestBoard()

	// WHEN text is emitted
	accepted := b.Emit("lost")

	// THEN it is dropped without error
	if accepted {
		t.Error("Emit before open: got accepted=true, want false")
	}
	snap := b.Snapshot()
	if len(snap.Serial.TxLog) != 0 || snap.Serial.TxBytes != 0 {
		t.Errorf("TxLog/TxBytes after dropped emit: got %v/%d, want empty/0", snap.Serial.TxLog, snap.Serial.TxBytes)
	}
}

func TestBoard_InjectSerial_QueuesAndCounts(t *testing.T) {
	// GIVEN any board
	b, _ := newTestBoard()

	// WHEN the observer injects input
	b.InjectSerial("cmd\n")

	// THEN it is queued with byte accounting, awaiting a future read primitive
	snap := b.Snapshot()
	if len(snap.Serial.RxQueue) != 1 || snap.Serial.RxQueue[0] != "cmd\n" {
		t.Errorf("RxQueue: got %v, want [cmd\\n]", snap.Serial.RxQueue)
	}
	if snap.Serial.RxBytes != 4 {
		t.Errorf("RxBytes: got %d, want 4", snap.Serial.RxBytes)
	}
}

func TestBoard_Reset_RestoresDefaults(t *testing.T) {
	// GIVEN a board with thoroughly disturbed state
	b, clock := newTestBoard()
	clock.Advance(3)
	b.SetMode(13, Output)
	b.WriteDigital(13, High)
	b.WritePWM(9, 200)
	b.SetAnalog(14, 1000)
	b.OpenSerial(9600)
	b.Emit("x")
	b.InjectSerial("y")
	b.AdvanceTimers(0.5)

	// WHEN the board resets
	b.Reset()

	// THEN every pin is back at default (Low, mid-scale analog, PWM off)
	snap := b.Snapshot()
	for _, p := range snap.Pins {
		if p.Level != Low {
			t.Errorf("pin %d level after reset: got %v, want LOW", p.Number, p.Level)
		}
		if p.PWMEnabled || p.PWMDuty != 0 {
			t.Errorf("pin %d PWM after reset: got duty=%d enabled=%v", p.Number, p.PWMDuty, p.PWMEnabled)
		}
		want := 0
		if p.AnalogCapable {
			want = AnalogDefault
		}
		if p.AnalogValue != want {
			t.Errorf("pin %d analog after reset: got %d, want %d", p.Number, p.AnalogValue, want)
		}
	}
	// AND timer counters and serial state are zeroed
	for _, tm := range snap.Timers {
		if tm.Counter != 0 || tm.Overflows != 0 {
			t.Errorf("timer %d after reset: counter=%d overflows=%d, want 0/0", tm.ID, tm.Counter, tm.Overflows)
		}
	}
	if snap.Serial.Opened || len(snap.Serial.TxLog) != 0 || len(snap.Serial.RxQueue) != 0 ||
		snap.Serial.TxBytes != 0 || snap.Serial.RxBytes != 0 {
		t.Errorf("serial after reset: got %+v, want cleared", snap.Serial)
	}
}

func TestBoard_Snapshot_IsIsolatedFromLaterWrites(t *testing.T) {
	// GIVEN a snapshot taken before further mutation
	b, _ := newTestBoard()
	b.OpenSerial(9600)
	b.Emit("first")
	snap := b.Snapshot()

	// WHEN the board keeps mutating
	b.Emit("second")
	b.SetMode(3, Output)
	b.WriteDigital(3, High)

	// THEN the old snapshot is unchanged
	if len(snap.Serial.TxLog) != 1 {
		t.Errorf("snapshot TxLog grew: got %d entries, want 1", len(snap.Serial.TxLog))
	}
	pin, _ := snap.Pin(3)
	if pin.Level != Low {
		t.Errorf("snapshot pin 3: got %v, want LOW", pin.Level)
	}
}

func TestBoard_DefaultProfile_PowerOnState(t *testing.T) {
	// GIVEN the Uno profile
	b, _ := newTestBoard()
	snap := b.Snapshot()

	// THEN 20 pins exist, TX and LED are outputs, analog pins read mid-scale
	if len(snap.Pins) != 20 {
		t.Fatalf("pin count: got %d, want 20", len(snap.Pins))
	}
	for _, n := range []int{1, 13} {
		p, _ := snap.Pin(n)
		if p.Mode != Output {
			t.Errorf("pin %d mode: got %v, want OUTPUT", n, p.Mode)
		}
	}
	for n := 14; n < 20; n++ {
		p, _ := snap.Pin(n)
		if !p.AnalogCapable || p.AnalogValue != AnalogDefault {
			t.Errorf("pin %d: got capable=%v analog=%d, want true/%d", n, p.AnalogCapable, p.AnalogValue, AnalogDefault)
		}
	}
	if len(snap.Timers) != 3 {
		t.Errorf("timer count: got %d, want 3", len(snap.Timers))
	}
}
