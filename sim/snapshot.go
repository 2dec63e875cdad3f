package sim

import "sort"

// Snapshot is a consistent, read-only copy of all peripheral state, taken
// under the board lock. Observers poll it at their own cadence without ever
// seeing an in-flight mutation.
type Snapshot struct {
	SimTime float64
	Speed   float64
	Pins    []GPIOPin // sorted by pin number
	Timers  []Timer   // sorted by timer ID
	Serial  SerialSnapshot
}

// SerialSnapshot is the observer's view of the serial channel.
type SerialSnapshot struct {
	Opened   bool
	BaudRate int
	TxLog    []string
	RxQueue  []string
	TxBytes  int
	RxBytes  int
}

// Pin looks up a pin copy by number.
func (s Snapshot) Pin(number int) (GPIOPin, bool) {
	for _, p := range s.Pins {
		if p.Number == number {
			return p, true
		}
	}
	return GPIOPin{}, false
}

// Timer looks up a timer copy by ID.
func (s Snapshot) Timer(id int) (Timer, bool) {
	for _, t := range s.Timers {
		if t.ID == id {
			return t, true
		}
	}
	return Timer{}, false
}

// Snapshot deep-copies the registry. The transmit log and receive queue
// slices are copied so later appends on the board cannot leak into a
// snapshot already handed to an observer.
func (b *Board) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	snap := Snapshot{
		SimTime: b.clock.Now(),
		Speed:   b.clock.Speed(),
		Pins:    make([]GPIOPin, 0, len(b.pins)),
		Timers:  make([]Timer, 0, len(b.timers)),
		Serial: SerialSnapshot{
			Opened:   b.serial.Opened,
			BaudRate: b.serial.BaudRate,
			TxLog:    append([]string(nil), b.serial.TxLog...),
			RxQueue:  append([]string(nil), b.serial.RxQueue...),
			TxBytes:  b.serial.TxBytes,
			RxBytes:  b.serial.RxBytes,
		},
	}
	for _, p := range b.pins {
		snap.Pins = append(snap.Pins, *p)
	}
	for _, t := range b.timers {
		snap.Timers = append(snap.Timers, *t)
	}
	sort.Slice(snap.Pins, func(i, j int) bool { return snap.Pins[i].Number < snap.Pins[j].Number })
	sort.Slice(snap.Timers, func(i, j int) bool { return snap.Timers[i].ID < snap.Timers[j].ID })
	return snap
}
