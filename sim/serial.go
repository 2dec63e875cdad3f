package sim

// SerialChannel models the board's UART-backed serial port. The transmit log
// is append-only for the duration of a run and preserves emission order
// exactly; byte counts only grow. Until the channel has been opened by a
// Serial.begin-style operation, transmits are silent no-ops.
//
// The receive queue holds observer-injected input. There is no interpreter
// read primitive yet, so injected text accumulates until one exists.
type SerialChannel struct {
	Opened   bool
	BaudRate int
	TxLog    []string
	RxQueue  []string
	TxBytes  int
	RxBytes  int
}

func (s *SerialChannel) open(baud int) {
	s.Opened = true
	s.BaudRate = baud
}

// transmit appends text to the log and reports whether the channel accepted
// it (false when the channel has not been opened).
func (s *SerialChannel) transmit(text string) bool {
	if !s.Opened {
		return false
	}
	s.TxLog = append(s.TxLog, text)
	s.TxBytes += len(text)
	return true
}

func (s *SerialChannel) receive(text string) {
	s.RxQueue = append(s.RxQueue, text)
	s.RxBytes += len(text)
}

func (s *SerialChannel) resetState() {
	*s = SerialChannel{}
}
