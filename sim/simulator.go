// sim/simulator.go
package sim

import (
	"fmt"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// State is the lifecycle phase of the Simulator.
type State int

const (
	Idle State = iota
	Running
	Stopping
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Stopping:
		return "stopping"
	case Stopped:
		return "stopped"
	}
	return "unknown"
}

// Simulator is the core object that owns the board, the virtual clock, and
// the start/stop/reset lifecycle. A started simulator executes the program's
// setup sequence exactly once and then repeats the loop sequence on a single
// dedicated worker goroutine until a stop is requested. There is exactly one
// worker so peripheral mutation stays strictly ordered.
//
// Observer methods (Snapshot, SetAnalog, SetSpeed, InjectSerial) are safe to
// call from any goroutine at any time.
type Simulator struct {
	mu      sync.Mutex
	state   State
	board   *Board
	clock   *VirtualClock
	interp  *Interpreter
	metrics *Metrics
	program *Program
	cancel  chan struct{} // closed to request a stop
	done    chan struct{} // closed when the worker has exited
}

// NewSimulator wires a fresh board and clock for the given profile.
func NewSimulator(cfg BoardConfig) *Simulator {
	clock := NewVirtualClock()
	board := NewBoard(cfg, clock)
	metrics := &Metrics{}
	return &Simulator{
		board:   board,
		clock:   clock,
		metrics: metrics,
		interp:  NewInterpreter(board, clock, metrics),
	}
}

// Start validates the program and launches the worker. It fails without side
// effects when the simulator is not idle or the program has no operations;
// such configuration errors are reported synchronously and never crash the
// run loop.
func (s *Simulator) Start(prog *Program) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Idle {
		return "", errors.Errorf("cannot start while %s; reset first", s.state)
	}
	if prog == nil {
		return "", errors.New("no program loaded")
	}
	if len(prog.Setup) == 0 && len(prog.Loop) == 0 {
		return "", errors.New("program has no operations")
	}
	s.program = prog
	s.cancel = make(chan struct{})
	s.done = make(chan struct{})
	s.state = Running
	go s.run()
	logrus.Infof("simulation started: %d setup ops, %d loop ops", len(prog.Setup), len(prog.Loop))
	return "simulation started", nil
}

// run is the worker: setup once, then loop until cancelled. Interpreter-level
// errors are handled per-operation inside RunSequence and never leave the
// Running state.
func (s *Simulator) run() {
	defer close(s.done)
	s.interp.RunSequence(s.program.Setup, s.cancel)
	if len(s.program.Loop) == 0 {
		// Nothing to iterate; hold peripheral state until a stop arrives.
		<-s.cancel
		return
	}
	for {
		select {
		case <-s.cancel:
			return
		default:
		}
		s.interp.RunSequence(s.program.Loop, s.cancel)
		s.metrics.LoopIterations.Add(1)
	}
}

// Stop requests cancellation and joins the worker. The cancel channel is
// observed between operations and inside Throttle, so Stop returns within the
// throttle's interrupt granularity even mid-delay.
func (s *Simulator) Stop() (string, error) {
	s.mu.Lock()
	switch s.state {
	case Running:
		s.state = Stopping
		close(s.cancel)
	case Stopping:
		// A concurrent stop already requested cancellation; just join.
	default:
		st := s.state
		s.mu.Unlock()
		return "", errors.Errorf("cannot stop while %s", st)
	}
	done := s.done
	s.mu.Unlock()

	<-done

	s.mu.Lock()
	s.state = Stopped
	s.mu.Unlock()
	logrus.Info("simulation stopped")
	return "simulation stopped", nil
}

// Reset restores the board and clock to power-on state and returns the
// simulator to Idle. Resetting while running forces an implicit stop first
// and joins the worker, so a reset can never race an in-flight operation.
func (s *Simulator) Reset() (string, error) {
	s.mu.Lock()
	running := s.state == Running || s.state == Stopping
	s.mu.Unlock()
	if running {
		if _, err := s.Stop(); err != nil {
			return "", err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.board.Reset()
	s.clock.Reset()
	s.metrics.reset()
	s.program = nil
	s.state = Idle
	logrus.Info("simulation reset")
	return "simulation reset", nil
}

// State reports the current lifecycle phase.
func (s *Simulator) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Status is a human-readable one-liner for display surfaces.
func (s *Simulator) Status() string {
	st := s.State()
	if st == Running {
		return fmt.Sprintf("%s (loop %d, t=%.3fs)", st, s.metrics.LoopIterations.Load(), s.clock.Now())
	}
	return fmt.Sprintf("%s (t=%.3fs)", st, s.clock.Now())
}

// Snapshot returns a consistent copy of all peripheral state.
func (s *Simulator) Snapshot() Snapshot {
	return s.board.Snapshot()
}

// SetAnalog is the observer's sensor-input path.
func (s *Simulator) SetAnalog(pin, value int) error {
	return s.board.SetAnalog(pin, value)
}

// SetSpeed adjusts the wall-clock throttling multiplier.
func (s *Simulator) SetSpeed(mult float64) {
	s.clock.SetSpeed(mult)
}

// Speed reports the current throttling multiplier.
func (s *Simulator) Speed() float64 {
	return s.clock.Speed()
}

// InjectSerial pushes text onto the serial receive queue.
func (s *Simulator) InjectSerial(text string) {
	s.board.InjectSerial(text)
}

// Metrics exposes the run counters.
func (s *Simulator) Metrics() *Metrics {
	return s.metrics
}
