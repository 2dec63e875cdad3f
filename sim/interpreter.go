package sim

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Interpreter is a deterministic, side-effecting evaluator over operation
// sequences, with the board and clock as its only effect surface. Operations
// run strictly in order on a single goroutine; the interpreter introduces no
// parallelism of its own, so peripheral mutation stays strictly ordered.
type Interpreter struct {
	board   *Board
	clock   *VirtualClock
	metrics *Metrics
}

func NewInterpreter(board *Board, clock *VirtualClock, metrics *Metrics) *Interpreter {
	return &Interpreter{board: board, clock: clock, metrics: metrics}
}

// RunSequence executes a sequence from start to end, checking cancellation
// between operations so a stop request never has to wait for a full pass. A
// failing operation is logged as a warning and skipped; one malformed line
// must not abort the remaining valid ones.
func (in *Interpreter) RunSequence(seq Sequence, cancel <-chan struct{}) {
	for _, op := range seq {
		select {
		case <-cancel:
			return
		default:
		}
		if err := in.Execute(op, cancel); err != nil {
			logrus.Warnf("skipping %s: %v", op, err)
			in.metrics.OpsSkipped.Add(1)
			continue
		}
		in.metrics.OpsExecuted.Add(1)
	}
}

// Execute applies a single operation. Errors are recoverable by contract:
// callers log and move on.
func (in *Interpreter) Execute(op Operation, cancel <-chan struct{}) error {
	switch v := op.(type) {
	case ConfigurePin:
		return in.board.SetMode(v.Pin, v.Mode)
	case WriteDigital:
		return in.board.WriteDigital(v.Pin, v.Level)
	case WritePWM:
		return in.board.WritePWM(v.Pin, v.Duty)
	case OpenSerial:
		in.board.OpenSerial(v.Baud)
		return nil
	case EmitSerial:
		// Emissions on a closed channel are dropped, not errors.
		in.board.Emit(v.Text)
		return nil
	case Wait:
		// Logical time moves before the interruptible sleep: a stop request
		// during the throttle still leaves forward-only, consistent clocks.
		seconds := float64(v.Millis) / 1000
		in.clock.Advance(seconds)
		in.board.AdvanceTimers(seconds)
		in.clock.Throttle(seconds, cancel)
		return nil
	default:
		return errors.Errorf("unrecognized operation %T", op)
	}
}
