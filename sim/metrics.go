// Tracks run-wide execution counters for final reporting.

package sim

import (
	"fmt"
	"sync/atomic"
)

// Metrics aggregates statistics about a simulation run. Counters are atomic
// because the worker goroutine increments them while observers read.
type Metrics struct {
	LoopIterations atomic.Int64 // completed passes over the loop sequence
	OpsExecuted    atomic.Int64 // operations applied successfully
	OpsSkipped     atomic.Int64 // operations dropped after a recoverable error
}

func (m *Metrics) reset() {
	m.LoopIterations.Store(0)
	m.OpsExecuted.Store(0)
	m.OpsSkipped.Store(0)
}

// Print displays aggregated metrics at the end of a run, together with the
// final peripheral state captured in snap.
func (m *Metrics) Print(snap Snapshot) {
	fmt.Println("=== Simulation Metrics ===")
	fmt.Printf("Simulated Time     : %.3f s\n", snap.SimTime)
	fmt.Printf("Loop Iterations    : %d\n", m.LoopIterations.Load())
	fmt.Printf("Operations Applied : %d\n", m.OpsExecuted.Load())
	fmt.Printf("Operations Skipped : %d\n", m.OpsSkipped.Load())
	fmt.Printf("Serial TX          : %d bytes in %d writes\n", snap.Serial.TxBytes, len(snap.Serial.TxLog))
	if snap.Serial.RxBytes > 0 {
		fmt.Printf("Serial RX (pending): %d bytes in %d messages\n", snap.Serial.RxBytes, len(snap.Serial.RxQueue))
	}
}
