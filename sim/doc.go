// Package sim provides the hardware-simulation core: a software model of a
// microcontroller's GPIO pins, hardware timers, PWM outputs, and serial
// channel, driven by an interpreter that executes board-level operations
// extracted from user sketches.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - board.go: the peripheral registry that owns all pin/timer/serial state
//   - interpreter.go: sequential evaluation of operations against the board
//   - simulator.go: the lifecycle state machine (idle, running, stopping, stopped)
//
// # Architecture
//
// The model operates at the level of board API calls (pin writes, delays,
// serial prints), not machine instructions. An extracted Program (setup and
// loop operation sequences, see sim/extract) flows into the Interpreter,
// which mutates the Board and advances the VirtualClock. The Simulator runs
// setup once and then the loop sequence forever on one dedicated worker
// goroutine; observers read a consistent Snapshot of the board at their own
// cadence and may write back only a pin's analog value, serial input, and the
// clock's speed multiplier.
//
// # Timing
//
// Simulated time is decoupled from wall-clock time: a Wait operation advances
// the VirtualClock by exactly the requested delay and then throttles the
// worker for delay/speed real seconds, checking for a stop request every few
// milliseconds so shutdown never waits out a long delay.
package sim
