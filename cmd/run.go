package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/avr-sim/avr-sim/sim"
	"github.com/avr-sim/avr-sim/sim/extract"
)

var (
	runBoard      string  // Board profile name
	runBoardsFile string  // Optional YAML catalog of board profiles
	runSpeed      float64 // Speed multiplier (2 = twice as fast as real time)
	runDuration   float64 // Real seconds to run before stopping (0 = until interrupted)
)

// observeInterval is the cadence at which the run command polls the board for
// new serial output.
const observeInterval = 100 * time.Millisecond

// runCmd simulates a sketch until interrupted or a deadline passes
var runCmd = &cobra.Command{
	Use:   "run SKETCH",
	Short: "Run a sketch on the simulated board",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		source, err := os.ReadFile(args[0])
		if err != nil {
			logrus.Fatalf("Failed to read sketch: %v", err)
		}
		prog, err := extract.Program(string(source))
		if err != nil {
			logrus.Fatalf("Failed to extract program: %v", err)
		}

		cfg, err := LoadBoardConfig(runBoardsFile, runBoard)
		if err != nil {
			logrus.Fatalf("Failed to load board profile: %v", err)
		}

		s := sim.NewSimulator(cfg)
		s.SetSpeed(runSpeed)
		if _, err := s.Start(prog); err != nil {
			logrus.Fatalf("Failed to start simulation: %v", err)
		}

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

		var deadline <-chan time.Time
		if runDuration > 0 {
			deadline = time.After(time.Duration(runDuration * float64(time.Second)))
		}

		// Observer loop: tail the transmit log at a fixed cadence.
		printed := 0
		ticker := time.NewTicker(observeInterval)
		defer ticker.Stop()
	observe:
		for {
			select {
			case <-sigCh:
				logrus.Info("interrupt received")
				break observe
			case <-deadline:
				break observe
			case <-ticker.C:
				printed = printSerial(s.Snapshot(), printed)
			}
		}

		if _, err := s.Stop(); err != nil {
			logrus.Fatalf("Failed to stop simulation: %v", err)
		}
		snap := s.Snapshot()
		printSerial(snap, printed)
		s.Metrics().Print(snap)
	},
}

// printSerial writes transmit log entries past the already-printed mark and
// returns the new mark.
func printSerial(snap sim.Snapshot, printed int) int {
	for ; printed < len(snap.Serial.TxLog); printed++ {
		fmt.Print(snap.Serial.TxLog[printed])
	}
	return printed
}

func init() {
	runCmd.Flags().StringVar(&runBoard, "board", "uno", "Board profile name")
	runCmd.Flags().StringVar(&runBoardsFile, "boards-file", "", "YAML catalog of board profiles (default: built-in profiles)")
	runCmd.Flags().Float64Var(&runSpeed, "speed", 1.0, "Simulation speed multiplier")
	runCmd.Flags().Float64Var(&runDuration, "duration", 0, "Real seconds to run before stopping (0 = until Ctrl-C)")

	rootCmd.AddCommand(runCmd)
}
