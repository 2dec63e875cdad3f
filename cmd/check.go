package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/avr-sim/avr-sim/sim/extract"
)

// checkCmd validates a sketch and reports what the simulator would execute
var checkCmd = &cobra.Command{
	Use:   "check SKETCH",
	Short: "Validate a sketch and show the extracted operations",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		source, err := os.ReadFile(args[0])
		if err != nil {
			logrus.Fatalf("Failed to read sketch: %v", err)
		}
		prog, err := extract.Program(string(source))
		if err != nil {
			logrus.Fatalf("Sketch check failed: %v", err)
		}

		fmt.Printf("setup: %d operations\n", len(prog.Setup))
		for _, op := range prog.Setup {
			fmt.Printf("  %s\n", op)
		}
		fmt.Printf("loop: %d operations\n", len(prog.Loop))
		for _, op := range prog.Loop {
			fmt.Printf("  %s\n", op)
		}
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
