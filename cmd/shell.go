package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/abiosoft/ishell"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/avr-sim/avr-sim/sim"
	"github.com/avr-sim/avr-sim/sim/extract"
)

var (
	shellBoard      string // Board profile name
	shellBoardsFile string // Optional YAML catalog of board profiles
)

// monitor is the interactive observer around one simulator instance.
type monitor struct {
	sim  *sim.Simulator
	prog *sim.Program
}

// mustHaveProgram wraps command funcs that need a loaded sketch.
func (m *monitor) mustHaveProgram(fn func(c *ishell.Context)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		if m.prog == nil {
			c.Err(fmt.Errorf("no sketch loaded; use: load FILE"))
			return
		}
		fn(c)
	}
}

// shellCmd starts an interactive monitor around a simulated board
var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive monitor for a simulated board",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := LoadBoardConfig(shellBoardsFile, shellBoard)
		if err != nil {
			logrus.Fatalf("Failed to load board profile: %v", err)
		}
		m := &monitor{sim: sim.NewSimulator(cfg)}

		sh := ishell.New()
		sh.Println("avrsim interactive monitor; type 'help' for commands")
		sh.SetPrompt(cfg.Name + "> ")
		for _, cmd := range m.commands() {
			sh.AddCmd(cmd)
		}
		sh.Run()
	},
}

func (m *monitor) commands() []*ishell.Cmd {
	return []*ishell.Cmd{
		{
			Name: "load",
			Help: "FILE  load and extract a sketch",
			Func: func(c *ishell.Context) {
				if len(c.Args) < 1 {
					c.Err(fmt.Errorf("FILE required"))
					return
				}
				source, err := os.ReadFile(c.Args[0])
				if err != nil {
					c.Err(err)
					return
				}
				prog, err := extract.Program(string(source))
				if err != nil {
					c.Err(err)
					return
				}
				m.prog = prog
				c.Printf("loaded: %d setup ops, %d loop ops\n", len(prog.Setup), len(prog.Loop))
			},
		},
		{
			Name: "start",
			Help: "start the simulation",
			Func: m.mustHaveProgram(func(c *ishell.Context) {
				status, err := m.sim.Start(m.prog)
				if err != nil {
					c.Err(err)
					return
				}
				c.Println(status)
			}),
		},
		{
			Name: "stop",
			Help: "stop the simulation",
			Func: func(c *ishell.Context) {
				status, err := m.sim.Stop()
				if err != nil {
					c.Err(err)
					return
				}
				c.Println(status)
			},
		},
		{
			Name: "reset",
			Help: "reset board, clock, and counters",
			Func: func(c *ishell.Context) {
				status, err := m.sim.Reset()
				if err != nil {
					c.Err(err)
					return
				}
				c.Println(status)
			},
		},
		{
			Name: "status",
			Help: "show lifecycle state and simulated time",
			Func: func(c *ishell.Context) {
				c.Println(m.sim.Status())
			},
		},
		{
			Name: "pins",
			Help: "show all GPIO pins",
			Func: func(c *ishell.Context) {
				snap := m.sim.Snapshot()
				for _, p := range snap.Pins {
					line := fmt.Sprintf("pin %2d  %-12s %-4s", p.Number, p.Mode, p.Level)
					if p.AnalogCapable {
						line += fmt.Sprintf("  analog=%4d", p.AnalogValue)
					}
					if p.PWMEnabled {
						line += fmt.Sprintf("  pwm=%3d", p.PWMDuty)
					}
					c.Println(line)
				}
			},
		},
		{
			Name: "timers",
			Help: "show all hardware timers",
			Func: func(c *ishell.Context) {
				snap := m.sim.Snapshot()
				for _, t := range snap.Timers {
					c.Printf("timer %d  prescaler=%d counter=%d overflows=%d freq=%.2fHz\n",
						t.ID, t.Prescaler, t.Counter, t.Overflows, t.Frequency())
				}
			},
		},
		{
			Name: "serial",
			Help: "show the serial transmit log",
			Func: func(c *ishell.Context) {
				snap := m.sim.Snapshot()
				if !snap.Serial.Opened {
					c.Println("serial channel not opened")
					return
				}
				c.Printf("baud=%d tx=%dB rx=%dB\n", snap.Serial.BaudRate, snap.Serial.TxBytes, snap.Serial.RxBytes)
				c.Print(strings.Join(snap.Serial.TxLog, ""))
			},
		},
		{
			Name: "send",
			Help: "TEXT  inject text into the serial receive queue",
			Func: func(c *ishell.Context) {
				if len(c.Args) < 1 {
					c.Err(fmt.Errorf("TEXT required"))
					return
				}
				m.sim.InjectSerial(strings.Join(c.Args, " ") + "\n")
			},
		},
		{
			Name: "analog",
			Help: "PIN VALUE  set a pin's analog reading (simulated sensor)",
			Func: func(c *ishell.Context) {
				if len(c.Args) < 2 {
					c.Err(fmt.Errorf("PIN and VALUE required"))
					return
				}
				pin, err := strconv.Atoi(c.Args[0])
				if err != nil {
					c.Err(fmt.Errorf("invalid PIN: %v", err))
					return
				}
				value, err := strconv.Atoi(c.Args[1])
				if err != nil {
					c.Err(fmt.Errorf("invalid VALUE: %v", err))
					return
				}
				if err := m.sim.SetAnalog(pin, value); err != nil {
					c.Err(err)
				}
			},
		},
		{
			Name: "speed",
			Help: "MULT  set the simulation speed multiplier",
			Func: func(c *ishell.Context) {
				if len(c.Args) < 1 {
					c.Err(fmt.Errorf("MULT required"))
					return
				}
				mult, err := strconv.ParseFloat(c.Args[0], 64)
				if err != nil || mult <= 0 {
					c.Err(fmt.Errorf("invalid MULT: must be a positive number"))
					return
				}
				m.sim.SetSpeed(mult)
				c.Printf("speed=%.2fx\n", m.sim.Speed())
			},
		},
	}
}

func init() {
	shellCmd.Flags().StringVar(&shellBoard, "board", "uno", "Board profile name")
	shellCmd.Flags().StringVar(&shellBoardsFile, "boards-file", "", "YAML catalog of board profiles (default: built-in profiles)")

	rootCmd.AddCommand(shellCmd)
}
