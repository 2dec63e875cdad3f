// Package extract turns sketch source text into operation sequences for the
// simulation core. It is a best-effort pattern matcher over the handful of
// board API calls the simulator understands: lines it does not recognize are
// skipped, never fatal. The core itself stays parsing-free and consumes only
// the typed operations produced here.
package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/avr-sim/avr-sim/sim"
)

var (
	setupDeclRe = regexp.MustCompile(`void\s+setup\s*\(`)
	loopDeclRe  = regexp.MustCompile(`void\s+loop\s*\(`)

	// Body extraction tolerates one level of nested braces inside the routine.
	setupBodyRe = regexp.MustCompile(`void\s+setup\s*\(\s*\)\s*\{([^{}]*(?:\{[^{}]*\}[^{}]*)*)\}`)
	loopBodyRe  = regexp.MustCompile(`void\s+loop\s*\(\s*\)\s*\{([^{}]*(?:\{[^{}]*\}[^{}]*)*)\}`)

	pinModeRe       = regexp.MustCompile(`^pinMode\s*\(\s*(\d+)\s*,\s*(\w+)\s*\)$`)
	digitalWriteRe  = regexp.MustCompile(`^digitalWrite\s*\(\s*(\d+)\s*,\s*(\w+)\s*\)$`)
	analogWriteRe   = regexp.MustCompile(`^analogWrite\s*\(\s*(\d+)\s*,\s*(-?\d+)\s*\)$`)
	serialBeginRe   = regexp.MustCompile(`^Serial\.begin\s*\(\s*(\d+)\s*\)$`)
	serialPrintlnRe = regexp.MustCompile(`^Serial\.println\s*\(\s*"([^"]*)"\s*\)$`)
	serialPrintRe   = regexp.MustCompile(`^Serial\.print\s*\(\s*"([^"]*)"\s*\)$`)
	delayRe         = regexp.MustCompile(`^delay\s*\(\s*(\d+)\s*\)$`)
)

// Validate checks the structural requirements before simulation starts: both
// entry routines must be present in the source.
func Validate(source string) error {
	if !setupDeclRe.MatchString(source) {
		return errors.New("setup() routine is required")
	}
	if !loopDeclRe.MatchString(source) {
		return errors.New("loop() routine is required")
	}
	return nil
}

// Program extracts the setup and loop phases from sketch source. A sketch
// that fails Validate yields a configuration error; recognized lines inside
// the routine bodies become operations in order of appearance.
func Program(source string) (*sim.Program, error) {
	if err := Validate(source); err != nil {
		return nil, errors.Wrap(err, "invalid sketch")
	}
	var setupBody, loopBody string
	if m := setupBodyRe.FindStringSubmatch(source); m != nil {
		setupBody = m[1]
	}
	if m := loopBodyRe.FindStringSubmatch(source); m != nil {
		loopBody = m[1]
	}
	return &sim.Program{
		Setup: Sequence(setupBody),
		Loop:  Sequence(loopBody),
	}, nil
}

// Sequence parses a routine body line by line. Blank lines, comments, and
// unrecognized statements are skipped.
func Sequence(body string) sim.Sequence {
	var seq sim.Sequence
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "//") || strings.HasPrefix(line, "/*") {
			continue
		}
		line = strings.TrimSpace(strings.TrimSuffix(line, ";"))
		if op, ok := parseLine(line); ok {
			seq = append(seq, op)
		}
	}
	return seq
}

func parseLine(line string) (sim.Operation, bool) {
	if m := pinModeRe.FindStringSubmatch(line); m != nil {
		mode, ok := sim.ParsePinMode(m[2])
		if !ok {
			return nil, false
		}
		return sim.ConfigurePin{Pin: atoi(m[1]), Mode: mode}, true
	}
	if m := digitalWriteRe.FindStringSubmatch(line); m != nil {
		level := sim.Low
		if m[2] == "HIGH" {
			level = sim.High
		}
		return sim.WriteDigital{Pin: atoi(m[1]), Level: level}, true
	}
	if m := analogWriteRe.FindStringSubmatch(line); m != nil {
		return sim.WritePWM{Pin: atoi(m[1]), Duty: atoi(m[2])}, true
	}
	if m := serialBeginRe.FindStringSubmatch(line); m != nil {
		return sim.OpenSerial{Baud: atoi(m[1])}, true
	}
	if m := serialPrintlnRe.FindStringSubmatch(line); m != nil {
		return sim.EmitSerial{Text: m[1] + "\n"}, true
	}
	if m := serialPrintRe.FindStringSubmatch(line); m != nil {
		return sim.EmitSerial{Text: m[1]}, true
	}
	if m := delayRe.FindStringSubmatch(line); m != nil {
		return sim.Wait{Millis: atoi(m[1])}, true
	}
	return nil, false
}

// atoi is safe here: every argument already matched a digit group.
func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
