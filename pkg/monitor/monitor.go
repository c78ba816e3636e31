// Package monitor implements the line-oriented REPL a host uses to load
// programs, inspect and mutate machine state, and run or single-step
// the 8080A engine.
package monitor

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go8080/emu8080/pkg/cpu"
	"github.com/go8080/emu8080/pkg/hexfile"
	"github.com/go8080/emu8080/pkg/machine"
)

// Monitor couples a CPU with the console streams its commands read from
// and write to.
type Monitor struct {
	CPU *cpu.CPU
	M   *machine.Machine
	in  *bufio.Scanner
	out io.Writer
}

// New builds a Monitor reading command lines from in and writing output
// to out.
func New(c *cpu.CPU, in io.Reader, out io.Writer) *Monitor {
	return &Monitor{CPU: c, M: c.M, in: bufio.NewScanner(in), out: out}
}

// commandFunc handles one parsed command line; tokens[0] is the command
// name, already uppercased.
type commandFunc func(mon *Monitor, tokens []string)

var commands = map[string]commandFunc{
	"B":    (*Monitor).cmdBreakpoint,
	"C":    (*Monitor).cmdClear,
	"D":    (*Monitor).cmdDump,
	"E":    (*Monitor).cmdExecute,
	"F":    (*Monitor).cmdFlag,
	"H":    (*Monitor).cmdHelp,
	"HELP": (*Monitor).cmdHelp,
	"L":    (*Monitor).cmdLoad,
	"M":    (*Monitor).cmdMemorySet,
	"P":    (*Monitor).cmdPort,
	"R":    (*Monitor).cmdRegisters,
	"S":    (*Monitor).cmdStep,
}

// Run prints a "." prompt, reads one line, dispatches it, and repeats
// until Q/QUIT or EOF on the input stream.
func (mon *Monitor) Run() {
	for {
		fmt.Fprint(mon.out, ".")
		if !mon.in.Scan() {
			return
		}
		tokens := tokenize(mon.in.Text())
		if len(tokens) == 0 {
			continue
		}
		name := tokens[0]
		if name == "Q" || name == "QUIT" {
			return
		}
		if fn, ok := commands[name]; ok {
			fn(mon, tokens)
		}
		// Unknown commands are silently ignored.
	}
}

// tokenize splits on whitespace, uppercasing every token except the L
// command's filename argument, which must preserve case.
func tokenize(line string) []string {
	fields := strings.Fields(line)
	for i := range fields {
		if i == 1 && strings.EqualFold(fields[0], "L") {
			continue
		}
		fields[i] = strings.ToUpper(fields[i])
	}
	return fields
}

func parseAddress(s string) (uint16, bool) {
	v, err := strconv.ParseUint(s, 16, 16)
	if err != nil {
		return 0, false
	}
	return uint16(v), true
}

func parseByte(s string) (uint8, bool) {
	v, err := strconv.ParseUint(s, 16, 8)
	if err != nil {
		return 0, false
	}
	return uint8(v), true
}

func (mon *Monitor) cmdBreakpoint(tokens []string) {
	switch len(tokens) {
	case 1:
		if mon.M.PCBreakpoint == machine.NoBreakpoint {
			fmt.Fprintln(mon.out, "NONE")
		} else {
			fmt.Fprintf(mon.out, "%04X\n", mon.M.PCBreakpoint)
		}
	case 2:
		addr, ok := parseAddress(tokens[1])
		if !ok {
			fmt.Fprintln(mon.out, "Invalid number:", tokens[1])
			return
		}
		mon.M.PCBreakpoint = int(addr)
	}
}

func (mon *Monitor) cmdClear(tokens []string) {
	mon.M.PCBreakpoint = machine.NoBreakpoint
}

func (mon *Monitor) cmdLoad(tokens []string) {
	if len(tokens) < 2 {
		return
	}
	mon.LoadFile(tokens[1])
}

// LoadFile opens path and loads it as Intel-HEX, reporting any error to
// the monitor's output. Used both by the L command and by the CLI's
// optional startup argument.
func (mon *Monitor) LoadFile(path string) error {
	f, err := openFile(path)
	if err != nil {
		fmt.Fprintln(mon.out, "Invalid or missing file")
		return err
	}
	defer f.Close()
	if err := hexfile.Load(f, mon.M); err != nil {
		fmt.Fprintln(mon.out, "Invalid or missing file")
		return err
	}
	return nil
}
