package monitor

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go8080/emu8080/pkg/cpu"
)

func openFile(path string) (*os.File, error) {
	return os.Open(path)
}

func (mon *Monitor) cmdDump(tokens []string) {
	if len(tokens) < 2 {
		return
	}
	start, ok := parseAddress(tokens[1])
	if !ok {
		fmt.Fprintln(mon.out, "Invalid number:", tokens[1])
		return
	}
	if len(tokens) == 2 {
		fmt.Fprintf(mon.out, "%04X %02X\n", start, mon.M.Memory[start])
		return
	}
	end, ok := parseAddress(tokens[2])
	if !ok {
		fmt.Fprintln(mon.out, "Invalid number:", tokens[2])
		return
	}
	if start > end {
		fmt.Fprintln(mon.out, "Invalid memory range")
		return
	}
	for i := uint32(start); i <= uint32(end); i++ {
		if i == uint32(start) || i%16 == 0 {
			fmt.Fprintf(mon.out, "%04X: ", i)
		}
		fmt.Fprintf(mon.out, "%02X ", mon.M.Memory[uint16(i)])
		if i%16 == 15 {
			fmt.Fprintln(mon.out)
		}
	}
	if end%16 != 15 {
		fmt.Fprintln(mon.out)
	}
}

func (mon *Monitor) cmdExecute(tokens []string) {
	var startPtr *uint16
	if len(tokens) >= 2 {
		start, ok := parseAddress(tokens[1])
		if !ok {
			fmt.Fprintln(mon.out, "Invalid number:", tokens[1])
			return
		}
		startPtr = &start
	}
	reason := mon.CPU.Run(startPtr)
	switch reason {
	case cpu.StopBreakpoint:
		fmt.Fprintln(mon.out, "Break point reached")
	case cpu.StopInvalid:
		fmt.Fprintln(mon.out, "Invalid instruction")
	}
}

func (mon *Monitor) cmdFlag(tokens []string) {
	if len(tokens) != 3 {
		fmt.Fprintln(mon.out, "Unrecognized command")
		return
	}
	ptr, ok := mon.M.Flags.FlagByName(tokens[1])
	if !ok {
		fmt.Fprintln(mon.out, "Unrecognized command")
		return
	}
	bit, err := strconv.Atoi(tokens[2])
	if err != nil || (bit != 0 && bit != 1) {
		fmt.Fprintln(mon.out, "Unrecognized command")
		return
	}
	*ptr = bit == 1
}

func (mon *Monitor) cmdHelp(tokens []string) {
	fmt.Fprintln(mon.out, "Commands")
	fmt.Fprintln(mon.out, "  B Addr        ;Set breakpoint address")
	fmt.Fprintln(mon.out, "  C             ;Clear breakpoint")
	fmt.Fprintln(mon.out, "  D Addr (Addr) ;Display memory range")
	fmt.Fprintln(mon.out, "  E Addr        ;Execute from address")
	fmt.Fprintln(mon.out, "  F flag bit    ;Set flags (CY, V, P, AC, K, S, Z)")
	fmt.Fprintln(mon.out, "  H(elp)        ;Display help")
	fmt.Fprintln(mon.out, "  L name.hex    ;Load hex file")
	fmt.Fprintln(mon.out, "  M Addr byte (byte) ;Set memory")
	fmt.Fprintln(mon.out, "  P Port (byte) ;Display/Set I/O port")
	fmt.Fprintln(mon.out, "  Q(uit)        ;Quit")
	fmt.Fprintln(mon.out, "  R             ;Display registers (A, BC, DE, HL, PSW, PC, SP)")
	fmt.Fprintln(mon.out, "  S (Addr)      ;Single step from address or current PC")
}

func (mon *Monitor) cmdMemorySet(tokens []string) {
	if len(tokens) < 3 {
		fmt.Fprintln(mon.out, "Value error")
		return
	}
	addr, ok := parseAddress(tokens[1])
	if !ok {
		fmt.Fprintln(mon.out, "Value error")
		return
	}
	for _, tok := range tokens[2:] {
		b, ok := parseByte(tok)
		if !ok {
			fmt.Fprintln(mon.out, "Value error")
			return
		}
		mon.M.Memory[addr] = b
		addr++
	}
}

func (mon *Monitor) cmdPort(tokens []string) {
	if len(tokens) < 2 {
		return
	}
	port, ok := parseByte(tokens[1])
	if !ok {
		fmt.Fprintln(mon.out, "Invalid number:", tokens[1])
		return
	}
	if len(tokens) == 2 {
		fmt.Fprintf(mon.out, "%02X\n", mon.M.Ports[port])
		return
	}
	v, ok := parseByte(tokens[2])
	if !ok {
		fmt.Fprintln(mon.out, "Invalid byte value")
		return
	}
	mon.M.Ports[port] = v
}

func regFormat(v uint8) string { return fmt.Sprintf("%02X", v) }

func (mon *Monitor) cmdRegisters(tokens []string) {
	m := mon.M
	if len(tokens) == 1 {
		f := m.Flags
		fmt.Fprintln(mon.out, "A  ", regFormat(m.A), "\t\tCY", boolBit(f.CY))
		fmt.Fprintln(mon.out, "BC ", regFormat(m.B), regFormat(m.C), "\tV ", boolBit(f.V))
		fmt.Fprintln(mon.out, "DE ", regFormat(m.D), regFormat(m.E), "\tP ", boolBit(f.P))
		fmt.Fprintln(mon.out, "HL ", regFormat(m.H), regFormat(m.L), "\tAC", boolBit(f.AC))
		fmt.Fprintf(mon.out, "PC  %04X\tK  %d\n", m.PC, boolBit(f.K))
		fmt.Fprintf(mon.out, "SP  %04X\tZ  %d\n", m.SP, boolBit(f.Z))
		fmt.Fprintln(mon.out, "PSW", regFormat(m.A)+regFormat(f.PSW()), "\tS ", boolBit(f.S))
		return
	}
	if len(tokens) != 3 {
		fmt.Fprintln(mon.out, "Unrecognized command")
		return
	}
	name := tokens[1]
	if name == "SP" || name == "PC" {
		v, ok := parseAddress(tokens[2])
		if !ok {
			fmt.Fprintln(mon.out, "Unrecognized command")
			return
		}
		if name == "SP" {
			m.SP = v
		} else {
			m.PC = v
		}
		return
	}
	v, ok := parseByte(tokens[2])
	if !ok {
		fmt.Fprintln(mon.out, "Unrecognized command")
		return
	}
	switch name {
	case "A", "B", "C", "D", "E", "H", "L":
		m.WriteReg8(name, v)
	default:
		fmt.Fprintln(mon.out, "Unrecognized command")
	}
}

func boolBit(b bool) int {
	if b {
		return 1
	}
	return 0
}

// cmdStep single-steps one instruction, tracing it through the CPU's
// Disasm callback — the monitor only wants per-instruction text during
// S, never during a free-running E.
func (mon *Monitor) cmdStep(tokens []string) {
	m := mon.M
	if len(tokens) >= 2 {
		addr, ok := parseAddress(tokens[1])
		if !ok {
			fmt.Fprintln(mon.out, "Invalid number:", tokens[1])
			return
		}
		m.PC = addr
	}
	mon.CPU.Trace = true
	mon.CPU.Step()
	mon.CPU.Trace = false
}
