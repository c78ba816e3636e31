// Package machine holds the 8080A register file, flag set, memory, and
// I/O port space shared by the instruction engine, the hardware hooks,
// and the monitor. None of them run concurrently, so Machine carries no
// locking of its own.
package machine

// NoBreakpoint is the sentinel PCBreakpoint value meaning "disabled".
const NoBreakpoint = -1

// Machine is the complete state of one emulated 8080A system: the
// register file, the flag set, 64KiB of memory, 256 I/O ports, and the
// handful of control fields the monitor and the hooks need.
type Machine struct {
	A, B, C, D, E, H, L uint8
	PC, SP              uint16

	Flags Flags

	Memory [65536]uint8
	Ports  [256]uint8

	PCBreakpoint int
	Halted       bool
	Invalid      bool
	Cycles       uint64

	// Column tracks the terminal cursor column for OUT-2 console output,
	// wrapping at Columns.
	Column  int
	Columns int

	// File-service state for the CALL 0x0023 (FLOUT) hook.
	PendingFilename string
	AwaitingSize    bool
	FileLineCount   int
	FileCursor      int
}

// New returns a Machine with memory and ports zeroed, no breakpoint set,
// and terminal wrap width set to columns (spec default 80).
func New(columns int) *Machine {
	if columns <= 0 {
		columns = 80
	}
	m := &Machine{
		PCBreakpoint: NoBreakpoint,
		Column:       1,
		Columns:      columns,
	}
	return m
}

// Reset zeros registers, flags, and the cycle counter, and clears the
// halt/invalid latches. Memory, ports, and the breakpoint are untouched.
func (m *Machine) Reset() {
	m.A, m.B, m.C, m.D, m.E, m.H, m.L = 0, 0, 0, 0, 0, 0, 0
	m.PC, m.SP = 0, 0
	m.Flags = Flags{}
	m.Cycles = 0
	m.Halted = false
	m.Invalid = false
	m.Column = 1
}

// BC, DE, HL read the big-endian register pairs.
func (m *Machine) BC() uint16 { return uint16(m.B)<<8 | uint16(m.C) }
func (m *Machine) DE() uint16 { return uint16(m.D)<<8 | uint16(m.E) }
func (m *Machine) HL() uint16 { return uint16(m.H)<<8 | uint16(m.L) }

// SetBC, SetDE, SetHL write a 16-bit value into a register pair,
// high byte first.
func (m *Machine) SetBC(v uint16) { m.B, m.C = uint8(v>>8), uint8(v) }
func (m *Machine) SetDE(v uint16) { m.D, m.E = uint8(v>>8), uint8(v) }
func (m *Machine) SetHL(v uint16) { m.H, m.L = uint8(v>>8), uint8(v) }

// ReadReg8 reads an 8-bit register by name ("A".."L"), or the memory
// byte at HL for "M". It panics on an unknown name; callers (the
// decode table and the monitor) only ever pass validated names.
func (m *Machine) ReadReg8(name string) uint8 {
	switch name {
	case "A":
		return m.A
	case "B":
		return m.B
	case "C":
		return m.C
	case "D":
		return m.D
	case "E":
		return m.E
	case "H":
		return m.H
	case "L":
		return m.L
	case "M":
		return m.Memory[m.HL()]
	}
	panic("machine: unknown 8-bit register " + name)
}

// WriteReg8 writes an 8-bit register by name, or memory[HL] for "M".
func (m *Machine) WriteReg8(name string, v uint8) {
	switch name {
	case "A":
		m.A = v
	case "B":
		m.B = v
	case "C":
		m.C = v
	case "D":
		m.D = v
	case "E":
		m.E = v
	case "H":
		m.H = v
	case "L":
		m.L = v
	case "M":
		m.Memory[m.HL()] = v
	default:
		panic("machine: unknown 8-bit register " + name)
	}
}

// RegNames8 lists the valid single-byte register names for MOV's r1/r2
// operand fields, in opcode bit-field order (the order the 0x40-0x7F
// block steps through): B, C, D, E, H, L, M, A.
var RegNames8 = [8]string{"B", "C", "D", "E", "H", "L", "M", "A"}

// Push16 decrements SP by two and writes v high byte first: high into
// SP-1, low into SP-2.
func (m *Machine) Push16(v uint16) {
	m.SP -= 1
	m.Memory[m.SP] = uint8(v >> 8)
	m.SP -= 1
	m.Memory[m.SP] = uint8(v)
}

// Pop16 reads a word low-byte-first from the stack and advances SP by
// two, the inverse of Push16.
func (m *Machine) Pop16() uint16 {
	lo := m.Memory[m.SP]
	m.SP += 1
	hi := m.Memory[m.SP]
	m.SP += 1
	return uint16(hi)<<8 | uint16(lo)
}

// Fetch8 reads the byte at PC+off without advancing PC.
func (m *Machine) Fetch8(off uint16) uint8 {
	return m.Memory[m.PC+off]
}

// Fetch16 reads a little-endian word starting at PC+off.
func (m *Machine) Fetch16(off uint16) uint16 {
	lo := uint16(m.Memory[m.PC+off])
	hi := uint16(m.Memory[m.PC+off+1])
	return hi<<8 | lo
}
