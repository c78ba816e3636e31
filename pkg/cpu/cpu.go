// Package cpu implements the 8080A decode-dispatch loop: Step executes
// one instruction, Run drives Step until a stop condition is reached.
package cpu

import "github.com/go8080/emu8080/pkg/machine"

// StopReason explains why Run returned.
type StopReason int

const (
	StopNone StopReason = iota
	StopHalted
	StopBreakpoint
	StopInvalid
	StopPCOutOfRange
)

func (r StopReason) String() string {
	switch r {
	case StopHalted:
		return "halted"
	case StopBreakpoint:
		return "breakpoint"
	case StopInvalid:
		return "invalid opcode"
	case StopPCOutOfRange:
		return "PC out of range"
	}
	return "none"
}

// CallHook runs before a CALL's normal push+jump semantics when PC's
// call target matches a hooked address. If handled is true the CALL's
// push+jump is skipped entirely (the hook already advanced PC itself,
// as GETLIN does); if false, the normal CALL still runs afterward (as
// FLOUT does — it only observes the call, it doesn't replace it).
type CallHook func(m *machine.Machine) (handled bool)

// JumpHook runs instead of a JMP's normal semantics when the jump
// target matches a hooked address. The hook is responsible for setting
// m.PC itself; JMP does not separately assign PC when a hook fires.
type JumpHook func(m *machine.Machine)

// PortOutHook observes an OUT to a specific port after the value has
// already been latched into m.Ports.
type PortOutHook func(m *machine.Machine, value uint8)

// PortInHook supplies the value IN reads from a specific port, in place
// of the stored m.Ports entry.
type PortInHook func(m *machine.Machine) uint8

// Hooks is the pluggable trap table: hook dispatch factored out of the
// CALL/JMP/OUT/IN opcode handlers so each hook can be replaced or
// omitted at configuration time.
type Hooks struct {
	Calls    map[uint16]CallHook
	Jumps    map[uint16]JumpHook
	PortOuts map[uint8]PortOutHook
	PortIns  map[uint8]PortInHook
}

// NewHooks returns an empty hook table; every lookup misses until
// populated.
func NewHooks() *Hooks {
	return &Hooks{
		Calls:    map[uint16]CallHook{},
		Jumps:    map[uint16]JumpHook{},
		PortOuts: map[uint8]PortOutHook{},
		PortIns:  map[uint8]PortInHook{},
	}
}

// DisasmFunc renders the instruction at pc as text for trace/step
// output. It must not mutate m. Kept as an injectable callback so the
// engine can run under test without a disassembler or without
// capturing stdout.
type DisasmFunc func(m *machine.Machine, pc uint16) string

// CPU couples a Machine with the pluggable hook table and an optional
// disassembly callback invoked before each instruction when tracing is
// enabled.
type CPU struct {
	M      *machine.Machine
	Hooks  *Hooks
	Disasm DisasmFunc
	// Trace, when true, calls Disasm (if set) before executing each
	// instruction and writes the result through TraceOut.
	Trace    bool
	TraceOut func(line string)
}

// New couples m with hooks (which may be nil, meaning no hooks fire).
func New(m *machine.Machine, hooks *Hooks) *CPU {
	if hooks == nil {
		hooks = NewHooks()
	}
	return &CPU{M: m, Hooks: hooks}
}

// Step fetches and executes exactly one instruction, regardless of the
// configured breakpoint (the monitor's S command single-steps even onto
// a breakpoint address). It returns StopInvalid if the opcode at PC is
// undefined and StopHalted if it was HLT; otherwise StopNone.
func (c *CPU) Step() StopReason {
	m := c.M
	opcode := m.Memory[m.PC]

	if c.Trace && c.Disasm != nil && c.TraceOut != nil {
		c.TraceOut(c.Disasm(m, m.PC))
	}

	handler := opcodeTable[opcode]
	if handler == nil {
		m.Invalid = true
		return StopInvalid
	}
	cycles := handler(c, m)
	m.Cycles += uint64(cycles)

	if opcode == 0x76 {
		m.Halted = true
		return StopHalted
	}
	return StopNone
}

// Run executes instructions starting at start (or the current PC if
// start is nil) until a breakpoint, HLT, an undefined opcode, or (in
// principle) an out-of-range PC is reached. Because PC is a uint16, the
// out-of-range case never occurs — it is kept here to document the stop
// condition, not because Step can produce it.
func (c *CPU) Run(start *uint16) StopReason {
	m := c.M
	if start != nil {
		m.PC = *start
	}
	for {
		if uint32(m.PC) > 0xFFFF {
			return StopPCOutOfRange
		}
		if c.M.PCBreakpoint >= 0 && int(m.PC) == c.M.PCBreakpoint {
			return StopBreakpoint
		}
		reason := c.Step()
		if reason == StopInvalid || reason == StopHalted {
			return reason
		}
	}
}

// condition evaluates one of the eight Jcc/Ccc/Rcc condition codes
// against the current flags.
func condition(m *machine.Machine, cc uint8) bool {
	switch cc {
	case 0: // NZ
		return !m.Flags.Z
	case 1: // Z
		return m.Flags.Z
	case 2: // NC
		return !m.Flags.CY
	case 3: // C
		return m.Flags.CY
	case 4: // PO
		return !m.Flags.P
	case 5: // PE
		return m.Flags.P
	case 6: // P (plus/positive, sign clear)
		return !m.Flags.S
	case 7: // M (minus, sign set)
		return m.Flags.S
	}
	panic("cpu: invalid condition code")
}
