package cpu

import "github.com/go8080/emu8080/pkg/machine"

// opcodeFunc executes one instruction and returns its cycle cost. PC
// must be left pointing at the next instruction (or at the handler's
// chosen target, for control transfers) before returning.
type opcodeFunc func(c *CPU, m *machine.Machine) int

// opcodeTable is the 256-entry dispatch table. A nil entry marks one of
// the eleven undefined 8080A opcodes, except 0x10 (ARHL), which this
// system implements rather than rejecting.
var opcodeTable [256]opcodeFunc

func init() {
	// --- Data transfer: MOV r1,r2 (0x40-0x7F, except 0x76 = HLT) ---
	for op := 0x40; op <= 0x7F; op++ {
		op := uint8(op)
		if op == 0x76 {
			continue
		}
		dst := machine.RegNames8[(op>>3)&0x07]
		src := machine.RegNames8[op&0x07]
		opcodeTable[op] = func(c *CPU, m *machine.Machine) int {
			m.WriteReg8(dst, m.ReadReg8(src))
			m.PC += 1
			if dst == "M" || src == "M" {
				return 7
			}
			return 5
		}
	}
	opcodeTable[0x76] = opHLT

	// MVI r,data (00rrr110)
	for i, name := range machine.RegNames8 {
		name := name
		op := uint8(0x06 | (i << 3))
		opcodeTable[op] = func(c *CPU, m *machine.Machine) int {
			v := m.Fetch8(1)
			m.WriteReg8(name, v)
			m.PC += 2
			if name == "M" {
				return 10
			}
			return 7
		}
	}

	opcodeTable[0x01] = opLXI(regBC)
	opcodeTable[0x11] = opLXI(regDE)
	opcodeTable[0x21] = opLXI(regHL)
	opcodeTable[0x31] = func(c *CPU, m *machine.Machine) int {
		m.SP = m.Fetch16(1)
		m.PC += 3
		return 10
	}

	opcodeTable[0x3A] = func(c *CPU, m *machine.Machine) int { // LDA
		m.A = m.Memory[m.Fetch16(1)]
		m.PC += 3
		return 13
	}
	opcodeTable[0x32] = func(c *CPU, m *machine.Machine) int { // STA
		m.Memory[m.Fetch16(1)] = m.A
		m.PC += 3
		return 13
	}
	opcodeTable[0x2A] = func(c *CPU, m *machine.Machine) int { // LHLD
		addr := m.Fetch16(1)
		m.L = m.Memory[addr]
		m.H = m.Memory[addr+1]
		m.PC += 3
		return 16
	}
	opcodeTable[0x22] = func(c *CPU, m *machine.Machine) int { // SHLD
		addr := m.Fetch16(1)
		m.Memory[addr] = m.L
		m.Memory[addr+1] = m.H
		m.PC += 3
		return 16
	}
	opcodeTable[0x0A] = func(c *CPU, m *machine.Machine) int { // LDAX B
		m.A = m.Memory[m.BC()]
		m.PC += 1
		return 7
	}
	opcodeTable[0x1A] = func(c *CPU, m *machine.Machine) int { // LDAX D
		m.A = m.Memory[m.DE()]
		m.PC += 1
		return 7
	}
	opcodeTable[0x02] = func(c *CPU, m *machine.Machine) int { // STAX B
		m.Memory[m.BC()] = m.A
		m.PC += 1
		return 7
	}
	opcodeTable[0x12] = func(c *CPU, m *machine.Machine) int { // STAX D
		m.Memory[m.DE()] = m.A
		m.PC += 1
		return 7
	}
	opcodeTable[0xEB] = func(c *CPU, m *machine.Machine) int { // XCHG
		m.D, m.H = m.H, m.D
		m.E, m.L = m.L, m.E
		m.PC += 1
		return 4
	}
	opcodeTable[0xE3] = func(c *CPU, m *machine.Machine) int { // XTHL
		lo, hi := m.Memory[m.SP], m.Memory[m.SP+1]
		m.Memory[m.SP], m.Memory[m.SP+1] = m.L, m.H
		m.L, m.H = lo, hi
		m.PC += 1
		return 18
	}
	opcodeTable[0xF9] = func(c *CPU, m *machine.Machine) int { // SPHL
		m.SP = m.HL()
		m.PC += 1
		return 5
	}

	// --- Arithmetic/logical over r and M (8 families x 8 operands) ---
	arithFamily(0x80, func(m *machine.Machine, v uint8) { m.A = add8(m, m.A, v, 0) })                 // ADD
	arithFamily(0x88, func(m *machine.Machine, v uint8) { m.A = add8(m, m.A, v, carryBit(m)) })        // ADC
	arithFamily(0x90, func(m *machine.Machine, v uint8) { m.A = sub8(m, m.A, v, 0) })                  // SUB
	arithFamily(0x98, func(m *machine.Machine, v uint8) { m.A = sub8(m, m.A, v, carryBit(m)) })        // SBB
	arithFamily(0xA0, func(m *machine.Machine, v uint8) { logicOp(m, v, bitAnd) })                     // ANA
	arithFamily(0xA8, func(m *machine.Machine, v uint8) { logicOp(m, v, bitXor) })                     // XRA
	arithFamily(0xB0, func(m *machine.Machine, v uint8) { logicOp(m, v, bitOr) })                      // ORA
	arithFamily(0xB8, func(m *machine.Machine, v uint8) { sub8(m, m.A, v, 0) })                        // CMP

	opcodeTable[0xC6] = opImmediate(func(m *machine.Machine, v uint8) { m.A = add8(m, m.A, v, 0) })          // ADI
	opcodeTable[0xCE] = opImmediate(func(m *machine.Machine, v uint8) { m.A = add8(m, m.A, v, carryBit(m)) }) // ACI
	opcodeTable[0xD6] = opImmediate(func(m *machine.Machine, v uint8) { m.A = sub8(m, m.A, v, 0) })          // SUI
	opcodeTable[0xDE] = opImmediate(func(m *machine.Machine, v uint8) { m.A = sub8(m, m.A, v, carryBit(m)) }) // SBI
	opcodeTable[0xE6] = opImmediate(func(m *machine.Machine, v uint8) { logicOp(m, v, bitAnd) })             // ANI
	opcodeTable[0xEE] = opImmediate(func(m *machine.Machine, v uint8) { logicOp(m, v, bitXor) })             // XRI
	opcodeTable[0xF6] = opImmediate(func(m *machine.Machine, v uint8) { logicOp(m, v, bitOr) })              // ORI
	opcodeTable[0xFE] = opImmediate(func(m *machine.Machine, v uint8) { sub8(m, m.A, v, 0) })                // CPI

	for i, name := range machine.RegNames8 { // INR/DCR
		name := name
		incOp := uint8(0x04 | (i << 3))
		decOp := uint8(0x05 | (i << 3))
		opcodeTable[incOp] = func(c *CPU, m *machine.Machine) int {
			m.WriteReg8(name, inr8(m, m.ReadReg8(name)))
			m.PC += 1
			if name == "M" {
				return 10
			}
			return 5
		}
		opcodeTable[decOp] = func(c *CPU, m *machine.Machine) int {
			m.WriteReg8(name, dcr8(m, m.ReadReg8(name)))
			m.PC += 1
			if name == "M" {
				return 10
			}
			return 5
		}
	}

	opcodeTable[0x03] = opINX(regBC)
	opcodeTable[0x13] = opINX(regDE)
	opcodeTable[0x23] = opINX(regHL)
	opcodeTable[0x33] = func(c *CPU, m *machine.Machine) int {
		v, wrapped := inx16(m.SP)
		m.SP = v
		m.Flags.K = wrapped
		m.PC += 1
		return 5
	}
	opcodeTable[0x0B] = opDCX(regBC)
	opcodeTable[0x1B] = opDCX(regDE)
	opcodeTable[0x2B] = opDCX(regHL)
	opcodeTable[0x3B] = func(c *CPU, m *machine.Machine) int {
		v, wrapped := dcx16(m.SP)
		m.SP = v
		m.Flags.K = wrapped
		m.PC += 1
		return 5
	}

	opcodeTable[0x09] = opDAD(regBC)
	opcodeTable[0x19] = opDAD(regDE)
	opcodeTable[0x29] = opDAD(regHL)
	opcodeTable[0x39] = func(c *CPU, m *machine.Machine) int {
		dad16(m, m.SP)
		m.PC += 1
		return 10
	}

	opcodeTable[0x07] = func(c *CPU, m *machine.Machine) int { // RLC
		bit7 := m.A&0x80 != 0
		m.A = m.A<<1 | boolBit(bit7)
		m.Flags.CY = bit7
		m.PC += 1
		return 4
	}
	opcodeTable[0x0F] = func(c *CPU, m *machine.Machine) int { // RRC
		bit0 := m.A&0x01 != 0
		m.A = m.A>>1 | boolBit(bit0)<<7
		m.Flags.CY = bit0
		m.PC += 1
		return 4
	}
	opcodeTable[0x17] = func(c *CPU, m *machine.Machine) int { // RAL
		bit7 := m.A&0x80 != 0
		m.A = m.A<<1 | boolBit(m.Flags.CY)
		m.Flags.CY = bit7
		m.PC += 1
		return 4
	}
	opcodeTable[0x1F] = func(c *CPU, m *machine.Machine) int { // RAR
		bit0 := m.A&0x01 != 0
		m.A = m.A>>1 | boolBit(m.Flags.CY)<<7
		m.Flags.CY = bit0
		m.PC += 1
		return 4
	}
	opcodeTable[0x2F] = func(c *CPU, m *machine.Machine) int { // CMA
		m.A = ^m.A
		m.PC += 1
		return 4
	}
	opcodeTable[0x37] = func(c *CPU, m *machine.Machine) int { // STC
		m.Flags.CY = true
		m.PC += 1
		return 4
	}
	opcodeTable[0x3F] = func(c *CPU, m *machine.Machine) int { // CMC
		m.Flags.CY = !m.Flags.CY
		m.PC += 1
		return 4
	}
	opcodeTable[0x27] = opDAA
	opcodeTable[0x10] = opARHL // vendor extension, not "invalid"

	// --- Control transfer ---
	opcodeTable[0xC3] = opJMP
	opcodeTable[0xCD] = opCALL
	opcodeTable[0xC9] = opRET
	opcodeTable[0xE9] = func(c *CPU, m *machine.Machine) int { // PCHL
		m.PC = m.HL()
		return 5
	}
	for cc := uint8(0); cc < 8; cc++ {
		cc := cc
		opcodeTable[0xC2|cc<<3] = opJcc(cc)
		opcodeTable[0xC4|cc<<3] = opCcc(cc)
		opcodeTable[0xC0|cc<<3] = opRcc(cc)
	}
	for n := uint8(0); n < 8; n++ {
		n := n
		opcodeTable[0xC7|n<<3] = func(c *CPU, m *machine.Machine) int {
			m.Push16(m.PC)
			m.PC = uint16(n) * 8
			return 11
		}
	}

	// --- Stack, I/O, HLT ---
	opcodeTable[0xC5] = opPUSH(regBC)
	opcodeTable[0xD5] = opPUSH(regDE)
	opcodeTable[0xE5] = opPUSH(regHL)
	opcodeTable[0xF5] = func(c *CPU, m *machine.Machine) int {
		m.Push16(uint16(m.A)<<8 | uint16(m.Flags.PSW()))
		m.PC += 1
		return 11
	}
	opcodeTable[0xC1] = opPOP(regBC)
	opcodeTable[0xD1] = opPOP(regDE)
	opcodeTable[0xE1] = opPOP(regHL)
	opcodeTable[0xF1] = func(c *CPU, m *machine.Machine) int {
		v := m.Pop16()
		m.A = uint8(v >> 8)
		m.Flags.SetPSW(uint8(v))
		m.PC += 1
		return 10
	}

	opcodeTable[0xD3] = func(c *CPU, m *machine.Machine) int { // OUT
		port := m.Fetch8(1)
		m.Ports[port] = m.A
		if hook := c.Hooks.PortOuts[port]; hook != nil {
			hook(m, m.A)
		}
		m.PC += 2
		return 10
	}
	opcodeTable[0xDB] = func(c *CPU, m *machine.Machine) int { // IN
		port := m.Fetch8(1)
		if hook := c.Hooks.PortIns[port]; hook != nil {
			m.A = hook(m)
		} else {
			m.A = m.Ports[port]
		}
		m.PC += 2
		return 10
	}
	opcodeTable[0xF3] = func(c *CPU, m *machine.Machine) int { m.PC += 1; return 4 } // DI
	opcodeTable[0xFB] = func(c *CPU, m *machine.Machine) int { m.PC += 1; return 4 } // EI
	opcodeTable[0x00] = func(c *CPU, m *machine.Machine) int { m.PC += 1; return 4 } // NOP
	// HLT set above at 0x76.

	// The remaining unassigned slots (08,18,20,28,30,38,CB,D9,DD,ED,FD)
	// stay nil: Step treats a nil entry as the undefined-opcode case.
}

type regPair int

const (
	regBC regPair = iota
	regDE
	regHL
)

func readPair(m *machine.Machine, rp regPair) uint16 {
	switch rp {
	case regBC:
		return m.BC()
	case regDE:
		return m.DE()
	default:
		return m.HL()
	}
}

func writePair(m *machine.Machine, rp regPair, v uint16) {
	switch rp {
	case regBC:
		m.SetBC(v)
	case regDE:
		m.SetDE(v)
	default:
		m.SetHL(v)
	}
}

func opLXI(rp regPair) opcodeFunc {
	return func(c *CPU, m *machine.Machine) int {
		writePair(m, rp, m.Fetch16(1))
		m.PC += 3
		return 10
	}
}

func opINX(rp regPair) opcodeFunc {
	return func(c *CPU, m *machine.Machine) int {
		v, wrapped := inx16(readPair(m, rp))
		writePair(m, rp, v)
		m.Flags.K = wrapped
		m.PC += 1
		return 5
	}
}

func opDCX(rp regPair) opcodeFunc {
	return func(c *CPU, m *machine.Machine) int {
		v, wrapped := dcx16(readPair(m, rp))
		writePair(m, rp, v)
		m.Flags.K = wrapped
		m.PC += 1
		return 5
	}
}

func opDAD(rp regPair) opcodeFunc {
	return func(c *CPU, m *machine.Machine) int {
		dad16(m, readPair(m, rp))
		m.PC += 1
		return 10
	}
}

func opPUSH(rp regPair) opcodeFunc {
	return func(c *CPU, m *machine.Machine) int {
		m.Push16(readPair(m, rp))
		m.PC += 1
		return 11
	}
}

func opPOP(rp regPair) opcodeFunc {
	return func(c *CPU, m *machine.Machine) int {
		writePair(m, rp, m.Pop16())
		m.PC += 1
		return 10
	}
}

// arithFamily wires the eight r/M operand slots of one ALU instruction
// family (base is the 0x80-style opcode for operand B) to fn.
func arithFamily(base uint8, fn func(m *machine.Machine, v uint8)) {
	for i, name := range machine.RegNames8 {
		name := name
		op := base + uint8(i)
		opcodeTable[op] = func(c *CPU, m *machine.Machine) int {
			fn(m, m.ReadReg8(name))
			m.PC += 1
			if name == "M" {
				return 7
			}
			return 4
		}
	}
}

func opImmediate(fn func(m *machine.Machine, v uint8)) opcodeFunc {
	return func(c *CPU, m *machine.Machine) int {
		fn(m, m.Fetch8(1))
		m.PC += 2
		return 7
	}
}

func carryBit(m *machine.Machine) uint8 {
	if m.Flags.CY {
		return 1
	}
	return 0
}

func boolBit(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

func opHLT(c *CPU, m *machine.Machine) int {
	m.PC += 1
	return 7
}

// opDAA applies the decimal-adjust quirk spec calls out: each nibble
// adjustment only fires above its threshold OR when the corresponding
// flag is already set, and a fired adjustment only SETS CY/AC — a
// not-triggered adjustment leaves them exactly as the prior instruction
// left them, it does not clear them.
func opDAA(c *CPU, m *machine.Machine) int {
	a := m.A
	if a&0x0F > 9 || m.Flags.AC {
		a += 0x06
		m.Flags.AC = true
	}
	if (a>>4) > 9 || m.Flags.CY {
		a += 0x60
		m.Flags.CY = true
	}
	m.A = a
	m.Flags.SetZSP(a)
	m.PC += 1
	return 4
}

// opARHL is the vendor 8085 extension this system gives opcode 0x10
// instead of treating it as undefined: CY takes L's low bit, L shifts
// right with H's low bit feeding its top, and H shifts right arithmetic
// (its own sign bit re-inserted rather than propagated from outside).
func opARHL(c *CPU, m *machine.Machine) int {
	oldH, oldL := m.H, m.L
	m.Flags.CY = oldL&0x01 != 0
	m.L = (oldL >> 1) | ((oldH & 0x01) << 7)
	m.H = (oldH >> 1) | (oldH & 0x80)
	m.PC += 1
	return 7
}

func opJMP(c *CPU, m *machine.Machine) int {
	target := m.Fetch16(1)
	if hook, ok := c.Hooks.Jumps[target]; ok {
		hook(m)
		return 10
	}
	m.PC = target
	return 10
}

func opJcc(cc uint8) opcodeFunc {
	return func(c *CPU, m *machine.Machine) int {
		target := m.Fetch16(1)
		if condition(m, cc) {
			m.PC = target
		} else {
			m.PC += 3
		}
		return 10
	}
}

func opCALL(c *CPU, m *machine.Machine) int {
	target := m.Fetch16(1)
	retAddr := m.PC + 3
	if hook, ok := c.Hooks.Calls[target]; ok {
		if hook(m) {
			return 17
		}
	}
	m.Push16(retAddr)
	m.PC = target
	return 17
}

func opCcc(cc uint8) opcodeFunc {
	return func(c *CPU, m *machine.Machine) int {
		target := m.Fetch16(1)
		if condition(m, cc) {
			m.Push16(m.PC + 3)
			m.PC = target
			return 17
		}
		m.PC += 3
		return 11
	}
}

func opRET(c *CPU, m *machine.Machine) int {
	m.PC = m.Pop16()
	return 10
}

func opRcc(cc uint8) opcodeFunc {
	return func(c *CPU, m *machine.Machine) int {
		if condition(m, cc) {
			m.PC = m.Pop16()
			return 11
		}
		m.PC += 1
		return 5
	}
}
