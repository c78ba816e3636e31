package cpu

import "github.com/go8080/emu8080/pkg/machine"

// add8 computes a+b+carryIn in a 16-bit intermediate, sets CY from bit 8
// and AC from bit 4 of the nibble sum, updates S/Z/P from the truncated
// result, and returns the truncated result. Shared by ADD/ADC/ADI/ACI.
func add8(m *machine.Machine, a, b, carryIn uint8) uint8 {
	var cin uint16
	if carryIn != 0 {
		cin = 1
	}
	sum := uint16(a) + uint16(b) + cin
	nibble := uint16(a&0x0F) + uint16(b&0x0F) + cin
	result := uint8(sum)
	m.Flags.CY = sum&0x100 != 0
	m.Flags.AC = nibble&0x10 != 0
	m.Flags.SetZSP(result)
	return result
}

// sub8 computes a-b-borrowIn, sets CY when the unbounded result is
// negative and AC when the nibble subtraction borrows, updates S/Z/P
// from the truncated result, and returns it. Shared by SUB/SBB/SUI/SBI/
// CMP/CPI (CMP/CPI discard the return value).
func sub8(m *machine.Machine, a, b, borrowIn uint8) uint8 {
	var bin int16
	if borrowIn != 0 {
		bin = 1
	}
	diff := int16(a) - int16(b) - bin
	nibble := int16(a&0x0F) - int16(b&0x0F) - bin
	result := uint8(diff)
	m.Flags.CY = diff < 0
	m.Flags.AC = nibble < 0
	m.Flags.SetZSP(result)
	return result
}

// inr8 computes v+1 mod 256, sets AC on low-nibble rollover to 0, and
// updates S/Z/P. CY is left untouched, per spec.
func inr8(m *machine.Machine, v uint8) uint8 {
	result := v + 1
	m.Flags.AC = result&0x0F == 0x00
	m.Flags.SetZSP(result)
	return result
}

// dcr8 computes v-1 mod 256, sets AC on low-nibble rollover to 0xF, and
// updates S/Z/P. CY is left untouched, per spec.
func dcr8(m *machine.Machine, v uint8) uint8 {
	result := v - 1
	m.Flags.AC = result&0x0F == 0x0F
	m.Flags.SetZSP(result)
	return result
}

// logicOp applies fn (AND/OR/XOR) between A and operand, clears CY and
// AC, and updates S/Z/P — the shared ANA/ORA/XRA rule.
func logicOp(m *machine.Machine, operand uint8, fn func(a, b uint8) uint8) {
	m.A = fn(m.A, operand)
	m.Flags.CY = false
	m.Flags.AC = false
	m.Flags.SetZSP(m.A)
}

func bitAnd(a, b uint8) uint8 { return a & b }
func bitOr(a, b uint8) uint8  { return a | b }
func bitXor(a, b uint8) uint8 { return a ^ b }

// dad16 adds rp to HL mod 65536, sets CY from the 17th bit, and leaves
// S/Z/P/AC untouched.
func dad16(m *machine.Machine, rp uint16) {
	sum := uint32(m.HL()) + uint32(rp)
	m.Flags.CY = sum&0x10000 != 0
	m.SetHL(uint16(sum))
}

// inx16 increments v mod 65536, returning the new value and whether it
// wrapped (for the K flag). Does not touch S/Z/P/CY/AC.
func inx16(v uint16) (result uint16, wrapped bool) {
	result = v + 1
	return result, result == 0
}

// dcx16 is inx16's mirror for DCX.
func dcx16(v uint16) (result uint16, wrapped bool) {
	result = v - 1
	return result, result == 0xFFFF
}
