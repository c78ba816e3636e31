package cpu

import (
	"fmt"

	"github.com/go8080/emu8080/pkg/machine"
)

// mnemonicFunc renders the instruction at m.PC (not yet executed) as
// text, given its own opcode byte.
type mnemonicFunc func(m *machine.Machine, opcode uint8) string

var mnemonicTable [256]mnemonicFunc

func init() {
	for op := 0x40; op <= 0x7F; op++ {
		op := uint8(op)
		if op == 0x76 {
			continue
		}
		dst := machine.RegNames8[(op>>3)&0x07]
		src := machine.RegNames8[op&0x07]
		mnemonicTable[op] = func(m *machine.Machine, _ uint8) string {
			return fmt.Sprintf("MOV %s,%s", dst, src)
		}
	}
	mnemonicTable[0x76] = fixed("HLT")

	for i, name := range machine.RegNames8 {
		name := name
		mnemonicTable[0x06|uint8(i)<<3] = func(m *machine.Machine, _ uint8) string {
			return fmt.Sprintf("MVI %s,%02X", name, m.Fetch8(1))
		}
	}

	mnemonicTable[0x01] = word16("LXI B,%04X")
	mnemonicTable[0x11] = word16("LXI D,%04X")
	mnemonicTable[0x21] = word16("LXI H,%04X")
	mnemonicTable[0x31] = word16("LXI SP,%04X")
	mnemonicTable[0x3A] = word16("LDA %04X")
	mnemonicTable[0x32] = word16("STA %04X")
	mnemonicTable[0x2A] = word16("LHLD %04X")
	mnemonicTable[0x22] = word16("SHLD %04X")
	mnemonicTable[0x0A] = fixed("LDAX B")
	mnemonicTable[0x1A] = fixed("LDAX D")
	mnemonicTable[0x02] = fixed("STAX B")
	mnemonicTable[0x12] = fixed("STAX D")
	mnemonicTable[0xEB] = fixed("XCHG")
	mnemonicTable[0xE3] = fixed("XTHL")
	mnemonicTable[0xF9] = fixed("SPHL")
	mnemonicTable[0xE9] = fixed("PCHL")

	aluName := func(base uint8, mnemonic string) {
		for i, name := range machine.RegNames8 {
			op := base + uint8(i)
			mnemonicTable[op] = func(m *machine.Machine, _ uint8) string {
				return mnemonic + " " + name
			}
		}
	}
	aluName(0x80, "ADD")
	aluName(0x88, "ADC")
	aluName(0x90, "SUB")
	aluName(0x98, "SBB")
	aluName(0xA0, "ANA")
	aluName(0xA8, "XRA")
	aluName(0xB0, "ORA")
	aluName(0xB8, "CMP")

	mnemonicTable[0xC6] = byte8("ADI %02X")
	mnemonicTable[0xCE] = byte8("ACI %02X")
	mnemonicTable[0xD6] = byte8("SUI %02X")
	mnemonicTable[0xDE] = byte8("SBI %02X")
	mnemonicTable[0xE6] = byte8("ANI %02X")
	mnemonicTable[0xEE] = byte8("XRI %02X")
	mnemonicTable[0xF6] = byte8("ORI %02X")
	mnemonicTable[0xFE] = byte8("CPI %02X")

	for i, name := range machine.RegNames8 {
		name := name
		mnemonicTable[0x04|uint8(i)<<3] = func(m *machine.Machine, _ uint8) string { return "INR " + name }
		mnemonicTable[0x05|uint8(i)<<3] = func(m *machine.Machine, _ uint8) string { return "DCR " + name }
	}

	mnemonicTable[0x03] = fixed("INX B")
	mnemonicTable[0x13] = fixed("INX D")
	mnemonicTable[0x23] = fixed("INX H")
	mnemonicTable[0x33] = fixed("INX SP")
	mnemonicTable[0x0B] = fixed("DCX B")
	mnemonicTable[0x1B] = fixed("DCX D")
	mnemonicTable[0x2B] = fixed("DCX H")
	mnemonicTable[0x3B] = fixed("DCX SP")
	mnemonicTable[0x09] = fixed("DAD B")
	mnemonicTable[0x19] = fixed("DAD D")
	mnemonicTable[0x29] = fixed("DAD H")
	mnemonicTable[0x39] = fixed("DAD SP")

	mnemonicTable[0x07] = fixed("RLC")
	mnemonicTable[0x0F] = fixed("RRC")
	mnemonicTable[0x17] = fixed("RAL")
	mnemonicTable[0x1F] = fixed("RAR")
	mnemonicTable[0x2F] = fixed("CMA")
	mnemonicTable[0x37] = fixed("STC")
	mnemonicTable[0x3F] = fixed("CMC")
	mnemonicTable[0x27] = fixed("DAA")
	mnemonicTable[0x10] = fixed("ARHL")

	mnemonicTable[0xC3] = word16("JMP %04X")
	mnemonicTable[0xCD] = word16("CALL %04X")
	mnemonicTable[0xC9] = fixed("RET")

	ccNames := [8]string{"NZ", "Z", "NC", "C", "PO", "PE", "P", "M"}
	for cc := uint8(0); cc < 8; cc++ {
		name := ccNames[cc]
		mnemonicTable[0xC2|cc<<3] = word16("J" + name + " %04X")
		mnemonicTable[0xC4|cc<<3] = word16("C" + name + " %04X")
		mnemonicTable[0xC0|cc<<3] = fixed("R" + name)
	}
	for n := uint8(0); n < 8; n++ {
		mnemonicTable[0xC7|n<<3] = fixed(fmt.Sprintf("RST %d", n))
	}

	mnemonicTable[0xC5] = fixed("PUSH B")
	mnemonicTable[0xD5] = fixed("PUSH D")
	mnemonicTable[0xE5] = fixed("PUSH H")
	mnemonicTable[0xF5] = fixed("PUSH PSW")
	mnemonicTable[0xC1] = fixed("POP B")
	mnemonicTable[0xD1] = fixed("POP D")
	mnemonicTable[0xE1] = fixed("POP H")
	mnemonicTable[0xF1] = fixed("POP PSW")

	mnemonicTable[0xD3] = byte8("OUT %02X")
	mnemonicTable[0xDB] = byte8("IN %02X")
	mnemonicTable[0xF3] = fixed("DI")
	mnemonicTable[0xFB] = fixed("EI")
	mnemonicTable[0x00] = fixed("NOP")
}

func fixed(text string) mnemonicFunc {
	return func(m *machine.Machine, _ uint8) string { return text }
}

func byte8(format string) mnemonicFunc {
	return func(m *machine.Machine, _ uint8) string {
		return fmt.Sprintf(format, m.Fetch8(1))
	}
}

func word16(format string) mnemonicFunc {
	return func(m *machine.Machine, _ uint8) string {
		return fmt.Sprintf(format, m.Fetch16(1))
	}
}

// Disassemble renders the instruction at pc without mutating m. Unknown
// opcodes render as a DB (define byte) directive, matching what a
// disassembler does when it walks into data.
func Disassemble(m *machine.Machine, pc uint16) string {
	opcode := m.Memory[pc]
	saved := m.PC
	m.PC = pc
	defer func() { m.PC = saved }()

	fn := mnemonicTable[opcode]
	var text string
	if fn == nil {
		text = fmt.Sprintf("DB %02X", opcode)
	} else {
		text = fn(m, opcode)
	}
	return fmt.Sprintf("%04X  %s", pc, text)
}
