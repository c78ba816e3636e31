package cpu

import (
	"testing"

	"github.com/go8080/emu8080/pkg/machine"
)

func newTestCPU() (*CPU, *machine.Machine) {
	m := machine.New(0)
	c := New(m, nil)
	return c, m
}

// TestADDWrap is scenario 1 from the testable-properties list: A=0xFF,
// B=0x01, ADD B wraps to 0x00 with Z, P, CY, AC all set and S clear.
func TestADDWrap(t *testing.T) {
	c, m := newTestCPU()
	m.A, m.B = 0xFF, 0x01
	m.Memory[0] = 0x80 // ADD B
	c.Step()
	if m.A != 0x00 {
		t.Fatalf("A = %02X, want 00", m.A)
	}
	if !m.Flags.Z || m.Flags.S || !m.Flags.P || !m.Flags.CY || !m.Flags.AC {
		t.Fatalf("flags = %+v, want Z,P,CY,AC set and S clear", m.Flags)
	}
}

// TestSUBBorrow is scenario 2: A=0x00, B=0x01, SUB B borrows to 0xFF.
func TestSUBBorrow(t *testing.T) {
	c, m := newTestCPU()
	m.A, m.B = 0x00, 0x01
	m.Memory[0] = 0x90 // SUB B
	c.Step()
	if m.A != 0xFF {
		t.Fatalf("A = %02X, want FF", m.A)
	}
	if !m.Flags.S || m.Flags.Z || !m.Flags.P || !m.Flags.CY || !m.Flags.AC {
		t.Fatalf("flags = %+v, want S,P,CY,AC set and Z clear", m.Flags)
	}
}

// TestDAAAfterBCDAdd is scenario 3: A=0x9B with CY=0, AC=0 before DAA
// leaves A=0x01, CY=1.
func TestDAAAfterBCDAdd(t *testing.T) {
	c, m := newTestCPU()
	m.A = 0x9B
	m.Memory[0] = 0x27 // DAA
	c.Step()
	if m.A != 0x01 {
		t.Fatalf("A = %02X, want 01", m.A)
	}
	if !m.Flags.CY {
		t.Fatal("DAA should set CY")
	}
}

// TestDAADoesNotClear verifies the quirk: with neither nibble above 9,
// DAA leaves already-set CY/AC set (the set flags still force both
// adjustments, so A goes from 0x11 to 0x77).
func TestDAADoesNotClear(t *testing.T) {
	c, m := newTestCPU()
	m.A = 0x11
	m.Flags.CY = true
	m.Flags.AC = true
	m.Memory[0] = 0x27
	c.Step()
	if !m.Flags.CY || !m.Flags.AC {
		t.Fatal("DAA must not clear CY/AC when neither nibble exceeds 9")
	}
}

// TestORAParity is scenario 4: A=0x01, ORA A leaves Z=0,S=0,P=0,CY=0,AC=0.
func TestORAParity(t *testing.T) {
	c, m := newTestCPU()
	m.A = 0x01
	m.Memory[0] = 0xB7 // ORA A
	c.Step()
	f := m.Flags
	if f.Z || f.S || f.P || f.CY || f.AC {
		t.Fatalf("flags = %+v, want all clear", f)
	}
}

// TestCallRetRoundTrip is scenario 5.
func TestCallRetRoundTrip(t *testing.T) {
	c, m := newTestCPU()
	m.SP = 0x2000
	m.PC = 0x0100
	m.Memory[0x0100] = 0xCD
	m.Memory[0x0101] = 0x34
	m.Memory[0x0102] = 0x12
	m.Memory[0x1234] = 0xC9
	before := m.Cycles
	c.Step() // CALL
	c.Step() // RET
	if m.PC != 0x0103 {
		t.Fatalf("PC = %04X, want 0103", m.PC)
	}
	if m.SP != 0x2000 {
		t.Fatalf("SP = %04X, want 2000", m.SP)
	}
	if m.Cycles-before != 27 {
		t.Fatalf("cycles = %d, want 27", m.Cycles-before)
	}
}

// TestRSTPushesRawPC confirms RST pushes the RST instruction's own
// address unmodified, unlike CALL which pushes the return address past
// itself.
func TestRSTPushesRawPC(t *testing.T) {
	c, m := newTestCPU()
	m.SP = 0x2000
	m.PC = 0x0050
	m.Memory[0x0050] = 0xFF // RST 7
	c.Step()
	if m.PC != 0x0038 {
		t.Fatalf("PC = %04X, want 0038", m.PC)
	}
	ret := uint16(m.Memory[m.SP+1])<<8 | uint16(m.Memory[m.SP])
	if ret != 0x0050 {
		t.Fatalf("pushed return address = %04X, want 0050 (RST's own address, not +1)", ret)
	}
}

func TestINRDoesNotTouchCY(t *testing.T) {
	c, m := newTestCPU()
	m.B = 0xFF
	m.Flags.CY = true
	m.Memory[0] = 0x04 // INR B
	c.Step()
	if m.B != 0x00 {
		t.Fatalf("B = %02X, want 00", m.B)
	}
	if !m.Flags.CY {
		t.Fatal("INR must not clear CY")
	}
	if !m.Flags.AC {
		t.Fatal("INR wrapping to 0 should set AC")
	}
}

func TestINXWrapSetsK(t *testing.T) {
	c, m := newTestCPU()
	m.SetBC(0xFFFF)
	m.Memory[0] = 0x03 // INX B
	c.Step()
	if m.BC() != 0x0000 {
		t.Fatalf("BC = %04X, want 0000", m.BC())
	}
	if !m.Flags.K {
		t.Fatal("INX wraparound should set K")
	}
}

func TestDCXNoWrapClearsK(t *testing.T) {
	c, m := newTestCPU()
	m.Flags.K = true
	m.SetBC(0x0005)
	m.Memory[0] = 0x0B // DCX B
	c.Step()
	if m.Flags.K {
		t.Fatal("DCX without wraparound should clear K")
	}
}

func TestJccNotTakenAdvancesThreeBytes(t *testing.T) {
	c, m := newTestCPU()
	m.Flags.Z = false
	m.Memory[0] = 0xCA // JZ
	m.Memory[1] = 0x00
	m.Memory[2] = 0x10
	c.Step()
	if m.PC != 3 {
		t.Fatalf("PC = %04X, want 0003 (not taken)", m.PC)
	}
}

func TestCccCycleCosts(t *testing.T) {
	c, m := newTestCPU()
	m.SP = 0x2000
	m.Flags.Z = true
	m.Memory[0] = 0xC4 // CNZ, not taken since Z=1
	m.Memory[1] = 0x00
	m.Memory[2] = 0x10
	c.Step()
	if m.Cycles != 11 {
		t.Fatalf("not-taken CNZ cost %d cycles, want 11", m.Cycles)
	}

	c2, m2 := newTestCPU()
	m2.SP = 0x2000
	m2.Flags.Z = false
	m2.Memory[0] = 0xC4 // CNZ, taken
	m2.Memory[1] = 0x00
	m2.Memory[2] = 0x10
	c2.Step()
	if m2.Cycles != 17 {
		t.Fatalf("taken CNZ cost %d cycles, want 17", m2.Cycles)
	}
}

func TestUndefinedOpcodeStopsInvalid(t *testing.T) {
	c, m := newTestCPU()
	m.Memory[0] = 0xDD // undefined
	reason := c.Step()
	if reason != StopInvalid {
		t.Fatalf("Step() = %v, want StopInvalid", reason)
	}
	if !m.Invalid {
		t.Fatal("Invalid latch should be set")
	}
}

func TestARHLNotTreatedAsUndefined(t *testing.T) {
	c, m := newTestCPU()
	m.H, m.L = 0x81, 0x03
	m.Memory[0] = 0x10 // ARHL
	reason := c.Step()
	if reason == StopInvalid {
		t.Fatal("ARHL (0x10) must not be treated as undefined")
	}
	if m.L != 0x81 { // (H&1)<<7 | L>>1 = (1<<7)|(3>>1) = 0x80|0x01
		t.Fatalf("L = %02X, want 81", m.L)
	}
	if m.H != 0xC0 { // H>>1 | H&0x80 = 0x40 | 0x80
		t.Fatalf("H = %02X, want C0", m.H)
	}
	if !m.Flags.CY {
		t.Fatal("ARHL should set CY from L's low bit")
	}
}

func TestHLTStopsHalted(t *testing.T) {
	c, m := newTestCPU()
	m.Memory[0] = 0x76
	if reason := c.Step(); reason != StopHalted {
		t.Fatalf("Step() = %v, want StopHalted", reason)
	}
	if !m.Halted {
		t.Fatal("Halted latch should be set")
	}
}

func TestRunStopsAtBreakpoint(t *testing.T) {
	c, m := newTestCPU()
	m.PCBreakpoint = 0x0002
	m.Memory[0] = 0x00 // NOP
	m.Memory[1] = 0x00 // NOP
	m.Memory[2] = 0x76 // HLT, never reached
	reason := c.Run(nil)
	if reason != StopBreakpoint {
		t.Fatalf("Run() = %v, want StopBreakpoint", reason)
	}
	if m.PC != 0x0002 {
		t.Fatalf("PC = %04X, want 0002", m.PC)
	}
}

func TestPSWPushPop(t *testing.T) {
	c, m := newTestCPU()
	m.SP = 0x2000
	m.A = 0x3C
	m.Flags = machine.Flags{S: true, P: true, CY: true}
	m.Memory[0] = 0xF5 // PUSH PSW
	m.Memory[1] = 0xF1 // POP PSW (into same machine after clearing A/flags)
	c.Step()
	m.A = 0
	m.Flags = machine.Flags{}
	c.Step()
	if m.A != 0x3C {
		t.Fatalf("A after POP PSW = %02X, want 3C", m.A)
	}
	if !m.Flags.S || !m.Flags.P || !m.Flags.CY {
		t.Fatalf("flags after POP PSW = %+v", m.Flags)
	}
}

func TestCallHookSkipsPushWhenHandled(t *testing.T) {
	c, m := newTestCPU()
	m.SP = 0x2000
	m.PC = 0x0100
	m.Memory[0x0100] = 0xCD
	m.Memory[0x0101] = 0x20
	m.Memory[0x0102] = 0x00
	called := false
	c.Hooks.Calls[0x0020] = func(mm *machine.Machine) bool {
		called = true
		mm.PC += 3
		return true
	}
	c.Step()
	if !called {
		t.Fatal("hook should have fired")
	}
	if m.SP != 0x2000 {
		t.Fatal("a fully-handled call hook must skip the stack push")
	}
	if m.PC != 0x0103 {
		t.Fatalf("PC = %04X, want 0103", m.PC)
	}
}

func TestJumpHookOverridesTarget(t *testing.T) {
	c, m := newTestCPU()
	m.PC = 0x0100
	m.Memory[0x0100] = 0xC3
	m.Memory[0x0101] = 0x23
	m.Memory[0x0102] = 0x00
	c.Hooks.Jumps[0x0023] = func(mm *machine.Machine) {
		mm.PC = 0x00AF
	}
	c.Step()
	if m.PC != 0x00AF {
		t.Fatalf("PC = %04X, want 00AF", m.PC)
	}
}
