package monitor

import (
	"bytes"
	"strings"
	"testing"

	"github.com/go8080/emu8080/pkg/cpu"
	"github.com/go8080/emu8080/pkg/machine"
)

func newTestMonitor(input string) (*Monitor, *machine.Machine, *bytes.Buffer) {
	m := machine.New(0)
	c := cpu.New(m, nil)
	c.Disasm = cpu.Disassemble
	var out bytes.Buffer
	c.TraceOut = func(line string) { out.WriteString(line + "\n") }
	mon := New(c, strings.NewReader(input), &out)
	return mon, m, &out
}

func TestTokenizePreservesLCaseFilename(t *testing.T) {
	got := tokenize("l MyFile.Hex")
	want := []string{"L", "MyFile.Hex"}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("tokenize = %v, want %v", got, want)
	}
}

func TestTokenizeUppercasesOtherTokens(t *testing.T) {
	got := tokenize("r a ff")
	want := []string{"R", "A", "FF"}
	for i, w := range want {
		if got[i] != w {
			t.Fatalf("tokenize()[%d] = %q, want %q", i, got[i], w)
		}
	}
}

func TestBreakpointSetAndShow(t *testing.T) {
	mon, m, out := newTestMonitor("B 0100\nB\nQ\n")
	mon.Run()
	if m.PCBreakpoint != 0x0100 {
		t.Fatalf("PCBreakpoint = %04X, want 0100", m.PCBreakpoint)
	}
	if !strings.Contains(out.String(), "0100") {
		t.Fatalf("output %q should echo the breakpoint", out.String())
	}
}

func TestClearBreakpoint(t *testing.T) {
	mon, m, _ := newTestMonitor("C\nQ\n")
	m.PCBreakpoint = 5
	mon.Run()
	if m.PCBreakpoint != machine.NoBreakpoint {
		t.Fatal("C should clear the breakpoint")
	}
}

func TestMemorySetWritesConsecutiveBytes(t *testing.T) {
	mon, m, _ := newTestMonitor("M 0100 01 02 03\nQ\n")
	mon.Run()
	for i, want := range []uint8{0x01, 0x02, 0x03} {
		if got := m.Memory[0x0100+uint16(i)]; got != want {
			t.Errorf("memory[%04X] = %02X, want %02X", 0x0100+i, got, want)
		}
	}
}

func TestRegisterSetAndStep(t *testing.T) {
	mon, m, _ := newTestMonitor("R A 42\nS\nQ\n")
	m.Memory[0] = 0x3C // INR A
	mon.Run()
	if m.A != 0x43 {
		t.Fatalf("A after R A 42; S = %02X, want 43", m.A)
	}
}

func TestUnknownCommandIgnored(t *testing.T) {
	mon, _, out := newTestMonitor("ZZZ\nQ\n")
	mon.Run()
	if strings.Contains(out.String(), "ZZZ") {
		t.Fatal("unknown commands should be silently ignored, not echoed")
	}
}

func TestQuitStopsTheLoop(t *testing.T) {
	mon, _, _ := newTestMonitor("Q\n")
	mon.Run() // must return; a hang here fails the test via timeout
}

func TestLoadFileReportsErrorOnMissingPath(t *testing.T) {
	mon, _, out := newTestMonitor("")
	if err := mon.LoadFile("/nonexistent/path.hex"); err == nil {
		t.Fatal("LoadFile should error on a missing file")
	}
	if !strings.Contains(out.String(), "Invalid or missing file") {
		t.Fatalf("output = %q", out.String())
	}
}
