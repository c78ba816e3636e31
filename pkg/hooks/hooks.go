// Package hooks implements the fixed-address hardware traps: GETLIN,
// FLOUT, SAVE, and the port-2/port-3 UART stand-ins. Each one is built
// here as a cpu.CallHook/JumpHook/PortOutHook/PortInHook closure and
// wired into a cpu.Hooks table by Build, the way a device table keyed
// by address or port number is wired elsewhere in this codebase's
// ancestry.
package hooks

import (
	"github.com/go8080/emu8080/pkg/cpu"
	"github.com/go8080/emu8080/pkg/machine"
)

// Memory regions the hooks read and write, per the persisted-state
// layout.
const (
	addrGetlinBuf  = 0xFE03
	addrFSizeBuf   = 0xFD00
	addrFReadBuf   = 0xFD03
	addrFReadPtr   = 0xFC3E
	addrKeyboardLo = 0xFE00
	addrKeyboardHi = 0xFEFF
	saveTokenByte  = 0x9C
	addrPromptLo   = 0xAF
	addrPromptHi   = 0x00
)

// UARTReady is the IN-port-3 hook: this system has no UART, so every
// read reports "ready".
var UARTReady cpu.PortInHook = func(m *machine.Machine) uint8 { return 1 }

// Build assembles a complete hook table from a Console (GETLIN, OUT-2)
// and a FileService (FLOUT, SAVE). Either may be nil, in which case the
// corresponding hooks are omitted and those calls/jumps fall through to
// plain CALL/JMP semantics.
func Build(console *Console, files *FileService) *cpu.Hooks {
	h := cpu.NewHooks()
	h.PortIns[3] = UARTReady
	if console != nil {
		h.Calls[0x0020] = console.GetLine
		h.PortOuts[2] = console.OutPort2
	}
	if files != nil {
		h.Calls[0x0023] = files.FLOUT
		h.Jumps[0x0023] = files.Save
	}
	return h
}
