package hooks

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/go8080/emu8080/pkg/machine"
)

// Console backs the two line-oriented hardware hooks that touch the
// host terminal: GETLIN (CALL 0x0020) and the OUT-2 console writer.
type Console struct {
	in  *bufio.Reader
	out io.Writer
}

// NewConsole wraps in for line-buffered reads and out for port-2 writes.
func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewReader(in), out: out}
}

// GetLine implements CALL 0x0020: it blocks for one line from the host
// console, deposits it at 0xFE03 followed by a carriage return, resets
// the console column, advances PC past the three-byte CALL, and reports
// handled so the CALL's own push+jump never runs — the called program
// never actually executes, this hook stands in for it.
func (c *Console) GetLine(m *machine.Machine) bool {
	line, _ := c.in.ReadString('\n')
	line = strings.TrimRight(line, "\r\n")
	addr := uint16(addrGetlinBuf)
	for i := 0; i < len(line); i++ {
		m.Memory[addr+uint16(i)] = line[i]
	}
	m.Memory[addr+uint16(len(line))] = 0x0D
	m.Column = 1
	m.PC += 3
	return true
}

// OutPort2 implements the console output convention: LF is dropped, CR
// emits a newline and resets the column, everything else is printed and
// wraps once the column passes m.Columns.
func (c *Console) OutPort2(m *machine.Machine, value uint8) {
	switch value {
	case 0x0A:
		return
	case 0x0D:
		fmt.Fprintln(c.out)
		m.Column = 1
	default:
		fmt.Fprintf(c.out, "%c", value)
		m.Column++
		if m.Column > m.Columns {
			fmt.Fprintln(c.out)
			m.Column = 1
		}
	}
}
