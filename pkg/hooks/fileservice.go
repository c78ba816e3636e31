package hooks

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go8080/emu8080/pkg/machine"
)

// FileService backs CALL 0x0023 (FLOUT) and JMP 0x0023 (SAVE), the two
// hooks that turn 8080 memory writes into host file I/O.
type FileService struct {
	out io.Writer
}

// NewFileService reports I/O errors (e.g. "File READ error") to out.
func NewFileService(out io.Writer) *FileService {
	return &FileService{out: out}
}

func zeroTerminated(m *machine.Machine, addr uint16) string {
	var b []byte
	for m.Memory[addr] != 0x00 {
		b = append(b, m.Memory[addr])
		addr++
	}
	return string(b)
}

func writeNullTerminated(m *machine.Machine, addr uint16, s string) {
	i := 0
	for ; i < len(s); i++ {
		m.Memory[addr+uint16(i)] = s[i]
	}
	m.Memory[addr+uint16(i)] = 0x00
}

// FLOUT interprets one zero-terminated message at memory[DE..]. It
// always reports handled=false: unlike GETLIN, the call's own push+jump
// still happens after the hook's side effects run.
func (fs *FileService) FLOUT(m *machine.Machine) bool {
	msg := zeroTerminated(m, m.DE())

	switch {
	case msg == "$SIZE ":
		m.AwaitingSize = true
	case m.AwaitingSize:
		m.PendingFilename = strings.TrimRight(msg, " ")
		m.AwaitingSize = false
	case len(msg) >= 1 && msg[:len(msg)-1] == " LINE":
		fs.sizeResponse(m)
	case msg == "$READ ":
		fs.readLine(m)
	}
	return false
}

func (fs *FileService) sizeResponse(m *machine.Machine) {
	lines, err := readLinesKeepEnds(m.PendingFilename)
	var text string
	if err != nil {
		text = "0"
		m.FileLineCount = 0
	} else {
		m.FileLineCount = len(lines) + 1
		text = strconv.Itoa(m.FileLineCount)
		m.FileCursor = 0
	}
	writeNullTerminated(m, addrFSizeBuf, text)
}

func (fs *FileService) readLine(m *machine.Machine) {
	lines, err := readLinesKeepEnds(m.PendingFilename)
	if err != nil || m.FileCursor >= len(lines) {
		fmt.Fprintln(fs.out, "File READ error")
		return
	}
	line := lines[m.FileCursor]
	addr := uint16(addrFReadBuf)
	var prev byte
	for i := 0; i < len(line); i++ {
		b := line[i]
		if b == 0x0A && prev != 0x0D {
			m.Memory[addr] = 0x0D
			addr++
		}
		m.Memory[addr] = b
		addr++
		prev = b
	}
	m.Memory[addrFReadPtr] = uint8(addr)
	m.Memory[addrFReadPtr+1] = uint8(addr >> 8)
	m.FileCursor++
}

// readLinesKeepEnds splits a file's content on '\n', keeping the
// newline attached to each element (the last element has none if the
// file doesn't end with one), mirroring the line-at-a-time reads the
// BASIC LOAD/SAVE protocol expects.
func readLinesKeepEnds(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var lines []string
	start := 0
	for i := 0; i < len(data); i++ {
		if data[i] == '\n' {
			lines = append(lines, string(data[start:i+1]))
			start = i + 1
		}
	}
	if start < len(data) {
		lines = append(lines, string(data[start:]))
	}
	return lines, nil
}

// Save implements JMP 0x0023: it scans the keyboard buffer for a
// tokenised SAVE command, writes a placeholder file (content
// serialisation is a known gap in the system this emulates, preserved
// as-is), then patches memory[0x0024..0x0025] — the two bytes right
// after the hook's own fixed address — to the little-endian PROMPT
// address and jumps there. The patch address is fixed at 0x0023+1, not
// relative to wherever the JMP instruction itself lives.
func (fs *FileService) Save(m *machine.Machine) {
	filename := scanSaveFilename(m)
	if filename != "" {
		if err := os.WriteFile(filename, []byte("this is a test\n"), 0o644); err != nil {
			fmt.Fprintf(fs.out, "File SAVE error: %v\n", err)
		}
	}
	const hookAddr = 0x0023
	m.Memory[hookAddr+1] = addrPromptLo
	m.Memory[hookAddr+2] = addrPromptHi
	m.PC = uint16(addrPromptHi)<<8 | uint16(addrPromptLo)
}

func scanSaveFilename(m *machine.Machine) string {
	for addr := addrKeyboardLo; addr <= addrKeyboardHi; addr++ {
		if m.Memory[addr] == saveTokenByte {
			start := addr + 1
			end := start
			for end <= addrKeyboardHi && m.Memory[end] != 0x00 {
				end++
			}
			return strings.TrimSpace(string(m.Memory[start:end]))
		}
	}
	return ""
}
