// Package hexfile loads Intel-HEX records into a machine.Machine,
// deliberately ignoring the record-type and checksum fields the way
// this system's loader always has.
package hexfile

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go8080/emu8080/pkg/machine"
)

// Load reads Intel-HEX records from r into m.Memory. Each record is
// ":LLAAAATT" followed by LL data bytes and one checksum byte; only LL
// (byte count) and AAAA (base address) are consulted. A record with
// LL=0 terminates the load before EOF is required.
func Load(r io.Reader, m *machine.Machine) error {
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, ":") {
			return fmt.Errorf("hexfile: line %d: missing ':' prefix", lineNo)
		}
		body := line[1:]
		if len(body) < 8 {
			return fmt.Errorf("hexfile: line %d: record too short", lineNo)
		}
		count, err := parseHexByte(body[0:2])
		if err != nil {
			return fmt.Errorf("hexfile: line %d: bad byte count: %w", lineNo, err)
		}
		addr, err := parseHexWord(body[2:6])
		if err != nil {
			return fmt.Errorf("hexfile: line %d: bad address: %w", lineNo, err)
		}
		if count == 0 {
			return nil
		}
		payload := body[8:]
		if len(payload) < int(count)*2 {
			return fmt.Errorf("hexfile: line %d: record shorter than its byte count", lineNo)
		}
		for i := 0; i < int(count); i++ {
			b, err := parseHexByte(payload[i*2 : i*2+2])
			if err != nil {
				return fmt.Errorf("hexfile: line %d: bad data byte %d: %w", lineNo, i, err)
			}
			m.Memory[addr+uint16(i)] = b
		}
	}
	return scanner.Err()
}

func parseHexByte(s string) (uint8, error) {
	v, err := strconv.ParseUint(s, 16, 8)
	return uint8(v), err
}

func parseHexWord(s string) (uint16, error) {
	v, err := strconv.ParseUint(s, 16, 16)
	return uint16(v), err
}
