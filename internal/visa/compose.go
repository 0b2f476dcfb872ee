// Package visa composes VISA resource strings from per-interface connection
// parameters. Addresses are composed and syntactically checked only; they are
// never opened.
package visa

import (
	"fmt"
	"strings"
)

// Defaults applied when the corresponding parameter is left empty.
const (
	DefaultLXIPort   = "5025"
	DefaultGPIBBoard = "0"
	DefaultBaudRate  = "9600"
)

// Params carries the connection fields entered for one interface type.
// Only the fields relevant to the chosen connection type are read.
type Params struct {
	IP       string
	Port     string
	Board    string
	Address  string
	Serial   string
	COMPort  string
	BaudRate string
	Raw      string
}

// Compose builds the VISA resource string for the given connection type.
// Unrecognized types pass the Raw field through unchanged.
func Compose(connType string, p Params) string {
	switch strings.ToLower(strings.TrimSpace(connType)) {
	case "lxi", "tcpip", "ethernet":
		port := p.Port
		if port == "" {
			port = DefaultLXIPort
		}
		return fmt.Sprintf("TCPIP::%s::%s::SOCKET", strings.TrimSpace(p.IP), port)
	case "gpib":
		board := p.Board
		if board == "" {
			board = DefaultGPIBBoard
		}
		return fmt.Sprintf("GPIB%s::%s::INSTR", board, strings.TrimSpace(p.Address))
	case "usb":
		return fmt.Sprintf("USB::%s::INSTR", strings.TrimSpace(p.Serial))
	case "rs232", "serial":
		baud := p.BaudRate
		if baud == "" {
			baud = DefaultBaudRate
		}
		return fmt.Sprintf("ASRL%s::INSTR (baudrate %s)", strings.TrimSpace(p.COMPort), baud)
	default:
		return strings.TrimSpace(p.Raw)
	}
}

// Check performs the syntactic validation applied before an address is
// accepted: it must be non-empty and contain a :: separator.
func Check(addr string) error {
	if addr == "" || !strings.Contains(addr, "::") {
		return fmt.Errorf("invalid VISA address %q", addr)
	}
	return nil
}
