// Package serialio implements the serial device registry (spec C7):
// enumerating USB/serial printer devices and opening framed byte streams
// at a given baud rate. Grounded on go.bug.st/serial, the serial library
// exercised with real go.mod usage by Innovate3D-Labs-innovate-os-frontend
// and banshee-data-velocity.report in the examples pack.
package serialio

import (
	"strings"
	"time"

	"github.com/printctl/printctl-go/internal/errs"
	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
)

// unknownField is the placeholder for unreported USB metadata (spec.md §4.5).
const unknownField = "–"

// DeviceInfo describes one enumerable serial port.
type DeviceInfo struct {
	Path          string
	Vendor        string
	Product       string
	SerialNumber  string
	VendorID      uint32
	ProductID     uint32
}

// ReadTimeout is the default read deadline applied to newly opened ports.
const ReadTimeout = 1 * time.Second

// Registry enumerates and opens serial devices.
type Registry struct{}

// NewRegistry returns a Registry. It carries no state: enumeration always
// re-queries the OS.
func NewRegistry() *Registry { return &Registry{} }

// List returns all enumerable serial ports with whatever USB metadata the
// OS exposes; missing fields are reported as "–" per spec.md §4.5.
func (r *Registry) List() ([]DeviceInfo, error) {
	details, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, err
	}

	infos := make([]DeviceInfo, 0, len(details))
	for _, d := range details {
		info := DeviceInfo{
			Path:         d.Name,
			Vendor:       unknownField,
			Product:      unknownField,
			SerialNumber: unknownField,
		}
		if d.IsUSB {
			if d.VID != "" {
				info.VendorID = parseHexID(d.VID)
				info.Vendor = d.VID
			}
			if d.PID != "" {
				info.ProductID = parseHexID(d.PID)
				info.Product = d.PID
			}
			if d.SerialNumber != "" {
				info.SerialNumber = d.SerialNumber
			}
		}
		infos = append(infos, info)
	}
	return infos, nil
}

func parseHexID(s string) uint32 {
	s = strings.TrimPrefix(strings.ToLower(s), "0x")
	var v uint32
	for _, c := range s {
		var digit uint32
		switch {
		case c >= '0' && c <= '9':
			digit = uint32(c - '0')
		case c >= 'a' && c <= 'f':
			digit = uint32(c-'a') + 10
		default:
			continue
		}
		v = v*16 + digit
	}
	return v
}

// Stream is a framed bidirectional byte stream over an open serial port.
type Stream struct {
	port serial.Port
}

// Open opens path at baud with 8N1 framing, no flow control, and the
// default read timeout (spec.md §4.5, §6).
func (r *Registry) Open(path string, baud int) (*Stream, error) {
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(path, mode)
	if err != nil {
		return nil, errs.New(errs.KindSerialOpen, "Registry.Open", err)
	}
	if err := port.SetReadTimeout(ReadTimeout); err != nil {
		port.Close()
		return nil, errs.New(errs.KindSerialOpen, "Registry.Open", err)
	}
	return &Stream{port: port}, nil
}

// Read implements io.Reader over the underlying port.
func (s *Stream) Read(p []byte) (int, error) { return s.port.Read(p) }

// Write implements io.Writer over the underlying port.
func (s *Stream) Write(p []byte) (int, error) { return s.port.Write(p) }

// Close releases the underlying port.
func (s *Stream) Close() error { return s.port.Close() }
