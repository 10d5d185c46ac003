// Package printctlpb holds the wire messages and service stubs for
// printctl's RPC surface (spec C12), hand-written in the shape protoc
// would generate, since the toolchain here cannot invoke protoc; no
// `.proto` file is committed alongside it. Field ordering and optional
// semantics match spec.md §6's textual schema.
package printctlpb

// DeviceInfo describes one enumerable serial device (spec.md §6): all
// string fields except VendorID/ProductID, which are 32-bit unsigned.
type DeviceInfo struct {
	Path         string `json:"path"`
	Vendor       string `json:"vendor"`
	Product      string `json:"product"`
	SerialNumber string `json:"serial_number"`
	VendorID     uint32 `json:"vendor_id"`
	ProductID    uint32 `json:"product_id"`
}

// AvailableDevicesRequest carries no fields; enumeration is unconditional.
type AvailableDevicesRequest struct{}

// AvailableDevicesResponse is the unary AvailableDevices reply.
type AvailableDevicesResponse struct {
	Devices []*DeviceInfo `json:"devices"`
}

// DeviceConnectionRequest opens a streaming connection to one printer.
type DeviceConnectionRequest struct {
	PrinterID string `json:"printer_id"`
}

// DeviceEvent is one item streamed back over a DeviceConnection: either a
// raw firmware line or a lag notice, mirroring worker.LineEvent.
type DeviceEvent struct {
	Line   string `json:"line"`
	Lagged bool   `json:"lagged"`
}
