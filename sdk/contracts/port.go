package contracts

// Direction tells which way a port carries MIDI data.
type Direction int

const (
	// DirectionOut is a port the host writes to (the device receives).
	DirectionOut Direction = iota
	// DirectionIn is a port the host reads from (the device transmits).
	DirectionIn
)

func (d Direction) String() string {
	if d == DirectionIn {
		return "in"
	}
	return "out"
}

// Port is a transport-level port as enumerated by a Transport.
type Port struct {
	Name      string    // Port name exactly as reported by the transport.
	Direction Direction // Direction of the port.
}

// ConnState is the lifecycle state of a connection.
type ConnState int

const (
	// Disconnected means no output handle is held.
	Disconnected ConnState = iota
	// Open means the output handle is held and the last write succeeded.
	Open
	// Failed means the output handle is held but the last write was rejected by the transport.
	Failed
)

func (s ConnState) String() string {
	switch s {
	case Open:
		return "open"
	case Failed:
		return "failed"
	default:
		return "disconnected"
	}
}

// OpenResult describes a successful open.
// InputErr is non-nil when the same-named input port could not be opened; the output
// connection is still usable in that case.
type OpenResult struct {
	Port      string
	InputOpen bool
	InputErr  error
}
