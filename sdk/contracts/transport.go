package contracts

// Transport is the MIDI backend capability. Implementations live under internal/midi and
// are selected at construction time by TransportKind.
type Transport interface {
	// Name returns the backend name, e.g. "rtmidi" or "fake".
	Name() string
	// OutPorts lists output port names in enumeration order. An empty list is not an error.
	OutPorts() ([]string, error)
	// InPorts lists input port names in enumeration order.
	InPorts() ([]string, error)
	// OpenOut opens the named output port.
	OpenOut(name string) (OutPort, error)
	// OpenIn opens the named input port and calls onMessage for every complete message.
	// onMessage runs on a goroutine owned by the backend.
	OpenIn(name string, onMessage func(data []byte)) (InPort, error)
	// Close releases the backend itself. Ports must be closed first.
	Close() error
}

// OutPort is an open output handle.
type OutPort interface {
	Send(data []byte) error
	Close() error
}

// InPort is an open input handle.
type InPort interface {
	Close() error
}

// TransportKind selects a Transport backend.
type TransportKind string

const (
	// TransportRtMidi uses gomidi's rtmidi driver (all platforms with cgo).
	TransportRtMidi TransportKind = "rtmidi"
	// TransportNative picks CoreMIDI on macOS and winmm on Windows.
	TransportNative TransportKind = "native"
	// TransportCoreMIDI uses CoreMIDI directly (macOS only).
	TransportCoreMIDI TransportKind = "coremidi"
	// TransportWinMM uses the Windows multimedia API directly (Windows only).
	TransportWinMM TransportKind = "winmm"
	// TransportFake is the in-memory transport used for testing.
	TransportFake TransportKind = "fake"
)
