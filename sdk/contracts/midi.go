package contracts

// Message is a complete MIDI message received from the device.
type Message struct {
	Timestamp uint64 // Receive time in nanoseconds since the Unix epoch.
	Data      []byte // Raw message bytes, including status (and F0/F7 for SysEx).
}

// Patch references a tone in the device's library by bank select and program number.
// Values above 127 are masked to 7 bits before transmission; negative values are rejected.
type Patch struct {
	BankMSB int `json:"bank_msb" yaml:"bank_msb"`
	BankLSB int `json:"bank_lsb" yaml:"bank_lsb"`
	Program int `json:"program" yaml:"program"`
}

// Protocol selects the control surface used by a session.
type Protocol string

const (
	// ProtocolCC drives zones with Control-Change and Program-Change messages.
	ProtocolCC Protocol = "cc"
	// ProtocolSysEx drives zones and parts with Roland DT1 writes.
	ProtocolSysEx Protocol = "sysex"
)

// ModelID is the 4-byte Roland model identifier carried in every DT1 message.
type ModelID [4]byte

var (
	// ModelGoPiano identifies GO:PIANO (61 and 88 keys).
	ModelGoPiano = ModelID{0x00, 0x00, 0x00, 0x3D}
	// ModelGoKeys identifies GO:KEYS.
	ModelGoKeys = ModelID{0x00, 0x00, 0x00, 0x3C}
)

// ParseModel maps "go-piano" or "go-keys" to a ModelID.
func ParseModel(name string) (ModelID, bool) {
	switch name {
	case "go-piano", "gp", "":
		return ModelGoPiano, true
	case "go-keys", "gk":
		return ModelGoKeys, true
	}
	return ModelID{}, false
}

// ZoneController is the set of zone operations both control surfaces implement.
type ZoneController interface {
	ZoneEnable(zone int, on bool) error
	ZonePatch(zone int, patch Patch) error
	ZoneOctave(zone int, shift int) error
	// ZoneKeyRange writes each bound that is non-nil, clamped to 0..127.
	ZoneKeyRange(zone int, low, high *int) error
}

// Key returns a pointer to n, for optional key-range bounds.
func Key(n int) *int {
	return &n
}
