// Package zone implements zone and part control on the two surfaces the instrument
// understands: generic Control-Change messages and addressed DT1 SysEx writes.
package zone

import (
	"github.com/leandrodaf/gorzone/internal/address"
	"github.com/leandrodaf/gorzone/sdk/contracts"
)

// Sender is the part of the connection manager the controllers need.
type Sender interface {
	Send(msg []byte) error
	Connected() bool
}

// Octave bounds differ per surface; both are kept as the device documents them.
const (
	CCOctaveMin    = -4
	CCOctaveMax    = 4
	SysExOctaveMin = -3
	SysExOctaveMax = 3
)

func checkIndex(param string, index int) error {
	return contracts.CheckRange(param, index, address.MinIndex, address.MaxIndex)
}

// checkPatch rejects negative values. Values above 127 are masked by the caller.
func checkPatch(p contracts.Patch) error {
	fields := []struct {
		name string
		v    int
	}{
		{"bank MSB", p.BankMSB},
		{"bank LSB", p.BankLSB},
		{"program", p.Program},
	}
	for _, f := range fields {
		if f.v < 0 {
			return &contracts.RangeError{Param: f.name, Value: f.v, Min: 0, Max: 127}
		}
	}
	return nil
}

func ready(conn Sender) error {
	if !conn.Connected() {
		return contracts.ErrNotConnected
	}
	return nil
}
