// Package codec turns addresses and values into Roland DT1/RQ1 SysEx frames and
// channel-voice messages. Everything here is pure.
package codec

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/leandrodaf/gorzone/sdk/contracts"
	"gitlab.com/gomidi/midi/v2"
)

const (
	manufacturerRoland = 0x41
	deviceID           = 0x10

	cmdRQ1 = 0x11
	cmdDT1 = 0x12

	sysExStart = 0xF0
	sysExEnd   = 0xF7

	// F0 41 10 m m m m cmd a a a a <data> sum F7
	headerLen  = 12
	minDataSet = headerLen + 1 + 2
)

// ErrMalformed is returned when a frame cannot be decoded.
var ErrMalformed = errors.New("malformed SysEx frame")

// Checksum returns the Roland checksum of frame (address and data bytes):
// the value that makes the sum of frame plus checksum a multiple of 128.
func Checksum(frame []byte) byte {
	sum := 0
	for _, b := range frame {
		sum += int(b)
	}
	return byte((128 - sum%128) % 128)
}

func addressBytes(address uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, address)
	return b
}

func frame(model contracts.ModelID, cmd byte, body []byte) []byte {
	msg := make([]byte, 0, len(body)+8)
	msg = append(msg, manufacturerRoland, deviceID)
	msg = append(msg, model[:]...)
	msg = append(msg, cmd)
	msg = append(msg, body...)
	msg = append(msg, Checksum(body))
	return midi.SysEx(msg).Bytes()
}

// EncodeDataSet returns a DT1 message writing payload at address.
func EncodeDataSet(address uint32, payload []byte, model contracts.ModelID) []byte {
	body := append(addressBytes(address), payload...)
	return frame(model, cmdDT1, body)
}

// EncodeDataRequest returns an RQ1 message asking for size bytes starting at address.
func EncodeDataRequest(address, size uint32, model contracts.ModelID) []byte {
	body := append(addressBytes(address), addressBytes(size)...)
	return frame(model, cmdRQ1, body)
}

// DataSet is a decoded DT1 message.
type DataSet struct {
	Model   contracts.ModelID
	Address uint32
	Data    []byte
}

// DecodeDataSet parses and verifies a DT1 message.
func DecodeDataSet(msg []byte) (DataSet, error) {
	switch {
	case len(msg) < minDataSet:
		return DataSet{}, fmt.Errorf("%w: DT1 too short: len=%d", ErrMalformed, len(msg))
	case msg[0] != sysExStart || msg[len(msg)-1] != sysExEnd:
		return DataSet{}, fmt.Errorf("%w: not a SysEx message", ErrMalformed)
	case msg[1] != manufacturerRoland:
		return DataSet{}, fmt.Errorf("%w: manufacturer 0x%02X", ErrMalformed, msg[1])
	case msg[7] != cmdDT1:
		return DataSet{}, fmt.Errorf("%w: command 0x%02X, want DT1", ErrMalformed, msg[7])
	}

	body := msg[8 : len(msg)-2]
	if want, got := Checksum(body), msg[len(msg)-2]; want != got {
		return DataSet{}, fmt.Errorf("%w: checksum: calculated=0x%02X, got=0x%02X", ErrMalformed, want, got)
	}

	var ds DataSet
	copy(ds.Model[:], msg[3:7])
	ds.Address = binary.BigEndian.Uint32(body[:4])
	ds.Data = append([]byte(nil), body[4:]...)
	return ds, nil
}
