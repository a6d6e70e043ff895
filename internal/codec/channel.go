package codec

import "gitlab.com/gomidi/midi/v2"

// Control numbers of the CC zone surface.
const (
	CCBankMSB   = 0
	CCBankLSB   = 32
	CCZoneOnOff = 85
	CCOctave    = 86
	CCKeyLow    = 87
	CCKeyHigh   = 88
)

// octaveCenter is the encoded value of a zero octave shift.
const octaveCenter = 64

// EncodeControlChange returns [B0|channel, controller, value].
func EncodeControlChange(channel, controller, value uint8) []byte {
	return midi.ControlChange(channel&0x0F, controller&0x7F, value&0x7F).Bytes()
}

// EncodeProgramChange returns [C0|channel, program].
func EncodeProgramChange(channel, program uint8) []byte {
	return midi.ProgramChange(channel&0x0F, program&0x7F).Bytes()
}

// Mask7 keeps the low seven bits of v.
func Mask7(v int) uint8 {
	return uint8(v & 0x7F)
}

// OctaveValue encodes a signed octave shift centred on 64.
func OctaveValue(shift int) uint8 {
	return uint8(shift + octaveCenter)
}

// OctaveShift decodes a value written by OctaveValue.
func OctaveShift(value uint8) int {
	return int(value) - octaveCenter
}

// CCSwitch encodes an on/off state for a controller: 127 or 0.
func CCSwitch(on bool) uint8 {
	if on {
		return 127
	}
	return 0
}

// SysExSwitch encodes an on/off state for a DT1 field: 1 or 0.
func SysExSwitch(on bool) uint8 {
	if on {
		return 1
	}
	return 0
}

// ChannelValue encodes a 1-based MIDI channel as the 0-based value the device stores.
func ChannelValue(channel int) uint8 {
	return uint8(channel - 1)
}

// ClampKey clamps a key number to 0..127.
func ClampKey(key int) uint8 {
	switch {
	case key < 0:
		return 0
	case key > 127:
		return 127
	default:
		return uint8(key)
	}
}
