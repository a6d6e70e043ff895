package codec

import (
	"bytes"
	"testing"
)

func TestEncodeControlChange(t *testing.T) {
	tests := []struct {
		name         string
		ch, ctl, val uint8
		want         []byte
	}{
		{"zone 1 enable", 0, CCZoneOnOff, 127, []byte{0xB0, 85, 127}},
		{"zone 16 octave", 15, CCOctave, 60, []byte{0xBF, 86, 60}},
		{"bank lsb", 3, CCBankLSB, 70, []byte{0xB3, 0x20, 70}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EncodeControlChange(tt.ch, tt.ctl, tt.val); !bytes.Equal(got, tt.want) {
				t.Errorf("got % X, want % X", got, tt.want)
			}
		})
	}
}

func TestEncodeProgramChange(t *testing.T) {
	if got := EncodeProgramChange(2, 118); !bytes.Equal(got, []byte{0xC2, 118}) {
		t.Errorf("got % X", got)
	}
}

func TestValueSemantics(t *testing.T) {
	if OctaveValue(3) != 67 || OctaveValue(-3) != 61 || OctaveValue(0) != 64 {
		t.Error("octave values not centred on 64")
	}
	if OctaveShift(OctaveValue(-4)) != -4 {
		t.Error("octave shift does not invert octave value")
	}
	if CCSwitch(true) != 127 || CCSwitch(false) != 0 {
		t.Error("CC switch values")
	}
	if SysExSwitch(true) != 1 || SysExSwitch(false) != 0 {
		t.Error("SysEx switch values")
	}
	if ChannelValue(1) != 0 || ChannelValue(16) != 15 {
		t.Error("channel values")
	}
	if Mask7(200) != 72 || Mask7(300) != 44 {
		t.Error("mask7")
	}
	if ClampKey(-5) != 0 || ClampKey(200) != 127 || ClampKey(60) != 60 {
		t.Error("clamp")
	}
}
