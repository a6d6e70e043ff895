package codec

import (
	"bytes"
	"errors"
	"testing"
)

func TestIdentityRequest(t *testing.T) {
	want := []byte{0xF0, 0x7E, 0x10, 0x06, 0x01, 0xF7}
	got := IdentityRequest()
	if !bytes.Equal(got, want) {
		t.Fatalf("got % X", got)
	}
	got[0] = 0
	if IdentityRequest()[0] != 0xF0 {
		t.Error("IdentityRequest returned shared storage")
	}
}

func TestParseIdentityReply(t *testing.T) {
	reply := []byte{0xF0, 0x7E, 0x10, 0x06, 0x02, 0x41, 0x3D, 0x02, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0xF7}

	id, err := ParseIdentityReply(reply)
	if err != nil {
		t.Fatalf("ParseIdentityReply: %v", err)
	}
	if id.Family != [2]byte{0x3D, 0x02} || id.Version != [4]byte{0x00, 0x01, 0x00, 0x00} {
		t.Errorf("got %s", id)
	}

	if _, err := ParseIdentityReply(reply[:9]); !errors.Is(err, ErrMalformed) {
		t.Errorf("short reply: %v", err)
	}
	if _, err := ParseIdentityReply([]byte{0xF0, 0x7E, 0x10, 0x06, 0x02, 0x43, 0xF7}); !errors.Is(err, ErrMalformed) {
		t.Errorf("foreign manufacturer: %v", err)
	}
}
