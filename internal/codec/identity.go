package codec

import (
	"bytes"
	"fmt"
)

var (
	identityRequest     = []byte{0xF0, 0x7E, 0x10, 0x06, 0x01, 0xF7}
	identityReplyPrefix = []byte{0xF0, 0x7E, 0x10, 0x06, 0x02, 0x41}
)

// Identity is the payload of a universal identity reply from a Roland device.
type Identity struct {
	Family  [2]byte
	Model   [2]byte
	Version [4]byte
}

func (id Identity) String() string {
	return fmt.Sprintf("family=% X model=% X version=% X", id.Family, id.Model, id.Version)
}

// IdentityRequest returns the universal identity request message.
func IdentityRequest() []byte {
	return append([]byte(nil), identityRequest...)
}

// IsIdentityReply reports whether msg starts like a Roland identity reply.
func IsIdentityReply(msg []byte) bool {
	return bytes.HasPrefix(msg, identityReplyPrefix)
}

// ParseIdentityReply decodes F0 7E 10 06 02 41 <family:2> <model:2> <version:4> F7.
func ParseIdentityReply(msg []byte) (Identity, error) {
	const want = 6 + 2 + 2 + 4 + 1
	if !IsIdentityReply(msg) {
		return Identity{}, fmt.Errorf("%w: not a Roland identity reply", ErrMalformed)
	}
	if len(msg) < want || msg[len(msg)-1] != sysExEnd {
		return Identity{}, fmt.Errorf("%w: identity reply length %d", ErrMalformed, len(msg))
	}
	var id Identity
	copy(id.Family[:], msg[6:8])
	copy(id.Model[:], msg[8:10])
	copy(id.Version[:], msg[10:14])
	return id, nil
}
