// Package address maps (region, index, field) triples onto the temporary-performance
// memory map of Roland GO-series instruments.
package address

// Region is an array of equally sized blocks in device memory.
type Region struct {
	Name      string
	Base      uint32
	BlockSize uint32
}

// Field is an offset inside a block.
type Field uint32

const (
	// TmpPerfBase is the start of the temporary performance area.
	TmpPerfBase uint32 = 0x10000000

	PartBase      = TmpPerfBase + 0x2000
	ZoneBase      = TmpPerfBase + 0x5000
	PartBlockSize = 0x200
	ZoneBlockSize = 0x80

	// MinIndex and MaxIndex bound part and zone numbers. Callers validate.
	MinIndex = 1
	MaxIndex = 16
)

var (
	Part = Region{Name: "part", Base: PartBase, BlockSize: PartBlockSize}
	Zone = Region{Name: "zone", Base: ZoneBase, BlockSize: ZoneBlockSize}
)

// Part fields.
const (
	PartRxChannel Field = 0x0000
	PartRxSwitch  Field = 0x0001
	PartBankMSB   Field = 0x0004
	PartBankLSB   Field = 0x0005
	PartProgram   Field = 0x0006
)

// Zone fields.
const (
	ZoneSwitch  Field = 0x0000
	ZoneOctave  Field = 0x0001
	ZoneKeyLow  Field = 0x0004
	ZoneKeyHigh Field = 0x0005
)

// Address returns region.Base + (index-1)*region.BlockSize + field.
// It does no range checking.
func Address(region Region, index int, field Field) uint32 {
	return region.Base + uint32(index-1)*region.BlockSize + uint32(field)
}

// Block returns the address of the first byte of block index.
func Block(region Region, index int) uint32 {
	return Address(region, index, 0)
}
