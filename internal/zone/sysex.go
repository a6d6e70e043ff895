package zone

import (
	"fmt"
	"time"

	"github.com/leandrodaf/gorzone/internal/address"
	"github.com/leandrodaf/gorzone/internal/codec"
	"github.com/leandrodaf/gorzone/sdk/contracts"
)

// Minimum pauses the instrument needs between DT1 writes. They are floors, not settings.
const (
	FieldWriteDelay  = 50 * time.Millisecond
	PatchSettleDelay = 100 * time.Millisecond
	SplitSettleDelay = 500 * time.Millisecond
	ResetSettleDelay = time.Second
)

// SplitConfig describes a two-zone keyboard split on receive channel 1.
type SplitConfig struct {
	Lower      contracts.Patch
	Upper      contracts.Patch
	SplitPoint int // Highest key of the lower zone, 0..126.
	// LowerOctave, when set, shifts zone 1 by -3..3 octaves.
	LowerOctave *int
}

// SysExController drives parts and zones with one DT1 message per field and
// sleeps after every write.
type SysExController struct {
	conn   Sender
	model  contracts.ModelID
	logger contracts.Logger
	sleep  func(time.Duration)
}

var _ contracts.ZoneController = (*SysExController)(nil)

// NewSysExController returns a controller writing DT1 messages for model through conn.
func NewSysExController(conn Sender, model contracts.ModelID, logger contracts.Logger) *SysExController {
	return &SysExController{conn: conn, model: model, logger: logger, sleep: time.Sleep}
}

// write is one field, one message.
type write struct {
	desc   string
	region address.Region
	index  int
	field  address.Field
	value  uint8
	settle time.Duration // extra pause once this write has gone out
}

func (c *SysExController) send(w write) error {
	addr := address.Address(w.region, w.index, w.field)
	if err := c.conn.Send(codec.EncodeDataSet(addr, []byte{w.value}, c.model)); err != nil {
		return err
	}
	c.sleep(FieldWriteDelay)
	if w.settle > 0 {
		c.sleep(w.settle)
	}
	return nil
}

// run sends writes in order. Nothing is rolled back when a write fails.
func (c *SysExController) run(op string, writes []write) error {
	if err := ready(c.conn); err != nil {
		return err
	}
	for i, w := range writes {
		if err := c.send(w); err != nil {
			if len(writes) == 1 {
				return fmt.Errorf("%s: %w", w.desc, err)
			}
			return &contracts.StepError{Op: op, Step: i + 1, Total: len(writes), Desc: w.desc, Err: err}
		}
	}
	return nil
}

func partChannel(part, channel int) write {
	return write{fmt.Sprintf("part %d receive channel", part), address.Part, part, address.PartRxChannel, codec.ChannelValue(channel), 0}
}

func partEnable(part int, on bool) write {
	return write{fmt.Sprintf("part %d enable", part), address.Part, part, address.PartRxSwitch, codec.SysExSwitch(on), 0}
}

func partPatch(part int, p contracts.Patch) []write {
	return []write{
		{fmt.Sprintf("part %d bank MSB", part), address.Part, part, address.PartBankMSB, codec.Mask7(p.BankMSB), 0},
		{fmt.Sprintf("part %d bank LSB", part), address.Part, part, address.PartBankLSB, codec.Mask7(p.BankLSB), 0},
		{fmt.Sprintf("part %d program", part), address.Part, part, address.PartProgram, codec.Mask7(p.Program), PatchSettleDelay},
	}
}

func zoneEnable(zone int, on bool) write {
	return write{fmt.Sprintf("zone %d enable", zone), address.Zone, zone, address.ZoneSwitch, codec.SysExSwitch(on), 0}
}

func zoneOctave(zone, shift int) write {
	return write{fmt.Sprintf("zone %d octave", zone), address.Zone, zone, address.ZoneOctave, codec.OctaveValue(shift), 0}
}

func zoneKeyRange(zone int, low, high *int) []write {
	var ws []write
	if low != nil {
		ws = append(ws, write{fmt.Sprintf("zone %d key low", zone), address.Zone, zone, address.ZoneKeyLow, codec.ClampKey(*low), 0})
	}
	if high != nil {
		ws = append(ws, write{fmt.Sprintf("zone %d key high", zone), address.Zone, zone, address.ZoneKeyHigh, codec.ClampKey(*high), 0})
	}
	return ws
}

// PartReceiveChannel routes part to receive on channel 1..16.
func (c *SysExController) PartReceiveChannel(part, channel int) error {
	if err := checkIndex("part", part); err != nil {
		return err
	}
	if err := checkIndex("channel", channel); err != nil {
		return err
	}
	return c.run("part receive channel", []write{partChannel(part, channel)})
}

// PartEnable switches reception on or off for part.
func (c *SysExController) PartEnable(part int, on bool) error {
	if err := checkIndex("part", part); err != nil {
		return err
	}
	return c.run("part enable", []write{partEnable(part, on)})
}

// PartPatch writes bank MSB, bank LSB and program as three separate messages and then
// waits for the tone to load.
func (c *SysExController) PartPatch(part int, patch contracts.Patch) error {
	if err := checkIndex("part", part); err != nil {
		return err
	}
	if err := checkPatch(patch); err != nil {
		return err
	}
	return c.run("part patch", partPatch(part, patch))
}

// ZoneEnable switches zone on or off.
func (c *SysExController) ZoneEnable(zone int, on bool) error {
	if err := checkIndex("zone", zone); err != nil {
		return err
	}
	return c.run("zone enable", []write{zoneEnable(zone, on)})
}

// ZonePatch loads patch into the part with the same number as zone.
func (c *SysExController) ZonePatch(zone int, patch contracts.Patch) error {
	return c.PartPatch(zone, patch)
}

// ZoneOctave shifts zone by -3..3 octaves.
func (c *SysExController) ZoneOctave(zone int, shift int) error {
	if err := checkIndex("zone", zone); err != nil {
		return err
	}
	if err := contracts.CheckRange("octave shift", shift, SysExOctaveMin, SysExOctaveMax); err != nil {
		return err
	}
	return c.run("zone octave", []write{zoneOctave(zone, shift)})
}

// ZoneKeyRange writes each bound that is set, clamped to 0..127.
func (c *SysExController) ZoneKeyRange(zone int, low, high *int) error {
	if err := checkIndex("zone", zone); err != nil {
		return err
	}
	return c.run("zone key range", zoneKeyRange(zone, low, high))
}

// SetupSplit routes parts 1 and 2 to channel 1 with the lower and upper patches, splits
// the keyboard between zones 1 and 2 and disables zones 3..16. The writes are
// independent: a failure leaves earlier writes applied and is reported as a
// *contracts.StepError.
func (c *SysExController) SetupSplit(cfg SplitConfig) error {
	if err := contracts.CheckRange("split point", cfg.SplitPoint, 0, 126); err != nil {
		return err
	}
	if err := checkPatch(cfg.Lower); err != nil {
		return err
	}
	if err := checkPatch(cfg.Upper); err != nil {
		return err
	}
	if cfg.LowerOctave != nil {
		if err := contracts.CheckRange("octave shift", *cfg.LowerOctave, SysExOctaveMin, SysExOctaveMax); err != nil {
			return err
		}
	}

	var ws []write
	ws = append(ws, partChannel(1, 1), partEnable(1, true))
	ws = append(ws, partPatch(1, cfg.Lower)...)
	ws = append(ws, zoneEnable(1, true))
	if cfg.LowerOctave != nil {
		ws = append(ws, zoneOctave(1, *cfg.LowerOctave))
	}
	ws = append(ws, zoneKeyRange(1, contracts.Key(0), contracts.Key(cfg.SplitPoint))...)

	ws = append(ws, partChannel(2, 1), partEnable(2, true))
	ws = append(ws, partPatch(2, cfg.Upper)...)
	ws = append(ws, zoneEnable(2, true))
	ws = append(ws, zoneKeyRange(2, contracts.Key(cfg.SplitPoint+1), contracts.Key(127))...)

	for z := 3; z <= address.MaxIndex; z++ {
		ws = append(ws, zoneEnable(z, false))
	}

	if err := c.run("setup split", ws); err != nil {
		return err
	}
	c.sleep(SplitSettleDelay)
	c.logger.Info("split configured",
		c.logger.Field().Int("split_point", cfg.SplitPoint),
		c.logger.Field().Int("messages", len(ws)))
	return nil
}

func allZonesOn() []write {
	var ws []write
	for i := address.MinIndex; i <= address.MaxIndex; i++ {
		ws = append(ws, partEnable(i, true), zoneEnable(i, true), zoneOctave(i, 0))
		ws = append(ws, zoneKeyRange(i, contracts.Key(0), contracts.Key(127))...)
	}
	return ws
}

// EnableAllZones enables every part and zone with no octave shift over the full keyboard.
func (c *SysExController) EnableAllZones() error {
	return c.run("enable all zones", allZonesOn())
}

// Reset writes the same state as EnableAllZones and then waits for the instrument to settle.
func (c *SysExController) Reset() error {
	if err := c.run("reset", allZonesOn()); err != nil {
		return err
	}
	c.sleep(ResetSettleDelay)
	c.logger.Info("all parts and zones reset")
	return nil
}
