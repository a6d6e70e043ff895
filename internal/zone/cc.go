package zone

import (
	"fmt"

	"github.com/leandrodaf/gorzone/internal/codec"
	"github.com/leandrodaf/gorzone/sdk/contracts"
)

// CCController drives zones with Control-Change and Program-Change messages on
// channel zone-1. No pacing is applied.
type CCController struct {
	conn   Sender
	logger contracts.Logger
}

var _ contracts.ZoneController = (*CCController)(nil)

// NewCCController returns a controller writing through conn.
func NewCCController(conn Sender, logger contracts.Logger) *CCController {
	return &CCController{conn: conn, logger: logger}
}

func (c *CCController) prepare(zone int) (uint8, error) {
	if err := checkIndex("zone", zone); err != nil {
		return 0, err
	}
	if err := ready(c.conn); err != nil {
		return 0, err
	}
	return uint8(zone - 1), nil
}

// ZoneEnable sends CC85 127 or 0.
func (c *CCController) ZoneEnable(zone int, on bool) error {
	ch, err := c.prepare(zone)
	if err != nil {
		return err
	}
	return c.conn.Send(codec.EncodeControlChange(ch, codec.CCZoneOnOff, codec.CCSwitch(on)))
}

// ZonePatch sends bank select MSB, bank select LSB, then program change.
func (c *CCController) ZonePatch(zone int, patch contracts.Patch) error {
	if err := checkIndex("zone", zone); err != nil {
		return err
	}
	if err := checkPatch(patch); err != nil {
		return err
	}
	ch, err := c.prepare(zone)
	if err != nil {
		return err
	}

	msgs := []struct {
		what string
		data []byte
	}{
		{"bank MSB", codec.EncodeControlChange(ch, codec.CCBankMSB, codec.Mask7(patch.BankMSB))},
		{"bank LSB", codec.EncodeControlChange(ch, codec.CCBankLSB, codec.Mask7(patch.BankLSB))},
		{"program change", codec.EncodeProgramChange(ch, codec.Mask7(patch.Program))},
	}
	for _, m := range msgs {
		if err := c.conn.Send(m.data); err != nil {
			return fmt.Errorf("zone %d %s: %w", zone, m.what, err)
		}
	}
	c.logger.Debug("zone patch sent",
		c.logger.Field().Int("zone", zone),
		c.logger.Field().Int("bank_msb", int(codec.Mask7(patch.BankMSB))),
		c.logger.Field().Int("bank_lsb", int(codec.Mask7(patch.BankLSB))),
		c.logger.Field().Int("program", int(codec.Mask7(patch.Program))))
	return nil
}

// ZoneOctave sends CC86 shift+64; shift must be within -4..4.
func (c *CCController) ZoneOctave(zone int, shift int) error {
	if err := contracts.CheckRange("octave shift", shift, CCOctaveMin, CCOctaveMax); err != nil {
		return err
	}
	ch, err := c.prepare(zone)
	if err != nil {
		return err
	}
	return c.conn.Send(codec.EncodeControlChange(ch, codec.CCOctave, codec.OctaveValue(shift)))
}

// ZoneKeyRange sends CC87 and/or CC88 for each bound that is set, clamped to 0..127.
func (c *CCController) ZoneKeyRange(zone int, low, high *int) error {
	ch, err := c.prepare(zone)
	if err != nil {
		return err
	}
	if low != nil {
		if err := c.conn.Send(codec.EncodeControlChange(ch, codec.CCKeyLow, codec.ClampKey(*low))); err != nil {
			return fmt.Errorf("zone %d key low: %w", zone, err)
		}
	}
	if high != nil {
		if err := c.conn.Send(codec.EncodeControlChange(ch, codec.CCKeyHigh, codec.ClampKey(*high))); err != nil {
			return fmt.Errorf("zone %d key high: %w", zone, err)
		}
	}
	return nil
}
