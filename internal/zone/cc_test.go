package zone

import (
	"bytes"
	"errors"
	"testing"

	"github.com/leandrodaf/gorzone/internal/logger"
	"github.com/leandrodaf/gorzone/sdk/contracts"
)

func TestCCController_Messages(t *testing.T) {
	tests := []struct {
		name string
		call func(c *CCController) error
		want [][]byte
	}{
		{
			name: "enable zone 1",
			call: func(c *CCController) error { return c.ZoneEnable(1, true) },
			want: [][]byte{{0xB0, 85, 127}},
		},
		{
			name: "disable zone 16",
			call: func(c *CCController) error { return c.ZoneEnable(16, false) },
			want: [][]byte{{0xBF, 85, 0}},
		},
		{
			name: "patch bank select precedes program change",
			call: func(c *CCController) error { return c.ZonePatch(2, contracts.Patch{BankMSB: 87, BankLSB: 70, Program: 118}) },
			want: [][]byte{{0xB1, 0, 87}, {0xB1, 32, 70}, {0xC1, 118}},
		},
		{
			name: "patch values above 127 are masked",
			call: func(c *CCController) error { return c.ZonePatch(1, contracts.Patch{BankMSB: 200, BankLSB: 0, Program: 300}) },
			want: [][]byte{{0xB0, 0, 72}, {0xB0, 32, 0}, {0xC0, 44}},
		},
		{
			name: "octave -4",
			call: func(c *CCController) error { return c.ZoneOctave(3, -4) },
			want: [][]byte{{0xB2, 86, 60}},
		},
		{
			name: "octave +4",
			call: func(c *CCController) error { return c.ZoneOctave(3, 4) },
			want: [][]byte{{0xB2, 86, 68}},
		},
		{
			name: "key range both bounds clamped",
			call: func(c *CCController) error { return c.ZoneKeyRange(1, contracts.Key(-3), contracts.Key(200)) },
			want: [][]byte{{0xB0, 87, 0}, {0xB0, 88, 127}},
		},
		{
			name: "key range high only",
			call: func(c *CCController) error { return c.ZoneKeyRange(4, nil, contracts.Key(64)) },
			want: [][]byte{{0xB3, 88, 64}},
		},
		{
			name: "key range no bounds",
			call: func(c *CCController) error { return c.ZoneKeyRange(4, nil, nil) },
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, fake := connected(t)
			c := NewCCController(m, logger.NewNopLogger())

			if err := tt.call(c); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got := fake.Messages()
			if len(got) != len(tt.want) {
				t.Fatalf("sent %d messages, want %d: % X", len(got), len(tt.want), got)
			}
			for i := range got {
				if !bytes.Equal(got[i], tt.want[i]) {
					t.Errorf("message %d = % X, want % X", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestCCController_Errors(t *testing.T) {
	tests := []struct {
		name string
		call func(c *CCController) error
	}{
		{"zone 0", func(c *CCController) error { return c.ZoneEnable(0, true) }},
		{"zone 17", func(c *CCController) error { return c.ZonePatch(17, contracts.Patch{}) }},
		{"negative bank LSB", func(c *CCController) error { return c.ZonePatch(1, contracts.Patch{BankMSB: 200, BankLSB: -10, Program: 300}) }},
		{"octave 5", func(c *CCController) error { return c.ZoneOctave(1, 5) }},
		{"octave -5", func(c *CCController) error { return c.ZoneOctave(1, -5) }},
		{"key range zone 99", func(c *CCController) error { return c.ZoneKeyRange(99, contracts.Key(0), nil) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, fake := connected(t)
			c := NewCCController(m, logger.NewNopLogger())

			err := tt.call(c)
			var rangeErr *contracts.RangeError
			if !errors.Is(err, contracts.ErrOutOfRange) || !errors.As(err, &rangeErr) {
				t.Fatalf("expected a range error, got %v", err)
			}
			if n := len(fake.Writes()); n != 0 {
				t.Errorf("%d messages sent before validation failed", n)
			}
		})
	}
}

func TestCCController_NotConnected(t *testing.T) {
	m, fake := disconnected()
	c := NewCCController(m, logger.NewNopLogger())

	calls := []func() error{
		func() error { return c.ZoneEnable(1, true) },
		func() error { return c.ZonePatch(1, contracts.Patch{BankMSB: 87}) },
		func() error { return c.ZoneOctave(1, 0) },
		func() error { return c.ZoneKeyRange(1, contracts.Key(0), contracts.Key(127)) },
	}
	for i, call := range calls {
		if err := call(); !errors.Is(err, contracts.ErrNotConnected) {
			t.Errorf("call %d: %v, want ErrNotConnected", i, err)
		}
	}
	if n := len(fake.Writes()); n != 0 {
		t.Errorf("%d writes reached the transport", n)
	}
}

func TestCCController_TransportFailure(t *testing.T) {
	m, fake := connected(t)
	fake.FailSendAfter = 2
	c := NewCCController(m, logger.NewNopLogger())

	err := c.ZonePatch(1, contracts.Patch{BankMSB: 87, BankLSB: 70, Program: 118})
	if !errors.Is(err, contracts.ErrTransport) {
		t.Fatalf("expected transport error, got %v", err)
	}
	if n := len(fake.Writes()); n != 1 {
		t.Errorf("%d messages delivered, want 1", n)
	}
}
