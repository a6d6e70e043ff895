package conn

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/leandrodaf/gorzone/internal/logger"
	"github.com/leandrodaf/gorzone/internal/midi/midifake"
	"github.com/leandrodaf/gorzone/sdk/contracts"
)

func newManager(fake *midifake.Transport) *Manager {
	return NewManager(fake, logger.NewNopLogger(), 4)
}

func TestManager_OutputPorts(t *testing.T) {
	tests := []struct {
		name  string
		ports []string
		want  []string
	}{
		{"none", nil, []string{}},
		{"ordered", []string{"GO:PIANO", "IAC Bus 1"}, []string{"GO:PIANO", "IAC Bus 1"}},
		{"decomposed names are composed", []string{"Cafe\u0301 MIDI"}, []string{"Caf\u00e9 MIDI"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newManager(midifake.New(tt.ports...))
			got, err := m.OutputPorts()
			if err != nil {
				t.Fatalf("OutputPorts: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("port %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestManager_Open(t *testing.T) {
	tests := []struct {
		name     string
		ports    []string
		open     string
		wantPort string
		wantErr  error
	}{
		{"named", []string{"A", "GO:PIANO"}, "GO:PIANO", "GO:PIANO", nil},
		{"first when unnamed", []string{"A", "B"}, "", "A", nil},
		{"unknown name", []string{"A"}, "GO:KEYS", "", contracts.ErrPortNotFound},
		{"no ports", nil, "", "", contracts.ErrNoPortsAvailable},
		{"matches composed form", []string{"Cafe\u0301"}, "Caf\u00e9", "Caf\u00e9", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := midifake.New(tt.ports...)
			m := newManager(fake)

			res, err := m.Open(tt.open)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Open error = %v, want %v", err, tt.wantErr)
				}
				if m.State() != contracts.Disconnected || m.Connected() {
					t.Errorf("failed open left state %s", m.State())
				}
				return
			}
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			if res.Port != tt.wantPort || m.PortName() != tt.wantPort {
				t.Errorf("bound to %q/%q, want %q", res.Port, m.PortName(), tt.wantPort)
			}
			if m.State() != contracts.Open {
				t.Errorf("state = %s", m.State())
			}
			if !res.InputOpen || res.InputErr != nil {
				t.Errorf("input not opened: %+v", res)
			}
		})
	}
}

func TestManager_OpenTwiceReleasesFirst(t *testing.T) {
	fake := midifake.New("A", "B")
	m := newManager(fake)

	if _, err := m.Open("A"); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Open("B"); err != nil {
		t.Fatal(err)
	}

	if m.PortName() != "B" || m.State() != contracts.Open {
		t.Errorf("bound to %q in state %s", m.PortName(), m.State())
	}
	if fake.OpenOutputs("A") != 0 || fake.OpenInputs("A") != 0 {
		t.Errorf("first connection leaked: out=%d in=%d", fake.OpenOutputs("A"), fake.OpenInputs("A"))
	}
	if fake.OpenOutputs("B") != 1 || fake.OpenInputs("B") != 1 {
		t.Errorf("second connection: out=%d in=%d", fake.OpenOutputs("B"), fake.OpenInputs("B"))
	}
}

func TestManager_InputFailureIsNotFatal(t *testing.T) {
	fake := midifake.New("GO:PIANO")
	fake.FailOpenIn = errors.New("input busy")
	m := newManager(fake)

	res, err := m.Open("GO:PIANO")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if res.InputOpen || res.InputErr == nil {
		t.Errorf("expected input warning, got %+v", res)
	}
	if err := m.Send([]byte{0xB0, 85, 127}); err != nil {
		t.Errorf("output unusable after input failure: %v", err)
	}
}

func TestManager_OutputOnlyPort(t *testing.T) {
	fake := &midifake.Transport{Outs: []string{"Synth"}}
	m := newManager(fake)

	res, err := m.Open("Synth")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if res.InputErr == nil {
		t.Error("expected an input error for an output-only port")
	}
}

func TestManager_SendNotConnected(t *testing.T) {
	fake := midifake.New("GO:PIANO")
	m := newManager(fake)

	if err := m.Send([]byte{0xB0, 85, 127}); !errors.Is(err, contracts.ErrNotConnected) {
		t.Fatalf("Send = %v, want ErrNotConnected", err)
	}
	if n := len(fake.Writes()); n != 0 {
		t.Errorf("%d writes reached the transport", n)
	}
}

func TestManager_SendForwardsVerbatim(t *testing.T) {
	fake := midifake.New("GO:PIANO")
	m := newManager(fake)
	if _, err := m.Open(""); err != nil {
		t.Fatal(err)
	}

	msg := []byte{0xF0, 0x41, 0x10, 0x00, 0x00, 0x00, 0x3D, 0x12, 0x10, 0x00, 0x50, 0x00, 0x01, 0x1F, 0xF7}
	if err := m.Send(msg); err != nil {
		t.Fatal(err)
	}
	writes := fake.Writes()
	if len(writes) != 1 || !bytes.Equal(writes[0].Data, msg) || writes[0].Port != "GO:PIANO" {
		t.Errorf("writes = %+v", writes)
	}
}

func TestManager_SendTransportFailure(t *testing.T) {
	fake := midifake.New("GO:PIANO")
	fake.FailSendAfter = 1
	m := newManager(fake)
	if _, err := m.Open(""); err != nil {
		t.Fatal(err)
	}

	err := m.Send([]byte{0xC0, 1})
	if !errors.Is(err, contracts.ErrTransport) || !errors.Is(err, midifake.ErrInjected) {
		t.Fatalf("Send = %v", err)
	}
	if m.State() != contracts.Failed {
		t.Errorf("state = %s, want failed", m.State())
	}

	fake.FailSendAfter = 0
	if err := m.Send([]byte{0xC0, 1}); err != nil {
		t.Fatal(err)
	}
	if m.State() != contracts.Open {
		t.Errorf("state after successful send = %s", m.State())
	}
}

func TestManager_CloseIsIdempotent(t *testing.T) {
	fake := midifake.New("GO:PIANO")
	m := newManager(fake)
	if _, err := m.Open(""); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 2; i++ {
		if err := m.Close(); err != nil {
			t.Fatalf("Close #%d: %v", i+1, err)
		}
		if m.State() != contracts.Disconnected || m.PortName() != "" {
			t.Errorf("after Close #%d: %s %q", i+1, m.State(), m.PortName())
		}
	}
	if fake.OpenOutputs("GO:PIANO") != 0 || fake.OpenInputs("GO:PIANO") != 0 {
		t.Error("handles not released")
	}
	if err := m.Send([]byte{0xC0, 1}); !errors.Is(err, contracts.ErrNotConnected) {
		t.Errorf("Send after Close = %v", err)
	}
}

func TestManager_Shutdown(t *testing.T) {
	fake := midifake.New("GO:PIANO")
	m := newManager(fake)
	if _, err := m.Open(""); err != nil {
		t.Fatal(err)
	}
	if err := m.Shutdown(); err != nil {
		t.Fatal(err)
	}
	if !fake.Closed() {
		t.Error("transport not closed")
	}
}

func TestManager_Inbound(t *testing.T) {
	fake := midifake.New("GO:PIANO")
	m := newManager(fake)
	if _, err := m.Open(""); err != nil {
		t.Fatal(err)
	}

	reply := []byte{0xF0, 0x7E, 0x10, 0x06, 0x02, 0x41, 0xF7}
	if !fake.Inject("GO:PIANO", reply) {
		t.Fatal("no listener attached")
	}

	select {
	case msg := <-m.Inbound():
		if !bytes.Equal(msg.Data, reply) {
			t.Errorf("got % X", msg.Data)
		}
		if msg.Timestamp == 0 {
			t.Error("missing timestamp")
		}
	case <-time.After(time.Second):
		t.Fatal("no inbound message")
	}
}

func TestManager_InboundDropsWhenFull(t *testing.T) {
	fake := midifake.New("GO:PIANO")
	m := newManager(fake)
	if _, err := m.Open(""); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 10; i++ {
		fake.Inject("GO:PIANO", []byte{0x90, byte(60 + i), 100})
	}
	if n := len(m.Inbound()); n != 4 {
		t.Errorf("buffered %d messages, want 4", n)
	}
}
