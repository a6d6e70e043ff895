//go:build cgo

package midirtmidi

import (
	"fmt"
	"sync"

	"github.com/leandrodaf/gorzone/sdk/contracts"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

// sysExBufferSize fits the largest DT1 and identity replies the GO series sends.
const sysExBufferSize = 1024

// Transport is the rtmidi backend, built on gomidi.
type Transport struct {
	logger contracts.Logger
	drv    *rtmididrv.Driver
	mu     sync.Mutex
}

// NewTransport opens the rtmidi driver.
func NewTransport(options *contracts.ClientOptions) (contracts.Transport, error) {
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("rtmididrv: %w", err)
	}
	options.Logger.Info("rtmidi driver created")
	return &Transport{logger: options.Logger, drv: drv}, nil
}

func (t *Transport) Name() string {
	return string(contracts.TransportRtMidi)
}

func (t *Transport) OutPorts() ([]string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	outs, err := t.drv.Outs()
	if err != nil {
		return nil, fmt.Errorf("error listing MIDI outputs: %w", err)
	}
	names := make([]string, 0, len(outs))
	for _, out := range outs {
		names = append(names, out.String())
	}
	return names, nil
}

func (t *Transport) InPorts() ([]string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	ins, err := t.drv.Ins()
	if err != nil {
		return nil, fmt.Errorf("error listing MIDI inputs: %w", err)
	}
	names := make([]string, 0, len(ins))
	for _, in := range ins {
		names = append(names, in.String())
	}
	return names, nil
}

func (t *Transport) OpenOut(name string) (contracts.OutPort, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	outs, err := t.drv.Outs()
	if err != nil {
		return nil, fmt.Errorf("error listing MIDI outputs: %w", err)
	}
	for _, out := range outs {
		if out.String() != name {
			continue
		}
		if err := out.Open(); err != nil {
			return nil, fmt.Errorf("open output %q: %w", name, err)
		}
		t.logger.Info("MIDI output opened", t.logger.Field().String("port", name))
		return &outPort{out: out}, nil
	}
	return nil, fmt.Errorf("no MIDI output named %q", name)
}

func (t *Transport) OpenIn(name string, onMessage func([]byte)) (contracts.InPort, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	ins, err := t.drv.Ins()
	if err != nil {
		return nil, fmt.Errorf("error listing MIDI inputs: %w", err)
	}
	var found drivers.In
	for _, in := range ins {
		if in.String() == name {
			found = in
			break
		}
	}
	if found == nil {
		return nil, fmt.Errorf("no MIDI input named %q", name)
	}

	stop, err := midi.ListenTo(found, func(msg midi.Message, _ int32) {
		onMessage(msg.Bytes())
	}, midi.UseSysEx(), midi.SysExBufferSize(sysExBufferSize))
	if err != nil {
		return nil, fmt.Errorf("listen on %q: %w", name, err)
	}
	t.logger.Info("MIDI input listening", t.logger.Field().String("port", name))
	return &inPort{in: found, stop: stop}, nil
}

func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.drv.Close()
}

type outPort struct {
	out drivers.Out
}

func (p *outPort) Send(data []byte) error {
	return p.out.Send(data)
}

func (p *outPort) Close() error {
	return p.out.Close()
}

type inPort struct {
	in   drivers.In
	stop func()
	once sync.Once
	err  error
}

func (p *inPort) Close() error {
	p.once.Do(func() {
		p.stop()
		p.err = p.in.Close()
	})
	return p.err
}
