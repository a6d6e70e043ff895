//go:build darwin
// +build darwin

package mididarwin

import (
	"errors"
	"fmt"
	"sync"

	"github.com/leandrodaf/gorzone/sdk/contracts"
	"github.com/youpy/go-coremidi"
)

// Error definitions for CoreMIDI connection and handling issues.
var (
	ErrInvalidMIDIDevice   = errors.New("invalid MIDI device")
	ErrMIDIConnectionError = errors.New("error connecting to MIDI device")
	ErrCreateInputPort     = errors.New("error creating input port")
	ErrCreateOutputPort    = errors.New("error creating output port")
)

// internalPortConnection is an interface for handling disconnection from a MIDI port.
type internalPortConnection interface {
	Disconnect()
}

// Transport drives CoreMIDI directly: destinations are output ports, sources are input ports.
type Transport struct {
	logger contracts.Logger
	client coremidi.Client
	mu     sync.Mutex
}

// NewTransport creates a CoreMIDI client registered under options.ClientName.
func NewTransport(options *contracts.ClientOptions) (contracts.Transport, error) {
	client, err := coremidi.NewClient(options.ClientName)
	if err != nil {
		return nil, err
	}
	options.Logger.Info("CoreMIDI client successfully created")
	return &Transport{logger: options.Logger, client: client}, nil
}

func (t *Transport) Name() string {
	return string(contracts.TransportCoreMIDI)
}

// OutPorts lists CoreMIDI destinations.
func (t *Transport) OutPorts() ([]string, error) {
	destinations, err := coremidi.AllDestinations()
	if err != nil {
		return nil, fmt.Errorf("error listing MIDI destinations: %w", err)
	}
	names := make([]string, len(destinations))
	for i, d := range destinations {
		names[i] = d.Name()
	}
	return names, nil
}

// InPorts lists CoreMIDI sources.
func (t *Transport) InPorts() ([]string, error) {
	sources, err := coremidi.AllSources()
	if err != nil {
		return nil, fmt.Errorf("error listing MIDI sources: %w", err)
	}
	names := make([]string, len(sources))
	for i, s := range sources {
		names[i] = s.Name()
	}
	return names, nil
}

func (t *Transport) OpenOut(name string) (contracts.OutPort, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	destinations, err := coremidi.AllDestinations()
	if err != nil {
		return nil, fmt.Errorf("error retrieving MIDI destinations: %w", err)
	}
	for i := range destinations {
		if destinations[i].Name() != name {
			continue
		}
		port, err := coremidi.NewOutputPort(t.client, "Output Port")
		if err != nil {
			t.logger.Error(ErrCreateOutputPort.Error())
			return nil, fmt.Errorf("%w: %v", ErrCreateOutputPort, err)
		}
		t.logger.Info("MIDI destination selected", t.logger.Field().String("port", name))
		return &outPort{port: port, destination: destinations[i]}, nil
	}
	t.logger.Error(ErrInvalidMIDIDevice.Error(), t.logger.Field().String("port", name))
	return nil, fmt.Errorf("%w: %s", ErrInvalidMIDIDevice, name)
}

func (t *Transport) OpenIn(name string, onMessage func([]byte)) (contracts.InPort, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	sources, err := coremidi.AllSources()
	if err != nil {
		return nil, fmt.Errorf("error retrieving MIDI sources: %w", err)
	}
	for _, source := range sources {
		if source.Name() != name {
			continue
		}
		in := &inPort{logger: t.logger, onMessage: onMessage}
		port, err := coremidi.NewInputPort(t.client, "Input Port", in.handleMIDIMessage)
		if err != nil {
			t.logger.Error(ErrCreateInputPort.Error())
			return nil, fmt.Errorf("%w: %v", ErrCreateInputPort, err)
		}
		conn, err := port.Connect(source)
		if err != nil {
			t.logger.Error(ErrMIDIConnectionError.Error())
			return nil, fmt.Errorf("%w: %v", ErrMIDIConnectionError, err)
		}
		in.portConn = conn
		t.logger.Info("MIDI source successfully connected", t.logger.Field().String("port", name))
		return in, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrInvalidMIDIDevice, name)
}

// Close is a no-op; CoreMIDI releases the client with the process.
func (t *Transport) Close() error {
	return nil
}

type outPort struct {
	port        coremidi.OutputPort
	destination coremidi.Destination
	mu          sync.Mutex
	closed      bool
}

func (p *outPort) Send(data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrMIDIConnectionError
	}
	packet := coremidi.NewPacket(data, 0)
	return packet.Send(&p.port, &p.destination)
}

func (p *outPort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

type inPort struct {
	logger    contracts.Logger
	onMessage func([]byte)
	portConn  internalPortConnection
	wg        sync.WaitGroup
	mu        sync.Mutex
	stopOnce  sync.Once
	stopped   bool
}

// handleMIDIMessage forwards each CoreMIDI packet. Runs on a CoreMIDI thread.
func (p *inPort) handleMIDIMessage(source coremidi.Source, packet coremidi.Packet) {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.wg.Add(1)
	p.mu.Unlock()
	defer p.wg.Done()

	if len(packet.Data) == 0 {
		p.logger.Warn("empty MIDI packet", p.logger.Field().String("source", source.Name()))
		return
	}
	p.onMessage(append([]byte(nil), packet.Data...))
}

// Close disconnects from the source and waits for in-flight callbacks.
func (p *inPort) Close() error {
	p.stopOnce.Do(func() {
		p.mu.Lock()
		p.stopped = true
		if p.portConn != nil {
			p.portConn.Disconnect()
			p.portConn = nil
		}
		p.mu.Unlock()
		p.wg.Wait()
	})
	return nil
}
