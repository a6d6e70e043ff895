package midi

import (
	"context"
	"fmt"

	"github.com/leandrodaf/gorzone/internal/codec"
	"github.com/leandrodaf/gorzone/internal/conn"
	"github.com/leandrodaf/gorzone/internal/zone"
	"github.com/leandrodaf/gorzone/sdk/contracts"
)

// Session owns one connection to an instrument and the controller for the configured
// protocol. It is the whole surface a user interface needs.
type Session struct {
	options contracts.ClientOptions
	logger  contracts.Logger
	conn    *conn.Manager
	cc      *zone.CCController
	sysex   *zone.SysExController
}

// NewSession creates a disconnected session with the specified options.
func NewSession(opts ...contracts.Option) (*Session, error) {
	options, err := applyDefaultOptions(opts...)
	if err != nil {
		return nil, err
	}

	transport, err := NewTransport(&options)
	if err != nil {
		return nil, err
	}

	manager := conn.NewManager(transport, options.Logger, options.InboundBuffer)
	return &Session{
		options: options,
		logger:  options.Logger,
		conn:    manager,
		cc:      zone.NewCCController(manager, options.Logger),
		sysex:   zone.NewSysExController(manager, options.Model, options.Logger),
	}, nil
}

// Ports lists output port names. Enumeration errors are logged and yield an empty list.
func (s *Session) Ports() []string {
	ports, err := s.conn.OutputPorts()
	if err != nil {
		s.logger.Error("Failed to list MIDI ports", s.logger.Field().Error("error", err))
		return nil
	}
	return ports
}

// Open connects to the named output port, or to the first port when name is empty.
func (s *Session) Open(name string) (contracts.OpenResult, error) {
	return s.conn.Open(name)
}

// Connect is Open reduced to success or failure. Failures are logged.
func (s *Session) Connect(name string) bool {
	if _, err := s.conn.Open(name); err != nil {
		s.logger.Error("Failed to connect", s.logger.Field().String("port", name), s.logger.Field().Error("error", err))
		return false
	}
	return true
}

// Connected reports whether an output port is open.
func (s *Session) Connected() bool {
	return s.conn.Connected()
}

// State returns the connection state.
func (s *Session) State() contracts.ConnState {
	return s.conn.State()
}

// PortName returns the name of the open port, or "".
func (s *Session) PortName() string {
	return s.conn.PortName()
}

// Protocol returns the control surface in use.
func (s *Session) Protocol() contracts.Protocol {
	return s.options.Protocol
}

// Zones returns the controller for the configured protocol.
func (s *Session) Zones() contracts.ZoneController {
	if s.options.Protocol == contracts.ProtocolSysEx {
		return s.sysex
	}
	return s.cc
}

// SysEx returns the DT1 controller. ok is false when the session uses the CC protocol.
func (s *Session) SysEx() (ctrl *zone.SysExController, ok bool) {
	return s.sysex, s.options.Protocol == contracts.ProtocolSysEx
}

// SendPatchToZone selects patch on zone.
func (s *Session) SendPatchToZone(patch contracts.Patch, zone int) error {
	return s.Zones().ZonePatch(zone, patch)
}

// SetZoneEnabled switches zone on or off.
func (s *Session) SetZoneEnabled(zone int, on bool) error {
	return s.Zones().ZoneEnable(zone, on)
}

// Inbound returns the channel of messages received from the device. Identify reads
// from the same channel, so callers should not consume it concurrently with Identify.
func (s *Session) Inbound() <-chan contracts.Message {
	return s.conn.Inbound()
}

// Identify sends a universal identity request and waits for the reply until ctx is done.
// Other inbound messages received meanwhile are discarded.
func (s *Session) Identify(ctx context.Context) (codec.Identity, error) {
	if err := s.conn.Send(codec.IdentityRequest()); err != nil {
		return codec.Identity{}, fmt.Errorf("identity request: %w", err)
	}
	for {
		select {
		case <-ctx.Done():
			return codec.Identity{}, fmt.Errorf("identity reply: %w", ctx.Err())
		case msg := <-s.conn.Inbound():
			if !codec.IsIdentityReply(msg.Data) {
				continue
			}
			id, err := codec.ParseIdentityReply(msg.Data)
			if err != nil {
				return codec.Identity{}, err
			}
			s.logger.Info("Device identified", s.logger.Field().String("identity", id.String()))
			return id, nil
		}
	}
}

// Disconnect closes the port but keeps the backend for a later Open.
func (s *Session) Disconnect() error {
	return s.conn.Close()
}

// Close closes the port and releases the backend.
func (s *Session) Close() error {
	return s.conn.Shutdown()
}
