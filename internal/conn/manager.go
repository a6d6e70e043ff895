// Package conn owns the MIDI transport for a session: port enumeration, the open/close
// lifecycle, raw sends and inbound delivery.
package conn

import (
	"fmt"
	"sync"
	"time"

	"github.com/leandrodaf/gorzone/sdk/contracts"
	"go.uber.org/multierr"
	"golang.org/x/text/unicode/norm"
)

// DefaultInboundBuffer is the inbound channel capacity used when none is configured.
const DefaultInboundBuffer = 64

// Manager holds at most one connection. Opening a port always tears down the previous
// connection first, so there is only ever one writer.
type Manager struct {
	logger    contracts.Logger
	transport contracts.Transport
	inbound   chan contracts.Message

	mu    sync.Mutex
	state contracts.ConnState
	port  string
	out   contracts.OutPort
	in    contracts.InPort
}

// NewManager wraps transport. inboundBuffer <= 0 selects DefaultInboundBuffer.
func NewManager(transport contracts.Transport, logger contracts.Logger, inboundBuffer int) *Manager {
	if inboundBuffer <= 0 {
		inboundBuffer = DefaultInboundBuffer
	}
	return &Manager{
		logger:    logger,
		transport: transport,
		inbound:   make(chan contracts.Message, inboundBuffer),
	}
}

// portName pairs the name a backend reports with its NFC form.
type portName struct {
	raw, nfc string
}

func normalise(raw []string) []portName {
	names := make([]portName, len(raw))
	for i, r := range raw {
		names[i] = portName{raw: r, nfc: norm.NFC.String(r)}
	}
	return names
}

func find(names []portName, want string) (portName, bool) {
	want = norm.NFC.String(want)
	for _, n := range names {
		if n.nfc == want {
			return n, true
		}
	}
	return portName{}, false
}

// OutputPorts lists output port names in enumeration order. An empty list is not an error.
func (m *Manager) OutputPorts() ([]string, error) {
	raw, err := m.transport.OutPorts()
	if err != nil {
		return nil, fmt.Errorf("list output ports: %w", err)
	}
	names := make([]string, 0, len(raw))
	for _, n := range normalise(raw) {
		names = append(names, n.nfc)
	}
	return names, nil
}

// Open binds the manager to an output port. An empty name selects the first enumerated
// port. The same-named input port is opened on a best-effort basis; its failure is
// reported in the result, not as an error.
func (m *Manager) Open(name string) (contracts.OpenResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.out != nil {
		if err := m.closeLocked(); err != nil {
			m.logger.Warn("error closing previous connection", m.logger.Field().Error("error", err))
		}
	}

	raw, err := m.transport.OutPorts()
	if err != nil {
		return contracts.OpenResult{}, &contracts.TransportError{Op: "list output ports", Err: err}
	}
	outs := normalise(raw)

	var target portName
	if name == "" {
		if len(outs) == 0 {
			return contracts.OpenResult{}, contracts.ErrNoPortsAvailable
		}
		target = outs[0]
	} else {
		var ok bool
		if target, ok = find(outs, name); !ok {
			return contracts.OpenResult{}, fmt.Errorf("%w: %q", contracts.ErrPortNotFound, name)
		}
	}

	out, err := m.transport.OpenOut(target.raw)
	if err != nil {
		m.logger.Error("failed to open MIDI output",
			m.logger.Field().String("port", target.nfc),
			m.logger.Field().Error("error", err))
		return contracts.OpenResult{}, &contracts.TransportError{Op: "open " + target.nfc, Err: err}
	}
	m.out = out
	m.port = target.nfc
	m.state = contracts.Open

	result := contracts.OpenResult{Port: target.nfc}
	if in, err := m.openInput(target.nfc); err != nil {
		result.InputErr = err
		m.logger.Warn("MIDI input not available; continuing output-only",
			m.logger.Field().String("port", target.nfc),
			m.logger.Field().Error("error", err))
	} else {
		m.in = in
		result.InputOpen = true
	}

	m.logger.Info("MIDI connection open",
		m.logger.Field().String("port", target.nfc),
		m.logger.Field().String("transport", m.transport.Name()),
		m.logger.Field().Bool("input", result.InputOpen))
	return result, nil
}

func (m *Manager) openInput(name string) (contracts.InPort, error) {
	raw, err := m.transport.InPorts()
	if err != nil {
		return nil, err
	}
	target, ok := find(normalise(raw), name)
	if !ok {
		return nil, fmt.Errorf("no input port named %q", name)
	}
	return m.transport.OpenIn(target.raw, m.deliver)
}

// deliver runs on the backend's goroutine. It never blocks and touches no manager state.
func (m *Manager) deliver(data []byte) {
	msg := contracts.Message{Timestamp: uint64(time.Now().UTC().UnixNano()), Data: data}
	select {
	case m.inbound <- msg:
	default:
		m.logger.Warn("inbound buffer full; dropping MIDI message", m.logger.Field().Int("length", len(data)))
	}
}

// Close releases both handles. It is idempotent and always leaves the manager Disconnected.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closeLocked()
}

func (m *Manager) closeLocked() error {
	var err error
	if m.in != nil {
		err = multierr.Append(err, m.in.Close())
		m.in = nil
	}
	if m.out != nil {
		err = multierr.Append(err, m.out.Close())
		m.out = nil
		m.logger.Info("MIDI connection closed", m.logger.Field().String("port", m.port))
	}
	m.port = ""
	m.state = contracts.Disconnected
	return err
}

// Shutdown closes the connection and then the transport itself.
func (m *Manager) Shutdown() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	err := m.closeLocked()
	return multierr.Append(err, m.transport.Close())
}

// Send forwards msg verbatim. There is no buffering and no retry.
func (m *Manager) Send(msg []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.out == nil {
		return contracts.ErrNotConnected
	}
	if err := m.out.Send(msg); err != nil {
		m.state = contracts.Failed
		m.logger.Error("MIDI send failed",
			m.logger.Field().String("port", m.port),
			m.logger.Field().String("message", fmt.Sprintf("% X", msg)),
			m.logger.Field().Error("error", err))
		return &contracts.TransportError{Op: "send", Err: err}
	}
	m.state = contracts.Open
	m.logger.Debug("MIDI message sent", m.logger.Field().String("message", fmt.Sprintf("% X", msg)))
	return nil
}

// Connected reports whether an output handle is held.
func (m *Manager) Connected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.out != nil
}

// State returns the connection state.
func (m *Manager) State() contracts.ConnState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// PortName returns the bound port, or "" when disconnected.
func (m *Manager) PortName() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.port
}

// Inbound returns the single-consumer channel of messages received from the device.
// Messages are dropped when it is full.
func (m *Manager) Inbound() <-chan contracts.Message {
	return m.inbound
}
