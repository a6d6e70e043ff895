// Package midifake is an in-memory contracts.Transport. It records every write, can be
// told to fail, and lets tests inject inbound messages.
package midifake

import (
	"errors"
	"fmt"
	"sync"

	"github.com/leandrodaf/gorzone/sdk/contracts"
)

// ErrInjected is the default error returned by injected failures.
var ErrInjected = errors.New("injected transport failure")

// Write is one message that reached an output port.
type Write struct {
	Port string
	Data []byte
}

// Transport is a fake backend. The zero value has no ports.
type Transport struct {
	mu sync.Mutex

	Outs []string // Output port names.
	Ins  []string // Input port names.

	// FailOpenIn makes OpenIn fail.
	FailOpenIn error
	// FailSendAfter makes the Nth and later Sends fail (1-based). Zero disables it.
	FailSendAfter int
	// SendErr is returned by failing sends; ErrInjected when nil.
	SendErr error

	writes    []Write
	sends     int
	openOuts  map[string]int
	openIns   map[string]int
	listeners map[string]func([]byte)
	closed    bool
}

// New returns a fake with the given output ports and identically named input ports.
func New(ports ...string) *Transport {
	return &Transport{
		Outs: append([]string(nil), ports...),
		Ins:  append([]string(nil), ports...),
	}
}

func (t *Transport) Name() string {
	return string(contracts.TransportFake)
}

func (t *Transport) OutPorts() ([]string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string{}, t.Outs...), nil
}

func (t *Transport) InPorts() ([]string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string{}, t.Ins...), nil
}

func contains(list []string, name string) bool {
	for _, n := range list {
		if n == name {
			return true
		}
	}
	return false
}

func (t *Transport) OpenOut(name string) (contracts.OutPort, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !contains(t.Outs, name) {
		return nil, fmt.Errorf("no output port %q", name)
	}
	if t.openOuts == nil {
		t.openOuts = map[string]int{}
	}
	t.openOuts[name]++
	return &outPort{t: t, name: name}, nil
}

func (t *Transport) OpenIn(name string, onMessage func([]byte)) (contracts.InPort, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.FailOpenIn != nil {
		return nil, t.FailOpenIn
	}
	if !contains(t.Ins, name) {
		return nil, fmt.Errorf("no input port %q", name)
	}
	if t.openIns == nil {
		t.openIns = map[string]int{}
		t.listeners = map[string]func([]byte){}
	}
	t.openIns[name]++
	t.listeners[name] = onMessage
	return &inPort{t: t, name: name}, nil
}

func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	return nil
}

// Writes returns a copy of every successful write, in order.
func (t *Transport) Writes() []Write {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Write(nil), t.writes...)
}

// Messages returns the bytes of every successful write, in order.
func (t *Transport) Messages() [][]byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([][]byte, len(t.writes))
	for i, w := range t.writes {
		out[i] = w.Data
	}
	return out
}

// Reset forgets recorded writes and the send counter.
func (t *Transport) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.writes = nil
	t.sends = 0
}

// OpenOutputs returns how many handles are currently open on the named output port.
func (t *Transport) OpenOutputs(name string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.openOuts[name]
}

// OpenInputs returns how many handles are currently open on the named input port.
func (t *Transport) OpenInputs(name string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.openIns[name]
}

// Closed reports whether Close was called.
func (t *Transport) Closed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}

// Inject delivers msg to the listener of the named input port, as the device would.
// It reports whether a listener was attached.
func (t *Transport) Inject(name string, msg []byte) bool {
	t.mu.Lock()
	fn := t.listeners[name]
	t.mu.Unlock()
	if fn == nil {
		return false
	}
	fn(append([]byte(nil), msg...))
	return true
}

type outPort struct {
	t      *Transport
	name   string
	closed bool
}

func (p *outPort) Send(data []byte) error {
	p.t.mu.Lock()
	defer p.t.mu.Unlock()
	if p.closed {
		return errors.New("port closed")
	}
	p.t.sends++
	if p.t.FailSendAfter > 0 && p.t.sends >= p.t.FailSendAfter {
		if p.t.SendErr != nil {
			return p.t.SendErr
		}
		return ErrInjected
	}
	p.t.writes = append(p.t.writes, Write{Port: p.name, Data: append([]byte(nil), data...)})
	return nil
}

func (p *outPort) Close() error {
	p.t.mu.Lock()
	defer p.t.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	p.t.openOuts[p.name]--
	return nil
}

type inPort struct {
	t      *Transport
	name   string
	closed bool
}

func (p *inPort) Close() error {
	p.t.mu.Lock()
	defer p.t.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	p.t.openIns[p.name]--
	delete(p.t.listeners, p.name)
	return nil
}
