//go:build windows
// +build windows

package midiwindows

import (
	"errors"
	"fmt"
	"sync"
	"time"
	"unsafe"

	"github.com/leandrodaf/gorzone/sdk/contracts"
	"golang.org/x/sys/windows"
)

// Type definitions for MIDI handles
type (
	HMIDIIN  windows.Handle
	HMIDIOUT windows.Handle
)

// Constants for callback flags
const (
	CALLBACK_NULL     = 0x00000000 // No callback
	CALLBACK_FUNCTION = 0x00030000 // Indicates that the callback is a function
	MIDI_IO_STATUS    = 0x00000020 // MIDI input/output status
)

// Constants for MIDI message types
const (
	MIM_OPEN      = 0x3C1 // MIDI device opened
	MIM_CLOSE     = 0x3C2 // MIDI device closed
	MIM_DATA      = 0x3C3 // MIDI data received
	MIM_LONGDATA  = 0x3C4 // SysEx buffer received
	MIM_ERROR     = 0x3C5 // MIDI error
	MIM_LONGERROR = 0x3C6 // Long MIDI error
	MIM_MOREDATA  = 0x3CC // More MIDI data available
)

const (
	mmsyserrNoError     = 0
	midierrStillPlaying = 65
	unprepareAttempts   = 100
)

var errNoDevice = errors.New("no MIDI device with that name")

// Struct representing MIDI input device capabilities
type midiInCaps struct {
	wMid           uint16
	wPid           uint16
	vDriverVersion uint32
	szPname        [32]uint16
	dwSupport      uint32
}

// Struct representing MIDI output device capabilities
type midiOutCaps struct {
	wMid           uint16
	wPid           uint16
	vDriverVersion uint32
	szPname        [32]uint16
	wTechnology    uint16
	wVoices        uint16
	wNotes         uint16
	wChannelMask   uint16
	dwSupport      uint32
}

// midiHdr mirrors MIDIHDR for midiOutLongMsg.
type midiHdr struct {
	lpData          uintptr
	dwBufferLength  uint32
	dwBytesRecorded uint32
	dwUser          uintptr
	dwFlags         uint32
	lpNext          uintptr
	reserved        uintptr
	dwOffset        uint32
	dwReserved      [8]uintptr
}

// Load the winmm.dll library and required functions
var (
	winmm                    = windows.NewLazySystemDLL("winmm.dll")
	procMidiInGetNumDevs     = winmm.NewProc("midiInGetNumDevs")
	procMidiInGetDevCaps     = winmm.NewProc("midiInGetDevCapsW")
	procMidiInOpen           = winmm.NewProc("midiInOpen")
	procMidiInStart          = winmm.NewProc("midiInStart")
	procMidiInStop           = winmm.NewProc("midiInStop")
	procMidiInClose          = winmm.NewProc("midiInClose")
	procMidiOutGetNumDevs    = winmm.NewProc("midiOutGetNumDevs")
	procMidiOutGetDevCaps    = winmm.NewProc("midiOutGetDevCapsW")
	procMidiOutOpen          = winmm.NewProc("midiOutOpen")
	procMidiOutShortMsg      = winmm.NewProc("midiOutShortMsg")
	procMidiOutLongMsg       = winmm.NewProc("midiOutLongMsg")
	procMidiOutPrepareHeader = winmm.NewProc("midiOutPrepareHeader")
	procMidiOutUnprepare     = winmm.NewProc("midiOutUnprepareHeader")
	procMidiOutClose         = winmm.NewProc("midiOutClose")
)

// The winmm callback is process-wide; open input ports register here by handle.
var (
	inputsMu   sync.Mutex
	inputs     = map[uintptr]*inPort{}
	callbackFn uintptr
	callbackMu sync.Once
)

// Transport drives the Windows multimedia MIDI API.
type Transport struct {
	logger contracts.Logger
	mu     sync.Mutex
}

// NewTransport creates a winmm transport.
func NewTransport(options *contracts.ClientOptions) (contracts.Transport, error) {
	options.Logger.Info("MIDI transport created for Windows")
	return &Transport{logger: options.Logger}, nil
}

func (t *Transport) Name() string {
	return string(contracts.TransportWinMM)
}

// OutPorts lists the winmm output devices
func (t *Transport) OutPorts() ([]string, error) {
	r0, _, _ := procMidiOutGetNumDevs.Call()
	numDevices := uint32(r0)
	names := make([]string, 0, numDevices)
	for i := uint32(0); i < numDevices; i++ {
		var caps midiOutCaps
		r1, _, _ := procMidiOutGetDevCaps.Call(
			uintptr(i),
			uintptr(unsafe.Pointer(&caps)),
			unsafe.Sizeof(caps),
		)
		if r1 != mmsyserrNoError {
			t.logger.Warn("Failed to get information for MIDI output", t.logger.Field().Int("device", int(i)))
			continue
		}
		names = append(names, windows.UTF16ToString(caps.szPname[:]))
	}
	return names, nil
}

// InPorts lists the winmm input devices
func (t *Transport) InPorts() ([]string, error) {
	r0, _, _ := procMidiInGetNumDevs.Call()
	numDevices := uint32(r0)
	names := make([]string, 0, numDevices)
	for i := uint32(0); i < numDevices; i++ {
		var caps midiInCaps
		r1, _, _ := procMidiInGetDevCaps.Call(
			uintptr(i),
			uintptr(unsafe.Pointer(&caps)),
			unsafe.Sizeof(caps),
		)
		if r1 != mmsyserrNoError {
			t.logger.Warn("Failed to get information for MIDI input", t.logger.Field().Int("device", int(i)))
			continue
		}
		names = append(names, windows.UTF16ToString(caps.szPname[:]))
	}
	return names, nil
}

func indexOf(names []string, name string) (int, error) {
	for i, n := range names {
		if n == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", errNoDevice, name)
}

// OpenOut opens a MIDI output device by name
func (t *Transport) OpenOut(name string) (contracts.OutPort, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	names, err := t.OutPorts()
	if err != nil {
		return nil, err
	}
	deviceID, err := indexOf(names, name)
	if err != nil {
		return nil, err
	}

	var handle HMIDIOUT
	r1, _, callErr := procMidiOutOpen.Call(
		uintptr(unsafe.Pointer(&handle)),
		uintptr(deviceID),
		0,
		0,
		CALLBACK_NULL,
	)
	if r1 != mmsyserrNoError {
		t.logger.Error("Failed to open MIDI output", t.logger.Field().String("port", name), t.logger.Field().Error("error", callErr))
		return nil, fmt.Errorf("failed to open MIDI output %s: mmsyserr %d", name, r1)
	}
	t.logger.Info("MIDI output connected", t.logger.Field().String("port", name))
	return &outPort{handle: handle}, nil
}

// OpenIn opens a MIDI input device by name and starts capture
func (t *Transport) OpenIn(name string, onMessage func([]byte)) (contracts.InPort, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	names, err := t.InPorts()
	if err != nil {
		return nil, err
	}
	deviceID, err := indexOf(names, name)
	if err != nil {
		return nil, err
	}

	callbackMu.Do(func() {
		callbackFn = windows.NewCallback(midiInCallback)
	})

	in := &inPort{logger: t.logger, onMessage: onMessage}
	fdwOpen := CALLBACK_FUNCTION | MIDI_IO_STATUS
	r1, _, callErr := procMidiInOpen.Call(
		uintptr(unsafe.Pointer(&in.handle)),
		uintptr(deviceID),
		callbackFn,
		0,
		uintptr(fdwOpen),
	)
	if r1 != mmsyserrNoError {
		t.logger.Error("Failed to open MIDI input", t.logger.Field().String("port", name), t.logger.Field().Error("error", callErr))
		return nil, fmt.Errorf("failed to open MIDI input %s: mmsyserr %d", name, r1)
	}

	inputsMu.Lock()
	inputs[uintptr(in.handle)] = in
	inputsMu.Unlock()

	r1, _, _ = procMidiInStart.Call(uintptr(in.handle))
	if r1 != mmsyserrNoError {
		_ = in.Close()
		return nil, fmt.Errorf("failed to start MIDI capture on %s: mmsyserr %d", name, r1)
	}
	t.logger.Info("MIDI capture started", t.logger.Field().String("port", name))
	return in, nil
}

// Close is a no-op; winmm has no driver-level handle.
func (t *Transport) Close() error {
	return nil
}

type outPort struct {
	handle HMIDIOUT
	mu     sync.Mutex
}

// Send writes short messages with midiOutShortMsg and SysEx with midiOutLongMsg.
func (p *outPort) Send(data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.handle == 0 {
		return errors.New("invalid MIDI output handle")
	}
	if len(data) == 0 {
		return nil
	}
	if data[0] != 0xF0 && len(data) <= 3 {
		var msg uint32
		for i, b := range data {
			msg |= uint32(b) << (8 * i)
		}
		if r1, _, _ := procMidiOutShortMsg.Call(uintptr(p.handle), uintptr(msg)); r1 != mmsyserrNoError {
			return fmt.Errorf("midiOutShortMsg: mmsyserr %d", r1)
		}
		return nil
	}
	return p.sendLong(data)
}

func (p *outPort) sendLong(data []byte) error {
	buf := append([]byte(nil), data...)
	hdr := midiHdr{
		lpData:         uintptr(unsafe.Pointer(&buf[0])),
		dwBufferLength: uint32(len(buf)),
	}
	size := unsafe.Sizeof(hdr)
	if r1, _, _ := procMidiOutPrepareHeader.Call(uintptr(p.handle), uintptr(unsafe.Pointer(&hdr)), size); r1 != mmsyserrNoError {
		return fmt.Errorf("midiOutPrepareHeader: mmsyserr %d", r1)
	}
	var sendErr error
	if r1, _, _ := procMidiOutLongMsg.Call(uintptr(p.handle), uintptr(unsafe.Pointer(&hdr)), size); r1 != mmsyserrNoError {
		sendErr = fmt.Errorf("midiOutLongMsg: mmsyserr %d", r1)
	}
	// The driver owns the buffer until unprepare stops reporting STILLPLAYING.
	for i := 0; i < unprepareAttempts; i++ {
		r1, _, _ := procMidiOutUnprepare.Call(uintptr(p.handle), uintptr(unsafe.Pointer(&hdr)), size)
		if r1 != midierrStillPlaying {
			break
		}
		time.Sleep(time.Millisecond)
	}
	return sendErr
}

func (p *outPort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.handle == 0 {
		return nil
	}
	r1, _, _ := procMidiOutClose.Call(uintptr(p.handle))
	p.handle = 0
	if r1 != mmsyserrNoError {
		return fmt.Errorf("midiOutClose: mmsyserr %d", r1)
	}
	return nil
}

type inPort struct {
	logger    contracts.Logger
	onMessage func([]byte)
	handle    HMIDIIN
	closeOnce sync.Once
	err       error
}

// midiInCallback processes incoming MIDI messages
func midiInCallback(hMidiIn uintptr, wMsg uint32, dwInstance uintptr, dwParam1 uintptr, dwParam2 uintptr) uintptr {
	inputsMu.Lock()
	in := inputs[hMidiIn]
	inputsMu.Unlock()
	if in == nil {
		return 0
	}

	switch wMsg {
	case MIM_OPEN:
		in.logger.Debug("MIDI input opened")
	case MIM_CLOSE:
		in.logger.Debug("MIDI input closed")
	case MIM_DATA:
		status := byte(dwParam1 & 0xFF)
		data1 := byte((dwParam1 >> 8) & 0xFF)
		data2 := byte((dwParam1 >> 16) & 0xFF)
		msg := []byte{status, data1, data2}
		switch status & 0xF0 {
		case 0xC0, 0xD0:
			msg = msg[:2]
		}
		in.onMessage(msg)
	case MIM_LONGDATA:
		in.logger.Debug("Received SysEx buffer; ignored")
	case MIM_ERROR, MIM_LONGERROR:
		in.logger.Error("MIDI input error", in.logger.Field().Uint32("msg", wMsg))
	case MIM_MOREDATA:
		in.logger.Debug("Received MIM_MOREDATA message; ignored")
	default:
		in.logger.Warn("Unknown MIDI message", in.logger.Field().Uint32("msg", wMsg))
	}
	return 0
}

// Close stops capture and releases the input handle
func (p *inPort) Close() error {
	p.closeOnce.Do(func() {
		inputsMu.Lock()
		delete(inputs, uintptr(p.handle))
		inputsMu.Unlock()

		if r1, _, _ := procMidiInStop.Call(uintptr(p.handle)); r1 != mmsyserrNoError {
			p.err = fmt.Errorf("midiInStop: mmsyserr %d", r1)
		}
		if r1, _, _ := procMidiInClose.Call(uintptr(p.handle)); r1 != mmsyserrNoError && p.err == nil {
			p.err = fmt.Errorf("midiInClose: mmsyserr %d", r1)
		}
		p.handle = 0
	})
	return p.err
}
