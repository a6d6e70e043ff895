package midi

import (
	"fmt"
	"runtime"

	"github.com/leandrodaf/gorzone/internal/midi/mididarwin"
	"github.com/leandrodaf/gorzone/internal/midi/midifake"
	"github.com/leandrodaf/gorzone/internal/midi/midirtmidi"
	"github.com/leandrodaf/gorzone/internal/midi/midiwindows"
	"github.com/leandrodaf/gorzone/sdk/contracts"
)

// transportInitializers maps backend kinds to their constructors.
var transportInitializers = map[contracts.TransportKind]func(*contracts.ClientOptions) (contracts.Transport, error){
	contracts.TransportRtMidi:   midirtmidi.NewTransport,
	contracts.TransportCoreMIDI: mididarwin.NewTransport,
	contracts.TransportWinMM:    midiwindows.NewTransport,
	contracts.TransportFake:     newFakeTransport,
}

// nativeTransports maps OS names to the OS-native backend.
var nativeTransports = map[string]contracts.TransportKind{
	"darwin":  contracts.TransportCoreMIDI,
	"windows": contracts.TransportWinMM,
}

// newFakeTransport exposes a single port named after the client, for dry runs.
func newFakeTransport(opts *contracts.ClientOptions) (contracts.Transport, error) {
	return midifake.New(opts.ClientName), nil
}

// resolveKind turns TransportNative into the backend for the running OS.
func resolveKind(kind contracts.TransportKind, goos string) (contracts.TransportKind, error) {
	if kind != contracts.TransportNative {
		return kind, nil
	}
	if native, ok := nativeTransports[goos]; ok {
		return native, nil
	}
	return "", fmt.Errorf("%w: no native backend for %s", contracts.ErrUnsupportedTransport, goos)
}

// NewTransport builds the backend selected by opts.
// It returns ErrUnsupportedTransport when the backend is unknown or unavailable in this build.
func NewTransport(opts *contracts.ClientOptions) (contracts.Transport, error) {
	if opts.Transport != nil {
		return opts.Transport, nil
	}
	kind, err := resolveKind(opts.TransportKind, runtime.GOOS)
	if err != nil {
		return nil, err
	}
	if initializer, exists := transportInitializers[kind]; exists {
		return initializer(opts)
	}
	return nil, fmt.Errorf("%w: %s", contracts.ErrUnsupportedTransport, kind)
}
