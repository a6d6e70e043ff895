//go:build !darwin
// +build !darwin

package mididarwin

import (
	"fmt"

	"github.com/leandrodaf/gorzone/sdk/contracts"
)

// NewTransport reports that CoreMIDI is only available on macOS.
func NewTransport(options *contracts.ClientOptions) (contracts.Transport, error) {
	options.Logger.Warn("CoreMIDI transport requested on a non-macOS system")
	return nil, fmt.Errorf("%w: CoreMIDI is macOS only", contracts.ErrUnsupportedTransport)
}
