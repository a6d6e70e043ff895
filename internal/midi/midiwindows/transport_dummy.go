//go:build !windows
// +build !windows

package midiwindows

import (
	"fmt"

	"github.com/leandrodaf/gorzone/sdk/contracts"
)

// NewTransport reports that winmm is only available on Windows.
func NewTransport(options *contracts.ClientOptions) (contracts.Transport, error) {
	options.Logger.Warn("winmm transport requested on a non-Windows system")
	return nil, fmt.Errorf("%w: winmm is Windows only", contracts.ErrUnsupportedTransport)
}
