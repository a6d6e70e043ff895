//go:build !cgo

package midirtmidi

import (
	"fmt"

	"github.com/leandrodaf/gorzone/sdk/contracts"
)

// NewTransport reports that rtmidi needs cgo.
func NewTransport(options *contracts.ClientOptions) (contracts.Transport, error) {
	options.Logger.Warn("rtmidi transport requested in a build without cgo")
	return nil, fmt.Errorf("%w: rtmidi requires cgo", contracts.ErrUnsupportedTransport)
}
