package midi

import (
	"fmt"

	"github.com/leandrodaf/gorzone/internal/conn"
	"github.com/leandrodaf/gorzone/internal/logger"
	"github.com/leandrodaf/gorzone/sdk/contracts"
)

// DefaultClientName is registered with backends that name their clients.
const DefaultClientName = "gorzone"

// applyDefaultOptions sets default values for ClientOptions if not explicitly provided.
func applyDefaultOptions(opts ...contracts.Option) (contracts.ClientOptions, error) {
	options := &contracts.ClientOptions{}
	for _, opt := range opts {
		opt(options)
	}

	if options.Logger == nil {
		options.Logger = logger.NewZapLogger()
	}
	if options.LogLevel == 0 {
		options.LogLevel = contracts.InfoLevel
	}
	if options.TransportKind == "" {
		options.TransportKind = contracts.TransportRtMidi
	}
	if options.Protocol == "" {
		options.Protocol = contracts.ProtocolCC
	}
	if options.Model == (contracts.ModelID{}) {
		options.Model = contracts.ModelGoPiano
	}
	if options.InboundBuffer <= 0 {
		options.InboundBuffer = conn.DefaultInboundBuffer
	}
	if options.ClientName == "" {
		options.ClientName = DefaultClientName
	}

	switch options.Protocol {
	case contracts.ProtocolCC, contracts.ProtocolSysEx:
	default:
		return contracts.ClientOptions{}, fmt.Errorf("unknown protocol %q", options.Protocol)
	}

	if options.LogFilePath != "" {
		options.Logger.SetDestination(contracts.FileLog, options.LogFilePath)
	}
	options.Logger.SetLevel(options.LogLevel)
	return *options, nil
}
