package main

import (
	"fmt"

	"github.com/leandrodaf/gorzone/internal/logger"
	"github.com/leandrodaf/gorzone/sdk/contracts"
	"github.com/leandrodaf/gorzone/sdk/midi"
)

func main() {
	log := logger.NewZapLogger()

	session, err := midi.NewSession(
		contracts.WithLogger(log),
		contracts.WithLogLevel(contracts.InfoLevel),
		contracts.WithProtocol(contracts.ProtocolCC),
	)
	if err != nil {
		log.Error("Failed to create MIDI session", log.Field().Error("error", err))
		return
	}
	defer session.Close()

	ports := session.Ports()
	if len(ports) == 0 {
		log.Error("No MIDI ports found")
		return
	}
	fmt.Println("Available MIDI ports:", ports)

	if !session.Connect(ports[0]) {
		return
	}

	// Piano on zone 1, strings on zone 2.
	patches := map[int]contracts.Patch{
		1: {BankMSB: 0, BankLSB: 68, Program: 0},
		2: {BankMSB: 16, BankLSB: 67, Program: 48},
	}
	for zone, patch := range patches {
		if err := session.SetZoneEnabled(zone, true); err != nil {
			log.Error("Failed to enable zone", log.Field().Int("zone", zone), log.Field().Error("error", err))
			return
		}
		if err := session.SendPatchToZone(patch, zone); err != nil {
			log.Error("Failed to send patch", log.Field().Int("zone", zone), log.Field().Error("error", err))
			return
		}
	}

	fmt.Println("Listening for MIDI messages... Press Ctrl+C to exit.")
	for msg := range session.Inbound() {
		log.Info("MIDI message",
			log.Field().Uint64("Timestamp", msg.Timestamp),
			log.Field().String("Data", fmt.Sprintf("% X", msg.Data)),
		)
	}
}
