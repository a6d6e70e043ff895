package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/leandrodaf/gorzone/internal/config"
	"github.com/leandrodaf/gorzone/internal/logger"
	"github.com/leandrodaf/gorzone/internal/mcpserver"
	"github.com/leandrodaf/gorzone/sdk/contracts"
	"github.com/leandrodaf/gorzone/sdk/midi"
)

const version = "0.1.0"

var (
	configPath = flag.String("config", getDefaultConfigPath(), "Path to configuration file")
	portName   = flag.String("port", "", "Output port name (default: first port, or config)")
	transport  = flag.String("transport", "", "MIDI backend: rtmidi, native, coremidi, winmm, fake")
	protocol   = flag.String("protocol", "", "Control surface: cc or sysex")
	model      = flag.String("model", "", "Instrument model: go-piano or go-keys")
	logLevel   = flag.String("log-level", "", "Log level: debug, info, warn, error")
	listPorts  = flag.Bool("list-ports", false, "List MIDI output ports and exit")
)

func getDefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "gorzone.yaml"
	}
	return filepath.Join(dir, "gorzone", "config.yaml")
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [options] <command> [args]\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "\nCommands:\n")
	fmt.Fprintf(os.Stderr, "  patch <zone> <bank_msb> <bank_lsb> <program>\n")
	fmt.Fprintf(os.Stderr, "  enable <zone> on|off\n")
	fmt.Fprintf(os.Stderr, "  octave <zone> <shift>\n")
	fmt.Fprintf(os.Stderr, "  range <zone> <low> <high>\n")
	fmt.Fprintf(os.Stderr, "  split            (sysex) two-zone split from the config file\n")
	fmt.Fprintf(os.Stderr, "  reset            (sysex) enable every part and zone over the full keyboard\n")
	fmt.Fprintf(os.Stderr, "  identify         ask the instrument for its identity\n")
	fmt.Fprintf(os.Stderr, "  mcp              serve MCP tools on stdio\n")
	fmt.Fprintf(os.Stderr, "\nOptions:\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()

	log := logger.NewZapLogger()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal("Failed to load config", log.Field().Error("error", err))
	}

	// Flags override the config file
	if *transport != "" {
		cfg.Transport = *transport
	}
	if *protocol != "" {
		cfg.Protocol = *protocol
	}
	if *model != "" {
		cfg.Model = *model
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if *portName != "" {
		cfg.Port = *portName
	}

	opts, err := cfg.Options()
	if err != nil {
		log.Fatal("Invalid configuration", log.Field().Error("error", err))
	}
	session, err := midi.NewSession(append(opts, contracts.WithLogger(log))...)
	if err != nil {
		log.Fatal("Failed to create session", log.Field().Error("error", err))
	}
	defer session.Close()

	if *listPorts {
		for _, p := range session.Ports() {
			fmt.Println(p)
		}
		return
	}

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	if args[0] == "mcp" {
		if err := mcpserver.Serve(mcpserver.New(session, log, version)); err != nil {
			log.Fatal("MCP server error", log.Field().Error("error", err))
		}
		return
	}

	res, err := session.Open(cfg.Port)
	if err != nil {
		log.Fatal("Failed to connect", log.Field().String("port", cfg.Port), log.Field().Error("error", err))
	}
	log.Info("Connected", log.Field().String("port", res.Port), log.Field().String("protocol", string(session.Protocol())))

	if err := run(session, cfg, args); err != nil {
		log.Error("Command failed", log.Field().String("command", args[0]), log.Field().Error("error", err))
		session.Close()
		os.Exit(1)
	}
}

func run(session *midi.Session, cfg *config.Config, args []string) error {
	cmd, rest := args[0], args[1:]
	nums := func(n int) ([]int, error) {
		if len(rest) != n {
			return nil, fmt.Errorf("%s takes %d arguments, got %d", cmd, n, len(rest))
		}
		out := make([]int, n)
		for i, a := range rest {
			v, err := strconv.Atoi(a)
			if err != nil {
				return nil, fmt.Errorf("argument %d: %w", i+1, err)
			}
			out[i] = v
		}
		return out, nil
	}

	switch cmd {
	case "patch":
		v, err := nums(4)
		if err != nil {
			return err
		}
		return session.SendPatchToZone(contracts.Patch{BankMSB: v[1], BankLSB: v[2], Program: v[3]}, v[0])

	case "enable":
		if len(rest) != 2 || (rest[1] != "on" && rest[1] != "off") {
			return fmt.Errorf("usage: enable <zone> on|off")
		}
		z, err := strconv.Atoi(rest[0])
		if err != nil {
			return err
		}
		return session.SetZoneEnabled(z, rest[1] == "on")

	case "octave":
		v, err := nums(2)
		if err != nil {
			return err
		}
		return session.Zones().ZoneOctave(v[0], v[1])

	case "range":
		v, err := nums(3)
		if err != nil {
			return err
		}
		return session.Zones().ZoneKeyRange(v[0], contracts.Key(v[1]), contracts.Key(v[2]))

	case "split", "reset":
		sysex, ok := session.SysEx()
		if !ok {
			return fmt.Errorf("%s requires -protocol sysex", cmd)
		}
		if cmd == "split" {
			return sysex.SetupSplit(cfg.SplitSetup())
		}
		return sysex.Reset()

	case "identify":
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		id, err := session.Identify(ctx)
		if err != nil {
			return err
		}
		fmt.Println(id)
		return nil

	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}
