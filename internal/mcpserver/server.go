// Package mcpserver exposes a session as MCP tools over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/leandrodaf/gorzone/sdk/contracts"
	"github.com/leandrodaf/gorzone/sdk/midi"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// identifyTimeout bounds how long the identify tool waits for a reply.
const identifyTimeout = 2 * time.Second

type handlers struct {
	session *midi.Session
	logger  contracts.Logger
}

// New returns an MCP server whose tools drive session.
func New(session *midi.Session, logger contracts.Logger, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"gorzone",
		version,
		server.WithToolCapabilities(false),
	)
	h := &handlers{session: session, logger: logger}

	s.AddTool(mcp.NewTool("gorzone_list-ports",
		mcp.WithDescription("Lists the MIDI output ports that can be connected to."),
	), h.listPorts)

	s.AddTool(mcp.NewTool("gorzone_connect",
		mcp.WithDescription("Connects to a MIDI output port. Any previous connection is closed first."),
		mcp.WithString("port", mcp.Description("Exact port name. Empty selects the first port.")),
	), h.connect)

	s.AddTool(mcp.NewTool("gorzone_send-patch",
		mcp.WithDescription("Selects a tone on a zone by bank select and program number."),
		mcp.WithNumber("zone", mcp.Required(), mcp.Description("Zone number (1-16).")),
		mcp.WithNumber("bank_msb", mcp.Required(), mcp.Description("Bank select MSB (0-127).")),
		mcp.WithNumber("bank_lsb", mcp.Required(), mcp.Description("Bank select LSB (0-127).")),
		mcp.WithNumber("program", mcp.Required(), mcp.Description("Program number (0-127).")),
	), h.sendPatch)

	s.AddTool(mcp.NewTool("gorzone_enable-zone",
		mcp.WithDescription("Switches a zone on or off."),
		mcp.WithNumber("zone", mcp.Required(), mcp.Description("Zone number (1-16).")),
		mcp.WithBoolean("enabled", mcp.Required(), mcp.Description("true to enable, false to disable.")),
	), h.enableZone)

	s.AddTool(mcp.NewTool("gorzone_identify",
		mcp.WithDescription("Asks the connected instrument for its identity."),
	), h.identify)

	return s
}

// Serve runs s on stdin and stdout until the client goes away.
func Serve(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

func (h *handlers) listPorts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ports := h.session.Ports()
	if ports == nil {
		ports = []string{}
	}
	asJson, err := json.Marshal(ports)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal ports: %w", err)
	}
	return mcp.NewToolResultText(string(asJson)), nil
}

func (h *handlers) connect(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	port := request.GetString("port", "")
	h.logger.Info("mcp connect", h.logger.Field().String("port", port))

	res, err := h.session.Open(port)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	msg := fmt.Sprintf("Connected to %s.", res.Port)
	if !res.InputOpen {
		msg += " Input not available; replies from the instrument will not be seen."
	}
	return mcp.NewToolResultText(msg), nil
}

func (h *handlers) sendPatch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args [4]int
	for i, key := range []string{"zone", "bank_msb", "bank_lsb", "program"} {
		v, err := request.RequireInt(key)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		args[i] = v
	}
	zone := args[0]
	patch := contracts.Patch{BankMSB: args[1], BankLSB: args[2], Program: args[3]}

	if err := h.session.SendPatchToZone(patch, zone); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Patch %d/%d/%d sent to zone %d.", patch.BankMSB, patch.BankLSB, patch.Program, zone)), nil
}

func (h *handlers) enableZone(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	zone, err := request.RequireInt("zone")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	enabled, err := request.RequireBool("enabled")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := h.session.SetZoneEnabled(zone, enabled); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	state := "disabled"
	if enabled {
		state = "enabled"
	}
	return mcp.NewToolResultText(fmt.Sprintf("Zone %d %s.", zone, state)), nil
}

func (h *handlers) identify(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctx, cancel := context.WithTimeout(ctx, identifyTimeout)
	defer cancel()

	id, err := h.session.Identify(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(id.String()), nil
}
