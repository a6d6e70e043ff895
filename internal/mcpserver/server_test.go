package mcpserver

import (
	"context"
	"strings"
	"testing"

	"github.com/leandrodaf/gorzone/internal/logger"
	"github.com/leandrodaf/gorzone/internal/midi/midifake"
	"github.com/leandrodaf/gorzone/sdk/contracts"
	"github.com/leandrodaf/gorzone/sdk/midi"
	"github.com/mark3labs/mcp-go/mcp"
)

func newHandlers(t *testing.T) (*handlers, *midifake.Transport) {
	t.Helper()
	fake := midifake.New("GO:PIANO")
	log := logger.NewNopLogger()
	s, err := midi.NewSession(contracts.WithLogger(log), contracts.WithTransportInstance(fake))
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return &handlers{session: s, logger: log}, fake
}

func call(t *testing.T, fn func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (string, bool) {
	t.Helper()
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	res, err := fn(context.Background(), req)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var text []string
	for _, c := range res.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			text = append(text, tc.Text)
		}
	}
	return strings.Join(text, "\n"), res.IsError
}

func TestNew(t *testing.T) {
	h, _ := newHandlers(t)
	if s := New(h.session, h.logger, "test"); s == nil {
		t.Fatal("New returned nil")
	}
}

func TestTools(t *testing.T) {
	h, fake := newHandlers(t)

	if text, isErr := call(t, h.listPorts, nil); isErr || text != `["GO:PIANO"]` {
		t.Fatalf("list ports = %q (error=%v)", text, isErr)
	}

	if text, isErr := call(t, h.sendPatch, map[string]any{"zone": 1.0, "bank_msb": 87.0, "bank_lsb": 70.0, "program": 118.0}); !isErr {
		t.Fatalf("send patch while disconnected succeeded: %q", text)
	}

	if text, isErr := call(t, h.connect, map[string]any{"port": "nope"}); !isErr {
		t.Fatalf("connect to unknown port succeeded: %q", text)
	}
	if text, isErr := call(t, h.connect, map[string]any{}); isErr || !strings.Contains(text, "GO:PIANO") {
		t.Fatalf("connect = %q (error=%v)", text, isErr)
	}

	if text, isErr := call(t, h.sendPatch, map[string]any{"zone": 2.0, "bank_msb": 87.0, "bank_lsb": 70.0, "program": 118.0}); isErr {
		t.Fatalf("send patch: %q", text)
	}
	if text, isErr := call(t, h.enableZone, map[string]any{"zone": 2.0, "enabled": false}); isErr || text != "Zone 2 disabled." {
		t.Fatalf("enable zone = %q (error=%v)", text, isErr)
	}
	if _, isErr := call(t, h.enableZone, map[string]any{"zone": 17.0, "enabled": true}); !isErr {
		t.Fatal("zone 17 accepted")
	}
	if _, isErr := call(t, h.enableZone, map[string]any{"zone": 1.0}); !isErr {
		t.Fatal("missing argument accepted")
	}

	if n := len(fake.Writes()); n != 4 {
		t.Errorf("%d messages sent, want 4", n)
	}
}

func TestIdentifyTool(t *testing.T) {
	h, fake := newHandlers(t)
	if !h.session.Connect("GO:PIANO") {
		t.Fatal("Connect failed")
	}
	fake.Inject("GO:PIANO", []byte{0xF0, 0x7E, 0x10, 0x06, 0x02, 0x41, 0x2C, 0x02, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0xF7})

	text, isErr := call(t, h.identify, nil)
	if isErr || !strings.Contains(text, "family=2C 02") {
		t.Fatalf("identify = %q (error=%v)", text, isErr)
	}
}
