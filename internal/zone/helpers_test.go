package zone

import (
	"testing"
	"time"

	"github.com/leandrodaf/gorzone/internal/conn"
	"github.com/leandrodaf/gorzone/internal/logger"
	"github.com/leandrodaf/gorzone/internal/midi/midifake"
)

const testPort = "GO:PIANO"

// connected returns a manager bound to a fake port.
func connected(t *testing.T) (*conn.Manager, *midifake.Transport) {
	t.Helper()
	fake := midifake.New(testPort)
	m := conn.NewManager(fake, logger.NewNopLogger(), 0)
	if _, err := m.Open(testPort); err != nil {
		t.Fatalf("Open: %v", err)
	}
	return m, fake
}

func disconnected() (*conn.Manager, *midifake.Transport) {
	fake := midifake.New(testPort)
	return conn.NewManager(fake, logger.NewNopLogger(), 0), fake
}

// sleepRecorder replaces time.Sleep in SysExController.
type sleepRecorder struct {
	calls []time.Duration
}

func (s *sleepRecorder) sleep(d time.Duration) {
	s.calls = append(s.calls, d)
}

func (s *sleepRecorder) total() time.Duration {
	var sum time.Duration
	for _, d := range s.calls {
		sum += d
	}
	return sum
}
