package tracer

import (
	"bytes"
	"log/slog"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestInitTracingAndMetrics_OccupiedPortDoesNotCrash(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()

	out := &syncBuffer{}
	logger := slog.New(slog.NewTextHandler(out, nil))

	err = InitTracingAndMetrics(listener.Addr().String(), logger)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		return bytes.Contains([]byte(out.String()), []byte("Metrics server stopped"))
	}, 2*time.Second, 10*time.Millisecond)
}
