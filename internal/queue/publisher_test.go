package queue

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// silentBroker accepts connections and never answers the AMQP handshake.
func silentBroker(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	var (
		mu   sync.Mutex
		held []net.Conn
	)
	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			mu.Lock()
			held = append(held, c)
			mu.Unlock()
		}
	}()
	t.Cleanup(func() {
		_ = ln.Close()
		mu.Lock()
		defer mu.Unlock()
		for _, c := range held {
			_ = c.Close()
		}
	})
	return "amqp://guest:guest@" + ln.Addr().String() + "/"
}

func TestPublishGivesUpOnSilentBroker(t *testing.T) {
	p := NewPublisher(silentBroker(t), zap.NewNop())
	p.dialTimeout = 200 * time.Millisecond

	start := time.Now()
	err := p.PublishLeadCreated(context.Background(), sampleEvent())

	assert.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestPublishHonoursCanceledContext(t *testing.T) {
	p := NewPublisher(silentBroker(t), zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := p.PublishLeadCreated(ctx, sampleEvent())

	assert.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}
