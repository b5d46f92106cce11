package unix

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ValentinKolb/rediDB/rpc/common"
	"github.com/ValentinKolb/rediDB/rpc/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnixTransport(t *testing.T) {
	// socket paths are limited in length, keep it short
	dir, err := os.MkdirTemp("", "redidb")
	require.NoError(t, err)
	defer os.RemoveAll(dir)
	socket := filepath.Join(dir, "s.sock")

	server := NewUnixServerTransport()
	server.RegisterHandler(func(ch transport.IMessageChannel) {
		defer ch.Close()
		for {
			msg, err := ch.Receive()
			if err != nil {
				return
			}
			if err := ch.Send([]byte(strings.ToUpper(string(msg)))); err != nil {
				return
			}
		}
	})

	done := make(chan error, 1)
	go func() {
		done <- server.Listen(common.ServerConfig{Endpoint: socket, TimeoutSecond: 1})
	}()

	// two clients with their own sessions
	clients := make([]transport.IRPCClientTransport, 2)
	for i := range clients {
		c := NewUnixClientTransport()
		require.Eventually(t, func() bool {
			return c.Connect(common.ClientConfig{Endpoint: socket, TimeoutSecond: 1}) == nil
		}, 2*time.Second, 10*time.Millisecond)
		clients[i] = c
	}

	for i, c := range clients {
		resp, err := c.Send([]byte("hello"))
		require.NoError(t, err, i)
		assert.Equal(t, "HELLO", string(resp))
	}

	// close stops the accept loop without error
	require.NoError(t, server.Close())
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Listen did not return after Close")
	}

	// running sessions are not affected by Close
	resp, err := clients[0].Send([]byte("still"))
	require.NoError(t, err)
	assert.Equal(t, "STILL", string(resp))

	for _, c := range clients {
		assert.NoError(t, c.Close())
	}
}
