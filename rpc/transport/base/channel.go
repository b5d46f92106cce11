package base

import (
	"net"
	"sync"
	"time"

	"github.com/ValentinKolb/rediDB/rpc/transport"
)

// frameChannel implements transport.IMessageChannel on top of a stream
// connection using length prefixed frames
type frameChannel struct {
	conn         net.Conn
	writeTimeout time.Duration
	readMu       sync.Mutex // Serializes readers
	writeMu      sync.Mutex // Serializes writers, a frame must not be interleaved
	closeOnce    sync.Once
	closeErr     error
}

// NewFrameChannel wraps a connection into a message channel.
// writeTimeout limits every Send (0 = no limit); reads never time out.
func NewFrameChannel(conn net.Conn, writeTimeout time.Duration) transport.IMessageChannel {
	return &frameChannel{
		conn:         conn,
		writeTimeout: writeTimeout,
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IMessageChannel)
// --------------------------------------------------------------------------

func (c *frameChannel) Receive() ([]byte, error) {
	c.readMu.Lock()
	defer c.readMu.Unlock()

	// always a fresh buffer, the caller keeps the message
	return readFrame(c.conn, nil)
}

func (c *frameChannel) Send(msg []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if c.writeTimeout > 0 {
		if err := c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
			return err
		}
	}
	return writeFrame(c.conn, msg)
}

func (c *frameChannel) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.conn.Close()
	})
	return c.closeErr
}

func (c *frameChannel) RemoteAddr() string {
	if addr := c.conn.RemoteAddr(); addr != nil && addr.String() != "" {
		return addr.String()
	}
	return "local"
}
