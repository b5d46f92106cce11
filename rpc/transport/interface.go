package transport

import (
	"github.com/ValentinKolb/rediDB/rpc/common"
)

// --------------------------------------------------------------------------
// Message Channel
// --------------------------------------------------------------------------

// IMessageChannel is one persistent, bidirectional connection that carries
// whole messages. Messages arrive in the order they were sent.
type IMessageChannel interface {
	// Receive blocks until the next message arrives.
	// It returns io.EOF once the peer closed the connection.
	Receive() ([]byte, error)
	// Send writes one message. It is safe to call concurrently with Receive.
	Send(msg []byte) error
	// Close closes the underlying connection. Pending calls return an error.
	Close() error
	// RemoteAddr describes the peer, for logging
	RemoteAddr() string
}

// --------------------------------------------------------------------------
// Server Transport
// --------------------------------------------------------------------------

// ServerSessionFunc is called by a server transport once per accepted
// connection, on its own goroutine. The function owns the channel and must
// close it when done.
type ServerSessionFunc func(ch IMessageChannel)

// IRPCServerTransport is the interface for the RPC transport layer
// It must accept a ServerConfig as a parameter
type IRPCServerTransport interface {
	// RegisterHandler registers the session handler for the transport layer
	// It must be called before Listen
	RegisterHandler(handler ServerSessionFunc)
	// Listen starts the transport layer and accepts connections until Close
	// is called. It returns nil after Close.
	Listen(config common.ServerConfig) error
	// Close stops accepting new connections. Running sessions are not touched.
	Close() error
}

// --------------------------------------------------------------------------
// Client Transport
// --------------------------------------------------------------------------

// IRPCClientTransport is the interface for the RPC client transport
type IRPCClientTransport interface {
	// Connect initializes the transport with the given configuration
	Connect(config common.ClientConfig) error
	// Send sends a request to the server and returns the response
	Send(req []byte) (resp []byte, err error)
	// Close closes the transport connection
	Close() error
}
