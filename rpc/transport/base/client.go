package base

import (
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/ValentinKolb/rediDB/rpc/common"
	"github.com/ValentinKolb/rediDB/rpc/transport"
)

// -----------------------------------------------------------
// Interface Definitions for dependency injection
// -----------------------------------------------------------

// IClientConnector defines the interface for transport-specific connection operations
type IClientConnector interface {
	// Connect establishes a single connection to the endpoint
	Connect(endpoint string) (net.Conn, error)

	// GetName returns the name of the transport type (e.g., "unix", "tcp")
	GetName() string

	// UpgradeConnection applies protocol-specific settings to an established connection
	UpgradeConnection(conn net.Conn, config common.ClientConfig) error
}

// -----------------------------------------------------------
// Helper Types
// -----------------------------------------------------------

// clientTransport implements the core client transport functionality
// independent of the specific transport medium (unix, tcp, etc.)
type clientTransport struct {
	connector IClientConnector
	config    common.ClientConfig
	mu        sync.Mutex // One request in flight, responses carry no id
	conn      net.Conn
	buf       []byte
}

// -----------------------------------------------------------
// Transport Factory Method (used for tcp, unix, etc.)
// -----------------------------------------------------------

// NewBaseClientTransport creates a new base client transport with the specified connector
func NewBaseClientTransport(connector IClientConnector) transport.IRPCClientTransport {
	return &clientTransport{
		connector: connector,
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IRPCClientTransport)
// --------------------------------------------------------------------------

func (t *clientTransport) Connect(config common.ClientConfig) error {
	if config.Endpoint == "" {
		return fmt.Errorf("no endpoint provided")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	// Close an existing connection
	if t.conn != nil {
		t.conn.Close()
		t.conn = nil
	}

	conn, err := t.connector.Connect(config.Endpoint)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %v", config.Endpoint, err)
	}

	// Upgrade the connection with protocol-specific settings
	if err := t.connector.UpgradeConnection(conn, config); err != nil {
		conn.Close()
		return fmt.Errorf("failed to upgrade connection to %s: %v", config.Endpoint, err)
	}

	t.config = config
	t.conn = conn
	Logger.Debugf("Connected to %s using %s transport", config.Endpoint, t.connector.GetName())
	return nil
}

func (t *clientTransport) Send(req []byte) (resp []byte, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.conn == nil {
		return nil, fmt.Errorf("connection is closed")
	}

	// Set deadline for the whole round trip
	if timeout := t.config.Timeout(); timeout > 0 {
		if err := t.conn.SetDeadline(time.Now().Add(timeout)); err != nil {
			t.drop()
			return nil, err
		}
	}

	// after a failed round trip a late response may still arrive, and
	// without request ids it would answer the next request
	if err := writeFrame(t.conn, req); err != nil {
		t.drop()
		return nil, fmt.Errorf("failed to send request: %v", err)
	}

	data, err := readFrame(t.conn, t.buf)
	if err != nil {
		t.drop()
		return nil, fmt.Errorf("error reading response: %v", err)
	}

	// keep a grown buffer for the next response, return a copy
	if cap(data) > cap(t.buf) {
		t.buf = data[:cap(data)]
	}
	resp = make([]byte, len(data))
	copy(resp, data)
	return resp, nil
}

func (t *clientTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.conn == nil {
		return nil
	}
	err := t.conn.Close()
	t.conn = nil
	return err
}

// drop closes a connection that is out of sync. Callers hold t.mu.
func (t *clientTransport) drop() {
	Logger.Warningf("Closing connection to %s after failed request", t.config.Endpoint)
	_ = t.conn.Close()
	t.conn = nil
}
