package common

import (
	"fmt"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Transport configuration structs
// --------------------------------------------------------------------------

// SocketConf holds socket options shared by all stream transports
type SocketConf struct {
	// WriteBufferSize is the size of the kernel write buffer in bytes (0 = system default)
	WriteBufferSize int
	// ReadBufferSize is the size of the kernel read buffer in bytes (0 = system default)
	ReadBufferSize int
}

// TCPConf holds options that only apply to tcp connections
type TCPConf struct {
	// TCPNoDelay disables Nagle's algorithm
	TCPNoDelay bool
	// TCPKeepAliveSec is the keep-alive period in seconds (0 = disabled)
	TCPKeepAliveSec int
	// TCPLingerSec is the linger timeout in seconds (0 = system default)
	TCPLingerSec int
}

// TransportConfig bundles all transport tuning options
type TransportConfig struct {
	SocketConf
	TCPConf
}

// --------------------------------------------------------------------------
// RPC server configuration struct
// --------------------------------------------------------------------------

// ServerConfig holds all configuration parameters for the server.
type ServerConfig struct {
	// Endpoint is the address (tcp) or socket path (unix) to listen on
	Endpoint string
	// HTTPEndpoint is the address of the landing page and metrics server (empty = disabled)
	HTTPEndpoint string
	// TimeoutSecond is the write timeout for responses (0 = none)
	TimeoutSecond int64

	// Credentials every session must present with its auth message
	User     string
	Password string

	// Snapshot settings
	SnapshotPath             string
	SnapshotBackend          string
	FlushIntervalMillisecond int64

	// Logging configuration
	LogLevel string
	LogColor string

	// Transport tuning
	Transport TransportConfig
}

// FlushInterval returns the snapshot interval as a duration
func (c *ServerConfig) FlushInterval() time.Duration {
	return time.Duration(c.FlushIntervalMillisecond) * time.Millisecond
}

// Timeout returns the write timeout as a duration
func (c *ServerConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecond) * time.Second
}

// String returns a formatted string representation of the configuration.
// The password is never printed.
func (c *ServerConfig) String() string {
	var sb strings.Builder
	addSection, addField := formatHelpers(&sb)

	// RPC settings
	addSection("RPC Server")
	addField("Endpoint", c.Endpoint)
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))
	addField("User", c.User)
	addField("Password", maskPassword(c.Password))

	// Landing page
	addSection("HTTP")
	if c.HTTPEndpoint == "" {
		addField("Endpoint", "disabled")
	} else {
		addField("Endpoint", c.HTTPEndpoint)
	}

	// Persistence
	addSection("Snapshot")
	addField("Path", c.SnapshotPath)
	addField("Backend", c.SnapshotBackend)
	addField("Flush Interval", fmt.Sprintf("%d ms", c.FlushIntervalMillisecond))

	// Logging configuration
	addSection("Logging")
	addField("Log Level", c.LogLevel)
	addField("Log Color", c.LogColor)

	addTransport(addSection, addField, c.Transport)
	return sb.String()
}

// --------------------------------------------------------------------------
// RPC client configuration struct
// --------------------------------------------------------------------------

// ClientConfig holds the parameters to connect to a server
type ClientConfig struct {
	// Endpoint is the address (tcp) or socket path (unix) of the server
	Endpoint string
	// TimeoutSecond is the read and write timeout per request (0 = none)
	TimeoutSecond int

	// Credentials sent with the auth message
	User     string
	Password string

	// Transport tuning
	Transport TransportConfig
}

// Timeout returns the request timeout as a duration
func (c *ClientConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecond) * time.Second
}

// String returns a formatted string representation of the client configuration.
// The password is never printed.
func (c *ClientConfig) String() string {
	var sb strings.Builder
	addSection, addField := formatHelpers(&sb)

	addSection("Client Configuration")
	addField("Endpoint", c.Endpoint)
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))
	addField("User", c.User)
	addField("Password", maskPassword(c.Password))

	addTransport(addSection, addField, c.Transport)
	return sb.String()
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func formatHelpers(sb *strings.Builder) (addSection func(string), addField func(string, string)) {
	addSection = func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}
	addField = func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}
	return
}

func addTransport(addSection func(string), addField func(string, string), t TransportConfig) {
	addSection("Transport")
	addField("Write Buffer", bufferSize(t.WriteBufferSize))
	addField("Read Buffer", bufferSize(t.ReadBufferSize))
	addField("TCP No Delay", fmt.Sprintf("%t", t.TCPNoDelay))
	addField("TCP Keep Alive", fmt.Sprintf("%d sec", t.TCPKeepAliveSec))
	addField("TCP Linger", fmt.Sprintf("%d sec", t.TCPLingerSec))
}

func bufferSize(n int) string {
	if n <= 0 {
		return "system default"
	}
	return fmt.Sprintf("%d bytes", n)
}

func maskPassword(p string) string {
	if p == "" {
		return "(empty)"
	}
	return "********"
}
