// Package tcp implements the TCP socket transport of the rediDB RPC system.
// It provides the connectors for the base package; framing, the accept loop
// and the request/response client come from there.
//
// Key Components:
//
//   - clientConnector: dials the server and applies TCPConf / SocketConf options
//
//   - serverConnector: listens on the configured endpoint and tunes every
//     accepted connection the same way
package tcp
