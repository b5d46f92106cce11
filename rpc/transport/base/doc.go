// Package base provides the foundation for the stream transports of rediDB,
// independent of the specific network protocol (TCP, Unix sockets, etc.).
// Protocol-specific packages only provide connectors.
//
// Frame format:
//
//	4 bytes  payload length (uint32, big endian)
//	N bytes  payload (one serialized common.Message)
//
// Frames larger than MaxFrameSize are rejected.
//
// Key Components:
//
//   - IClientConnector/IServerConnector: Interfaces for protocol-specific operations
//     (dialing, listening, socket options).
//
//   - NewFrameChannel: wraps a net.Conn into a transport.IMessageChannel.
//     Sends may carry a write deadline, reads never time out so idle sessions
//     stay open.
//
//   - serverTransport: accepts connections and starts the registered session
//     handler for each of them on its own goroutine. Close stops the accept loop.
//
//   - clientTransport: a single connection used strictly in request/response
//     order. Frame headers are written together with the payload via net.Buffers.
//
// Thread Safety:
//
//	All public methods are thread-safe. The client allows one request in flight
//	at a time; a channel allows one concurrent reader and one concurrent writer.
package base
