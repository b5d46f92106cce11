// Package transport defines the interfaces for moving serialized messages
// between the rediDB server and its clients.
//
// Every client holds exactly one persistent connection. The connection is
// authenticated once and then carries commands one at a time: each request
// is answered by exactly one response, in order, without request ids.
//
// Key Components:
//
//   - IMessageChannel: one connection that sends and receives whole messages.
//
//   - IRPCServerTransport: accepts connections and hands each one to a
//     ServerSessionFunc on its own goroutine.
//
//   - IRPCClientTransport: a single connection used in request/response
//     fashion by the RPC client.
//
// Implementations live in the base (framing, accept loop), tcp and unix packages.
package transport
