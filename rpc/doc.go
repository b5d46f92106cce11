// Package rpc provides the network layer of rediDB. A client opens a
// session, authenticates once and then issues commands against the record
// store of the server, one request and one response at a time.
//
// The package is organized into several subpackages:
//
//   - common: Core data structures used across the RPC system, including the
//     Message protocol, configuration structures, and logging.
//
//   - transport: Length-prefixed message channels with pluggable stream
//     implementations (TCP, Unix sockets).
//
//   - serializer: Message serialization (JSON, GOB) for converting between
//     Message objects and byte arrays.
//
//   - server: Session handling (auth handshake, command dispatch) and the
//     server lifecycle including snapshot persistence.
//
//   - client: An RPC client implementing the store interface, allowing
//     applications to use a remote store transparently.
//
//   - landing: The optional HTTP landing page and Prometheus metrics endpoint.
package rpc
