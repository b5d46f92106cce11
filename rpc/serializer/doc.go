// Package serializer provides message serialization for the rediDB RPC system.
// It defines a common interface and two implementations for turning
// common.Message values into frames and back.
//
// Key Components:
//
//   - IRPCSerializer: Core interface that all serializer implementations must satisfy.
//
//   - jsonSerializerImpl: JSON encoding. This is the default and matches the
//     original event protocol ({"event": "get", "database": ...}), so clients
//     in any language can talk to the server.
//
//   - gobSerializerImpl: Go's gob encoding, only usable between Go peers.
//     Gob drops empty maps, so an empty record or query is received as nil;
//     the server treats both alike.
//
// Numbers: JSON decodes every number as float64, gob keeps the sender's Go type.
// Record comparison treats all numeric types alike, so both work with queries.
//
// Thread Safety:
//
//	All serializer implementations are stateless and safe for concurrent use
//	across multiple goroutines without additional synchronization.
//
// Usage:
//
//	s, err := serializer.NewSerializer("json")
//	data, err := s.Serialize(message)
//	// ... send data ...
//	var received common.Message
//	err = s.Deserialize(receivedData, &received)
package serializer
