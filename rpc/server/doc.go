// Package server implements the rediDB server: the session protocol, the
// mapping of commands to the store and the wiring of store, persistence,
// transport and landing page.
//
// Key Components:
//
//   - SessionHandler: runs one session per connection. A session starts
//     unauthenticated; the first successful auth message authenticates it, a
//     failed one is answered with a failure alert and closes the connection.
//     Commands before auth are answered with "Not authenticated!". Malformed
//     or unknown messages are answered with an error event and the session
//     goes on. Active sessions are tracked so they can be closed on shutdown.
//
//   - IRPCServerAdapter / NewIStoreServerAdapter: translates get, query,
//     createDatabase, add, edit and delete into store.IStore calls and store
//     errors into protocol responses. Every response echoes the command.
//
//   - RPCServer: creates the local store, loads the snapshot, starts the
//     periodic flush, the optional landing page and the transport. On SIGINT
//     or SIGTERM (or when the context passed to ServeContext is done) it stops
//     accepting, closes all sessions and writes a final snapshot.
//
// Usage Example:
//
//	config := common.ServerConfig{
//	  Endpoint:                 "0.0.0.0:8080",
//	  User:                     "admin",
//	  Password:                 "secret",
//	  SnapshotPath:             "./data.json",
//	  SnapshotBackend:          "json",
//	  FlushIntervalMillisecond: 2000,
//	  LogLevel:                 "info",
//	}
//
//	s := server.NewRPCServer(config, tcp.NewTCPServerTransport(), serializer.NewJSONSerializer())
//	if err := s.Serve(); err != nil {
//	  log.Fatalf("Server error: %v", err)
//	}
//
// Thread Safety:
//
//	Sessions run on their own goroutines and share one store, which serializes
//	all mutations. Within a session, commands are handled strictly one at a time.
package server
