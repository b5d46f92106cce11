// Package client implements the RPC client of rediDB. NewRPCStore connects
// to a server, authenticates and returns an IRemoteStore, which implements
// store.IStore on top of the session protocol.
//
// The client sends one request at a time and waits for its response, as the
// protocol has no request ids. It is safe for concurrent use; requests from
// several goroutines are serialized.
//
// Failed commands are returned as *store.Error with the return code sent by
// the server, so callers can use store.IsCode just like with a local store.
// FindAll with an empty query is sent as a get command.
//
// Usage Example:
//
//	config := common.ClientConfig{
//	  Endpoint:      "localhost:8080",
//	  TimeoutSecond: 5,
//	  User:          "admin",
//	  Password:      "secret",
//	}
//
//	s, err := client.NewRPCStore(config, tcp.NewTCPClientTransport(), serializer.NewJSONSerializer())
//	if errors.Is(err, client.ErrAuthFailure) {
//	  // wrong credentials
//	}
//	defer s.Close()
//
//	_ = s.CreateCollection("users")
//	_ = s.Append("users", record.Record{"name": "a"})
//	users, _ := s.FindAll("users", record.Query{"name": "a"})
package client
