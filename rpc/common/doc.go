// Package common provides the data structures shared by the rediDB server,
// the client and the transports. It defines the wire message, the
// configuration structures and the logging setup.
//
// The package focuses on:
//   - Message protocol definition shared by client and server
//   - Configuration structures for client and server components
//   - Custom logging implementation integrated with Dragonboat's logger
//
// Key Components:
//
//   - Message: The envelope of every frame exchanged in a session. A single
//     struct carries requests and responses; the "event" field selects the
//     command and the "ok" field is always present in responses. Factory
//     functions build the request and response of every command.
//
//   - MessageType: Enumeration of all events (auth, alert, error, get, query,
//     createDatabase, add, edit, delete). Types are serialized by name.
//
//   - ServerConfig: Listen endpoints, credentials, snapshot settings, logging
//     options and transport tuning of the server.
//
//   - ClientConfig: Endpoint, credentials, timeout and transport tuning of a
//     client connection.
//
//   - Logger: Named loggers registered with Dragonboat's logger factory. Levels
//     are colored when the output is a terminal (see InitLoggers).
package common
