// Package unix implements the Unix domain socket transport of the rediDB RPC
// system, for clients running on the same machine as the server.
//
// The server removes a stale socket file at the endpoint path before
// listening. Framing and connection handling come from the base package.
package unix
