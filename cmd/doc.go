// Package cmd implements the command-line interface of rediDB. It provides
// a hierarchical command structure for running the server and for talking to
// a running server as a client.
//
// The package is organized into several subpackages:
//
//   - serve: Starts and configures the rediDB server
//   - db: Client commands for collections and records (create, add, get, query, edit, delete, perf)
//   - util: Shared utilities for flag handling and configuration (internal use)
//
// Every flag can also be set through an environment variable named
// REDIDB_<FLAG> (dashes become underscores). Values from .env and .env.local
// in the working directory are loaded first.
//
// See redidb -help for a list of all commands.
package cmd
