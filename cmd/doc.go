// Package cmd implements the command-line interface for the hotelier
// service. It provides a hierarchical command structure for running the
// server and the interactive client.
//
// The package is organized into several subpackages:
//
//   - serve: Commands for starting and configuring the hotelier server
//   - client: Commands for running the interactive client
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// See hotelier -help for a list of all commands.
package cmd
