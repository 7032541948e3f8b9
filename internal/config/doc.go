// Package config provides configuration loading, merging, and validation
// facilities for the vault-sync server.
//
// Configuration is assembled from multiple sources in the following priority
// order (earlier sources win for fields set in more than one source):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON config file
//
// The main entry point is [GetStructuredConfig].
package config
