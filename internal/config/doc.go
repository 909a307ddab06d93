// Package config provides configuration loading, merging, and validation
// facilities for both sync peers.
//
// Configuration is assembled from multiple sources in the following priority
// order (later sources override earlier non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON config file
//
// The main entry points are [GetEdgeConfig] for the sending peer daemon and
// [GetStoreConfig] for the primary store daemon.
package config
