// Package cmd implements the notifyctl command tree: health checks and
// test notifications against a running notification server.
package cmd
