// Package apiresponses provides the standardized JSON response helpers
// shared by the notification API handlers, keeping the wire envelope
// consistent across endpoints.
package apiresponses
