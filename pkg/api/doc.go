// Package api provides the HTTP server for the notification gateway: gin
// engine setup with structured access logging, recovery and CORS, the
// controller registration contract, and the health/root/metrics endpoints.
package api
