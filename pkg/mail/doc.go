// Package mail provides the outbound SMTP transport for the notification
// server: message construction, send retries with backoff, and the startup
// connectivity probe.
package mail
