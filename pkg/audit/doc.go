// Package audit emits delivery audit events (received, rejected, sent,
// failed, partial) to pluggable sinks: a structured-log sink that is always
// active, and an optional Kafka sink. Events are an outbound stream only;
// the notification server stores no delivery history itself.
package audit
