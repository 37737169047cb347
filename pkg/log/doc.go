// Package log provides structured protocol logging for the browse gateway.
//
// This package defines the Logger interface and Event types for capturing
// stanza-level events on the component stream and in the browse service.
// It is separate from operational logging (slog) - protocol capture provides
// a complete machine-readable event trace for debugging and analysis.
//
// # Basic Usage
//
// Applications configure logging by providing a Logger implementation:
//
//	// For development: log to console via slog
//	cfg.ProtocolLogger = log.NewSlogAdapter(slog.Default())
//
//	// For production: write to binary file
//	cfg.ProtocolLogger, _ = log.NewFileLogger("/var/log/browse-gw/stream.blog")
//
//	// Both: use MultiLogger
//	cfg.ProtocolLogger = log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    log.NewFileLogger("/var/log/browse-gw/stream.blog"),
//	)
//
// # Event Types
//
// Events are captured at two layers:
//   - Stream: stanzas crossing the component connection (StanzaEvent)
//   - Service: connection state changes and browse handling
//     (StateChangeEvent)
//
// Errors at any layer use a dedicated event type.
//
// # File Format
//
// Log files use CBOR encoding with integer keys. Reader streams them back,
// optionally filtered.
package log
