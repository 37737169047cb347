package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes protocol events to an slog.Logger.
// Useful for development when you want to see stanza traffic in console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger at Debug level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("conn_id", event.ConnectionID),
		slog.String("direction", event.Direction.String()),
		slog.String("layer", event.Layer.String()),
		slog.String("category", event.Category.String()),
	}

	// Add optional identifiers
	if event.Domain != "" {
		attrs = append(attrs, slog.String("domain", event.Domain))
	}
	if event.RemoteAddr != "" {
		attrs = append(attrs, slog.String("remote_addr", event.RemoteAddr))
	}

	// Add type-specific attributes
	switch {
	case event.Stanza != nil:
		attrs = append(attrs,
			slog.String("stanza_id", event.Stanza.ID),
			slog.String("stanza_type", event.Stanza.Type),
		)
		if event.Stanza.From != "" {
			attrs = append(attrs, slog.String("from", event.Stanza.From))
		}
		if event.Stanza.To != "" {
			attrs = append(attrs, slog.String("to", event.Stanza.To))
		}
		if event.Stanza.Namespace != "" {
			attrs = append(attrs, slog.String("ns", event.Stanza.Namespace))
		}
	case event.StateChange != nil:
		attrs = append(attrs,
			slog.String("state_from", event.StateChange.From),
			slog.String("state_to", event.StateChange.To),
		)
		if event.StateChange.Reason != "" {
			attrs = append(attrs, slog.String("reason", event.StateChange.Reason))
		}
	case event.Error != nil:
		attrs = append(attrs, slog.String("error", event.Error.Message))
		if event.Error.Context != "" {
			attrs = append(attrs, slog.String("context", event.Error.Context))
		}
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "protocol event", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
