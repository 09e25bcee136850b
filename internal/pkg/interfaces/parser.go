package interfaces

import "context"

// Parser is implemented by every crawler suite (one per source site).
type Parser interface {
	// Start starts the parser: one initial run, then wait for the
	// context (periodic re-runs are driven from outside via ParseOnce).
	Start(ctx context.Context) error

	// Stop stops the parser.
	Stop() error

	// GetName returns the parser name.
	GetName() string

	// ParseOnce triggers a single parsing run (on-demand parsing).
	ParseOnce(ctx context.Context) error
}
