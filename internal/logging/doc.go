// Package logging wires log/slog with the handlers sprocket uses.
//
// Two output formats are supported: a console handler that renders one
// compact line per record with a component prefix and key=value attributes,
// and a JSON handler for machine consumption. Components obtain loggers via
// NewComponentLogger so the component attribute stays consistent; tests use
// NewNop.
package logging
