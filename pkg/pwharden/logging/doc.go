// Package logging is a small context-aware facade over log/slog.
//
//	logger := logging.New(nil) // slog.Default()
//	logger.Debug(ctx, "blinded element sent", "role", "client")
//
// Secrets are represented by Redacted attributes, never by their values:
//
//	logger.Debug(ctx, "key derived", logging.Redacted("key"))
//	// key="[redacted]"
package logging
