// Package logger provides a small factory around Go's slog package with
// functional options for configuration and helper attribute constructors.
//
// A single factory — New — creates a *slog.Logger configured by Option
// functions: output format (text or json), minimum level, destination writer,
// and static attributes applied to every record.
//
// Helper constructors such as Error, MessageID, and Destination live in
// attr.go and return commonly-used slog.Attr instances to keep attribute
// naming consistent across the codebase.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithFormat(logger.FormatText),
//	    logger.WithLevel(slog.LevelDebug),
//	)
//	logger.SetAsDefault(log)
//
//	log.Info("message sent",
//	    logger.MessageID(id),
//	    logger.Destination(to),
//	)
package logger
