// Package logging configures the log/slog loggers used by tfxmock.
//
// Embedded servers default to Nop so tests stay quiet. The standalone
// launcher builds a logger from its flags:
//
//	logger := logging.New(logging.Config{
//	    Level:  logging.ParseLevel("debug"),
//	    Format: logging.FormatJSON,
//	})
//
//	logger.Info("server started", "url", srv.BaseURL())
//
// When Config.Tee is set, every record is also written as JSON to it, which
// is how the launcher keeps a machine-readable log file next to the console
// output.
package logging
