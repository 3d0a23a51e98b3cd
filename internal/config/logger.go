package config

import (
	"log/slog"
	"os"
)

// InitLogger installs a JSON handler as the default logger, so slog.Info and
// friends can be used anywhere.
func InitLogger(level slog.Level) *slog.Logger {
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	l := slog.New(h)
	slog.SetDefault(l)
	return l
}
