package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/nhle/mail-console/internal/model"
)

// NewLogger creates a zerolog.Logger that appends to cfg.LogFile. The
// terminal belongs to the UI, so nothing is written to stdout or stderr.
// The returned closer releases the log file.
func NewLogger(cfg *model.AppConfig) (zerolog.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o700); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("creating log directory: %w", err)
	}

	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("opening log file %s: %w", cfg.LogFile, err)
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	logger := zerolog.New(f).With().
		Timestamp().
		Str("service", "mailconsole").
		Logger().
		Level(level)

	return logger, f, nil
}
