// Package log sets up the diagnostic logger. The terminal belongs to the
// TUI, so logs go to a dated file or nowhere.
package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/sirupsen/logrus"

	"github.com/llehouerou/tilawa/internal/config"
)

const appDir = "tilawa"

// Setup returns a logger configured from cfg and a function that closes
// its file. When logging is disabled every entry is discarded.
func Setup(cfg config.LogConfig, now time.Time) (*logrus.Logger, func() error, error) {
	if !cfg.Enabled {
		return Discard(), func() error { return nil }, nil
	}

	path, err := logPath(cfg.Dir, now)
	if err != nil {
		return nil, nil, err
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	logger := logrus.New()
	logger.SetOutput(f)
	if cfg.JSON {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	}

	lvl, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)

	return logger, f.Close, nil
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func logPath(dir string, now time.Time) (string, error) {
	filename := now.Format("2006-01-02") + ".log"
	if dir == "" {
		return xdg.StateFile(filepath.Join(appDir, filename))
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create log directory: %w", err)
	}
	return filepath.Join(dir, filename), nil
}
