// Package logging provides config-driven categorized logging for AXIOM.
// Logs are written as JSON lines to <data dir>/logs/axiom.log.
// Logging is controlled by logging.debug_mode in axiom.yaml: when false every
// category logger is a no-op and nothing touches the disk.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"axiom/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot     Category = "boot"     // Boot/initialization
	CategoryStore    Category = "store"    // Application store commands
	CategoryAuth     Category = "auth"     // Biometric gate
	CategoryCheckout Category = "checkout" // Hold-to-confirm purchase
	CategoryVault    Category = "vault"    // Vault membership
	CategoryNotify   Category = "notify"   // Notification queue
	CategoryCurator  Category = "curator"  // Concierge API calls
	CategoryLedger   Category = "ledger"   // Manifest persistence
	CategoryUI       Category = "ui"       // Terminal presentation
)

var (
	mu      sync.RWMutex
	root    = zap.NewNop()
	cfg     config.LoggingConfig
	logFile *os.File
)

// Initialize sets up the logs directory and the root logger.
// With debug mode off it is a silent no-op. When stderr is true every entry is
// also written to the terminal, which the CLI subcommands use for --verbose.
func Initialize(logsDir string, lc config.LoggingConfig, stderr bool) error {
	mu.Lock()
	defer mu.Unlock()

	closeLocked()
	cfg = lc

	var cores []zapcore.Core
	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(lc.ZapLevel())); err != nil {
		return fmt.Errorf("failed to parse log level: %w", err)
	}

	if lc.DebugMode {
		if err := os.MkdirAll(logsDir, 0755); err != nil {
			return fmt.Errorf("failed to create logs directory: %w", err)
		}
		name := lc.File
		if name == "" {
			name = "axiom.log"
		}
		f, err := os.OpenFile(filepath.Join(logsDir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		logFile = f

		enc := zap.NewProductionEncoderConfig()
		enc.EncodeTime = zapcore.ISO8601TimeEncoder
		var encoder zapcore.Encoder = zapcore.NewJSONEncoder(enc)
		if lc.Format == "text" {
			encoder = zapcore.NewConsoleEncoder(enc)
		}
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(f), level))
	}

	if stderr {
		enc := zap.NewDevelopmentEncoderConfig()
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.Lock(os.Stderr), zapcore.DebugLevel))
		// --verbose shows every category regardless of the file filter
		cfg.DebugMode = true
		cfg.Categories = nil
	}

	if len(cores) == 0 {
		root = zap.NewNop()
		return nil
	}

	root = zap.New(zapcore.NewTee(cores...))
	root.Named(string(CategoryBoot)).Info("logging initialized",
		zap.String("dir", logsDir),
		zap.String("level", lc.ZapLevel()),
		zap.Bool("stderr", stderr))
	return nil
}

// IsCategoryEnabled returns whether a specific category is enabled
func IsCategoryEnabled(category Category) bool {
	mu.RLock()
	defer mu.RUnlock()
	return cfg.IsCategoryEnabled(string(category))
}

// Get returns a logger for the given category.
// Returns a no-op logger if debug mode is disabled or category is disabled.
func Get(category Category) *zap.Logger {
	if !IsCategoryEnabled(category) {
		return zap.NewNop()
	}
	mu.RLock()
	defer mu.RUnlock()
	return root.Named(string(category))
}

// CloseAll flushes and closes the log file.
func CloseAll() {
	mu.Lock()
	defer mu.Unlock()
	closeLocked()
	root = zap.NewNop()
	cfg = config.LoggingConfig{}
}

func closeLocked() {
	_ = root.Sync()
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}
