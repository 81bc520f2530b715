package switcher

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"audioswitcher/pkg/switcher/util"
)

const (
	logDirectory = "logs"
	logFilename  = "audioswitcher.log"
)

// NewLogger builds the application's sugared logger, writing both to stderr
// and to a log file next to the config. verbose lowers the level to debug.
func NewLogger(verbose bool) (*zap.SugaredLogger, error) {
	logDir := filepath.Join(xdg.ConfigHome, appDirName, logDirectory)
	if err := util.EnsureDirExists(logDir); err != nil {
		return nil, fmt.Errorf("ensure log directory: %w", err)
	}

	logFile, err := os.OpenFile(
		filepath.Join(logDir, logFilename),
		os.O_CREATE|os.O_APPEND|os.O_WRONLY,
		0644,
	)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewConsoleEncoder(encoderConfig)

	core := zapcore.NewCore(
		encoder,
		zapcore.NewMultiWriteSyncer(
			zapcore.Lock(os.Stderr),
			zapcore.Lock(logFile),
		),
		level,
	)

	return zap.New(core).Sugar(), nil
}
