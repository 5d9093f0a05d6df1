package config

import (
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogWriter is the writer used for application and database logs.
var LogWriter io.Writer = os.Stdout

// Logger is the process-wide structured logger. It is a no-op until
// InitLogging runs.
var Logger = zap.NewNop()

// LogFilePath returns the path to the backend log file.
func LogFilePath() string {
	return filepath.Join("logs", "innovation-api.log")
}

// InitLogging builds the zap logger, writing to stdout and, when the file can
// be opened, to the log file as well. The returned file must be closed by the
// caller; it is nil when file logging is unavailable.
func InitLogging(cfg AppConfig) (*zap.Logger, *os.File) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeDuration = zapcore.MillisDurationEncoder

	var encoder zapcore.Encoder
	if cfg.IsProduction() {
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	} else {
		encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	}

	LogWriter = os.Stdout
	var logFile *os.File
	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), os.ModePerm); err == nil {
			logFile, err = os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err == nil {
				LogWriter = io.MultiWriter(os.Stdout, logFile)
			} else {
				logFile = nil
			}
		}
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(LogWriter), zap.NewAtomicLevelAt(level))
	Logger = zap.New(core, zap.AddCaller())
	zap.ReplaceGlobals(Logger)
	if logFile == nil && cfg.LogFile != "" {
		Logger.Warn("log file unavailable, logging to stdout only", zap.String("path", cfg.LogFile))
	}
	return Logger, logFile
}
