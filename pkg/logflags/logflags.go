package logflags

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultLogDesc means log to standard error.
const DefaultLogDesc = ""

var (
	scanner = false
	shell   = false

	logOut zapcore.WriteSyncer = zapcore.Lock(os.Stderr)
)

// Setup enables the log layers listed in logstr (comma separated) and
// redirects log output to logDest when it names a file.
func Setup(logFlag bool, logstr string, logDest string) error {
	if logDest != DefaultLogDesc {
		f, err := os.OpenFile(logDest, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return err
		}
		logOut = zapcore.Lock(f)
	}

	if !logFlag {
		return nil
	}

	if logstr == "" {
		logstr = "scanner"
	}

	for _, layer := range strings.Split(logstr, ",") {
		switch layer {
		case "scanner":
			scanner = true
		case "shell":
			shell = true
		default:
			return fmt.Errorf("invalid log layer: %s", layer)
		}
	}

	return nil
}

// Scanner returns true if the scanner layer should log debug output.
func Scanner() bool {
	return scanner
}

// ScannerLogger returns a configured logger for the scan engine.
func ScannerLogger() Logger {
	return makeLogger(scanner, "scanner")
}

// Shell returns true if the shell layer should log debug output.
func Shell() bool {
	return shell
}

// ShellLogger returns a configured logger for the interactive shell.
func ShellLogger() Logger {
	return makeLogger(shell, "shell")
}

func makeLogger(flag bool, layer string) *zap.SugaredLogger {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:      "timestamp",
		LevelKey:     "level",
		MessageKey:   "message",
		EncodeLevel:  zapcore.CapitalLevelEncoder,
		EncodeTime:   zapcore.ISO8601TimeEncoder,
		EncodeCaller: zapcore.ShortCallerEncoder,
	}

	// Warnings stay visible even for disabled layers; the flag only
	// gates the debug chatter.
	level := zapcore.WarnLevel
	if flag {
		level = zapcore.DebugLevel
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.NewMultiWriteSyncer(logOut),
		level,
	)

	return zap.New(core, zap.AddCaller()).Sugar().With("layer", layer)
}
