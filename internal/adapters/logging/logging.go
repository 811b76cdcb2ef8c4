// Package logging builds the zap logger used by long-running components
// (server, watcher, reloads). One-shot CLI output does not go through it.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Conf holds logger options.
type Conf struct {
	Output     string `mapstructure:"output"` // "stderr", "stdout" or "file"
	Path       string `mapstructure:"path"`   // directory for file output
	Filename   string `mapstructure:"filename"`
	Level      string `mapstructure:"level"`      // debug, info, warn, error
	RotateSize int    `mapstructure:"rotateSize"` // MB per file
	RotateNum  int    `mapstructure:"rotateNum"`  // rotated files to keep
	KeepDays   int    `mapstructure:"keepDays"`
}

// Defaults returns the default configuration.
func Defaults() Conf {
	return Conf{
		Output:     "stderr",
		Filename:   "daemon.log",
		Level:      "info",
		RotateSize: 10,
		RotateNum:  3,
		KeepDays:   7,
	}
}

// Validate fills zero rotation settings and checks file output has a path.
func (c *Conf) Validate() error {
	switch c.Output {
	case "", "stderr", "stdout":
	case "file":
		if c.Path == "" {
			return fmt.Errorf("log path is required when output is 'file'")
		}
		if c.Filename == "" {
			c.Filename = "daemon.log"
		}
		if c.RotateSize <= 0 {
			c.RotateSize = 10
		}
		if c.RotateNum <= 0 {
			c.RotateNum = 3
		}
		if c.KeepDays <= 0 {
			c.KeepDays = 7
		}
	default:
		return fmt.Errorf("unknown log output %q", c.Output)
	}
	if _, err := zapcore.ParseLevel(strings.ToLower(c.Level)); c.Level != "" && err != nil {
		return fmt.Errorf("invalid log level %q", c.Level)
	}
	return nil
}

// New builds a logger from conf.
func New(conf Conf) (*zap.Logger, error) {
	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("invalid log config: %w", err)
	}

	var ws zapcore.WriteSyncer
	switch conf.Output {
	case "file":
		ws = fileWriter(conf)
	case "stdout":
		ws = zapcore.AddSync(os.Stdout)
	default:
		ws = zapcore.AddSync(os.Stderr)
	}

	core := zapcore.NewCore(encoder(), ws, parseLevel(conf.Level))
	return zap.New(core, zap.AddCaller()), nil
}

// fileWriter returns a size-rotated file sink.
func fileWriter(conf Conf) zapcore.WriteSyncer {
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   filepath.Join(conf.Path, conf.Filename),
		MaxSize:    conf.RotateSize,
		MaxBackups: conf.RotateNum,
		MaxAge:     conf.KeepDays,
		Compress:   true,
	})
}

func encoder() zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "time"
	cfg.MessageKey = "msg"
	cfg.EncodeTime = zapcore.RFC3339TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.EncodeDuration = zapcore.StringDurationEncoder
	cfg.EncodeCaller = zapcore.ShortCallerEncoder
	return zapcore.NewConsoleEncoder(cfg)
}

func parseLevel(level string) zapcore.Level {
	l, err := zapcore.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zapcore.InfoLevel
	}
	return l
}
