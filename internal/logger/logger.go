package logger

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/antigravity/answer-gateway/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New creates a new logger instance. The returned level is shared by every
// core so callers can change verbosity at runtime with SetLevel.
func New(cfg config.LoggingConfig) (*zap.Logger, zap.AtomicLevel, error) {
	// 确保日志目录存在
	if cfg.Output != "" {
		dir := filepath.Dir(cfg.Output)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, zap.AtomicLevel{}, fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	level := zap.NewAtomicLevelAt(parseLevel(cfg.Level))

	// 编码器配置 - JSON格式用于文件
	jsonEncoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	// 控制台使用彩色级别
	consoleEncoderConfig := jsonEncoderConfig
	consoleEncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	consoleEncoderConfig.EncodeDuration = zapcore.StringDurationEncoder

	var cores []zapcore.Core

	// 文件输出
	if cfg.Output != "" {
		fileWriter := zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.Output,
			MaxSize:    cfg.MaxSize, // MB
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge, // days
			Compress:   cfg.Compress,
		})
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(jsonEncoderConfig), fileWriter, level))
	}

	// 控制台输出；没有任何输出时也回退到标准输出
	if cfg.ConsoleOutput || len(cores) == 0 {
		consoleWriter := zapcore.AddSync(os.Stdout)
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(consoleEncoderConfig), consoleWriter, level))
	}

	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))

	return logger, level, nil
}

// SetLevel applies a textual level to an existing atomic level.
func SetLevel(level zap.AtomicLevel, text string) error {
	l, err := zapcore.ParseLevel(text)
	if err != nil {
		return err
	}
	level.SetLevel(l)
	return nil
}

func parseLevel(text string) zapcore.Level {
	level, err := zapcore.ParseLevel(text)
	if err != nil {
		return zapcore.InfoLevel
	}
	return level
}
