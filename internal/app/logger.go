package app

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger логгер бота: JSON в production, цветной консольный вывод в остальных окружениях
func NewLogger(env string) *zap.Logger {
	config := baseConfig(env)
	config.OutputPaths = []string{"stdout"}

	return build(config)
}

// NewCLILogger логгер mentorctl. Пишет в stderr, чтобы не смешиваться с выводом команд;
// без verbose выводит только предупреждения и ошибки.
func NewCLILogger(env string, verbose bool) *zap.Logger {
	config := baseConfig(env)
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}

	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}

	return build(config)
}

func baseConfig(env string) zap.Config {
	if env == "production" {
		return zap.NewProductionConfig()
	}

	config := zap.NewDevelopmentConfig()
	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return config
}

func build(config zap.Config) *zap.Logger {
	logger, err := config.Build()
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	return logger
}
