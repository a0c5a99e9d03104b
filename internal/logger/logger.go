package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var level = zap.NewAtomicLevelAt(zap.InfoLevel)

// Init installs the global zap logger: JSON output for production-like
// environments, console output otherwise.
func Init(environment string) error {
	var conf zap.Config
	switch environment {
	case "production", "staging":
		conf = zap.NewProductionConfig()
	default:
		conf = zap.NewDevelopmentConfig()
	}
	conf.Level = level

	l, err := conf.Build()
	if err != nil {
		return fmt.Errorf("conf.Build -> %w", err)
	}

	zap.ReplaceGlobals(l)

	return nil
}

// SetLevel changes the level of the installed logger at runtime.
func SetLevel(name string) error {
	lvl, err := zapcore.ParseLevel(name)
	if err != nil {
		return fmt.Errorf("zapcore.ParseLevel -> %w", err)
	}

	level.SetLevel(lvl)

	return nil
}

func Level() zapcore.Level {
	return level.Level()
}
