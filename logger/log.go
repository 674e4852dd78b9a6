package logger

import (
	"log"
	"os"
	"strings"

	"go.uber.org/zap"
)

const DebugEnv = "CRUDR_DEBUG"

var logger = zap.NewNop().Sugar()

// Init builds the global logger; debug enables the development config.
func Init(debug bool) {
	var config zap.Config
	if debug || DebugEnabled() {
		config = zap.NewDevelopmentConfig()
	} else {
		config = zap.NewProductionConfig()
	}
	l, err := config.Build()
	if err != nil {
		log.Fatal(err)
	}
	zap.ReplaceGlobals(l)
	logger = zap.S()
}

// DebugEnabled reports whether the debug env switch is set.
func DebugEnabled() bool {
	env := strings.ToLower(os.Getenv(DebugEnv))
	return len(env) > 0 && !(env == "disable" || env == "false")
}

func Sync() {
	_ = logger.Sync()
}

func Debugw(msg string, keysAndValues ...any) {
	logger.Debugw(msg, keysAndValues...)
}

func Debugf(template string, args ...any) {
	logger.Debugf(template, args...)
}

func Infof(template string, args ...any) {
	logger.Infof(template, args...)
}

func Warnf(template string, args ...any) {
	logger.Warnf(template, args...)
}

func Errorf(template string, args ...any) {
	logger.Errorf(template, args...)
}
